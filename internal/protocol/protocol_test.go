package protocol

import (
	"testing"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	messages := []Message{
		Ping{ID: 42},
		Pong{ID: 42},
		RequestWorldLoad{},
		WorldLoad{Scene: []byte("scene-bytes"), LastSimulatedTick: 100},
		SetClientConfig{PlayerID: action.PlayerId(3)},
		FinalizedTick{
			Tick: 7,
			Actions: []action.Action{
				action.NewJump().ForPlayer(1),
				action.SpawnPlayer(action.PlayerId(2)),
				action.NewCursor(fixedpoint.FromInt(5), fixedpoint.FromInt(-5)).ForPlayer(1),
			},
		},
		ScheduleActions{
			Actions: []action.Action{
				action.NewStartMoving(action.DirLeft | action.DirUp).ForPlayer(9),
			},
		},
	}

	frame, err := Encode(messages)
	require.NoError(t, err)

	decoded, err := Decode(frame)
	require.NoError(t, err)
	require.Len(t, decoded, len(messages))
	require.Equal(t, messages, decoded)
}

func TestDecodeTruncatedFrameReturnsProtocolError(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 1})
	require.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeUnknownTagReturnsProtocolError(t *testing.T) {
	frame, err := Encode([]Message{Ping{ID: 1}})
	require.NoError(t, err)
	frame[4] = 0xFF // corrupt the tag byte of the single message
	_, err = Decode(frame)
	require.ErrorIs(t, err, ErrProtocol)
}

func TestEmptyFrame(t *testing.T) {
	frame, err := Encode(nil)
	require.NoError(t, err)
	decoded, err := Decode(frame)
	require.NoError(t, err)
	require.Empty(t, decoded)
}
