package client

import (
	"testing"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/netqueue"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/mossforge/duskstep/internal/tickqueue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWorldLoader struct {
	loaded []byte
	err    error
}

func (w *stubWorldLoader) Load(scene []byte) error {
	w.loaded = scene
	return w.err
}

func TestFirstRunFrameSendsPingAndWaitsForWorld(t *testing.T) {
	tq := tickqueue.New()
	nq := netqueue.New()
	world := &stubWorldLoader{}
	sched := NewScheduler(tq, nq, world, netchan.ID(0))

	require.NoError(t, sched.RunFrame())

	out := nq.TakeOutbound()
	require.Len(t, out[0], 1)
	assert.Equal(t, protocol.Ping{ID: 0}, out[0][0])
	assert.Equal(t, WaitingForWorld, sched.State())
}

func TestBuffersFinalizedTicksUntilWorldArrives(t *testing.T) {
	tq := tickqueue.New()
	nq := netqueue.New()
	world := &stubWorldLoader{}
	sched := NewScheduler(tq, nq, world, netchan.ID(0))
	require.NoError(t, sched.RunFrame()) // send ping

	nq.OnMessages(0, []protocol.Message{
		protocol.FinalizedTick{Tick: 6, Actions: nil},
	})
	require.NoError(t, sched.RunFrame())
	assert.Equal(t, WaitingForWorld, sched.State())
	assert.False(t, tq.IsFinalized(6), "finalized tick should be buffered, not yet applied")

	nq.OnMessages(0, []protocol.Message{
		protocol.WorldLoad{Scene: []byte("scene"), LastSimulatedTick: 5},
		protocol.SetClientConfig{PlayerID: action.PlayerId(2)},
	})
	require.NoError(t, sched.RunFrame())

	assert.Equal(t, Connected, sched.State())
	assert.Equal(t, action.PlayerId(2), sched.PlayerID())
	assert.Equal(t, []byte("scene"), world.loaded)
	assert.Equal(t, uint64(5), tq.LastSimulatedTick())
	assert.True(t, tq.IsFinalized(6))
}

func TestConnectedAppliesFinalizedTicksInOrder(t *testing.T) {
	tq := tickqueue.New()
	nq := netqueue.New()
	world := &stubWorldLoader{}
	sched := NewScheduler(tq, nq, world, netchan.ID(0))
	require.NoError(t, sched.RunFrame())
	nq.OnMessages(0, []protocol.Message{protocol.WorldLoad{Scene: []byte("s"), LastSimulatedTick: 0}})
	require.NoError(t, sched.RunFrame())
	require.Equal(t, Connected, sched.State())

	nq.OnMessages(0, []protocol.Message{
		protocol.FinalizedTick{Tick: 1, Actions: []action.Action{action.NewJump().ForPlayer(1)}},
		protocol.FinalizedTick{Tick: 2, Actions: nil},
	})
	require.NoError(t, sched.RunFrame())
	assert.True(t, tq.IsFinalized(1))
	assert.True(t, tq.IsFinalized(2))
	assert.Equal(t, uint64(2), tq.LastFinalizedTick())
}

func TestLocalActionsSentAsScheduleActions(t *testing.T) {
	tq := tickqueue.New()
	nq := netqueue.New()
	world := &stubWorldLoader{}
	sched := NewScheduler(tq, nq, world, netchan.ID(0))
	require.NoError(t, sched.RunFrame()) // consumes ping send
	nq.TakeOutbound()

	sched.LocalActions().Add(action.NewJump().ForPlayer(1))
	require.NoError(t, sched.RunFrame())

	out := nq.TakeOutbound()
	require.Len(t, out[0], 1)
	sa, ok := out[0][0].(protocol.ScheduleActions)
	require.True(t, ok)
	assert.Len(t, sa.Actions, 1)
}
