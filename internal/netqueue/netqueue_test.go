package netqueue

import (
	"testing"

	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendManyThenTakeOutbound(t *testing.T) {
	q := New()
	q.SendMany(1, []protocol.Message{protocol.Ping{ID: 1}, protocol.Ping{ID: 2}})
	q.Send(2, protocol.Pong{ID: 3})

	out := q.TakeOutbound()
	require.Len(t, out[1], 2)
	require.Len(t, out[2], 1)

	// Taken outbound is cleared.
	assert.Empty(t, q.TakeOutbound())
}

func TestTakeInboundPreservesOrderOfUnmatchedAndMatched(t *testing.T) {
	q := New()
	q.OnMessages(1, []protocol.Message{
		protocol.FinalizedTick{Tick: 1},
		protocol.Ping{ID: 9},
		protocol.FinalizedTick{Tick: 2},
		protocol.Ping{ID: 10},
		protocol.FinalizedTick{Tick: 3},
	})

	isFinalized := func(m protocol.Message) bool {
		_, ok := m.(protocol.FinalizedTick)
		return ok
	}

	matched := q.TakeInbound(1, isFinalized)
	require.Len(t, matched, 3)
	assert.Equal(t, uint64(1), matched[0].(protocol.FinalizedTick).Tick)
	assert.Equal(t, uint64(2), matched[1].(protocol.FinalizedTick).Tick)
	assert.Equal(t, uint64(3), matched[2].(protocol.FinalizedTick).Tick)

	remaining := q.TakeInbound(1, func(protocol.Message) bool { return true })
	require.Len(t, remaining, 2)
	assert.Equal(t, protocol.Ping{ID: 9}, remaining[0])
	assert.Equal(t, protocol.Ping{ID: 10}, remaining[1])
}

func TestSyncFlushesOutboundAndDrainsInbound(t *testing.T) {
	hostEnd, clientEnd := netchan.NewPairedChannel()
	channels := map[netchan.ID]netchan.Channel{1: hostEnd}

	q := New()
	q.Send(1, protocol.Ping{ID: 1})
	Sync(q, channels)

	// The paired peer (simulating the client side) should have received it.
	assert.Equal(t, []protocol.Message{protocol.Ping{ID: 1}}, clientEnd.Drain())

	// Now simulate a reply arriving on the same channel before the next Sync.
	clientEnd.Send([]protocol.Message{protocol.Pong{ID: 1}})
	Sync(q, channels)

	matched := q.TakeInbound(1, func(protocol.Message) bool { return true })
	assert.Equal(t, []protocol.Message{protocol.Pong{ID: 1}}, matched)
}
