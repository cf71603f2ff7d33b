package host

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

type stubWorld struct {
	scene []byte
	tick  uint64
}

func (w *stubWorld) Snapshot() ([]byte, error) { return w.scene, nil }
func (w *stubWorld) CurrentTick() uint64       { return w.tick }

func newTestScheduler() (*Scheduler, *tickqueue.Queue, *netqueue.Queue) {
	tq := tickqueue.New()
	nq := netqueue.New()
	sched := New(tq, nq, &stubWorld{scene: []byte("world"), tick: 0})
	return sched, tq, nq
}

func TestRunFrameFinalizesLocalActions(t *testing.T) {
	sched, tq, _ := newTestScheduler()
	sched.LocalActions().Add(action.NewJump().ForPlayer(1))

	sched.RunFrame()

	assert.Equal(t, uint64(1), tq.LastFinalizedTick())
	assert.True(t, tq.IsNextTickFinalized())
}

func TestNewClientReceivesWorldAndPlayerIdOnPing(t *testing.T) {
	sched, _, nq := newTestScheduler()
	chanID := netchan.ID(1)
	sched.AddClient(chanID)

	nq.OnMessages(chanID, []protocol.Message{protocol.Ping{ID: 1}})
	sched.RunFrame()

	out := nq.TakeOutbound()
	messages := out[chanID]
	require.Len(t, messages, 2)

	worldLoad, ok := messages[0].(protocol.WorldLoad)
	require.True(t, ok)
	assert.Equal(t, []byte("world"), worldLoad.Scene)

	cfg, ok := messages[1].(protocol.SetClientConfig)
	require.True(t, ok)
	assert.Equal(t, action.PlayerId(1), cfg.PlayerID)

	assert.True(t, sched.clients[chanID].isConnected())
}

func TestConnectedClientReceivesFinalizationsAndScheduledActionsApply(t *testing.T) {
	sched, tq, nq := newTestScheduler()
	chanID := netchan.ID(1)
	sched.AddClient(chanID)

	nq.OnMessages(chanID, []protocol.Message{protocol.Ping{ID: 1}})
	sched.RunFrame() // connects the client, consumes the outbound world send
	nq.TakeOutbound()

	nq.OnMessages(chanID, []protocol.Message{
		protocol.ScheduleActions{Actions: []action.Action{action.NewJump().ForPlayer(1)}},
	})
	sched.RunFrame()

	out := nq.TakeOutbound()
	messages := out[chanID]
	require.NotEmpty(t, messages)
	ft, ok := messages[len(messages)-1].(protocol.FinalizedTick)
	require.True(t, ok)
	assert.Equal(t, tq.LastFinalizedTick(), ft.Tick)

	// The scheduled Jump lands in the next finalized tick.
	sched.RunFrame()
	out = nq.TakeOutbound()
	messages = out[chanID]
	require.NotEmpty(t, messages)
	ft, ok = messages[len(messages)-1].(protocol.FinalizedTick)
	require.True(t, ok)
	assert.Equal(t, []action.Action{action.NewJump().ForPlayer(1)}, ft.Actions)
}

func TestLaggingClientIsDisconnectedRatherThanCrashingTheHost(t *testing.T) {
	sched, tq, nq := newTestScheduler()

	// Advance the queue's simulate cursor well past the ring's capacity
	// before the lagging client ever shows up, so its watermark of 1 has
	// already been recycled out of the addressable window.
	for i := uint64(1); i <= tickqueue.Slots+10; i++ {
		tq.FinalizeTick(i)
		tq.Advance(0)
		tq.ResetSimulated()
	}

	chanID := netchan.ID(1)
	sched.AddClient(chanID)
	sched.clients[chanID].state = Connected
	sched.clients[chanID].lastFinalizedSent = 0

	require.NotPanics(t, func() { sched.RunFrame() })

	_, stillPresent := sched.clients[chanID]
	assert.False(t, stillPresent, "client that fell out of the tick window should be removed, not crash RunFrame")
	assert.Empty(t, nq.TakeOutbound())
}

func TestRemoveClientStopsFurtherScheduling(t *testing.T) {
	sched, _, nq := newTestScheduler()
	chanID := netchan.ID(1)
	sched.AddClient(chanID)
	sched.RemoveClient(chanID)

	sched.RunFrame()
	assert.Empty(t, nq.TakeOutbound())
}
