package client

import (
	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/netqueue"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/mossforge/duskstep/internal/tickqueue"
	"github.com/rs/zerolog/log"
)

// JoinState is the client's position in the join handshake.
type JoinState uint8

const (
	// NonClient means this scheduler is not presently a client of any
	// host.
	NonClient JoinState = iota
	// NeedsSendInitialPing has a channel but has not yet announced itself.
	NeedsSendInitialPing
	// WaitingForWorld has pinged the host and is buffering finalized
	// ticks until the initial world snapshot arrives.
	WaitingForWorld
	// Connected has loaded the initial world and plays finalized ticks
	// as they arrive.
	Connected
)

// WorldLoader applies a serialized world snapshot, replacing all
// simulation state.
type WorldLoader interface {
	Load(scene []byte) error
}

// Scheduler runs the client's per-frame send/receive/apply cycle: the
// counterpart to host.Scheduler on the other end of a connection.
type Scheduler struct {
	tickQueue    *tickqueue.Queue
	netQueue     *netqueue.Queue
	localActions *action.Queue
	world        WorldLoader

	channel          netchan.ID
	state            JoinState
	playerID         action.PlayerId
	bufferedMessages []protocol.Message
}

// NewScheduler returns a Scheduler that will announce itself over channel
// on the first RunFrame call.
func NewScheduler(tickQueue *tickqueue.Queue, netQueue *netqueue.Queue, world WorldLoader, channel netchan.ID) *Scheduler {
	return &Scheduler{
		tickQueue:    tickQueue,
		netQueue:     netQueue,
		localActions: &action.Queue{},
		world:        world,
		channel:      channel,
		state:        NeedsSendInitialPing,
	}
}

// LocalActions returns the queue of locally-originated actions to be sent
// to the host on the next RunFrame.
func (s *Scheduler) LocalActions() *action.Queue {
	return s.localActions
}

// State returns the scheduler's current join state.
func (s *Scheduler) State() JoinState {
	return s.state
}

// PlayerID returns the player id the host assigned this client, valid
// once State is Connected.
func (s *Scheduler) PlayerID() action.PlayerId {
	return s.playerID
}

// RunFrame drains locally-originated actions to the host, then advances
// the join handshake or applies finalized ticks, depending on state.
func (s *Scheduler) RunFrame() error {
	if s.state == NonClient {
		panic("client: RunFrame called while not connected to a host")
	}

	if s.state == NeedsSendInitialPing {
		s.netQueue.Send(s.channel, protocol.Ping{ID: 0})
		s.state = WaitingForWorld
		return nil
	}

	actions := s.localActions.Take()
	if len(actions) > 0 {
		s.netQueue.Send(s.channel, protocol.ScheduleActions{Actions: actions})
	}

	finalizedTicks := s.netQueue.TakeInbound(s.channel, isFinalizedTick)

	switch s.state {
	case WaitingForWorld:
		worldLoads := s.netQueue.TakeInbound(s.channel, isWorldLoad)
		for _, cfg := range s.netQueue.TakeInbound(s.channel, isSetClientConfig) {
			s.playerID = cfg.(protocol.SetClientConfig).PlayerID
		}

		s.bufferedMessages = append(s.bufferedMessages, finalizedTicks...)

		if len(worldLoads) == 0 {
			return nil
		}
		load := worldLoads[len(worldLoads)-1].(protocol.WorldLoad)
		if err := s.world.Load(load.Scene); err != nil {
			return err
		}
		s.tickQueue.SetLastSimulatedTick(load.LastSimulatedTick)

		buffered := s.bufferedMessages
		s.bufferedMessages = nil
		s.applyFinalizedTicks(buffered)
		s.state = Connected
		log.Info().Uint64("last_simulated_tick", load.LastSimulatedTick).Msg("client: world loaded, connected")

	case Connected:
		s.applyFinalizedTicks(finalizedTicks)
	}

	return nil
}

func (s *Scheduler) applyFinalizedTicks(messages []protocol.Message) {
	for _, msg := range messages {
		ft, ok := msg.(protocol.FinalizedTick)
		if !ok {
			continue
		}
		s.tickQueue.FinalizeTickWithActions(ft.Tick, ft.Actions)
	}
}

func isFinalizedTick(m protocol.Message) bool {
	_, ok := m.(protocol.FinalizedTick)
	return ok
}

func isWorldLoad(m protocol.Message) bool {
	_, ok := m.(protocol.WorldLoad)
	return ok
}

func isSetClientConfig(m protocol.Message) bool {
	_, ok := m.(protocol.SetClientConfig)
	return ok
}
