// Package host implements the host-side per-frame scheduling algorithm:
// finalizing ticks with locally-originated and client-scheduled actions,
// broadcasting finalization messages to connected clients, and running
// the join protocol that brings a new client up to Connected.
package host

import (
	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/netqueue"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/mossforge/duskstep/internal/tickqueue"
	"github.com/rs/zerolog/log"
)

// ConnectionState is a client connection's position in the join protocol.
type ConnectionState uint8

const (
	Disconnected ConnectionState = iota
	WaitingForHello
	NeedsWorldSend
	Connected
)

// clientConnection tracks one connected client's join state and the tick
// watermark it has been sent finalizations through.
type clientConnection struct {
	channel           netchan.ID
	state             ConnectionState
	lastFinalizedSent uint64
	player            action.PlayerId
}

func (c *clientConnection) isConnected() bool {
	return c.state == Connected
}

func (c *clientConnection) needsWorldSend() bool {
	return c.state == NeedsWorldSend
}

// onPing advances a freshly-dialed client from WaitingForHello to
// NeedsWorldSend.
func (c *clientConnection) onPing() {
	if c.state == WaitingForHello {
		c.state = NeedsWorldSend
	}
}

// onWorldSend marks the client Connected once its initial world snapshot
// has been queued, recording the tick the snapshot reflects.
func (c *clientConnection) onWorldSend(tick uint64) {
	c.state = Connected
	c.lastFinalizedSent = tick
}

// WorldSnapshotter produces a serialized world snapshot for a newly
// joining client, together with the tick it reflects.
type WorldSnapshotter interface {
	Snapshot() ([]byte, error)
	CurrentTick() uint64
}

// Scheduler runs the host's per-frame tick-finalization and client
// bookkeeping.
type Scheduler struct {
	tickQueue    *tickqueue.Queue
	netQueue     *netqueue.Queue
	localActions *action.Queue
	ids          *action.IdGenerator
	world        WorldSnapshotter
	clients      map[netchan.ID]*clientConnection
}

// New returns a Scheduler bound to the given tick queue, network queue,
// and world snapshot source.
func New(tickQueue *tickqueue.Queue, netQueue *netqueue.Queue, world WorldSnapshotter) *Scheduler {
	return &Scheduler{
		tickQueue:    tickQueue,
		netQueue:     netQueue,
		localActions: &action.Queue{},
		ids:          action.NewIdGenerator(),
		world:        world,
		clients:      make(map[netchan.ID]*clientConnection),
	}
}

// LocalActions returns the queue of host-local actions (e.g. from a local
// player's input) to be scheduled on the next RunFrame.
func (s *Scheduler) LocalActions() *action.Queue {
	return s.localActions
}

// AddClient registers a newly-dialed channel, awaiting its first Ping.
func (s *Scheduler) AddClient(channel netchan.ID) {
	s.clients[channel] = &clientConnection{channel: channel, state: WaitingForHello}
}

// RemoveClient disconnects a client, freeing its player id's slot is left
// to the caller (despawning is a game-layer concern, not the scheduler's).
func (s *Scheduler) RemoveClient(channel netchan.ID) {
	delete(s.clients, channel)
}

// RunFrame finalizes the next tick with host-local and previously-scheduled
// client actions, advances every connected client's finalization
// watermark, runs the join protocol, and shrinks the tick queue's window
// to what every participant has now consumed.
func (s *Scheduler) RunFrame() {
	next := s.tickQueue.NextUnfinalizedTick()
	if !s.tickQueue.InWindow(next) {
		log.Error().Uint64("tick", next).Msg("host: tick queue window exhausted, holding this frame")
		return
	}
	s.tickQueue.FinalizeTickWithActions(next, s.localActions.Take())

	minSent := s.tickQueue.LastSimulatedTick()

	for _, client := range s.clients {
		if client.isConnected() {
			lastFinalized, messages, err := s.tickQueue.MakeTickFinalizationMessages(client.lastFinalizedSent + 1)
			if err != nil {
				log.Warn().Err(err).Uint64("channel", uint64(client.channel)).Msg("host: client fell too far behind to catch up, disconnecting")
				s.RemoveClient(client.channel)
				continue
			}
			if len(messages) > 0 {
				s.netQueue.SendMany(client.channel, finalizationsToMessages(messages))
			}
			client.lastFinalizedSent = lastFinalized
			if lastFinalized < minSent {
				minSent = lastFinalized
			}
		}

		s.runJoinProtocol(client)

		scheduled := s.netQueue.TakeInbound(client.channel, isScheduleActions)
		for _, msg := range scheduled {
			for _, a := range msg.(protocol.ScheduleActions).Actions {
				s.tickQueue.EnqueueActionImmediately(a)
			}
		}
	}

	s.tickQueue.ResetThrough(minSent)
}

// runJoinProtocol advances one client through WaitingForHello ->
// NeedsWorldSend -> Connected, sending the world snapshot and an assigned
// player id the first time NeedsWorldSend is observed.
func (s *Scheduler) runJoinProtocol(client *clientConnection) {
	pings := s.netQueue.TakeInbound(client.channel, isPing)
	for range pings {
		client.onPing()
	}

	if !client.needsWorldSend() {
		return
	}

	scene, err := s.world.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("host: failed to snapshot world for joining client")
		return
	}
	tick := s.world.CurrentTick()

	player := s.ids.Next()
	client.player = player

	s.netQueue.SendMany(client.channel, []protocol.Message{
		protocol.WorldLoad{Scene: scene, LastSimulatedTick: tick},
		protocol.SetClientConfig{PlayerID: player},
	})
	client.onWorldSend(tick)
	s.tickQueue.EnqueueActionImmediately(action.SpawnPlayer(player))

	log.Info().Uint64("channel", uint64(client.channel)).Uint64("player_id", uint64(player)).Msg("host: client connected")
}

func isPing(m protocol.Message) bool {
	_, ok := m.(protocol.Ping)
	return ok
}

func isScheduleActions(m protocol.Message) bool {
	_, ok := m.(protocol.ScheduleActions)
	return ok
}

func finalizationsToMessages(finalizations []tickqueue.FinalizationMessage) []protocol.Message {
	messages := make([]protocol.Message, len(finalizations))
	for i, f := range finalizations {
		messages[i] = protocol.FinalizedTick{Tick: f.Tick, Actions: f.Actions}
	}
	return messages
}
