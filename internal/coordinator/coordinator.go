// Package coordinator runs the cooperative per-frame loop that ties a
// tick queue, a coordination mode (local/host/client), and a simulation
// together: advance the mode's scheduling for this frame, then simulate
// every tick that has become finalized as a result.
package coordinator

import (
	"fmt"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/client"
	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/host"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/netqueue"
	"github.com/mossforge/duskstep/internal/tickqueue"
	"github.com/rs/zerolog/log"
)

// CoordinationState selects which of the three mutually-exclusive ways a
// Driver exchanges actions is active.
type CoordinationState uint8

const (
	Disconnected CoordinationState = iota
	ConnectedLocal
	Hosting
	ConnectedToHost
)

// maxCatchUpStepsPerFrame bounds how many already-finalized ticks Tick
// will simulate in one call. Without a bound, a burst of finalizations
// arriving after a stall (e.g. the renderer blocking for a frame) could
// make a single Tick call simulate an unbounded backlog and miss the
// frame deadline; simulating the rest next frame is harmless since
// finalized ticks never change.
const maxCatchUpStepsPerFrame = 32

// Simulation is the subset of game.World the driver needs to advance the
// simulation and detect divergence.
type Simulation interface {
	Apply(actions []action.Action)
	Hash() uint64
}

// Driver runs the coordination loop. It owns the tick queue and, once
// connected, the host or client driving it; Tick advances whichever is
// active and then simulates every tick that is now finalized.
type Driver struct {
	state      CoordinationState
	tickQueue  *tickqueue.Queue
	localQueue *action.Queue
	sim        Simulation

	// Hosting state. host.Scheduler only knows channel IDs, not the
	// channels themselves, so Driver owns the registry netqueue.Sync needs.
	netQueue      *netqueue.Queue
	channels      map[netchan.ID]netchan.Channel
	nextChannelID netchan.ID
	host          *host.Scheduler

	// ConnectedToHost state. client.Client already owns its channel and
	// netQueue internally.
	client *client.Client
}

// NewDriver returns a Driver in the Disconnected state, simulating into sim.
func NewDriver(sim Simulation) *Driver {
	return &Driver{
		state:      Disconnected,
		tickQueue:  tickqueue.New(),
		localQueue: &action.Queue{},
		sim:        sim,
	}
}

// State returns the active coordination mode.
func (d *Driver) State() CoordinationState {
	return d.state
}

// TickQueue exposes the underlying queue, e.g. for tests asserting on
// finalized/simulated watermarks.
func (d *Driver) TickQueue() *tickqueue.Queue {
	return d.tickQueue
}

// LocalActions returns the queue used to schedule actions in
// ConnectedLocal mode. In Hosting mode, queue actions on
// Host().LocalActions() instead; in ConnectedToHost mode, on
// Client().Scheduler().LocalActions().
func (d *Driver) LocalActions() *action.Queue {
	return d.localQueue
}

// Host returns the host scheduler, valid once Hosting.
func (d *Driver) Host() *host.Scheduler {
	return d.host
}

// Client returns the client, valid once ConnectedToHost.
func (d *Driver) Client() *client.Client {
	return d.client
}

func (d *Driver) assertDisconnected() {
	if d.state != Disconnected {
		panic("coordinator: already connected")
	}
}

// ConnectLocal enters the degenerate no-network mode: every action
// queued via LocalActions is finalized into the very next tick, with
// nothing to wait on.
func (d *Driver) ConnectLocal() {
	d.assertDisconnected()
	d.state = ConnectedLocal
}

// ConnectAsHost starts a hosting session other participants can join via
// AddClientAsHost.
func (d *Driver) ConnectAsHost(world host.WorldSnapshotter) {
	d.assertDisconnected()
	d.netQueue = netqueue.New()
	d.channels = make(map[netchan.ID]netchan.Channel)
	d.host = host.New(d.tickQueue, d.netQueue, world)
	d.state = Hosting
}

// AddClientAsHost registers a newly-dialed channel with the hosting
// session and returns the channel id assigned to it.
func (d *Driver) AddClientAsHost(channel netchan.Channel) netchan.ID {
	if d.state != Hosting {
		panic("coordinator: AddClientAsHost called while not hosting")
	}
	id := d.nextChannelID
	d.nextChannelID++
	d.channels[id] = channel
	d.host.AddClient(id)
	return id
}

// RemoveClientAsHost disconnects a previously added client.
func (d *Driver) RemoveClientAsHost(id netchan.ID) {
	delete(d.channels, id)
	d.host.RemoveClient(id)
}

// ConnectAsClient joins a remote host over channel, loading simulation
// state into world once the host's initial snapshot arrives.
func (d *Driver) ConnectAsClient(cfg client.Config, world *game.World, channel netchan.Channel) {
	d.assertDisconnected()
	d.client = client.New(cfg, world, d.tickQueue, channel)
	d.state = ConnectedToHost
}

// Tick advances the active coordination mode by one frame, then
// simulates every tick that has become finalized as a result, bounded by
// maxCatchUpStepsPerFrame.
func (d *Driver) Tick() error {
	switch d.state {
	case Disconnected:
		return nil
	case ConnectedLocal:
		d.runLocalScheduler()
		d.catchUp()
		d.tickQueue.ResetSimulated()
	case Hosting:
		netqueue.Sync(d.netQueue, d.channels)
		d.pruneDeadChannels()
		d.host.RunFrame()
		netqueue.Sync(d.netQueue, d.channels)
		d.catchUp()
	case ConnectedToHost:
		d.client.Sync()
		if !d.client.ChannelAlive() {
			d.disconnectFromHost()
			return fmt.Errorf("coordinator: connection to host lost")
		}
		if err := d.client.RunFrame(); err != nil {
			d.disconnectFromHost()
			return err
		}
		d.client.Sync()
		d.catchUp()
		d.tickQueue.ResetSimulated()
	}
	return nil
}

// pruneDeadChannels disconnects every hosted client whose channel has
// reported a fatal error (closed transport, malformed frame), so one bad
// peer cannot stay registered forever without ever being heard from
// again.
func (d *Driver) pruneDeadChannels() {
	var dead []netchan.ID
	for id, ch := range d.channels {
		if hc, ok := ch.(netchan.HealthChecker); ok && !hc.Alive() {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		log.Warn().Uint64("channel", uint64(id)).Msg("coordinator: client channel died, disconnecting")
		if closer, ok := d.channels[id].(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Debug().Err(err).Msg("coordinator: error closing dead channel")
			}
		}
		d.RemoveClientAsHost(id)
	}
}

// disconnectFromHost tears down the connection to the host and returns
// the driver to Disconnected: a fatal session error ends the session
// rather than leaving it stuck retrying against a dead channel.
func (d *Driver) disconnectFromHost() {
	d.client.Close()
	d.state = Disconnected
}

func (d *Driver) runLocalScheduler() {
	next := d.tickQueue.NextUnfinalizedTick()
	d.tickQueue.FinalizeTickWithActions(next, d.localQueue.Take())
}

// catchUp simulates every finalized tick not yet simulated, in order,
// up to maxCatchUpStepsPerFrame.
func (d *Driver) catchUp() {
	steps := 0
	for d.tickQueue.IsNextTickFinalized() && steps < maxCatchUpStepsPerFrame {
		actions := d.tickQueue.CurrentTickActions()
		d.sim.Apply(actions)
		d.tickQueue.Advance(d.sim.Hash())
		steps++
	}
	if steps == maxCatchUpStepsPerFrame && d.tickQueue.IsNextTickFinalized() {
		log.Warn().Int("steps", steps).Msg("coordinator: catch-up bound reached; ticks remain finalized but unsimulated")
	}
}
