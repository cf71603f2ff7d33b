// Package client implements the joining side of a session: Client, which
// owns the channel to the host, and the network scheduling in scheduler.go.
package client

import (
	"fmt"

	"github.com/mossforge/duskstep/internal/game"
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/netqueue"
	"github.com/mossforge/duskstep/internal/tickqueue"
	"github.com/rs/zerolog/log"
)

// Config holds client configuration
type Config struct {
	ServerAddr string // Empty for local/embedded server
	PlayerName string
	RenderMode RenderMode
}

// RenderMode specifies the terminal rendering approach
type RenderMode int

const (
	RenderAuto      RenderMode = iota // Auto-detect best mode
	RenderASCII                       // Plain ASCII
	RenderHalfBlock                   // Half-block with color
	RenderBraille                     // Braille patterns
)

// Client is the game client: owns the world, the channel to the host, and
// the Scheduler that keeps them in lockstep.
type Client struct {
	config    Config
	world     *game.World
	channel   netchan.Channel
	netQueue  *netqueue.Queue
	scheduler *Scheduler
}

// New creates a new client with the given config, a world to simulate
// into, the tick queue driving it, and a channel already dialed to the
// host.
func New(cfg Config, world *game.World, tickQueue *tickqueue.Queue, channel netchan.Channel) *Client {
	nq := netqueue.New()
	const hostChannel netchan.ID = 0
	sched := NewScheduler(tickQueue, nq, world, hostChannel)
	return &Client{
		config:    cfg,
		world:     world,
		channel:   channel,
		netQueue:  nq,
		scheduler: sched,
	}
}

// Scheduler returns the client's network Scheduler, for the coordinator to
// drive.
func (c *Client) Scheduler() *Scheduler {
	return c.scheduler
}

// Sync flushes outbound messages to the host and drains inbound ones, the
// one place Client touches the raw channel.
func (c *Client) Sync() {
	netqueue.Sync(c.netQueue, map[netchan.ID]netchan.Channel{0: c.channel})
}

// RunFrame advances the join handshake or applies finalized ticks.
func (c *Client) RunFrame() error {
	if err := c.scheduler.RunFrame(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}

// ChannelAlive reports whether the channel to the host is still healthy.
// Channels that don't implement netchan.HealthChecker (e.g. the in-memory
// PairedChannel) are always reported alive.
func (c *Client) ChannelAlive() bool {
	if hc, ok := c.channel.(netchan.HealthChecker); ok {
		return hc.Alive()
	}
	return true
}

// Close tears down the channel to the host, if the underlying channel
// supports closing.
func (c *Client) Close() {
	if closer, ok := c.channel.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Debug().Err(err).Msg("client: error closing channel")
		}
	}
}

// Disconnect logs the client leaving; channel teardown is the caller's
// responsibility since channel lifetime outlives this type.
func (c *Client) Disconnect() {
	log.Info().Str("player", c.config.PlayerName).Msg("client: disconnecting")
}
