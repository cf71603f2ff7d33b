package netchan

import (
	"sync"
	"sync/atomic"

	"github.com/mossforge/duskstep/internal/network"
	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/rs/zerolog/log"
)

// TCPChannel adapts a network.Connection (one length-prefixed TCP stream)
// to the Channel interface, encoding/decoding protocol.Message frames with
// internal/protocol and running its own receive loop in the background.
type TCPChannel struct {
	conn network.Connection
	dead atomic.Bool

	mu      sync.Mutex
	inbound []protocol.Message
}

// NewTCPChannel wraps conn and starts its background receive loop. Errors
// from the receive loop (including a closed connection) are logged and
// terminate the loop; Drain simply stops producing further messages after
// that point.
func NewTCPChannel(conn network.Connection) *TCPChannel {
	c := &TCPChannel{conn: conn}
	go c.recvLoop()
	return c
}

func (c *TCPChannel) recvLoop() {
	for {
		frame, err := c.conn.Recv()
		if err != nil {
			log.Debug().Err(err).Msg("netchan: connection closed")
			c.dead.Store(true)
			return
		}
		messages, err := protocol.Decode(frame)
		if err != nil {
			log.Warn().Err(err).Msg("netchan: malformed frame, disconnecting channel")
			c.dead.Store(true)
			return
		}
		c.mu.Lock()
		c.inbound = append(c.inbound, messages...)
		c.mu.Unlock()
	}
}

// Alive reports whether the receive loop is still running. It goes false
// once the connection closes or a malformed frame arrives; the owning
// Scheduler/Driver polls this once per frame to disconnect a dead peer
// instead of silently never hearing from it again.
func (c *TCPChannel) Alive() bool {
	return !c.dead.Load()
}

// Close tears down the underlying connection.
func (c *TCPChannel) Close() error {
	return c.conn.Close()
}

// Send encodes messages into one frame and writes it to the connection.
func (c *TCPChannel) Send(messages []protocol.Message) {
	if len(messages) == 0 {
		return
	}
	frame, err := protocol.Encode(messages)
	if err != nil {
		log.Error().Err(err).Msg("netchan: failed to encode outbound frame")
		return
	}
	if err := c.conn.Send(frame); err != nil {
		log.Debug().Err(err).Msg("netchan: send failed")
	}
}

// Drain returns and clears everything received since the last Drain.
func (c *TCPChannel) Drain() []protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inbound) == 0 {
		return nil
	}
	drained := c.inbound
	c.inbound = nil
	return drained
}
