// Package netchan provides the reliable, ordered, message-framed channel
// abstraction the rest of the coordination core is built on: Send never
// blocks the caller, and Drain returns and clears everything received
// since the last Drain.
package netchan

import (
	"sync"

	"github.com/mossforge/duskstep/internal/protocol"
)

// ID identifies a channel endpoint (one per connected peer).
type ID uint64

// Channel is a reliable, ordered, message-framed endpoint.
type Channel interface {
	// Send enqueues messages for delivery to the other side, preserving
	// the order they were sent in relative to prior Send calls.
	Send(messages []protocol.Message)

	// Drain returns every message received since the last Drain call, in
	// the order the other side sent them, then clears the channel's
	// inbound buffer.
	Drain() []protocol.Message
}

// HealthChecker is implemented by channels that can hit a fatal,
// unrecoverable error (a closed transport, a malformed frame) and need
// their owner to notice and disconnect the peer. The in-memory
// PairedChannel has no such failure mode and does not implement it;
// callers type-assert before using it.
type HealthChecker interface {
	Alive() bool
}

// pairedEnd is one half of an in-memory PairedChannel.
type pairedEnd struct {
	mu      sync.Mutex
	inbound []protocol.Message
	peer    *pairedEnd
}

func (e *pairedEnd) Send(messages []protocol.Message) {
	if len(messages) == 0 {
		return
	}
	e.peer.mu.Lock()
	defer e.peer.mu.Unlock()
	e.peer.inbound = append(e.peer.inbound, messages...)
}

func (e *pairedEnd) Drain() []protocol.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.inbound) == 0 {
		return nil
	}
	drained := e.inbound
	e.inbound = nil
	return drained
}

// NewPairedChannel returns two Channel endpoints wired directly to each
// other inside one process, as used by the tests.
func NewPairedChannel() (a, b Channel) {
	endA := &pairedEnd{}
	endB := &pairedEnd{}
	endA.peer = endB
	endB.peer = endA
	return endA, endB
}
