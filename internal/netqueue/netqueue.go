// Package netqueue multiplexes outbound and inbound messages across many
// channels, and synchronizes them against the underlying netchan.Channel
// transports once per frame.
package netqueue

import (
	"github.com/mossforge/duskstep/internal/netchan"
	"github.com/mossforge/duskstep/internal/protocol"
)

// Queue buffers outbound messages per channel until Sync flushes them, and
// buffers inbound messages per channel until TakeInbound consumes them.
type Queue struct {
	outbound map[netchan.ID][]protocol.Message
	inbound  map[netchan.ID][]protocol.Message
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{
		outbound: make(map[netchan.ID][]protocol.Message),
		inbound:  make(map[netchan.ID][]protocol.Message),
	}
}

// Send enqueues one message for channel, to be flushed on the next Sync.
func (q *Queue) Send(channel netchan.ID, message protocol.Message) {
	q.outbound[channel] = append(q.outbound[channel], message)
}

// SendMany enqueues a batch of messages for channel, preserving order.
func (q *Queue) SendMany(channel netchan.ID, messages []protocol.Message) {
	if len(messages) == 0 {
		return
	}
	q.outbound[channel] = append(q.outbound[channel], messages...)
}

// TakeOutbound returns and clears every channel's pending outbound
// messages.
func (q *Queue) TakeOutbound() map[netchan.ID][]protocol.Message {
	taken := q.outbound
	q.outbound = make(map[netchan.ID][]protocol.Message)
	return taken
}

// OnMessages appends messages received on channel to its inbound buffer.
func (q *Queue) OnMessages(channel netchan.ID, messages []protocol.Message) {
	if len(messages) == 0 {
		return
	}
	q.inbound[channel] = append(q.inbound[channel], messages...)
}

// TakeInbound removes and returns every message on channel matching
// predicate, preserving the relative order they were received in. Matched
// and unmatched messages are both O(n) partitioned from the channel's
// buffer; the remainder (unmatched) stays queued for a later call.
func (q *Queue) TakeInbound(channel netchan.ID, predicate func(protocol.Message) bool) []protocol.Message {
	messages := q.inbound[channel]
	if len(messages) == 0 {
		return nil
	}

	var matched, remaining []protocol.Message
	for _, m := range messages {
		if predicate(m) {
			matched = append(matched, m)
		} else {
			remaining = append(remaining, m)
		}
	}

	if len(remaining) == 0 {
		delete(q.inbound, channel)
	} else {
		q.inbound[channel] = remaining
	}
	return matched
}

// Sync flushes every channel's pending outbound messages to its transport,
// then drains every transport's received messages into the inbound queue.
// It is the one place netqueue touches netchan.Channel directly.
func Sync(q *Queue, channels map[netchan.ID]netchan.Channel) {
	for id, messages := range q.TakeOutbound() {
		ch, ok := channels[id]
		if !ok {
			continue
		}
		ch.Send(messages)
	}
	for id, ch := range channels {
		if drained := ch.Drain(); len(drained) > 0 {
			q.OnMessages(id, drained)
		}
	}
}
