package netchan

import (
	"testing"

	"github.com/mossforge/duskstep/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func TestPairedChannelDeliversInOrder(t *testing.T) {
	a, b := NewPairedChannel()

	a.Send([]protocol.Message{protocol.Ping{ID: 1}})
	a.Send([]protocol.Message{protocol.Ping{ID: 2}})

	received := b.Drain()
	assert.Equal(t, []protocol.Message{
		protocol.Ping{ID: 1},
		protocol.Ping{ID: 2},
	}, received)

	// Second drain is empty: messages were consumed.
	assert.Empty(t, b.Drain())
}

func TestPairedChannelIsBidirectional(t *testing.T) {
	a, b := NewPairedChannel()

	b.Send([]protocol.Message{protocol.Pong{ID: 5}})
	assert.Equal(t, []protocol.Message{protocol.Pong{ID: 5}}, a.Drain())

	a.Send([]protocol.Message{protocol.Pong{ID: 6}})
	assert.Equal(t, []protocol.Message{protocol.Pong{ID: 6}}, b.Drain())
}

func TestPairedChannelSendEmptyIsNoop(t *testing.T) {
	a, b := NewPairedChannel()
	a.Send(nil)
	assert.Empty(t, b.Drain())
}
