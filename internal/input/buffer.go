package input

import (
	"github.com/mossforge/duskstep/internal/action"
)

// Buffer collects locally-produced actions for tick-aligned sending,
// keeping the teacher's batching shape but over discrete actions rather
// than a per-tick intent frame.
type Buffer struct {
	actions []action.Action
	tick    uint64
}

// NewBuffer creates an input buffer
func NewBuffer() *Buffer {
	return &Buffer{
		actions: make([]action.Action, 0, 16),
	}
}

// Add records an action produced during the current tick
func (b *Buffer) Add(a action.Action) {
	b.actions = append(b.actions, a)
}

// Tick advances to the next tick
func (b *Buffer) Tick() {
	b.tick++
}

// Flush returns all buffered actions and clears the buffer
func (b *Buffer) Flush() []action.Action {
	actions := b.actions
	b.actions = make([]action.Action, 0, 16)
	return actions
}

// CurrentTick returns the current tick number
func (b *Buffer) CurrentTick() uint64 {
	return b.tick
}
