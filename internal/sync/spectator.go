package sync

import (
	"github.com/mossforge/duskstep/internal/game"
)

// FromRenderables packages a world's current renderable entities into a
// full Snapshot, for the optional spectator/replay feed: a
// non-participating observer that only ever needs the rendered view of
// the world, not lockstep-accurate simulation state.
func FromRenderables(tick uint64, renderables []game.Renderable) Snapshot {
	entities := make([]game.Renderable, len(renderables))
	copy(entities, renderables)
	return Snapshot{
		Tick:     tick,
		Full:     true,
		Entities: entities,
	}
}

// SpectatorFeed drives a SnapshotBuffer from a live world, for a
// standalone spectator client that renders from deltas instead of
// participating in the tick queue.
type SpectatorFeed struct {
	buffer   *SnapshotBuffer
	baseline *Baseline
}

// NewSpectatorFeed creates a feed backed by a buffer of the given capacity.
func NewSpectatorFeed(capacity int) *SpectatorFeed {
	return &SpectatorFeed{
		buffer:   NewSnapshotBuffer(capacity),
		baseline: NewBaseline(),
	}
}

// Push captures the world's current render state, buffers it, and advances
// the baseline. While the baseline tracks no entities (as on the first
// push) the buffered snapshot is a full one; otherwise it is a delta
// against the baseline.
func (f *SpectatorFeed) Push(world *game.World) {
	full := FromRenderables(world.CurrentTick(), world.GetRenderables())
	if len(f.baseline.entities) == 0 {
		f.buffer.Add(full)
	} else {
		delta := Diff(f.baseline, full.Entities)
		delta.Tick = full.Tick
		f.buffer.Add(delta)
	}
	f.baseline.Update(&full)
}

// Buffer exposes the underlying snapshot buffer for interpolation.
func (f *SpectatorFeed) Buffer() *SnapshotBuffer {
	return f.buffer
}
