// Package sync drives the optional spectator/replay feed: a delta-encoded
// view of a world's renderable entities, for an observer that only ever
// needs the rendered picture and not lockstep-accurate simulation state.
package sync

import "github.com/mossforge/duskstep/internal/game"

// Snapshot is one rendered frame of the world: either a full entity list
// (Full) or a delta against the baseline tick it was diffed from.
type Snapshot struct {
	Tick     uint64
	Full     bool
	Baseline uint64
	Entities []game.Renderable
	Removed  []uint64
}

// SnapshotBuffer holds recent snapshots for interpolation
type SnapshotBuffer struct {
	snapshots []Snapshot
	capacity  int
}

// NewSnapshotBuffer creates a buffer with the given capacity
func NewSnapshotBuffer(capacity int) *SnapshotBuffer {
	return &SnapshotBuffer{
		snapshots: make([]Snapshot, 0, capacity),
		capacity:  capacity,
	}
}

// Add adds a snapshot to the buffer
func (b *SnapshotBuffer) Add(snap Snapshot) {
	if len(b.snapshots) >= b.capacity {
		// Remove oldest
		copy(b.snapshots, b.snapshots[1:])
		b.snapshots = b.snapshots[:len(b.snapshots)-1]
	}
	b.snapshots = append(b.snapshots, snap)
}

// Get returns the two snapshots to interpolate between
// Returns nil if not enough snapshots
func (b *SnapshotBuffer) Get() (*Snapshot, *Snapshot) {
	if len(b.snapshots) < 2 {
		return nil, nil
	}
	return &b.snapshots[0], &b.snapshots[1]
}

// Advance removes the oldest snapshot (after interpolation complete)
func (b *SnapshotBuffer) Advance() {
	if len(b.snapshots) > 0 {
		copy(b.snapshots, b.snapshots[1:])
		b.snapshots = b.snapshots[:len(b.snapshots)-1]
	}
}

// Latest returns the most recent snapshot
func (b *SnapshotBuffer) Latest() *Snapshot {
	if len(b.snapshots) == 0 {
		return nil
	}
	return &b.snapshots[len(b.snapshots)-1]
}

// Len returns the number of buffered snapshots
func (b *SnapshotBuffer) Len() int {
	return len(b.snapshots)
}
