package sync

import "github.com/mossforge/duskstep/internal/game"

// Baseline tracks the last snapshot a spectator feed has folded in, so the
// next push can be diffed against it instead of resending every entity.
type Baseline struct {
	tick     uint64
	entities map[uint64]game.Renderable
}

// NewBaseline creates a new baseline tracker
func NewBaseline() *Baseline {
	return &Baseline{
		entities: make(map[uint64]game.Renderable),
	}
}

// Update folds a snapshot into the baseline: its entities replace
// whatever was tracked under the same id, and its removals drop theirs.
func (b *Baseline) Update(snap *Snapshot) {
	b.tick = snap.Tick
	for _, e := range snap.Entities {
		b.entities[e.ID] = e
	}
	for _, id := range snap.Removed {
		delete(b.entities, id)
	}
}

// Tick returns the baseline tick
func (b *Baseline) Tick() uint64 {
	return b.tick
}

// Diff computes the delta between baseline and the world's current
// renderable entities: which ones are new or moved since baseline, and
// which ones present in baseline have disappeared.
func Diff(baseline *Baseline, current []game.Renderable) Snapshot {
	snap := Snapshot{
		Full:     false,
		Baseline: baseline.tick,
		Entities: make([]game.Renderable, 0),
		Removed:  make([]uint64, 0),
	}

	seen := make(map[uint64]bool, len(current))
	for _, e := range current {
		seen[e.ID] = true
		if old, ok := baseline.entities[e.ID]; !ok || old != e {
			snap.Entities = append(snap.Entities, e)
		}
	}

	for id := range baseline.entities {
		if !seen[id] {
			snap.Removed = append(snap.Removed, id)
		}
	}

	return snap
}

// Apply merges a delta (or full) snapshot into state, keyed by entity id.
func Apply(state map[uint64]game.Renderable, snap *Snapshot) {
	if snap.Full {
		for k := range state {
			delete(state, k)
		}
	}

	for _, e := range snap.Entities {
		state[e.ID] = e
	}

	for _, id := range snap.Removed {
		delete(state, id)
	}
}
