package sync

import (
	"testing"

	"github.com/mossforge/duskstep/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestDiffReportsNewEntityAgainstEmptyBaseline(t *testing.T) {
	baseline := NewBaseline()
	current := []game.Renderable{{ID: 1, X: 1, Y: 2, SpriteID: "scout"}}

	snap := Diff(baseline, current)

	assert.False(t, snap.Full)
	assert.Equal(t, []game.Renderable{{ID: 1, X: 1, Y: 2, SpriteID: "scout"}}, snap.Entities)
	assert.Empty(t, snap.Removed)
}

func TestDiffOmitsUnchangedEntities(t *testing.T) {
	baseline := NewBaseline()
	baseline.Update(&Snapshot{Entities: []game.Renderable{{ID: 1, X: 1, Y: 2, SpriteID: "scout"}}})

	snap := Diff(baseline, []game.Renderable{{ID: 1, X: 1, Y: 2, SpriteID: "scout"}})

	assert.Empty(t, snap.Entities)
}

func TestDiffReportsMovedEntityAndRemoval(t *testing.T) {
	baseline := NewBaseline()
	baseline.Update(&Snapshot{Entities: []game.Renderable{
		{ID: 1, X: 0, Y: 0, SpriteID: "scout"},
		{ID: 2, X: 5, Y: 5, SpriteID: "slime"},
	}})

	snap := Diff(baseline, []game.Renderable{{ID: 1, X: 1, Y: 0, SpriteID: "scout"}})

	assert.Equal(t, []game.Renderable{{ID: 1, X: 1, Y: 0, SpriteID: "scout"}}, snap.Entities)
	assert.Equal(t, []uint64{2}, snap.Removed)
}

func TestApplyFullSnapshotReplacesState(t *testing.T) {
	state := map[uint64]game.Renderable{
		1: {ID: 1, X: 9, Y: 9, SpriteID: "stale"},
	}

	Apply(state, &Snapshot{
		Full:     true,
		Entities: []game.Renderable{{ID: 2, X: 0, Y: 0, SpriteID: "fresh"}},
	})

	assert.Equal(t, map[uint64]game.Renderable{2: {ID: 2, X: 0, Y: 0, SpriteID: "fresh"}}, state)
}

func TestApplyDeltaAppliesRemovals(t *testing.T) {
	state := map[uint64]game.Renderable{
		1: {ID: 1, X: 0, Y: 0, SpriteID: "scout"},
		2: {ID: 2, X: 5, Y: 5, SpriteID: "slime"},
	}

	Apply(state, &Snapshot{Removed: []uint64{2}})

	assert.Equal(t, map[uint64]game.Renderable{1: {ID: 1, X: 0, Y: 0, SpriteID: "scout"}}, state)
}
