package action

import (
	"testing"

	"github.com/mossforge/duskstep/internal/fixedpoint"
	"github.com/stretchr/testify/assert"
)

func TestIdGeneratorIncreasing(t *testing.T) {
	gen := NewIdGenerator()
	a := gen.Next()
	b := gen.Next()
	assert.Less(t, a, b)
}

func TestForPlayerWrapsAction(t *testing.T) {
	pa := NewJump()
	wrapped := pa.ForPlayer(PlayerId(7))
	assert.Equal(t, ActionPlayer, wrapped.Kind)
	assert.Equal(t, PlayerId(7), wrapped.Player)
	assert.Equal(t, Jump, wrapped.PlayerAction.Kind)
}

func TestSpawnPlayer(t *testing.T) {
	a := SpawnPlayer(PlayerId(3))
	assert.Equal(t, ActionSpawnPlayer, a.Kind)
	assert.Equal(t, PlayerId(3), a.Player)
}

func TestCursorAction(t *testing.T) {
	x := fixedpoint.FromInt(10)
	y := fixedpoint.FromInt(20)
	pa := NewCursor(x, y)
	assert.Equal(t, Cursor, pa.Kind)
	assert.Equal(t, x, pa.CursorX)
	assert.Equal(t, y, pa.CursorY)
}

func TestQueueAddTake(t *testing.T) {
	var q Queue
	q.Add(NewJump().ForPlayer(1))
	q.Add(NewReleaseFire().ForPlayer(1))

	taken := q.Take()
	assert.Len(t, taken, 2)
	assert.Empty(t, q.Take())
}
