package collision

import (
	"testing"

	"github.com/mossforge/duskstep/internal/fixedpoint"
	"github.com/stretchr/testify/assert"
)

func fp(n int64) fixedpoint.FixedPoint {
	return fixedpoint.FromInt(n)
}

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(fp(0), fp(0), fp(10), fp(10))
	b := NewAABB(fp(5), fp(5), fp(10), fp(10))
	c := NewAABB(fp(20), fp(20), fp(5), fp(5))

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}

func TestAABBContains(t *testing.T) {
	a := NewAABB(fp(0), fp(0), fp(10), fp(10))
	assert.True(t, a.Contains(fp(5), fp(5)))
	assert.False(t, a.Contains(fp(15), fp(5)))
}

func TestAABBPenetration(t *testing.T) {
	a := NewAABB(fp(0), fp(0), fp(10), fp(10))
	b := NewAABB(fp(8), fp(0), fp(10), fp(10))

	dx, dy := a.Penetration(b)
	assert.NotEqual(t, fixedpoint.Zero, dx)
	assert.Equal(t, fixedpoint.Zero, dy)
}

func TestTileMapOutOfBoundsIsSolid(t *testing.T) {
	tm := NewTileMap(4, 4)
	assert.Equal(t, TileSolid, tm.Get(-1, 0))
	assert.Equal(t, TileSolid, tm.Get(100, 0))
}

func TestTileMapSetGet(t *testing.T) {
	tm := NewTileMap(4, 4)
	tm.Set(1, 1, TilePlatform)
	assert.True(t, tm.IsPlatform(1, 1))
	assert.False(t, tm.IsSolid(1, 1))
}

func TestTileAtUsesFixedPointGridUnits(t *testing.T) {
	tm := NewTileMap(4, 4)
	tm.Set(2, 3, TileSolid)
	assert.Equal(t, TileSolid, tm.TileAt(fp(2), fp(3)))
	assert.Equal(t, TileEmpty, tm.TileAt(fp(1), fp(1)))
}
