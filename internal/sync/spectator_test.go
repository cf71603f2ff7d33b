package sync

import (
	"testing"

	"github.com/mossforge/duskstep/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestSpectatorFeedPushProducesSnapshot(t *testing.T) {
	world := game.NewWorld()
	world.SpawnPlayer(1, "Scout", 3, 4)

	feed := NewSpectatorFeed(4)
	feed.Push(world)

	latest := feed.Buffer().Latest()
	assert.NotNil(t, latest)
	assert.True(t, latest.Full)
	assert.Len(t, latest.Entities, 1)
}

func TestSpectatorFeedSecondPushIsDelta(t *testing.T) {
	world := game.NewWorld()
	world.SpawnPlayer(1, "Scout", 0, 0)

	feed := NewSpectatorFeed(4)
	feed.Push(world)

	world.Update()
	feed.Push(world)

	assert.Equal(t, 2, feed.Buffer().Len())
	assert.False(t, feed.Buffer().Latest().Full)
}
