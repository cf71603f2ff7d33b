package game

import (
	"testing"

	"github.com/mossforge/duskstep/internal/action"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplyChargeReleaseFiresFist exercises the networked equivalent of
// attack_test.go's TestAttackChargeRelease: StartCharge must not fire
// immediately, and ReleaseFire must fire exactly once.
func TestApplyChargeReleaseFiresFist(t *testing.T) {
	world := NewWorld()
	world.SpawnPlayer(1, "Test", 10, 10)

	countFists := func() int {
		count := 0
		query := world.fistFilter.Query()
		defer query.Close()
		for query.Next() {
			count++
		}
		return count
	}

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})
	assert.Equal(t, 0, countFists(), "should not fire while charging")

	for i := 0; i < 10; i++ {
		world.Apply(nil)
	}
	assert.Equal(t, 0, countFists(), "should still not fire mid-charge")

	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})
	assert.Equal(t, 1, countFists())
}

// TestApplyChargeDistanceScalesWithHoldDuration mirrors
// attack_test.go's TestAttackChargeDistance for the Apply path: a longer
// charge between StartCharge and ReleaseFire should travel further.
func TestApplyChargeDistanceScalesWithHoldDuration(t *testing.T) {
	world := NewWorld()
	world.SpawnPlayer(1, "Test", 10, 10)

	fistDistance := func() float64 {
		query := world.fistFilter.Query()
		defer query.Close()
		for query.Next() {
			_, _, fist := query.Get()
			return fist.MaxDistance.Float64()
		}
		return 0
	}

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})
	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})
	tapDistance := fistDistance()

	for i := 0; i < AttackCooldown+200; i++ {
		world.Apply(nil)
	}

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})
	for i := 0; i < 60; i++ {
		world.Apply(nil)
	}
	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})
	chargedDistance := fistDistance()

	assert.Greater(t, chargedDistance, tapDistance)
}

// TestApplyReleaseDuringCooldownDoesNothing verifies that a ReleaseFire
// with no preceding charge (e.g. one arriving mid-cooldown) is a no-op.
func TestApplyReleaseDuringCooldownDoesNothing(t *testing.T) {
	world := NewWorld()
	world.SpawnPlayer(1, "Test", 10, 10)

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})
	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})

	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})

	count := 0
	query := world.fistFilter.Query()
	for query.Next() {
		count++
	}
	query.Close()
	require.Equal(t, 1, count, "a stray release with no active charge must not spawn a second fist")
}

// TestApplyStartChargeDuringCooldownIsIgnored verifies the Apply path
// respects the same cooldown gate as runAttackSystem.
func TestApplyStartChargeDuringCooldownIsIgnored(t *testing.T) {
	world := NewWorld()
	world.SpawnPlayer(1, "Test", 10, 10)

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})
	world.Apply([]action.Action{action.NewReleaseFire().ForPlayer(1)})

	world.Apply([]action.Action{action.NewStartCharge().ForPlayer(1)})

	entity := world.playerEntity[1]
	_, _, _, attack, _, _ := world.attacks.Get(entity)
	assert.False(t, attack.Charging, "should not be able to start a new charge during cooldown")
}
