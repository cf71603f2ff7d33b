// Package game implements the simulated world: an ECS over
// github.com/mlange-42/ark whose components hold only FixedPoint scalars
// and booleans, so that simulating the same finalized ticks on any
// participant produces byte-identical results.
package game

import "github.com/mossforge/duskstep/internal/fixedpoint"

// Position component.
type Position struct {
	X, Y fixedpoint.FixedPoint
}

// Velocity component.
type Velocity struct {
	X, Y fixedpoint.FixedPoint
}

// Collider component (AABB bounds relative to position).
type Collider struct {
	OffsetX, OffsetY fixedpoint.FixedPoint
	Width, Height    fixedpoint.FixedPoint
}

// Sprite component (for rendering). Uses abstract sprite IDs - renderers
// map these to their native format.
type Sprite struct {
	ID    string // Sprite identifier (e.g., "player", "slime", "platform")
	Color uint32 // RGB color hint (renderers may use or ignore)
}

// Player component (marks player-controlled entities).
type Player struct {
	ID   uint64
	Name string
}

// Health component.
type Health struct {
	Current int
	Max     int
}

// Damage component (for projectiles, hazards).
type Damage struct {
	Amount int
}

// Gravity component (affected by gravity).
type Gravity struct {
	Scale fixedpoint.FixedPoint // Multiplier (1<<12 = normal, 0 = none)
}

// Grounded component (touching ground).
type Grounded struct {
	OnGround bool
}

// AttackState tracks a player's charge-release punch state. Driven either
// by the local, intent-bitmask demo control surface (SetPlayerIntent/
// Update, exercised by attack_test.go) or by the networked Action model's
// StartCharge/ReleaseFire pair (Apply), which mirrors the same
// press/release shape over discrete actions instead of a polled bitmask.
type AttackState struct {
	Charging    bool // Currently holding the attack key, building charge
	Attacking   bool // In the post-release cooldown window
	ChargeTicks int  // Ticks the attack key has been held this charge
	TicksLeft   int  // Cooldown ticks remaining
	FacingRight bool
}

// AttackDuration is a punch length in ticks; no system reads it. The
// post-release cooldown is AttackCooldown.
const AttackDuration = 8

// AttackCooldown is the number of ticks after a release before charging
// can begin again.
const AttackCooldown = 20

// MinFistDistance is the travel distance of the weakest (tap) punch.
var MinFistDistance = fixedpoint.FromInt(3)

// MaxFistDistance is the travel distance of a fully-charged punch.
var MaxFistDistance = fixedpoint.FromInt(10)

// MaxChargeTicks is the hold duration, in ticks, at which charge distance
// saturates.
const MaxChargeTicks = 60

// FistSpeed is how many world units a fist travels per tick.
var FistSpeed = fixedpoint.FromFloat64(0.75)

// Fist is a spawned punch projectile.
type Fist struct {
	Owner            uint64
	MaxDistance      fixedpoint.FixedPoint
	TraveledDistance fixedpoint.FixedPoint
	FacingRight      bool
}
