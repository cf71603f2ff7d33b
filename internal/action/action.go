// Package action defines the tagged-union action model scheduled through
// the tick queue: discrete, press/release player intents plus host-issued
// lifecycle actions such as spawning a player.
package action

import "github.com/mossforge/duskstep/internal/fixedpoint"

// Direction is a bitmask of movement directions.
type Direction uint8

const (
	DirUp Direction = 1 << iota
	DirDown
	DirLeft
	DirRight
)

// PlayerId identifies a player across the session. Assigned by the host.
type PlayerId uint64

// IdGenerator hands out dense, increasing PlayerIds.
type IdGenerator struct {
	next PlayerId
}

// NewIdGenerator returns a generator starting at id 1 (0 is reserved as
// the zero value / "no player").
func NewIdGenerator() *IdGenerator {
	return &IdGenerator{next: 1}
}

// Next returns the next unused PlayerId.
func (g *IdGenerator) Next() PlayerId {
	id := g.next
	g.next++
	return id
}

// PlayerAction is the tagged union of actions a single player can take in
// a tick. Exactly one of the fields below is meaningful, selected by Kind.
type PlayerAction struct {
	Kind PlayerActionKind

	// Direction is valid for StartMoving/StopMoving.
	Direction Direction

	// CursorX/CursorY are valid for Cursor.
	CursorX fixedpoint.FixedPoint
	CursorY fixedpoint.FixedPoint
}

// PlayerActionKind discriminates PlayerAction's variants.
type PlayerActionKind uint8

const (
	StartMoving PlayerActionKind = iota
	StopMoving
	Jump
	StartCharge
	ReleaseFire
	Cursor
)

// ForPlayer wraps a PlayerAction as an Action attributed to player.
func (a PlayerAction) ForPlayer(player PlayerId) Action {
	return Action{Kind: ActionPlayer, Player: player, PlayerAction: a}
}

// NewStartMoving builds a StartMoving PlayerAction.
func NewStartMoving(dir Direction) PlayerAction {
	return PlayerAction{Kind: StartMoving, Direction: dir}
}

// NewStopMoving builds a StopMoving PlayerAction.
func NewStopMoving(dir Direction) PlayerAction {
	return PlayerAction{Kind: StopMoving, Direction: dir}
}

// NewJump builds a Jump PlayerAction.
func NewJump() PlayerAction {
	return PlayerAction{Kind: Jump}
}

// NewStartCharge builds a StartCharge PlayerAction, sent on the attack
// key's press edge: begins accumulating charge toward a release.
func NewStartCharge() PlayerAction {
	return PlayerAction{Kind: StartCharge}
}

// NewReleaseFire builds a ReleaseFire PlayerAction, sent on the attack
// key's release edge: fires a fist whose distance scales with however
// long the charge was held.
func NewReleaseFire() PlayerAction {
	return PlayerAction{Kind: ReleaseFire}
}

// NewCursor builds a Cursor PlayerAction at the given world-space position.
func NewCursor(x, y fixedpoint.FixedPoint) PlayerAction {
	return PlayerAction{Kind: Cursor, CursorX: x, CursorY: y}
}

// ActionKind discriminates Action's two variants: a per-player action, or
// the host-issued instruction to spawn a player's entity.
type ActionKind uint8

const (
	ActionPlayer ActionKind = iota
	ActionSpawnPlayer
)

// Action is the unit scheduled into the tick queue: either a PlayerAction
// attributed to Player, or a SpawnPlayer lifecycle event.
type Action struct {
	Kind ActionKind

	// Player is valid for both variants: the player taking the action, or
	// the player being spawned.
	Player PlayerId

	// PlayerAction is valid when Kind == ActionPlayer.
	PlayerAction PlayerAction
}

// SpawnPlayer builds an Action that spawns the given player's entity.
func SpawnPlayer(player PlayerId) Action {
	return Action{Kind: ActionSpawnPlayer, Player: player}
}

// Queue accumulates locally-originated actions between scheduler ticks.
type Queue struct {
	actions []Action
}

// Add appends an action to the queue.
func (q *Queue) Add(a Action) {
	q.actions = append(q.actions, a)
}

// Take returns and clears all queued actions.
func (q *Queue) Take() []Action {
	if len(q.actions) == 0 {
		return nil
	}
	taken := q.actions
	q.actions = nil
	return taken
}
