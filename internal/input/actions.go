package input

import "github.com/mossforge/duskstep/internal/action"

// ToActions diffs two consecutive KeyStates into the edge-triggered
// PlayerAction events the core action model expects: a held direction
// becomes one StartMoving on press and one StopMoving on release, Jump
// fires once per press, and the attack key becomes a StartCharge on
// press paired with a ReleaseFire on release so the simulation can scale
// the resulting punch by how long it was held.
func ToActions(prev, curr *KeyState, player action.PlayerId) []action.Action {
	var actions []action.Action

	prevDir := directionOf(prev)
	currDir := directionOf(curr)

	if currDir != prevDir {
		if started := currDir &^ prevDir; started != 0 {
			actions = append(actions, action.NewStartMoving(started).ForPlayer(player))
		}
		if stopped := prevDir &^ currDir; stopped != 0 {
			actions = append(actions, action.NewStopMoving(stopped).ForPlayer(player))
		}
	}

	if curr.IsPressed(KeyJump) && !prev.IsPressed(KeyJump) {
		actions = append(actions, action.NewJump().ForPlayer(player))
	}

	if curr.IsPressed(KeyAttack) && !prev.IsPressed(KeyAttack) {
		actions = append(actions, action.NewStartCharge().ForPlayer(player))
	}
	if !curr.IsPressed(KeyAttack) && prev.IsPressed(KeyAttack) {
		actions = append(actions, action.NewReleaseFire().ForPlayer(player))
	}

	return actions
}

func directionOf(s *KeyState) action.Direction {
	var dir action.Direction
	if s.IsPressed(KeyLeft) {
		dir |= action.DirLeft
	}
	if s.IsPressed(KeyRight) {
		dir |= action.DirRight
	}
	return dir
}
