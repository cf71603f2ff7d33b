package game

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/mlange-42/ark/ecs"
	"github.com/mossforge/duskstep/internal/action"
	"github.com/mossforge/duskstep/internal/collision"
	"github.com/mossforge/duskstep/internal/fixedpoint"
	"github.com/mossforge/duskstep/internal/protocol"
)

// World holds all simulation state: an ark ECS world plus the filters and
// mappers used by its systems.
type World struct {
	Tick uint64

	ecsWorld ecs.World
	tileMap  *collision.TileMap

	players  ecs.Map1[Player]
	physics  ecs.Map4[Position, Velocity, Collider, Grounded]
	attacks  ecs.Map6[Position, Velocity, Player, AttackState, Grounded, Collider]
	fists    ecs.Map3[Position, Velocity, Fist]
	sprites  ecs.Map1[Sprite]

	physicsFilter ecs.Filter4[Position, Velocity, Collider, Grounded]
	playerFilter  ecs.Filter2[Position, Player]
	attackFilter  ecs.Filter6[Position, Velocity, Player, AttackState, Grounded, Collider]
	fistFilter    ecs.Filter3[Position, Velocity, Fist]

	// playerIntents is the local, level-triggered control surface used by
	// SetPlayerIntent/Update: a per-player snapshot of which keys are
	// currently held, independent of the discrete Action model used for
	// networked play.
	playerIntents map[uint64]protocol.Intent
	playerEntity  map[uint64]ecs.Entity
}

// NewWorld creates a new game world with no tile geometry set.
func NewWorld() *World {
	w := &World{
		ecsWorld:      ecs.NewWorld(),
		playerIntents: make(map[uint64]protocol.Intent),
		playerEntity:  make(map[uint64]ecs.Entity),
	}
	w.players = ecs.NewMap1[Player](&w.ecsWorld)
	w.physics = ecs.NewMap4[Position, Velocity, Collider, Grounded](&w.ecsWorld)
	w.attacks = ecs.NewMap6[Position, Velocity, Player, AttackState, Grounded, Collider](&w.ecsWorld)
	w.fists = ecs.NewMap3[Position, Velocity, Fist](&w.ecsWorld)
	w.sprites = ecs.NewMap1[Sprite](&w.ecsWorld)

	w.physicsFilter = ecs.NewFilter4[Position, Velocity, Collider, Grounded](&w.ecsWorld)
	w.playerFilter = ecs.NewFilter2[Position, Player](&w.ecsWorld)
	w.attackFilter = ecs.NewFilter6[Position, Velocity, Player, AttackState, Grounded, Collider](&w.ecsWorld)
	w.fistFilter = ecs.NewFilter3[Position, Velocity, Fist](&w.ecsWorld)
	return w
}

// SetTileMap installs the level geometry used by the collision system.
func (w *World) SetTileMap(tm *collision.TileMap) {
	w.tileMap = tm
}

// CurrentTick returns the tick the world currently reflects, for the host
// scheduler's join protocol (WorldLoad.LastSimulatedTick).
func (w *World) CurrentTick() uint64 {
	return w.Tick
}

// SpawnPlayer creates a player entity at (x, y). x and y are plain
// float64 for caller convenience (e.g. literal spawn coordinates in demo
// code and tests); they are converted to FixedPoint once, at this
// boundary, and never touched as floats again.
func (w *World) SpawnPlayer(id int, name string, x, y float64) {
	pos := Position{X: fixedpoint.FromFloat64(x), Y: fixedpoint.FromFloat64(y)}
	entity := w.attacks.NewEntity(
		&pos,
		&Velocity{},
		&Player{ID: uint64(id), Name: name},
		&AttackState{},
		&Grounded{},
		&Collider{Width: fixedpoint.FromInt(1), Height: fixedpoint.FromInt(2)},
	)
	w.playerEntity[uint64(id)] = entity
	w.sprites.Add(entity, &Sprite{ID: "player"})
}

// SpawnEnemy creates a static, non-networked decoration entity at (x, y)
// for local demo scenes; it carries no Player/AttackState and never moves
// under the Action model, only gravity.
func (w *World) SpawnEnemy(kind string, x, y float64) {
	pos := Position{X: fixedpoint.FromFloat64(x), Y: fixedpoint.FromFloat64(y)}
	entity := w.physics.NewEntity(
		&pos,
		&Velocity{},
		&Collider{Width: fixedpoint.FromInt(1), Height: fixedpoint.FromInt(1)},
		&Grounded{},
	)
	w.sprites.Add(entity, &Sprite{ID: kind})
}

// GetPlayerPosition returns playerID's current position, for camera
// tracking in local/demo mode.
func (w *World) GetPlayerPosition(playerID int) (x, y float64, ok bool) {
	entity, exists := w.playerEntity[uint64(playerID)]
	if !exists {
		return 0, 0, false
	}
	pos, _, _, _ := w.physics.Get(entity)
	return pos.X.Float64(), pos.Y.Float64(), true
}

// spawnPlayerFromAction is the Action-model entry point used by the
// tickqueue-driven simulation path (Apply), spawning at the origin: the
// host assigns a real spawn position out of scope for this layer.
func (w *World) spawnPlayerFromAction(id action.PlayerId) {
	if _, exists := w.playerEntity[uint64(id)]; exists {
		return
	}
	w.SpawnPlayer(int(id), "", 0, 0)
}

// SetPlayerIntent sets the held-key bitmask for a player, consumed on the
// next Update. This is the local demo control surface (level-triggered),
// separate from Apply's discrete Action model.
func (w *World) SetPlayerIntent(playerID int, intent protocol.Intent) {
	w.playerIntents[uint64(playerID)] = intent
}

// Update advances the world by one tick, running the local intent-driven
// systems: movement, gravity, collision, attack charge/release, and fist
// travel.
func (w *World) Update() {
	w.runMovementFromIntents()
	w.runGravityAndCollision()
	w.runAttackSystem()
	w.runFistTravel()
	w.Tick++
}

// Apply advances the world by one tick using the networked Action model:
// each action mutates entity state directly (movement toggles, a single
// jump impulse, charge start/release), cooldown and charge counters
// advance for every player, then the same physics/collision systems
// Update uses run once.
func (w *World) Apply(actions []action.Action) {
	for _, a := range actions {
		switch a.Kind {
		case action.ActionSpawnPlayer:
			w.spawnPlayerFromAction(a.Player)
		case action.ActionPlayer:
			w.applyPlayerAction(a.Player, a.PlayerAction)
		}
	}
	w.runAttackCooldown()
	w.runGravityAndCollision()
	w.runFistTravel()
	w.Tick++
}

func (w *World) applyPlayerAction(player action.PlayerId, pa action.PlayerAction) {
	entity, ok := w.playerEntity[uint64(player)]
	if !ok {
		return
	}

	const moveSpeed = fixedpoint.Scale * 6

	switch pa.Kind {
	case action.StartMoving:
		vel, _, _, _ := w.physics.Get(entity)
		if pa.Direction&action.DirLeft != 0 {
			vel.X = -moveSpeed
		}
		if pa.Direction&action.DirRight != 0 {
			vel.X = moveSpeed
		}
	case action.StopMoving:
		vel, _, _, _ := w.physics.Get(entity)
		if pa.Direction&(action.DirLeft|action.DirRight) != 0 {
			vel.X = 0
		}
	case action.Jump:
		vel, _, _, grounded := w.physics.Get(entity)
		if grounded.OnGround {
			vel.Y = -fixedpoint.FromInt(10)
			grounded.OnGround = false
		}
	case action.StartCharge:
		_, _, _, attack, _, _ := w.attacks.Get(entity)
		if !attack.Attacking && !attack.Charging {
			attack.Charging = true
			attack.ChargeTicks = 0
		}
	case action.ReleaseFire:
		pos, _, _, attack, _, _ := w.attacks.Get(entity)
		if attack.Charging {
			attack.Charging = false
			w.spawnFist(uint64(player), *pos, chargeDistance(attack.ChargeTicks), attack.FacingRight)
			attack.Attacking = true
			attack.TicksLeft = AttackCooldown
		}
	case action.Cursor:
		// Aiming data; the demo game has no aim-dependent mechanic yet.
	}
}

// runMovementFromIntents resolves held-key movement into velocity. It
// uses attackFilter rather than physicsFilter because Player is only
// available there, and every player entity also carries AttackState.
func (w *World) runMovementFromIntents() {
	players := w.attackFilter.Query()
	defer players.Close()
	for players.Next() {
		_, vel, player, _, _, _ := players.Get()
		intent := w.playerIntents[player.ID]
		const moveSpeed = fixedpoint.Scale * 6
		switch {
		case intent&protocol.IntentLeft != 0:
			vel.X = -moveSpeed
		case intent&protocol.IntentRight != 0:
			vel.X = moveSpeed
		default:
			vel.X = 0
		}
	}
}

func (w *World) runGravityAndCollision() {
	const gravityAccel = fixedpoint.Scale / 2
	query := w.physicsFilter.Query()
	defer query.Close()
	for query.Next() {
		pos, vel, collider, grounded := query.Get()

		if !grounded.OnGround {
			vel.Y += gravityAccel
		}

		pos.X += vel.X
		pos.Y += vel.Y

		if w.tileMap != nil {
			feetY := pos.Y + collider.Height
			if w.tileMap.TileAt(pos.X, feetY)&collision.TileSolid != 0 {
				grounded.OnGround = true
				vel.Y = 0
			} else {
				grounded.OnGround = false
			}
		}
	}
}

// runAttackCooldown advances every networked player's charge and cooldown
// counters once per Apply tick, independent of whether a StartCharge or
// ReleaseFire action arrived this tick: mirrors the decrement/increment
// half of runAttackSystem without its held-key read, since the Action
// model reports press/release edges rather than a continuous bitmask.
func (w *World) runAttackCooldown() {
	query := w.attackFilter.Query()
	defer query.Close()
	for query.Next() {
		_, _, _, attack, _, _ := query.Get()
		switch {
		case attack.Attacking:
			attack.TicksLeft--
			if attack.TicksLeft <= 0 {
				attack.Attacking = false
			}
		case attack.Charging:
			attack.ChargeTicks++
		}
	}
}

func chargeDistance(chargeTicks int) fixedpoint.FixedPoint {
	if chargeTicks <= 0 {
		return MinFistDistance
	}
	if chargeTicks >= MaxChargeTicks {
		return MaxFistDistance
	}
	span := MaxFistDistance.Sub(MinFistDistance)
	scaled := span.Mul(fixedpoint.FromInt(int64(chargeTicks))).Div(fixedpoint.FromInt(MaxChargeTicks))
	return MinFistDistance.Add(scaled)
}

func (w *World) spawnFist(owner uint64, origin Position, maxDistance fixedpoint.FixedPoint, facingRight bool) {
	entity := w.fists.NewEntity(
		&origin,
		&Velocity{},
		&Fist{Owner: owner, MaxDistance: maxDistance, FacingRight: facingRight},
	)
	w.sprites.Add(entity, &Sprite{ID: "fist"})
}

// runAttackSystem implements press-to-charge, release-to-fire: holding
// the attack key accumulates ChargeTicks; releasing fires a Fist whose
// MaxDistance scales with how long the key was held, then enters a
// cooldown window during which charging cannot restart.
func (w *World) runAttackSystem() {
	query := w.attackFilter.Query()
	defer query.Close()
	for query.Next() {
		pos, _, player, attack, _, _ := query.Get()
		held := w.playerIntents[player.ID]&protocol.IntentAttack != 0

		if attack.Attacking {
			attack.TicksLeft--
			if attack.TicksLeft <= 0 {
				attack.Attacking = false
			}
			continue
		}

		switch {
		case held && !attack.Charging:
			attack.Charging = true
			attack.ChargeTicks = 0
		case held && attack.Charging:
			attack.ChargeTicks++
		case !held && attack.Charging:
			attack.Charging = false
			w.spawnFist(player.ID, *pos, chargeDistance(attack.ChargeTicks), attack.FacingRight)
			attack.Attacking = true
			attack.TicksLeft = AttackCooldown
		}
	}
}

func (w *World) runFistTravel() {
	query := w.fistFilter.Query()
	defer query.Close()
	var toRemove []ecs.Entity
	for query.Next() {
		entity := query.Entity()
		pos, _, fist := query.Get()

		if fist.FacingRight {
			pos.X += FistSpeed
		} else {
			pos.X -= FistSpeed
		}
		fist.TraveledDistance += FistSpeed

		if fist.TraveledDistance >= fist.MaxDistance {
			toRemove = append(toRemove, entity)
		}
	}
	for _, e := range toRemove {
		w.ecsWorld.RemoveEntity(e)
	}
}

// Renderable is an entity's on-screen position and sprite, for the render
// package's boundary conversion to float64 and for the spectator delta
// feed (internal/sync), which needs a stable id to diff against a
// previous frame.
type Renderable struct {
	ID       uint64
	X, Y     float64
	SpriteID string
}

// GetRenderables returns every sprite-bearing entity's current position:
// physics-driven entities (players, enemies) and in-flight fists, which
// carry no Collider/Grounded and so fall outside physicsFilter.
func (w *World) GetRenderables() []Renderable {
	var out []Renderable

	physics := w.physicsFilter.Query()
	for physics.Next() {
		entity := physics.Entity()
		pos, _, _, _ := physics.Get()
		sprite, ok := w.sprites.GetOk(entity)
		if !ok {
			continue
		}
		out = append(out, Renderable{ID: uint64(entity.ID()), X: pos.X.Float64(), Y: pos.Y.Float64(), SpriteID: sprite.ID})
	}
	physics.Close()

	fists := w.fistFilter.Query()
	for fists.Next() {
		entity := fists.Entity()
		pos, _, _ := fists.Get()
		sprite, ok := w.sprites.GetOk(entity)
		if !ok {
			continue
		}
		out = append(out, Renderable{ID: uint64(entity.ID()), X: pos.X.Float64(), Y: pos.Y.Float64(), SpriteID: sprite.ID})
	}
	fists.Close()

	return out
}

// --- snapshot / checksum ---

// entitySnapshot is the internal per-entity wire form used by
// Snapshot/Load.
type entitySnapshot struct {
	id        uint64
	position  Position
	velocity  Velocity
	grounded  Grounded
	hasPlayer bool
	player    Player
}

// fistSnapshot is the wire form for an in-flight fist projectile: these
// carry no Collider/Grounded, so they are snapshotted separately from
// entitySnapshot rather than forcing every physics entity to carry
// fields only fists use.
type fistSnapshot struct {
	id       uint64
	position Position
	velocity Velocity
	fist     Fist
}

// Snapshot serializes the full world state into a self-contained byte
// slice, independent of entity iteration order.
func (w *World) Snapshot() ([]byte, error) {
	entities := w.collectEntities()
	fists := w.collectFists()

	buf := make([]byte, 0, 64+len(entities)*64+len(fists)*48)
	buf = appendUint64(buf, w.Tick)
	buf = appendUint32(buf, uint32(len(entities)))
	for _, es := range entities {
		buf = appendUint64(buf, es.id)
		posX := es.position.X.Bytes()
		posY := es.position.Y.Bytes()
		velX := es.velocity.X.Bytes()
		velY := es.velocity.Y.Bytes()
		buf = append(buf, posX[:]...)
		buf = append(buf, posY[:]...)
		buf = append(buf, velX[:]...)
		buf = append(buf, velY[:]...)
		buf = append(buf, boolByte(es.grounded.OnGround))
		buf = append(buf, boolByte(es.hasPlayer))
		if es.hasPlayer {
			buf = appendUint64(buf, es.player.ID)
			name := []byte(es.player.Name)
			buf = appendUint32(buf, uint32(len(name)))
			buf = append(buf, name...)
		}
	}

	buf = appendUint32(buf, uint32(len(fists)))
	for _, fs := range fists {
		buf = appendUint64(buf, fs.id)
		posX := fs.position.X.Bytes()
		posY := fs.position.Y.Bytes()
		velX := fs.velocity.X.Bytes()
		velY := fs.velocity.Y.Bytes()
		maxDist := fs.fist.MaxDistance.Bytes()
		traveled := fs.fist.TraveledDistance.Bytes()
		buf = append(buf, posX[:]...)
		buf = append(buf, posY[:]...)
		buf = append(buf, velX[:]...)
		buf = append(buf, velY[:]...)
		buf = appendUint64(buf, fs.fist.Owner)
		buf = append(buf, maxDist[:]...)
		buf = append(buf, traveled[:]...)
		buf = append(buf, boolByte(fs.fist.FacingRight))
	}
	return buf, nil
}

// Load replaces all simulation state from a snapshot produced by
// Snapshot.
func (w *World) Load(scene []byte) error {
	r := &snapshotReader{buf: scene}
	tick, err := r.uint64()
	if err != nil {
		return err
	}
	count, err := r.uint32()
	if err != nil {
		return err
	}

	w.clearEntities()
	w.Tick = tick

	for i := uint32(0); i < count; i++ {
		// Wire entity id is opaque and only used to keep Hash order-
		// independent across participants; restored entities get fresh
		// ark entity handles, so it is not retained here.
		_, err := r.uint64()
		if err != nil {
			return err
		}
		posX, err := r.fixed()
		if err != nil {
			return err
		}
		posY, err := r.fixed()
		if err != nil {
			return err
		}
		velX, err := r.fixed()
		if err != nil {
			return err
		}
		velY, err := r.fixed()
		if err != nil {
			return err
		}
		grounded, err := r.boolean()
		if err != nil {
			return err
		}
		hasPlayer, err := r.boolean()
		if err != nil {
			return err
		}

		entity := w.physics.NewEntity(
			&Position{X: posX, Y: posY},
			&Velocity{X: velX, Y: velY},
			&Collider{Width: fixedpoint.FromInt(1), Height: fixedpoint.FromInt(2)},
			&Grounded{OnGround: grounded},
		)

		if hasPlayer {
			playerID, err := r.uint64()
			if err != nil {
				return err
			}
			nameLen, err := r.uint32()
			if err != nil {
				return err
			}
			name, err := r.bytes(int(nameLen))
			if err != nil {
				return err
			}
			w.players.Add(entity, &Player{ID: playerID, Name: string(name)})
			w.playerEntity[playerID] = entity
			w.sprites.Add(entity, &Sprite{ID: "player"})
		}
	}

	fistCount, err := r.uint32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < fistCount; i++ {
		// Wire entity id: see the comment on the physics-entity loop above.
		if _, err := r.uint64(); err != nil {
			return err
		}
		posX, err := r.fixed()
		if err != nil {
			return err
		}
		posY, err := r.fixed()
		if err != nil {
			return err
		}
		velX, err := r.fixed()
		if err != nil {
			return err
		}
		velY, err := r.fixed()
		if err != nil {
			return err
		}
		owner, err := r.uint64()
		if err != nil {
			return err
		}
		maxDistance, err := r.fixed()
		if err != nil {
			return err
		}
		traveled, err := r.fixed()
		if err != nil {
			return err
		}
		facingRight, err := r.boolean()
		if err != nil {
			return err
		}

		entity := w.fists.NewEntity(
			&Position{X: posX, Y: posY},
			&Velocity{X: velX, Y: velY},
			&Fist{Owner: owner, MaxDistance: maxDistance, TraveledDistance: traveled, FacingRight: facingRight},
		)
		w.sprites.Add(entity, &Sprite{ID: "fist"})
	}
	return nil
}

// Hash computes a per-tick checksum over every entity's observable state,
// independent of entity iteration order: each entity's hash is folded
// into the total with XOR, so reordering entities never changes the
// result.
func (w *World) Hash() uint64 {
	var total uint64
	for _, es := range w.collectEntities() {
		h := fnv.New64a()
		var idBytes [8]byte
		binary.BigEndian.PutUint64(idBytes[:], es.id)
		h.Write(idBytes[:])
		posX := es.position.X.Bytes()
		posY := es.position.Y.Bytes()
		h.Write(posX[:])
		h.Write(posY[:])
		h.Write([]byte{boolByte(es.grounded.OnGround)})
		total ^= h.Sum64()
	}
	for _, fs := range w.collectFists() {
		h := fnv.New64a()
		var idBytes [8]byte
		binary.BigEndian.PutUint64(idBytes[:], fs.id)
		h.Write(idBytes[:])
		posX := fs.position.X.Bytes()
		posY := fs.position.Y.Bytes()
		traveled := fs.fist.TraveledDistance.Bytes()
		h.Write(posX[:])
		h.Write(posY[:])
		h.Write(traveled[:])
		total ^= h.Sum64()
	}

	tickHash := fnv.New64a()
	var tickBytes [8]byte
	binary.BigEndian.PutUint64(tickBytes[:], w.Tick)
	tickHash.Write(tickBytes[:])
	return total ^ tickHash.Sum64()
}

func (w *World) collectEntities() []entitySnapshot {
	var entities []entitySnapshot
	query := w.physicsFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, _, grounded := query.Get()
		es := entitySnapshot{
			id:       uint64(entity.ID()),
			position: *pos,
			velocity: *vel,
			grounded: *grounded,
		}
		if player, ok := w.players.GetOk(entity); ok {
			es.hasPlayer = true
			es.player = *player
		}
		entities = append(entities, es)
	}
	query.Close()
	return entities
}

// collectFists gathers every in-flight fist projectile for Snapshot/Hash,
// independent of iteration order.
func (w *World) collectFists() []fistSnapshot {
	var fists []fistSnapshot
	query := w.fistFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, fist := query.Get()
		fists = append(fists, fistSnapshot{
			id:       uint64(entity.ID()),
			position: *pos,
			velocity: *vel,
			fist:     *fist,
		})
	}
	query.Close()
	return fists
}

func (w *World) clearEntities() {
	query := w.physicsFilter.Query()
	var all []ecs.Entity
	for query.Next() {
		all = append(all, query.Entity())
	}
	query.Close()

	fistQuery := w.fistFilter.Query()
	for fistQuery.Next() {
		all = append(all, fistQuery.Entity())
	}
	fistQuery.Close()

	for _, e := range all {
		w.ecsWorld.RemoveEntity(e)
	}
	w.playerEntity = make(map[uint64]ecs.Entity)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendUint32(out []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(out, b[:]...)
}

func appendUint64(out []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(out, b[:]...)
}

type snapshotReader struct {
	buf []byte
	pos int
}

func (r *snapshotReader) uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, protocol.ErrProtocol
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *snapshotReader) uint64() (uint64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, protocol.ErrProtocol
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

func (r *snapshotReader) fixed() (fixedpoint.FixedPoint, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	var arr [8]byte
	copy(arr[:], b)
	return fixedpoint.FromBytes(arr), nil
}

func (r *snapshotReader) boolean() (bool, error) {
	b, err := r.bytes(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (r *snapshotReader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, protocol.ErrProtocol
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}
