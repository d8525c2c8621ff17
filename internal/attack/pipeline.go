// Package attack implements the Attack Pipeline (C7): a pending-to-spawn
// queue with charge timers and a TTL queue for spawned attacks, including
// cancellation.
//
// Grounded on the charge-then-spawn / TTL-then-expire idiom in
// internal/combat/melee_trigger.go and internal/combat/projectile_stop.go,
// simplified here to the spec's two flat sidecar maps rather than the
// teacher's effect-manager object graph.
package attack

import (
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
)

// Charge/TTL durations are spec.md §4.6's named constants.
const (
	FastMeleeCharge = 0.3 // seconds
	FastMeleeSlash  = 0.3 // seconds
)

// facingOffset is expressed in tile-size units per spec.md's table.
type facingOffset struct{ dx, dy float64 }

var meleeFacingOffsets = map[geom.Direction8]facingOffset{
	geom.DirNorth:     {dx: 0, dy: 0.8},
	geom.DirSouth:     {dx: 0, dy: -0.8},
	geom.DirEast:      {dx: 0.5, dy: 0},
	geom.DirWest:      {dx: -0.5, dy: 0},
	geom.DirNorthEast: {dx: 0.3, dy: 0.6},
	geom.DirNorthWest: {dx: -0.3, dy: 0.6},
	geom.DirSouthEast: {dx: 0.3, dy: -0.6},
	geom.DirSouthWest: {dx: -0.3, dy: -0.6},
}

// BeginAttackResult is the reply contract for BeginAttackRequest.
type BeginAttackResult struct {
	Allowed        bool
	AttackerID     object.ID
	AttackKind     object.AttackKind
	ProjectileKind object.ProjectileKind
	ChargeDuration float64
	SpawnedID      object.ID
}

type pendingEntry struct {
	record            object.Record
	secondsUntilSpawn float64
}

// Pipeline owns the pendingSpawn and ttl sidecar tables, both keyed by
// ObjectId. It is owned exclusively by the tick loop thread.
type Pipeline struct {
	table *object.Table
	bus   *events.Bus

	pendingSpawn map[object.ID]pendingEntry
	ttl          map[object.ID]float64

	nextID func() object.ID
}

// NewPipeline constructs an attack pipeline bound to the given Object
// Table, Event Bus, and ID allocator (owned by the tick loop).
func NewPipeline(table *object.Table, bus *events.Bus, nextID func() object.ID) *Pipeline {
	return &Pipeline{
		table:        table,
		bus:          bus,
		pendingSpawn: make(map[object.ID]pendingEntry),
		ttl:          make(map[object.ID]float64),
		nextID:       nextID,
	}
}

// BeginAttack handles a BeginAttackRequest. Only MELEE is implemented per
// spec.md §4.6; other kinds reply {allowed=false}.
func (p *Pipeline) BeginAttack(attacker object.Record, kind object.AttackKind, projectileKind object.ProjectileKind) BeginAttackResult {
	if kind != object.AttackMelee {
		return BeginAttackResult{Allowed: false, AttackerID: attacker.ID, AttackKind: kind, ProjectileKind: projectileKind}
	}

	id := p.nextID()
	offset := meleeFacingOffsets[attacker.FacingDirection]
	position := attacker.Position
	position.X += offset.dx * mapdata.TileSize
	position.Y += offset.dy * mapdata.TileSize

	record := object.Record{
		ID:              id,
		ParentID:        attacker.ID,
		Kind:            object.KindAttack,
		AttackKind:      object.AttackMelee,
		ProjectileKind:  object.ProjectileNone,
		Position:        position,
		CurrentMap:      attacker.CurrentMap,
		Faction:         attacker.Faction,
		FacingDirection: attacker.FacingDirection,
		Collider:        object.Collider{Shape: object.ColliderRect, Dimensions: meleeColliderHalfExtents},
		Scale:           1,
	}

	p.pendingSpawn[id] = pendingEntry{record: record, secondsUntilSpawn: FastMeleeCharge}
	// TTL is pre-inserted now but only begins counting once the object is
	// promoted: Tick (the per-tick expiry pass) does not decrement ttl
	// entries that have no matching record yet, nor entries whose record
	// was promoted during the same Tick call.
	p.ttl[id] = FastMeleeSlash

	return BeginAttackResult{
		Allowed:        true,
		AttackerID:     attacker.ID,
		AttackKind:     object.AttackMelee,
		ProjectileKind: object.ProjectileNone,
		ChargeDuration: FastMeleeCharge,
		SpawnedID:      id,
	}
}

// meleeColliderHalfExtents gives a melee swing a modest rectangular
// footprint; the spec leaves exact dimensions unspecified beyond "set its
// collider".
var meleeColliderHalfExtents = geom.Vec2{X: mapdata.TileSize * 0.6, Y: mapdata.TileSize * 0.6}

// CancelAttack removes every pending entry whose record.ParentID ==
// attackerID and the matching ttl entry. Already-promoted attacks (now
// live in the Object Table) are not cancelable, per spec.md §4.6.
func (p *Pipeline) CancelAttack(attackerID object.ID) {
	for id, entry := range p.pendingSpawn {
		if entry.record.ParentID == attackerID {
			delete(p.pendingSpawn, id)
			delete(p.ttl, id)
		}
	}
}

// Tick advances charge and TTL timers by dtMillis/1000 seconds, promoting
// charged attacks into the Object Table and expiring TTL'd ones. It
// returns the ids promoted and destroyed this tick, for broadcast.
func (p *Pipeline) Tick(dtMillis float64) (promoted []object.ID, destroyed []object.ID) {
	dtSeconds := dtMillis / 1000
	promotedNow := make(map[object.ID]bool)

	for id, entry := range p.pendingSpawn {
		entry.secondsUntilSpawn -= dtSeconds
		if entry.secondsUntilSpawn > 0 {
			p.pendingSpawn[id] = entry
			continue
		}
		delete(p.pendingSpawn, id)
		// Per spec.md §7: "Pending attack for a disappeared attacker...
		// implementers SHOULD filter" -- skip promotion if the attacker no
		// longer exists in the Object Table.
		if _, ok := p.table.Get(entry.record.ParentID); !ok {
			delete(p.ttl, id)
			continue
		}
		p.table.Put(entry.record)
		promoted = append(promoted, id)
		promotedNow[id] = true
	}

	var expired []object.ID
	p.table.ForEach(func(rec object.Record) {
		if promotedNow[rec.ID] {
			return
		}
		remaining, ok := p.ttl[rec.ID]
		if !ok {
			return
		}
		remaining -= dtSeconds
		if remaining > 0 {
			p.ttl[rec.ID] = remaining
			return
		}
		expired = append(expired, rec.ID)
	})
	for _, id := range expired {
		delete(p.ttl, id)
		p.table.Delete(id)
		destroyed = append(destroyed, id)
		p.bus.PublishObjectDestroyed(events.ObjectDestroyed{ID: id})
	}

	return promoted, destroyed
}

// CancelAttacksFor is an alias of CancelAttack used by the tick loop's
// PlayerDisconnected handler (DESIGN.md's open-question decisions: a
// disconnecting attacker's pending charge is cancelled).
func (p *Pipeline) CancelAttacksFor(attackerID object.ID) {
	p.CancelAttack(attackerID)
}

// SetTTL lets external callers (e.g. the updater's solid-hit handling)
// force an attack's TTL to zero so it is swept on the next Tick pass.
func (p *Pipeline) SetTTL(id object.ID, seconds float64) {
	p.ttl[id] = seconds
}

// HasTTL reports whether id is tracked by the TTL table.
func (p *Pipeline) HasTTL(id object.ID) bool {
	_, ok := p.ttl[id]
	return ok
}
