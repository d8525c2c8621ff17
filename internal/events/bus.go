// Package events implements the in-process, synchronous Event Bus (C9).
// Subscribers register a callback per event kind and are invoked on the
// publisher's thread (T0); there is no reflection-based dispatch and no
// dynamic callback storage keyed by interface{} — each event kind owns its
// own typed subscription slice, per spec.md's Design Notes.
//
// Grounded on the logging.Publisher seam from the teacher's
// internal/world/world.go (Deps.Publisher), reimplemented here as a
// standalone typed bus rather than a logging sink.
package events

import "ridgeworld/server/internal/object"

// Collision fires when an attack hits a solid tile (RHSID == WorldHit) or
// another object.
type Collision struct {
	LHSID object.ID
	RHSID object.ID // WorldHit means "hit world geometry", not an object
}

// WorldHit is the RHSID sentinel meaning "hit world geometry".
const WorldHit object.ID = object.NoID

// ObjectDestroyed fires when a record is removed from the Object Table.
type ObjectDestroyed struct {
	ID object.ID
}

// Aggro fires when a creature selects a live target to pursue.
type Aggro struct {
	AttackerID object.ID
	TargetID   object.ID
}

// NpcAttack fires when a creature commits to an attack action.
type NpcAttack struct {
	AttackerID     object.ID
	Kind           object.AttackKind
	ProjectileKind object.ProjectileKind
}

// Bus is the synchronous, typed event dispatcher. The zero value is not
// usable; construct with New.
type Bus struct {
	collisionSubs       []func(Collision)
	objectDestroyedSubs []func(ObjectDestroyed)
	aggroSubs           []func(Aggro)
	npcAttackSubs       []func(NpcAttack)
}

// New constructs an empty event bus.
func New() *Bus {
	return &Bus{}
}

// OnCollision registers a subscriber for Collision events.
func (b *Bus) OnCollision(fn func(Collision)) {
	if b == nil || fn == nil {
		return
	}
	b.collisionSubs = append(b.collisionSubs, fn)
}

// OnObjectDestroyed registers a subscriber for ObjectDestroyed events.
func (b *Bus) OnObjectDestroyed(fn func(ObjectDestroyed)) {
	if b == nil || fn == nil {
		return
	}
	b.objectDestroyedSubs = append(b.objectDestroyedSubs, fn)
}

// OnAggro registers a subscriber for Aggro events.
func (b *Bus) OnAggro(fn func(Aggro)) {
	if b == nil || fn == nil {
		return
	}
	b.aggroSubs = append(b.aggroSubs, fn)
}

// OnNpcAttack registers a subscriber for NpcAttack events.
func (b *Bus) OnNpcAttack(fn func(NpcAttack)) {
	if b == nil || fn == nil {
		return
	}
	b.npcAttackSubs = append(b.npcAttackSubs, fn)
}

// PublishCollision synchronously notifies every Collision subscriber.
func (b *Bus) PublishCollision(e Collision) {
	if b == nil {
		return
	}
	for _, fn := range b.collisionSubs {
		fn(e)
	}
}

// PublishObjectDestroyed synchronously notifies every ObjectDestroyed
// subscriber.
func (b *Bus) PublishObjectDestroyed(e ObjectDestroyed) {
	if b == nil {
		return
	}
	for _, fn := range b.objectDestroyedSubs {
		fn(e)
	}
}

// PublishAggro synchronously notifies every Aggro subscriber.
func (b *Bus) PublishAggro(e Aggro) {
	if b == nil {
		return
	}
	for _, fn := range b.aggroSubs {
		fn(e)
	}
}

// PublishNpcAttack synchronously notifies every NpcAttack subscriber.
func (b *Bus) PublishNpcAttack(e NpcAttack) {
	if b == nil {
		return
	}
	for _, fn := range b.npcAttackSubs {
		fn(e)
	}
}
