package ai

import (
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/maptransition"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/pathing"
)

// Deps bundles the shared, read-mostly collaborators every creature update
// call needs. It is constructed once per tick by the updater and passed by
// value into each creature's update.
type Deps struct {
	Repo      *mapdata.Repository
	Table     *object.Table
	Paths     *pathing.Store
	Links     *LinkStore
	Bus       *events.Bus
	DTMillis  float64
	MapIndex  map[mapdata.MapName][]object.ID
	RNG       RandomSource
}

// RandomSource is the minimal interface updateIdle needs from *rand.Rand,
// letting tests inject a deterministic sequence without importing
// math/rand directly into this package's public surface.
type RandomSource interface {
	Intn(n int) int
}

// updatePath runs the UpdatePath sub-routine shared by any creature that
// owns a path in the Path Store (spec.md §4.5). rec is mutated in place.
func updatePath(rec *object.Record, deps Deps) {
	path := deps.Paths.GetPath(rec.ID)
	if len(path) == 0 {
		deps.Paths.Clear(rec.ID)
		rec.State = object.StateIdle
		return
	}
	waypoint := path[0]

	step := rec.Speed * deps.DTMillis
	vec := waypoint.XY().Sub(rec.Position.XY())
	dist := vec.Length()

	if dist > step {
		velocity := vec.Normalized().Scale(step)
		rec.Velocity = rec.Velocity.WithXY(velocity)
		rec.Position = rec.Position.WithXY(rec.Position.XY().Add(velocity))
	} else {
		rec.Position = rec.Position.WithXY(waypoint.XY())
		rec.Velocity = rec.Velocity.WithXY(geom.Vec2{})
		deps.Paths.PopFront(rec.ID)
		if !deps.Paths.HasPath(rec.ID) {
			deps.Paths.Clear(rec.ID)
			rec.State = object.StateIdle
		}
	}
	rec.FacingDirection = geom.DiscretizeDirection(vec, rec.FacingDirection)

	link, hasLink := deps.Links.Get(rec.ID)
	if hasLink {
		target, ok := deps.Table.Get(link.TargetID)
		if ok && rec.ActionTimer <= 0 && object.CollidersIntersect(*rec, target) {
			deps.Bus.PublishNpcAttack(events.NpcAttack{AttackerID: rec.ID, Kind: object.AttackMelee, ProjectileKind: object.ProjectileNone})
			rec.ActionTimer = AttackAnim
			rec.State = object.StateMeleeAttack
			deps.Paths.Clear(rec.ID)
		} else {
			link.RepathTimer -= deps.DTMillis / 1000
			if link.RepathTimer <= 0 {
				link.RepathTimer += RepathInterval
				if ok {
					requestPathTo(rec, target.Position, deps)
				}
			}
			deps.Links.Set(rec.ID, link)
		}
	}

	runMapTransitionCheck(rec, deps)
}

func requestPathTo(rec *object.Record, target geom.Vec3, deps Deps) {
	meta := deps.Repo.MetaOf(rec.CurrentMap)
	navmap := deps.Repo.NavmapOf(rec.CurrentMap)
	deps.Paths.FindPath(rec.ID, rec.Position, target, meta.Position, navmap)
}

// runMapTransitionCheck is spec.md §4.5's map-transition check as run at
// the end of UpdatePath (the updater package runs its own equivalent for
// non-creature kinds). If the map changed, the path is cleared because
// paths are map-local.
func runMapTransitionCheck(rec *object.Record, deps Deps) {
	meta := deps.Repo.MetaOf(rec.CurrentMap)
	next := maptransition.Check(deps.Repo, meta, rec.Position)
	if next != rec.CurrentMap {
		rec.CurrentMap = next
		deps.Paths.Clear(rec.ID)
	}
}
