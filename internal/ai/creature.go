package ai

import (
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
)

// cardinalAndDiagonal lists the eight loiter directions FindValidTarget's
// sibling, the idle loiter pick, chooses uniformly from.
var cardinalAndDiagonal = [8]geom.Direction8{
	geom.DirNorth, geom.DirNorthEast, geom.DirEast, geom.DirSouthEast,
	geom.DirSouth, geom.DirSouthWest, geom.DirWest, geom.DirNorthWest,
}

var directionOffsets = map[geom.Direction8][2]int{
	geom.DirNorth:     {0, -1},
	geom.DirNorthEast: {1, -1},
	geom.DirEast:      {1, 0},
	geom.DirSouthEast: {1, 1},
	geom.DirSouth:     {0, 1},
	geom.DirSouthWest: {-1, 1},
	geom.DirWest:      {-1, 0},
	geom.DirNorthWest: {-1, -1},
}

// UpdateCreature runs the full per-tick creature state machine for rec
// (spec.md §4.5). rec must be the live record fetched from the Object
// Table for this tick; callers persist the mutation back via Table.Put or
// Table.Mutate.
func UpdateCreature(rec *object.Record, deps Deps) {
	rec.Velocity = geom.Vec3{}
	rec.ActionTimer -= deps.DTMillis / 1000

	switch rec.State {
	case object.StateMeleeAttack:
		updateMeleeAttack(rec, deps)
	default:
		// RUNNING is vestigial: chase progress lives in having a path, not
		// in this state, so it folds into IDLE's dispatch.
		updateIdle(rec, deps)
	}
}

func updateIdle(rec *object.Record, deps Deps) {
	if deps.Paths.HasPath(rec.ID) {
		updatePath(rec, deps)
		return
	}

	candidates := deps.MapIndex[rec.CurrentMap]
	meta := deps.Repo.MetaOf(rec.CurrentMap)
	navmap := deps.Repo.NavmapOf(rec.CurrentMap)
	targetID := FindValidTarget(*rec, candidates, deps.Table, navmap, meta.Position)

	if targetID != object.NoID {
		deps.Links.Set(rec.ID, NpcTargetLink{TargetID: targetID, RepathTimer: RepathInterval})
		target, ok := deps.Table.Get(targetID)
		if ok {
			rec.FacingDirection = geom.DiscretizeDirection(target.Position.XY().Sub(rec.Position.XY()), rec.FacingDirection)
			deps.Bus.PublishAggro(events.Aggro{AttackerID: rec.ID, TargetID: targetID})
			requestPathTo(rec, target.Position, deps)
		}
		return
	}

	if rec.ActionTimer > 0 {
		return
	}
	rec.ActionTimer = LoiterInterval
	if deps.RNG == nil {
		return
	}
	dir := cardinalAndDiagonal[deps.RNG.Intn(len(cardinalAndDiagonal))]
	offset := directionOffsets[dir]

	rows := navmap.Rows()
	col, row := mapdata.ToTile(rec.Position.XY(), meta.Position, mapdata.TileSize, rows)
	adjCol, adjRow := col+offset[0], row+offset[1]
	if navmap.TileAt(adjCol, adjRow) != mapdata.Walkable {
		return
	}
	waypoint := mapdata.ToWorld(adjCol, adjRow, meta.Position, mapdata.TileSize, rows, rec.Position.Z)
	deps.Paths.SetSingleTarget(rec.ID, waypoint)
	rec.FacingDirection = dir
}

func updateMeleeAttack(rec *object.Record, deps Deps) {
	if rec.ActionTimer > 0 {
		return
	}

	link, hasLink := deps.Links.Get(rec.ID)
	if !hasLink {
		rec.State = object.StateIdle
		return
	}
	target, targetAlive := deps.Table.Get(link.TargetID)
	if !targetAlive || !object.CollidersIntersect(*rec, target) {
		rec.State = object.StateIdle
		if targetAlive {
			requestPathTo(rec, target.Position, deps)
		} else {
			deps.Links.Clear(rec.ID)
		}
		return
	}

	deps.Bus.PublishNpcAttack(events.NpcAttack{AttackerID: rec.ID, Kind: object.AttackMelee, ProjectileKind: object.ProjectileNone})
	rec.ActionTimer = AttackAnim
	rec.State = object.StateMeleeAttack
}
