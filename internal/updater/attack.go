package updater

import (
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/maptransition"
	"ridgeworld/server/internal/object"
)

// updateAttack is spec.md §4.5's ATTACK dispatch: linear motion, a solid-
// tile hit test for projectiles, then the shared map-transition check.
func updateAttack(rec *object.Record, deps Deps) {
	rec.Position.X += rec.Velocity.X * deps.DTMillis
	rec.Position.Y += rec.Velocity.Y * deps.DTMillis
	rec.Position.Z += rec.Velocity.Z * deps.DTMillis

	if rec.AttackKind == object.AttackProjectile {
		navmap := deps.Repo.NavmapOf(rec.CurrentMap)
		meta := deps.Repo.MetaOf(rec.CurrentMap)
		col, row := mapdata.ToTile(rec.Position.XY(), meta.Position, mapdata.TileSize, navmap.Rows())
		if navmap.TileAt(col, row) == mapdata.Solid {
			deps.Bus.PublishCollision(events.Collision{LHSID: rec.ID, RHSID: events.WorldHit})
			if deps.Attacks != nil {
				deps.Attacks.SetTTL(rec.ID, 0)
			}
		}
	}

	runMapTransitionOnly(rec, deps)
}

func runMapTransitionOnly(rec *object.Record, deps Deps) {
	meta := deps.Repo.MetaOf(rec.CurrentMap)
	next := maptransition.Check(deps.Repo, meta, rec.Position)
	rec.CurrentMap = next
}
