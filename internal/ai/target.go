package ai

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/pathing"
)

// AggroRange is 4 tiles, per spec.md §4.5.
const AggroRange = 4 * mapdata.TileSize

// losSampleTickMillis anchors the LOS raycast's sample spacing to one tick
// period (TICK_HZ = 40) rather than the creature's full per-tick travel
// distance, which would under-sample aggro checks for slow creatures.
const losSampleTickMillis = 25.0

// FindValidTarget iterates candidateIDs (the creature's current map's
// object index) looking for the first id that satisfies every rejection
// rule in spec.md §4.5, returning object.NoID if none survive.
func FindValidTarget(creature object.Record, candidateIDs []object.ID, table *object.Table, navmap *mapdata.Navmap, mapOrigin geom.Vec2) object.ID {
	if creature.Faction == object.FactionNeutral {
		return object.NoID
	}
	for _, candidateID := range candidateIDs {
		if candidateID == creature.ID {
			continue
		}
		candidate, ok := table.Get(candidateID)
		if !ok {
			continue
		}
		if candidate.Kind != object.KindPlayer && candidate.Kind != object.KindCreature {
			continue
		}
		if candidate.Faction == creature.Faction {
			continue
		}
		if geom.Distance(creature.Position.XY(), candidate.Position.XY()) > AggroRange {
			continue
		}
		if !pathing.InLOS(creature.Position.XY(), candidate.Position.XY(), navmap, mapOrigin, creature.Speed, losSampleTickMillis) {
			continue
		}
		return candidateID
	}
	return object.NoID
}
