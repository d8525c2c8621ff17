// Package updater implements the non-creature half of the Object Updater
// (C6): pre-tick indexing, ATTACK projectile motion and solid-hit
// detection, and the pass-through PLAYER/STATIC dispatch, delegating
// CREATURE records to internal/ai.
//
// Grounded on the per-kind dispatch in internal/sim/engine.go's Step
// method (switch over actor kind), adapted from the teacher's
// player/npc-only split to the spec's four-way ATTACK/CREATURE/PLAYER/
// STATIC dispatch.
package updater

import (
	"ridgeworld/server/internal/ai"
	"ridgeworld/server/internal/attack"
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/pathing"
)

// Deps bundles the collaborators the per-tick update pass needs. The tick
// loop builds it fresh every tick, with MapIndex taken from BuildMapIndex.
type Deps struct {
	Repo     *mapdata.Repository
	Table    *object.Table
	Paths    *pathing.Store
	Links    *ai.LinkStore
	Bus      *events.Bus
	Attacks  *attack.Pipeline
	DTMillis float64
	RNG      ai.RandomSource
	MapIndex map[mapdata.MapName][]object.ID
}

// BuildMapIndex is the updater's pre-tick setup (spec.md §4.5): a snapshot
// of the Object Table grouped by currentMap, used by creature target
// acquisition without every creature re-scanning the whole table.
func BuildMapIndex(table *object.Table) map[mapdata.MapName][]object.ID {
	index := make(map[mapdata.MapName][]object.ID)
	table.ForEach(func(rec object.Record) {
		index[rec.CurrentMap] = append(index[rec.CurrentMap], rec.ID)
	})
	return index
}

// UpdateAll drains the Path Service's result queue, then runs the
// per-object update dispatch over every live record, writing mutations
// back into the Object Table.
func UpdateAll(deps Deps, pathResults []pathing.Result) {
	deps.Paths.InstallResults(pathResults)

	for _, rec := range deps.Table.All() {
		updated := rec
		switch rec.Kind {
		case object.KindAttack:
			updateAttack(&updated, deps)
		case object.KindCreature:
			ai.UpdateCreature(&updated, toAIDeps(deps))
		case object.KindPlayer, object.KindStatic:
			// PLAYER motion is authored by the owning peer's
			// ObjectStateUpdate messages applied at ingress, not by the
			// updater; STATIC objects never move. Both still run the
			// map-transition check so server-authored position corrections
			// (or a STATIC object placed mid-edge at load time) settle onto
			// the right map.
			runMapTransitionOnly(&updated, deps)
		}
		deps.Table.Put(updated)
	}
}

func toAIDeps(deps Deps) ai.Deps {
	return ai.Deps{
		Repo:     deps.Repo,
		Table:    deps.Table,
		Paths:    deps.Paths,
		Links:    deps.Links,
		Bus:      deps.Bus,
		DTMillis: deps.DTMillis,
		MapIndex: deps.MapIndex,
		RNG:      deps.RNG,
	}
}
