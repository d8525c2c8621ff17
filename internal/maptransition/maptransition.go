// Package maptransition implements the map-transition check shared by the
// creature UpdatePath sub-routine and the generic per-object updater: when
// an object's position crosses its current map's world-space half-extent
// along an edge, it is reassigned to the neighbor map without teleporting
// its position.
//
// Grounded on the chunk-boundary crossing check in
// internal/world/chunk_transfer.go, adapted from the teacher's chunk grid
// to the spec's named-map-with-neighbors model.
package maptransition

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
)

// Check inspects position against currentMeta's world rectangle and
// returns the map the object now belongs to. It returns currentMeta.Name
// unchanged if no edge was crossed, if the crossed edge has no neighbor,
// or if the neighbor is not present in the repository.
func Check(repo *mapdata.Repository, currentMeta mapdata.MapMeta, position geom.Vec3) mapdata.MapName {
	rect := currentMeta.WorldRect()
	minX := rect.Center.X - rect.Extents.X
	maxX := rect.Center.X + rect.Extents.X
	minY := rect.Center.Y - rect.Extents.Y
	maxY := rect.Center.Y + rect.Extents.Y

	var edge mapdata.Edge
	switch {
	case position.X < minX:
		edge = mapdata.EdgeWest
	case position.X > maxX:
		edge = mapdata.EdgeEast
	case position.Y > maxY:
		edge = mapdata.EdgeNorth
	case position.Y < minY:
		edge = mapdata.EdgeSouth
	default:
		return currentMeta.Name
	}

	neighbor := currentMeta.NeighborAt(edge)
	if neighbor == mapdata.NoNeighbor {
		return currentMeta.Name
	}
	if repo != nil && !repo.Exists(neighbor) {
		return currentMeta.Name
	}
	return neighbor
}
