package pathing

import (
	"testing"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
)

func allWalkable(t *testing.T, cols, rows int) *mapdata.Navmap {
	t.Helper()
	tiles := make([]mapdata.TileState, cols*rows)
	nm, err := mapdata.NewNavmap(cols, rows, tiles)
	if err != nil {
		t.Fatalf("NewNavmap: %v", err)
	}
	return nm
}

func TestFindPathManhattanDistanceOnOpenGrid(t *testing.T) {
	nm := allWalkable(t, mapdata.GridDim, mapdata.GridDim)
	start := tile{col: 10, row: 10}
	goal := tile{col: 14, row: 16}
	path, ok := findPath(nm, start, goal)
	if !ok {
		t.Fatalf("expected reachable path")
	}
	want := int(manhattan(start, goal))
	if len(path) != want {
		t.Fatalf("expected %d waypoints (Manhattan distance), got %d", want, len(path))
	}
	if path[len(path)-1] != goal {
		t.Fatalf("expected final waypoint to be goal, got %+v", path[len(path)-1])
	}
}

func TestFindPathSameTileReturnsEmpty(t *testing.T) {
	nm := allWalkable(t, mapdata.GridDim, mapdata.GridDim)
	start := tile{col: 5, row: 5}
	path, ok := findPath(nm, start, start)
	if !ok || len(path) != 0 {
		t.Fatalf("expected successful empty path for same-tile search, got ok=%v path=%v", ok, path)
	}
}

func TestFindPathUnreachableReturnsEmptyNoError(t *testing.T) {
	cols, rows := 8, 8
	tiles := make([]mapdata.TileState, cols*rows)
	// Wall off column 4 entirely to split the grid into two unreachable
	// halves.
	for row := 0; row < rows; row++ {
		tiles[row*cols+4] = mapdata.Solid
	}
	nm, err := mapdata.NewNavmap(cols, rows, tiles)
	if err != nil {
		t.Fatalf("NewNavmap: %v", err)
	}
	path, ok := findPath(nm, tile{col: 0, row: 0}, tile{col: 7, row: 7})
	if ok {
		t.Fatalf("expected unreachable search to report ok=false")
	}
	if len(path) != 0 {
		t.Fatalf("expected empty path, got %v", path)
	}
}

func TestFindPathOnlyExpandsWalkableTiles(t *testing.T) {
	cols, rows := 4, 4
	tiles := make([]mapdata.TileState, cols*rows)
	tiles[1*cols+1] = mapdata.Solid // block the direct diagonal-equivalent route
	nm, err := mapdata.NewNavmap(cols, rows, tiles)
	if err != nil {
		t.Fatalf("NewNavmap: %v", err)
	}
	path, ok := findPath(nm, tile{col: 0, row: 0}, tile{col: 2, row: 2})
	if !ok {
		t.Fatalf("expected a detour path to exist")
	}
	for _, step := range path {
		if nm.TileAt(step.col, step.row) != mapdata.Walkable {
			t.Fatalf("path stepped onto a solid tile: %+v", step)
		}
	}
}

func TestFindPathWorldSpacePreservesZ(t *testing.T) {
	nm := allWalkable(t, mapdata.GridDim, mapdata.GridDim)
	origin := geom.Vec2{X: 0, Y: 0}
	start := geom.Vec3{X: mapdata.TileSize * 10.5, Y: mapdata.TileSize * 10.5, Z: 7}
	target := geom.Vec3{X: mapdata.TileSize * 12.5, Y: mapdata.TileSize * 12.5, Z: 7}
	path := FindPathWorldSpace(nm, origin, start, target)
	if len(path) == 0 {
		t.Fatalf("expected a non-empty path")
	}
	for _, wp := range path {
		if wp.Z != 7 {
			t.Fatalf("expected z preserved on every waypoint, got %v", wp.Z)
		}
	}
}
