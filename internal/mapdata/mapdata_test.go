package mapdata

import (
	"testing"

	"ridgeworld/server/internal/geom"
)

func allWalkableNavmap(t *testing.T) *Navmap {
	t.Helper()
	tiles := make([]TileState, GridDim*GridDim)
	n, err := NewNavmap(GridDim, GridDim, tiles)
	if err != nil {
		t.Fatalf("NewNavmap: %v", err)
	}
	return n
}

func TestToTileToWorldRoundTrip(t *testing.T) {
	origin := geom.Vec2{X: 1000, Y: 2000}
	pos := geom.Vec2{X: origin.X + 45, Y: origin.Y + 70}
	col, row := ToTile(pos, origin, TileSize, GridDim)
	world := ToWorld(col, row, origin, TileSize, GridDim, 3.5)

	col2, row2 := ToTile(world.XY(), origin, TileSize, GridDim)
	if col2 != col || row2 != row {
		t.Fatalf("round trip changed tile: (%d,%d) -> world -> (%d,%d)", col, row, col2, row2)
	}
	if world.Z != 3.5 {
		t.Fatalf("expected z preserved, got %v", world.Z)
	}

	// Idempotent under a second application.
	world2 := ToWorld(col2, row2, origin, TileSize, GridDim, world.Z)
	if world2 != world {
		t.Fatalf("expected idempotent ToWorld, got %+v vs %+v", world, world2)
	}
}

func TestToTileRowInversion(t *testing.T) {
	origin := geom.Vec2{}
	// A point near the top of the map in world space (large Y) must map
	// to row 0 (top of the grid); a point near the bottom (Y near 0)
	// must map to the last row.
	top := geom.Vec2{X: TileSize / 2, Y: TileSize*float64(GridDim) - 1}
	bottom := geom.Vec2{X: TileSize / 2, Y: 1}

	_, topRow := ToTile(top, origin, TileSize, GridDim)
	_, bottomRow := ToTile(bottom, origin, TileSize, GridDim)

	if topRow != 0 {
		t.Fatalf("expected topmost world position to map to row 0, got %d", topRow)
	}
	if bottomRow != GridDim-1 {
		t.Fatalf("expected bottommost world position to map to row %d, got %d", GridDim-1, bottomRow)
	}
}

func TestTileAtOutOfBoundsIsSolid(t *testing.T) {
	n := allWalkableNavmap(t)
	if n.TileAt(-1, 0) != Solid {
		t.Fatalf("expected out-of-bounds col to be solid")
	}
	if n.TileAt(0, GridDim) != Solid {
		t.Fatalf("expected out-of-bounds row to be solid")
	}
}

func TestRepositoryUnknownMapPanics(t *testing.T) {
	repo := NewRepository()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MetaOf on unknown map to panic")
		}
	}()
	repo.MetaOf("nowhere")
}

func TestRepositoryAddMapAndLookup(t *testing.T) {
	repo := NewRepository()
	meta := MapMeta{
		Name:       "forest_1",
		Position:   geom.Vec2{X: 0, Y: 0},
		Dimensions: geom.Vec2{X: 4096, Y: 4096},
		Neighbors:  [4]MapName{EdgeNorth: "forest_2", EdgeEast: NoNeighbor, EdgeSouth: NoNeighbor, EdgeWest: NoNeighbor},
	}
	repo.AddMap(meta, allWalkableNavmap(t))

	if got := repo.MetaOf("forest_1"); got.Name != "forest_1" {
		t.Fatalf("unexpected meta: %+v", got)
	}
	if repo.NavmapOf("forest_1") == nil {
		t.Fatalf("expected navmap")
	}
	if repo.QuadtreeOf("forest_1") == nil {
		t.Fatalf("expected quadtree")
	}
	if !repo.Exists("forest_1") || repo.Exists("nowhere") {
		t.Fatalf("Exists mismatch")
	}
}
