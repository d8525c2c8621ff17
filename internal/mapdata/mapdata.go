// Package mapdata owns the Map Repository (C1) and Navmap (C2): loading
// named maps from the asset directory, their immutable metadata and
// walkability grids, and the coordinate conversions between world space
// and tile space.
//
// Grounded on internal/world/config.go and internal/world/dimensions.go
// for the world-rect/origin modeling, and internal/world/navigation.go
// for the grid cell <-> world conversion idiom, generalized here from a
// single implicit world to many named, interconnected maps.
package mapdata

import (
	"fmt"

	"ridgeworld/server/internal/geom"
)

// TileSize is the world-space edge length of one navmap tile.
const TileSize = 32.0

// GridDim is the fixed navmap side length in tiles (128x128 per spec).
const GridDim = 128

// MapName is an interned string identifier for a loaded map.
type MapName string

// NoNeighbor is the sentinel meaning "no map connects along this edge".
const NoNeighbor MapName = "None"

// Edge indexes MapMeta.Neighbors.
type Edge int

const (
	EdgeNorth Edge = iota
	EdgeEast
	EdgeSouth
	EdgeWest
)

// TileState classifies one navmap cell.
type TileState uint8

const (
	Walkable TileState = iota
	Solid
)

// MapMeta is the immutable, load-time metadata for one map.
type MapMeta struct {
	Name       MapName
	Position   geom.Vec2 // world-space origin (bottom-left-ish reference used by ToTile/ToWorld)
	Dimensions geom.Vec2 // world-space width/height
	Neighbors  [4]MapName
}

// Navmap is an immutable 128x128 walkability grid for one map.
type Navmap struct {
	cols, rows int
	tiles      []TileState
}

// NewNavmap builds a Navmap from a row-major tile slice; len(tiles) must be
// cols*rows. Used by the asset loader and by tests that want a synthetic
// grid without going through PNG decoding.
func NewNavmap(cols, rows int, tiles []TileState) (*Navmap, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("mapdata: invalid navmap dimensions %dx%d", cols, rows)
	}
	if len(tiles) != cols*rows {
		return nil, fmt.Errorf("mapdata: navmap tile count %d does not match %dx%d", len(tiles), cols, rows)
	}
	cloned := make([]TileState, len(tiles))
	copy(cloned, tiles)
	return &Navmap{cols: cols, rows: rows, tiles: cloned}, nil
}

// Cols reports the grid width in tiles.
func (n *Navmap) Cols() int {
	if n == nil {
		return 0
	}
	return n.cols
}

// Rows reports the grid height in tiles.
func (n *Navmap) Rows() int {
	if n == nil {
		return 0
	}
	return n.rows
}

// TileAt returns the classification of tile (col,row). Out-of-bounds
// lookups return Solid, per spec.md: "out-of-bounds returns SOLID".
func (n *Navmap) TileAt(col, row int) TileState {
	if n == nil || col < 0 || row < 0 || col >= n.cols || row >= n.rows {
		return Solid
	}
	return n.tiles[row*n.cols+col]
}

// ToTile returns the tile coordinate containing worldPos on a map whose
// origin is mapOrigin, using worldScale-sized tiles. Row 0 is the top of
// the grid; y increases downward in tile space but upward in world space,
// so the row axis is inverted relative to the column axis. Positions
// outside the map's world rectangle produce an undefined (unclamped)
// result, matching spec.md's caller contract: route through the
// map-transition logic first.
func ToTile(worldPos, mapOrigin geom.Vec2, worldScale float64, rows int) (col, row int) {
	col = int(floorDiv(worldPos.X-mapOrigin.X, worldScale))
	rowFromBottom := int(floorDiv(worldPos.Y-mapOrigin.Y, worldScale))
	row = rows - 1 - rowFromBottom
	return col, row
}

// ToWorld returns the world-space center of tile (col,row), preserving z.
func ToWorld(col, row int, mapOrigin geom.Vec2, worldScale float64, rows int, z float64) geom.Vec3 {
	rowFromBottom := rows - 1 - row
	return geom.Vec3{
		X: mapOrigin.X + (float64(col)+0.5)*worldScale,
		Y: mapOrigin.Y + (float64(rowFromBottom)+0.5)*worldScale,
		Z: z,
	}
}

func floorDiv(value, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	q := value / scale
	if q < 0 {
		// Truncation toward zero rounds the wrong way for negative
		// offsets; floor explicitly so tiles left/below origin resolve to
		// negative indices rather than bouncing back toward zero.
		iq := int(q)
		if float64(iq) != q {
			iq--
		}
		return float64(iq)
	}
	return float64(int(q))
}
