package mapdata

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"ridgeworld/server/internal/geom"
)

// globalDataFile and navmapSuffix fix the on-disk layout described in
// spec.md §6: a single JSON manifest plus one PNG per map.
const (
	globalDataFile = "map_global_data.json"
	navmapDir      = "navmaps"
	navmapSuffix   = "_navmap.png"
)

// manifest mirrors map_global_data.json's shape exactly; field names match
// the frozen external format, not Go conventions.
type manifest struct {
	MapTransforms  map[string]transformEntry  `json:"map_transforms"`
	MapConnections map[string]connectionEntry `json:"map_connections"`
}

type transformEntry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type connectionEntry struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

// Load reads map_global_data.json and every referenced navmap PNG from
// assetDir and returns a fully populated Repository. Any missing or
// unreadable asset is a fatal boot error per spec.md §7: the caller is
// expected to log and exit, not retry.
func Load(assetDir string) (*Repository, error) {
	manifestPath := filepath.Join(assetDir, globalDataFile)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("mapdata: read %s: %w", manifestPath, err)
	}

	var doc manifest
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("mapdata: decode %s: %w", manifestPath, err)
	}

	repo := NewRepository()
	for file, transform := range doc.MapTransforms {
		name := mapNameFromFile(file)
		conn := doc.MapConnections[file]
		meta := MapMeta{
			Name:       name,
			Position:   geom.Vec2{X: transform.X, Y: transform.Y},
			Dimensions: geom.Vec2{X: transform.Width, Y: transform.Height},
			Neighbors: [4]MapName{
				EdgeNorth: neighborName(conn.Top),
				EdgeEast:  neighborName(conn.Right),
				EdgeSouth: neighborName(conn.Bottom),
				EdgeWest:  neighborName(conn.Left),
			},
		}

		navmap, err := loadNavmap(assetDir, name)
		if err != nil {
			return nil, err
		}
		repo.AddMap(meta, navmap)
	}

	if len(repo.maps) == 0 {
		return nil, fmt.Errorf("mapdata: %s declared no maps", manifestPath)
	}

	return repo, nil
}

func mapNameFromFile(file string) MapName {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return MapName(base)
}

func neighborName(raw string) MapName {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, string(NoNeighbor)) {
		return NoNeighbor
	}
	return mapNameFromFile(trimmed)
}

// loadNavmap decodes <assetDir>/navmaps/<mapname>_navmap.png into a
// GridDim x GridDim walkability grid. The classification rule (which pixel
// value means walkable) belongs to the external asset-loading contract;
// this loader treats any pixel whose luminance is at or above the
// midpoint as walkable and anything darker as solid, matching the common
// "white=floor, black=wall" navmap convention used by 2D tile asset
// pipelines.
func loadNavmap(assetDir string, name MapName) (*Navmap, error) {
	path := filepath.Join(assetDir, navmapDir, string(name)+navmapSuffix)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapdata: open navmap %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("mapdata: decode navmap %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != GridDim || bounds.Dy() != GridDim {
		return nil, fmt.Errorf("mapdata: navmap %s is %dx%d, expected %dx%d", path, bounds.Dx(), bounds.Dy(), GridDim, GridDim)
	}

	tiles := make([]TileState, GridDim*GridDim)
	for row := 0; row < GridDim; row++ {
		for col := 0; col < GridDim; col++ {
			tiles[row*GridDim+col] = classifyPixel(img, bounds.Min.X+col, bounds.Min.Y+row)
		}
	}

	return NewNavmap(GridDim, GridDim, tiles)
}

func classifyPixel(img image.Image, x, y int) TileState {
	r, g, b, a := img.At(x, y).RGBA()
	if a == 0 {
		return Solid
	}
	luminance := (299*r + 587*g + 114*b) / 1000
	if luminance >= (0xffff / 2) {
		return Walkable
	}
	return Solid
}
