package mapdata

import (
	"fmt"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/quadtree"
)

// QuadtreeVerticalSlack is the spec's "vertical slack of 1 world unit"
// applied to every map's quadtree bounds test.
const QuadtreeVerticalSlack = 1.0

type mapEntry struct {
	meta     MapMeta
	navmap   *Navmap
	quadtree *quadtree.Quadtree
}

// Repository owns the immutable, loaded-at-boot map metadata and navmaps,
// plus one quadtree per map created empty at boot and rebuilt every tick
// by the tick loop. Safe for concurrent read access from any thread once
// construction finishes; it is never mutated after Load returns.
type Repository struct {
	maps map[MapName]*mapEntry
}

// NewRepository constructs an empty repository; use Load (in assets.go) or
// AddMap (for tests/synthetic worlds) to populate it.
func NewRepository() *Repository {
	return &Repository{maps: make(map[MapName]*mapEntry)}
}

// AddMap registers a fully-loaded map. It is the low-level primitive used
// by both the asset loader and tests constructing synthetic worlds.
func (r *Repository) AddMap(meta MapMeta, navmap *Navmap) {
	center := meta.Position.Add(meta.Dimensions.Scale(0.5))
	half := meta.Dimensions.Scale(0.5)
	entry := &mapEntry{
		meta:     meta,
		navmap:   navmap,
		quadtree: quadtree.New(center, half, QuadtreeVerticalSlack),
	}
	r.maps[meta.Name] = entry
}

// Names returns every loaded map name.
func (r *Repository) Names() []MapName {
	if r == nil {
		return nil
	}
	out := make([]MapName, 0, len(r.maps))
	for name := range r.maps {
		out = append(out, name)
	}
	return out
}

// MetaOf returns the metadata for a loaded map. Looking up an unknown map
// name is a programmer error and panics, per spec.md's "fail loudly" rule.
func (r *Repository) MetaOf(name MapName) MapMeta {
	entry := r.mustEntry(name, "MetaOf")
	return entry.meta
}

// NavmapOf returns the walkability grid for a loaded map.
func (r *Repository) NavmapOf(name MapName) *Navmap {
	entry := r.mustEntry(name, "NavmapOf")
	return entry.navmap
}

// QuadtreeOf returns the single quadtree instance owned by a loaded map.
func (r *Repository) QuadtreeOf(name MapName) *quadtree.Quadtree {
	entry := r.mustEntry(name, "QuadtreeOf")
	return entry.quadtree
}

// Exists reports whether name refers to a loaded map, without panicking.
// Used by the map-transition check, which must tolerate "None"/unknown
// neighbor values without crashing the tick loop.
func (r *Repository) Exists(name MapName) bool {
	if r == nil {
		return false
	}
	_, ok := r.maps[name]
	return ok
}

func (r *Repository) mustEntry(name MapName, caller string) *mapEntry {
	if r == nil {
		panic(fmt.Sprintf("mapdata: %s called on nil repository", caller))
	}
	entry, ok := r.maps[name]
	if !ok {
		panic(fmt.Sprintf("mapdata: %s: unknown map %q", caller, name))
	}
	return entry
}

// ClearAllQuadtrees is the tick loop's step (a): discard every map's
// quadtree contents before the per-object update/reinsert pass.
func (r *Repository) ClearAllQuadtrees() {
	if r == nil {
		return
	}
	for _, entry := range r.maps {
		entry.quadtree.Clear()
	}
}

// WorldRect returns the world-space rectangle covered by a map, used by
// Vec2-based bounds checks (e.g. map-transition edge crossing).
func (meta MapMeta) WorldRect() geom.Rect {
	return geom.Rect{
		Center:  meta.Position.Add(meta.Dimensions.Scale(0.5)),
		Extents: meta.Dimensions.Scale(0.5),
	}
}

// NeighborAt returns the neighbor map name along the given edge, or
// NoNeighbor if there is none.
func (meta MapMeta) NeighborAt(edge Edge) MapName {
	if edge < 0 || int(edge) >= len(meta.Neighbors) {
		return NoNeighbor
	}
	name := meta.Neighbors[edge]
	if name == "" {
		return NoNeighbor
	}
	return name
}
