// Package quadtree implements a loose quadtree rebuilt once per
// simulation tick, used as a broad-phase spatial index for collision and
// proximity queries. It is a pure data structure with no knowledge of the
// object model above it; callers insert a bare (id, rect) pair.
//
// Grounded on the bucketed cell index in effects_spatial_index.go from the
// teacher repo, generalized from a flat grid into a recursive "loose"
// quadtree whose node bounds are padded so entries straddling a split
// line don't bounce between children every tick.
package quadtree

import "ridgeworld/server/internal/geom"

const (
	// maxDepth bounds recursion for degenerate inputs (many coincident
	// points) and keeps rebuild cost predictable for a 40Hz tick.
	maxDepth = 6
	// maxEntriesPerNode is the split threshold; loose quadtrees tolerate a
	// slightly higher bucket size than a strict quadtree because entries
	// are not forced to live entirely within a child's bounds.
	maxEntriesPerNode = 8
	// looseFactor expands each node's test bounds beyond its geometric
	// quadrant so a rect centered near a boundary is not needlessly kept
	// at the parent level.
	looseFactor = 1.5
)

// Entry is one inserted object: an opaque ID plus its axis-aligned rect.
type Entry struct {
	ID   uint64
	Rect geom.Rect
}

// Quadtree is a loose quadtree over a fixed world rectangle. It is rebuilt
// from scratch each tick via Clear+Insert rather than supporting removal,
// matching the tick loop's "clear all, reinsert every live object" flow.
type Quadtree struct {
	root   *node
	bounds geom.Rect
	// verticalSlack pads every bounds test along Y, modeling the spec's
	// "vertical slack of 1 world unit" so an object resting exactly on a
	// render-plane boundary is never spuriously culled.
	verticalSlack float64
}

type node struct {
	bounds   geom.Rect // geometric quadrant; loosleyContains pads it by looseFactor (and verticalSlack on Y)
	depth    int
	entries  []Entry
	children [4]*node // nil until split
}

// New constructs a quadtree over the given center/half-extents.
func New(center, halfExtents geom.Vec2, verticalSlack float64) *Quadtree {
	bounds := geom.Rect{Center: center, Extents: halfExtents}
	return &Quadtree{
		root:          newNode(bounds, 0),
		bounds:        bounds,
		verticalSlack: verticalSlack,
	}
}

func newNode(bounds geom.Rect, depth int) *node {
	return &node{bounds: bounds, depth: depth}
}

// Clear discards all entries, ready for the next tick's reinsertion pass.
func (q *Quadtree) Clear() {
	if q == nil {
		return
	}
	q.root = newNode(q.bounds, 0)
}

// Insert adds one axis-aligned rectangle for id. Objects outside the root
// bounds are clamped into it rather than dropped, since the broad phase is
// advisory and a missed query is worse than an imprecise one.
func (q *Quadtree) Insert(id uint64, center, colliderExtents geom.Vec2) {
	if q == nil {
		return
	}
	center = q.clampToRoot(center)
	entry := Entry{ID: id, Rect: geom.Rect{Center: center, Extents: colliderExtents}}
	q.root.insert(entry, q.verticalSlack)
}

func (q *Quadtree) clampToRoot(p geom.Vec2) geom.Vec2 {
	minX := q.bounds.Center.X - q.bounds.Extents.X
	maxX := q.bounds.Center.X + q.bounds.Extents.X
	minY := q.bounds.Center.Y - q.bounds.Extents.Y
	maxY := q.bounds.Center.Y + q.bounds.Extents.Y
	if p.X < minX {
		p.X = minX
	} else if p.X > maxX {
		p.X = maxX
	}
	if p.Y < minY {
		p.Y = minY
	} else if p.Y > maxY {
		p.Y = maxY
	}
	return p
}

func (n *node) insert(e Entry, verticalSlack float64) {
	if n.children[0] != nil {
		for _, child := range n.children {
			if child.loosleyContains(e.Rect, verticalSlack) {
				child.insert(e, verticalSlack)
				return
			}
		}
		// Straddles every child's loose bounds: keep at this level.
		n.entries = append(n.entries, e)
		return
	}
	n.entries = append(n.entries, e)
	if len(n.entries) > maxEntriesPerNode && n.depth < maxDepth {
		n.split(verticalSlack)
	}
}

func (n *node) loosleyContains(r geom.Rect, verticalSlack float64) bool {
	loose := geom.Rect{
		Center:  n.bounds.Center,
		Extents: geom.Vec2{X: n.bounds.Extents.X * looseFactor, Y: n.bounds.Extents.Y*looseFactor + verticalSlack},
	}
	return loose.Contains(rectMin(r)) && loose.Contains(rectMax(r))
}

func rectMin(r geom.Rect) geom.Vec2 {
	return geom.Vec2{X: r.Center.X - r.Extents.X, Y: r.Center.Y - r.Extents.Y}
}

func rectMax(r geom.Rect) geom.Vec2 {
	return geom.Vec2{X: r.Center.X + r.Extents.X, Y: r.Center.Y + r.Extents.Y}
}

// split partitions a leaf's entries into four quadrant children and
// redistributes anything that fits entirely within one child's loose
// bounds, leaving straddlers at this level.
func (n *node) split(verticalSlack float64) {
	halfX := n.bounds.Extents.X / 2
	halfY := n.bounds.Extents.Y / 2
	cx, cy := n.bounds.Center.X, n.bounds.Center.Y
	quadrantCenters := [4]geom.Vec2{
		{X: cx - halfX, Y: cy + halfY}, // NW
		{X: cx + halfX, Y: cy + halfY}, // NE
		{X: cx - halfX, Y: cy - halfY}, // SW
		{X: cx + halfX, Y: cy - halfY}, // SE
	}
	for i, center := range quadrantCenters {
		n.children[i] = newNode(geom.Rect{Center: center, Extents: geom.Vec2{X: halfX, Y: halfY}}, n.depth+1)
	}

	remaining := n.entries[:0]
	for _, e := range n.entries {
		placed := false
		for _, child := range n.children {
			if child.loosleyContains(e.Rect, verticalSlack) {
				child.insert(e, verticalSlack)
				placed = true
				break
			}
		}
		if !placed {
			remaining = append(remaining, e)
		}
	}
	n.entries = remaining
}

// Query returns every entry whose rect overlaps the given region,
// descending only into children whose loose bounds overlap it.
func (q *Quadtree) Query(region geom.Rect) []Entry {
	if q == nil {
		return nil
	}
	var out []Entry
	q.root.query(region, q.verticalSlack, &out)
	return out
}

func (n *node) query(region geom.Rect, verticalSlack float64, out *[]Entry) {
	if n == nil {
		return
	}
	for _, e := range n.entries {
		if e.Rect.Overlaps(region) {
			*out = append(*out, e)
		}
	}
	if n.children[0] == nil {
		return
	}
	for _, child := range n.children {
		loose := geom.Rect{
			Center:  child.bounds.Center,
			Extents: geom.Vec2{X: child.bounds.Extents.X * looseFactor, Y: child.bounds.Extents.Y*looseFactor + verticalSlack},
		}
		if loose.Overlaps(region) {
			child.query(region, verticalSlack, out)
		}
	}
}

// DebugRects returns the center/extents of every inserted entry, for the
// DebugGetQuadtreeRequest visualization path.
func (q *Quadtree) DebugRects() []geom.Rect {
	if q == nil {
		return nil
	}
	var out []geom.Rect
	q.root.collect(&out)
	return out
}

func (n *node) collect(out *[]geom.Rect) {
	if n == nil {
		return
	}
	for _, e := range n.entries {
		*out = append(*out, e.Rect)
	}
	for _, child := range n.children {
		child.collect(out)
	}
}
