// Package pathing implements the Path Service (C4): an async A* worker
// pool, a synchronous line-of-sight check, and a per-object path store.
//
// Grounded on internal/world/navigation.go's navGrid/pathNode/astar
// (container/heap priority queue), generalized here from the teacher's
// 8-connected single-world grid to the spec's 4-connected, multi-map
// navmap, and from a synchronous call into an async worker pool modeled
// on internal/sim/loop.go's goroutine/channel orchestration idiom.
package pathing

import (
	"container/heap"
	"math"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
)

// tileNeighbors are the four cardinal moves; spec.md §4.3 requires
// 4-connected A* ("cardinal moves only"), unlike the teacher's 8-way grid.
var tileNeighbors = [4][2]int{
	{0, -1}, // north (toward row 0)
	{1, 0},  // east
	{0, 1},  // south
	{-1, 0}, // west
}

type tile struct {
	col, row int
}

func manhattan(a, b tile) float64 {
	return math.Abs(float64(a.col-b.col)) + math.Abs(float64(a.row-b.row))
}

type searchNode struct {
	t      tile
	g      float64
	f      float64
	index  int
	parent *searchNode
}

type openQueue []*searchNode

func (q openQueue) Len() int            { return len(q) }
func (q openQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q openQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index = i; q[j].index = j }
func (q *openQueue) Push(x any) {
	n := len(*q)
	item := x.(*searchNode)
	item.index = n
	*q = append(*q, item)
}
func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// findPath runs 4-connected A* on navmap from start to goal tiles. Cost is
// 1 per step; only Walkable tiles are expandable. Returns the sequence of
// tiles strictly after start up to and including goal, or (nil, false) if
// unreachable. If start == goal it returns an empty, successful path.
func findPath(navmap *mapdata.Navmap, start, goal tile) ([]tile, bool) {
	if start == goal {
		return nil, true
	}
	if navmap.TileAt(goal.col, goal.row) != mapdata.Walkable {
		return nil, false
	}

	open := &openQueue{}
	heap.Init(open)
	startNode := &searchNode{t: start, g: 0, f: manhattan(start, goal)}
	heap.Push(open, startNode)

	best := map[tile]float64{start: 0}
	closed := make(map[tile]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if closed[current.t] {
			continue
		}
		closed[current.t] = true

		if current.t == goal {
			return reconstruct(current), true
		}

		for _, d := range tileNeighbors {
			next := tile{col: current.t.col + d[0], row: current.t.row + d[1]}
			if navmap.TileAt(next.col, next.row) != mapdata.Walkable {
				continue
			}
			if closed[next] {
				continue
			}
			tentative := current.g + 1
			if prev, ok := best[next]; ok && tentative >= prev {
				continue
			}
			best[next] = tentative
			heap.Push(open, &searchNode{
				t:      next,
				g:      tentative,
				f:      tentative + manhattan(next, goal),
				parent: current,
			})
		}
	}
	return nil, false
}

func reconstruct(end *searchNode) []tile {
	var out []tile
	for n := end; n != nil && n.parent != nil; n = n.parent {
		out = append(out, n.t)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// FindPathWorldSpace runs A* between two world-space positions on navmap
// (whose map origin is mapOrigin) and returns the resulting waypoints as
// world-space tile centers, preserving z from start. Per spec.md §4.3:
// same-tile start/end returns an empty path; unreachable returns an empty
// path; both are "success" with zero waypoints, never an error.
func FindPathWorldSpace(navmap *mapdata.Navmap, mapOrigin geom.Vec2, start, target geom.Vec3) []geom.Vec3 {
	rows := navmap.Rows()
	startCol, startRow := mapdata.ToTile(start.XY(), mapOrigin, mapdata.TileSize, rows)
	goalCol, goalRow := mapdata.ToTile(target.XY(), mapOrigin, mapdata.TileSize, rows)

	startTile := tile{col: startCol, row: startRow}
	goalTile := tile{col: goalCol, row: goalRow}

	tiles, ok := findPath(navmap, startTile, goalTile)
	if !ok {
		return nil
	}
	out := make([]geom.Vec3, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, mapdata.ToWorld(t.col, t.row, mapOrigin, mapdata.TileSize, rows, start.Z))
	}
	return out
}
