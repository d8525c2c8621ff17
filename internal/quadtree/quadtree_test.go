package quadtree

import (
	"testing"

	"ridgeworld/server/internal/geom"
)

func newTestTree() *Quadtree {
	return New(geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 512, Y: 512}, 1)
}

func TestInsertAndQueryFindsOverlapping(t *testing.T) {
	qt := newTestTree()
	qt.Insert(1, geom.Vec2{X: 10, Y: 10}, geom.Vec2{X: 5, Y: 5})
	qt.Insert(2, geom.Vec2{X: 400, Y: 400}, geom.Vec2{X: 5, Y: 5})

	hits := qt.Query(geom.Rect{Center: geom.Vec2{X: 0, Y: 0}, Extents: geom.Vec2{X: 50, Y: 50}})
	if len(hits) != 1 || hits[0].ID != 1 {
		t.Fatalf("expected only entry 1 within query region, got %+v", hits)
	}
}

func TestClearRemovesPriorEntries(t *testing.T) {
	qt := newTestTree()
	qt.Insert(1, geom.Vec2{X: 0, Y: 0}, geom.Vec2{X: 1, Y: 1})
	qt.Clear()
	hits := qt.Query(geom.Rect{Center: geom.Vec2{}, Extents: geom.Vec2{X: 1000, Y: 1000}})
	if len(hits) != 0 {
		t.Fatalf("expected no entries after Clear, got %d", len(hits))
	}
}

func TestManyEntriesForceSplitAndStillQuery(t *testing.T) {
	qt := newTestTree()
	for i := 0; i < 200; i++ {
		x := float64(i%20)*20 - 190
		y := float64(i/20)*20 - 90
		qt.Insert(uint64(i+1), geom.Vec2{X: x, Y: y}, geom.Vec2{X: 2, Y: 2})
	}
	hits := qt.Query(geom.Rect{Center: geom.Vec2{}, Extents: geom.Vec2{X: 1000, Y: 1000}})
	if len(hits) != 200 {
		t.Fatalf("expected all 200 entries queryable after splitting, got %d", len(hits))
	}
}

func TestOutOfBoundsInsertClampsIntoRoot(t *testing.T) {
	qt := newTestTree()
	qt.Insert(1, geom.Vec2{X: 100000, Y: 100000}, geom.Vec2{X: 1, Y: 1})
	hits := qt.Query(geom.Rect{Center: geom.Vec2{}, Extents: geom.Vec2{X: 1000, Y: 1000}})
	if len(hits) != 1 {
		t.Fatalf("expected clamped entry to remain queryable within root bounds, got %d hits", len(hits))
	}
}

func TestDebugRectsReportsEveryEntry(t *testing.T) {
	qt := newTestTree()
	qt.Insert(1, geom.Vec2{X: 1, Y: 1}, geom.Vec2{X: 1, Y: 1})
	qt.Insert(2, geom.Vec2{X: -1, Y: -1}, geom.Vec2{X: 1, Y: 1})
	rects := qt.DebugRects()
	if len(rects) != 2 {
		t.Fatalf("expected 2 debug rects, got %d", len(rects))
	}
}
