package pathing

import (
	"testing"
	"time"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/telemetry"
)

func TestPoolComputesPathsConcurrently(t *testing.T) {
	nm := allWalkable(t, mapdata.GridDim, mapdata.GridDim)
	const n = 20
	// The task queue holds all n tasks: Submit drops tasks once it is full.
	pool := NewPool(2, n, telemetry.Nop{})
	defer pool.Stop()

	origin := geom.Vec2{}
	for i := 0; i < n; i++ {
		pool.Submit(Task{
			RequesterID: object.ID(i + 1),
			Start:       geom.Vec3{X: mapdata.TileSize * 2, Y: mapdata.TileSize * 2},
			Target:      geom.Vec3{X: mapdata.TileSize * 10, Y: mapdata.TileSize * 10},
			MapOrigin:   origin,
			Navmap:      nm,
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	seen := make(map[object.ID]bool)
	for len(seen) < n && time.Now().Before(deadline) {
		for _, r := range pool.DrainResults() {
			seen[r.RequesterID] = true
			if len(r.Path) == 0 {
				t.Fatalf("expected a non-empty path for requester %d", r.RequesterID)
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(seen) != n {
		t.Fatalf("expected %d results drained, got %d", n, len(seen))
	}
}

func TestStoreInstallResultsDiscardsEmptyPaths(t *testing.T) {
	store := NewStore(nil)
	store.InstallResults([]Result{
		{RequesterID: 1, Path: nil},
		{RequesterID: 2, Path: []geom.Vec3{{X: 1, Y: 1}}},
	})
	if store.HasPath(1) {
		t.Fatalf("expected empty result to be discarded, not stored")
	}
	if !store.HasPath(2) {
		t.Fatalf("expected non-empty result to be installed")
	}
}

func TestStoreSetSingleTargetReplacesPath(t *testing.T) {
	store := NewStore(nil)
	store.InstallResults([]Result{{RequesterID: 1, Path: []geom.Vec3{{X: 1}, {X: 2}, {X: 3}}}})
	store.SetSingleTarget(1, geom.Vec3{X: 9})
	path := store.GetPath(1)
	if len(path) != 1 || path[0].X != 9 {
		t.Fatalf("expected single-entry path, got %v", path)
	}
}

func TestStorePopFrontClearsWhenExhausted(t *testing.T) {
	store := NewStore(nil)
	store.InstallResults([]Result{{RequesterID: 1, Path: []geom.Vec3{{X: 1}}}})
	wp, ok := store.PopFront(1)
	if !ok || wp.X != 1 {
		t.Fatalf("expected to pop the single waypoint")
	}
	if store.HasPath(1) {
		t.Fatalf("expected path to be cleared once exhausted")
	}
}
