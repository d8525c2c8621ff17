package pathing

import (
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
)

// Store is the per-object path store (C4 responsibility ii): a mapping
// from object ID to a FIFO of waypoints. Only ever read/written from the
// tick loop thread; workers never touch it directly.
type Store struct {
	pool     *Pool
	paths    map[object.ID][]geom.Vec3
	traceIDs map[object.ID]string
}

// NewStore constructs a path store backed by the given worker pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool, paths: make(map[object.ID][]geom.Vec3), traceIDs: make(map[object.ID]string)}
}

// HasPath reports whether id currently owns a non-empty path.
func (s *Store) HasPath(id object.ID) bool {
	if s == nil {
		return false
	}
	path, ok := s.paths[id]
	return ok && len(path) > 0
}

// GetPath returns the live waypoint FIFO for id. The slice is the store's
// own; callers consume waypoints through PopFront rather than by modifying
// it.
func (s *Store) GetPath(id object.ID) []geom.Vec3 {
	if s == nil {
		return nil
	}
	return s.paths[id]
}

// PopFront removes and returns the first waypoint for id, or false if
// there is none.
func (s *Store) PopFront(id object.ID) (geom.Vec3, bool) {
	if s == nil {
		return geom.Vec3{}, false
	}
	path, ok := s.paths[id]
	if !ok || len(path) == 0 {
		return geom.Vec3{}, false
	}
	head := path[0]
	rest := path[1:]
	if len(rest) == 0 {
		delete(s.paths, id)
	} else {
		s.paths[id] = rest
	}
	return head, true
}

// Clear erases id's path entirely.
func (s *Store) Clear(id object.ID) {
	if s == nil {
		return
	}
	delete(s.paths, id)
	delete(s.traceIDs, id)
}

// SetSingleTarget replaces id's path with a one-entry FIFO, per
// spec.md's idle-loiter use case (wander to an adjacent tile).
func (s *Store) SetSingleTarget(id object.ID, waypoint geom.Vec3) {
	if s == nil {
		return
	}
	s.paths[id] = []geom.Vec3{waypoint}
}

// InstallResults drains the worker pool's result queue and installs each
// path into the store, overwriting any existing path for that id.
// Per spec.md §4.3, empty results are discarded (not stored as an empty
// path) and results for ids no longer relevant are tolerated silently: if
// the id was removed from the Object Table between submission and drain,
// the install happens anyway and the next tick's update simply finds no
// matching record and ignores the stale path.
func (s *Store) InstallResults(results []Result) {
	if s == nil {
		return
	}
	for _, r := range results {
		if len(r.Path) == 0 {
			continue
		}
		s.paths[r.RequesterID] = r.Path
		s.traceIDs[r.RequesterID] = r.TraceID
	}
}

// TraceID returns the uuid of the most recent completed search that
// populated id's path, for surfacing in the debug mirror's response; the
// empty string if no search has completed for id.
func (s *Store) TraceID(id object.ID) string {
	if s == nil {
		return ""
	}
	return s.traceIDs[id]
}

// FindPath enqueues an async A* search; the result is installed by
// InstallResults once the tick loop next drains the pool.
func (s *Store) FindPath(id object.ID, start, target geom.Vec3, mapOrigin geom.Vec2, navmap *mapdata.Navmap) {
	if s == nil || s.pool == nil || navmap == nil {
		return
	}
	s.pool.Submit(Task{
		RequesterID: id,
		Start:       start,
		Target:      target,
		MapOrigin:   mapOrigin,
		Navmap:      navmap,
	})
}
