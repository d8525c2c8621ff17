package sim

import (
	"math/rand"
	"time"

	"ridgeworld/server/internal/ai"
	"ridgeworld/server/internal/attack"
	"ridgeworld/server/internal/events"
	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/pathing"
	"ridgeworld/server/internal/telemetry"
	"ridgeworld/server/internal/updater"
)

// defaultTickHz is the fixed tick rate used when Config.TickHz is unset,
// matching spec.md §4.7's named TICK_HZ=40 default.
const defaultTickHz = 40

// defaultDrainBudget bounds the Transport.Drain call when Config.DrainBudget
// is unset; it is the tick loop's sole blocking wait and pacing mechanism
// per spec.md §5.
const defaultDrainBudget = time.Millisecond

// Config bundles the boot-time choices the Loop needs beyond its
// collaborators: where new players spawn, how many path workers to run,
// how fast the tick loop advances, and how long Run's Transport.Drain call
// may block per iteration.
type Config struct {
	TickHz          int // zero means defaultTickHz (40)
	StartingMap     mapdata.MapName
	SpawnRect       geom.Rect
	PathWorkerCount int
	PathQueueDepth  int
	DrainBudget     time.Duration // zero means defaultDrainBudget's 1ms default
}

// Loop is the Tick Loop (C8): the sole owner of the Object Table, Attack
// Pipeline, Path Store, per-map quadtrees, and NpcTargetLink store.
//
// Grounded on internal/sim/loop.go's Loop (ticker-driven Run, fixed
// timestep) generalized from the teacher's measured-wall-clock dt with
// catch-up clamping to spec.md's fixed dtMillis-per-tick model, and from a
// command-buffer-fed Advance/Step split to the spec's single ordered
// per-tick pipeline (clear quadtrees -> pre-update setup -> per-object
// update -> attack promote/expire -> broadcast).
type Loop struct {
	repo      *mapdata.Repository
	table     *object.Table
	paths     *pathing.Store
	pool      *pathing.Pool
	links     *ai.LinkStore
	bus       *events.Bus
	attacks   *attack.Pipeline
	ids       *IDAllocator
	transport Transport
	rng       *rand.Rand
	logger    telemetry.Logger

	cfg          Config
	tickInterval time.Duration
	dtMillis     float64

	boundPeerID map[object.ID]PeerID
	peerIDBound map[PeerID]object.ID
}

// NewLoop wires every component per SPEC_FULL.md's C1-C9 orchestration.
func NewLoop(repo *mapdata.Repository, transport Transport, cfg Config, rng *rand.Rand, logger telemetry.Logger) *Loop {
	if logger == nil {
		logger = telemetry.Nop{}
	}
	pool := pathing.NewPool(cfg.PathWorkerCount, cfg.PathQueueDepth, logger)
	table := object.NewTable()
	bus := events.New()
	ids := NewIDAllocator()
	paths := pathing.NewStore(pool)
	links := ai.NewLinkStore()
	attacks := attack.NewPipeline(table, bus, ids.Next)

	tickHz := cfg.TickHz
	if tickHz <= 0 {
		tickHz = defaultTickHz
	}
	tickInterval := time.Second / time.Duration(tickHz)

	l := &Loop{
		repo:         repo,
		table:        table,
		paths:        paths,
		pool:         pool,
		links:        links,
		bus:          bus,
		attacks:      attacks,
		ids:          ids,
		transport:    transport,
		rng:          rng,
		logger:       logger,
		cfg:          cfg,
		tickInterval: tickInterval,
		dtMillis:     float64(tickInterval) / float64(time.Millisecond),
		boundPeerID:  make(map[object.ID]PeerID),
		peerIDBound:  make(map[PeerID]object.ID),
	}

	// Path Service subscribes to ObjectDestroyed to erase the dying id's
	// path from its store and the NpcTargetLink the dying id itself holds.
	// Links held by other creatures whose target is the dying id are not
	// erased here.
	bus.OnObjectDestroyed(func(e events.ObjectDestroyed) {
		paths.Clear(e.ID)
		links.Clear(e.ID)
	})

	return l
}

// Stop releases the Path Service worker pool.
func (l *Loop) Stop() {
	l.pool.Stop()
}

// Run drives the fixed-rate loop until stop closes.
func (l *Loop) Run(stop <-chan struct{}) {
	budget := l.cfg.DrainBudget
	if budget <= 0 {
		budget = defaultDrainBudget
	}
	lastTick := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}

		for _, in := range l.transport.Drain(budget) {
			l.handleIngress(in)
		}

		if time.Since(lastTick) < l.tickInterval {
			continue
		}
		lastTick = time.Now()
		l.tick()
	}
}

// tick runs one fixed-dt simulation step (dtMillis, 25ms at the default
// 40Hz), spec.md §4.7 steps (a)-(g).
func (l *Loop) tick() {
	l.repo.ClearAllQuadtrees() // (a)

	mapIndex := updater.BuildMapIndex(l.table) // (b), first half
	pathResults := l.pool.DrainResults()        // (b), second half

	updater.UpdateAll(updater.Deps{ // (c)
		Repo:     l.repo,
		Table:    l.table,
		Paths:    l.paths,
		Links:    l.links,
		Bus:      l.bus,
		Attacks:  l.attacks,
		DTMillis: l.dtMillis,
		RNG:      l.rng,
		MapIndex: mapIndex,
	}, pathResults)

	l.reinsertIntoQuadtrees() // (c), reinsertion half

	promoted, destroyed := l.attacks.Tick(l.dtMillis) // (d), (e)
	for _, id := range promoted {
		rec, ok := l.table.Get(id)
		if ok {
			l.transport.BroadcastReliable(ObjectCreated{Record: rec})
		}
	}
	for _, id := range destroyed {
		l.transport.BroadcastReliable(ObjectDestroyed{ID: id})
	}

	l.broadcastState() // (g)
}

func (l *Loop) reinsertIntoQuadtrees() {
	for _, rec := range l.table.All() {
		qt := l.repo.QuadtreeOf(rec.CurrentMap)
		qt.Insert(uint64(rec.ID), rec.Position.XY(), rec.ColliderExtents())
	}
}

// DebugQuadtreeRects exposes the named map's current quadtree debug
// rectangles for the HTTP debug mirror (internal/transport/httpapi).
func (l *Loop) DebugQuadtreeRects(mapName mapdata.MapName) ([]geom.Rect, bool) {
	if !l.repo.Exists(mapName) {
		return nil, false
	}
	return l.repo.QuadtreeOf(mapName).DebugRects(), true
}

// DebugObjectPath exposes one object's current path waypoints for the
// HTTP debug mirror.
func (l *Loop) DebugObjectPath(id object.ID) []geom.Vec3 {
	return l.paths.GetPath(id)
}

func (l *Loop) broadcastState() {
	for _, rec := range l.table.All() {
		l.transport.BroadcastUnreliable(ObjectStateBroadcast{Record: rec})
	}
}
