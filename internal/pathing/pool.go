package pathing

import (
	"time"

	"github.com/google/uuid"

	"ridgeworld/server/internal/geom"
	"ridgeworld/server/internal/mapdata"
	"ridgeworld/server/internal/object"
	"ridgeworld/server/internal/telemetry"
)

// slowSearchThreshold is spec.md §4.3's A* runtime warning threshold.
const slowSearchThreshold = 10 * time.Millisecond

// Task is one enqueued search request. It carries everything a worker
// needs by value/immutable-reference so workers never touch the Object
// Table, the Attack Pipeline, or the Event Bus (spec.md §5).
type Task struct {
	RequesterID object.ID
	Start       geom.Vec3
	Target      geom.Vec3
	MapOrigin   geom.Vec2
	Navmap      *mapdata.Navmap // immutable after boot; safe to share across threads
	TraceID     string
}

// Result is a completed search, installed into the path store by the tick
// loop. An empty Path is a valid result (unreachable or same-tile), never
// an error.
type Result struct {
	RequesterID object.ID
	Path        []geom.Vec3
	TraceID     string
}

// Pool is the bounded worker pool described in spec.md §4.3: N workers
// (default 2) block on a task queue and push completed searches onto a
// result queue drained once per tick by the tick loop thread.
type Pool struct {
	tasks   chan Task
	results chan Result
	logger  telemetry.Logger
	stop    chan struct{}
}

// NewPool starts workerCount goroutines computing A* against submitted
// tasks. taskQueueDepth bounds the task channel so a stalled pool applies
// backpressure rather than growing without limit.
func NewPool(workerCount, taskQueueDepth int, logger telemetry.Logger) *Pool {
	if workerCount <= 0 {
		workerCount = 2
	}
	if taskQueueDepth <= 0 {
		taskQueueDepth = 64
	}
	if logger == nil {
		logger = telemetry.Nop{}
	}
	p := &Pool{
		tasks:   make(chan Task, taskQueueDepth),
		results: make(chan Result, taskQueueDepth),
		logger:  logger,
		stop:    make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		go p.worker(i)
	}
	return p
}

// Submit enqueues a search task. If the queue is full the caller's
// FindPath request is dropped with a Warn log line (mirrors spec.md's "no
// cancellation channel, no hard timeout" stance: a saturated pool is a
// capacity problem for ops, not a correctness concern for the tick loop).
func (p *Pool) Submit(t Task) {
	if p == nil {
		return
	}
	if t.TraceID == "" {
		t.TraceID = uuid.NewString()
	}
	select {
	case p.tasks <- t:
	default:
		p.logger.Warnf("path task queue full, dropping search", telemetry.F("requester", t.RequesterID), telemetry.F("trace_id", t.TraceID))
	}
}

// DrainResults returns every completed search since the last drain,
// without blocking. Called once per tick by the tick loop thread.
func (p *Pool) DrainResults() []Result {
	if p == nil {
		return nil
	}
	var out []Result
	for {
		select {
		case r := <-p.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Stop terminates all workers. Safe to call once (a second call panics).
// Submit after Stop does not block: its tasks stay in the queue unprocessed
// and, once the queue is full, are dropped with a warning.
func (p *Pool) Stop() {
	if p == nil {
		return
	}
	close(p.stop)
}

func (p *Pool) worker(index int) {
	workerLog := p.logger.With(telemetry.F("worker", index))
	for {
		select {
		case <-p.stop:
			return
		case task := <-p.tasks:
			start := time.Now()
			path := FindPathWorldSpace(task.Navmap, task.MapOrigin, task.Start, task.Target)
			elapsed := time.Since(start)
			if elapsed > slowSearchThreshold {
				workerLog.Warnf("a-star search exceeded budget",
					telemetry.F("duration_ms", elapsed.Milliseconds()),
					telemetry.F("requester", task.RequesterID),
					telemetry.F("trace_id", task.TraceID),
				)
			}
			result := Result{RequesterID: task.RequesterID, Path: path, TraceID: task.TraceID}
			select {
			case p.results <- result:
			case <-p.stop:
				return
			}
		}
	}
}
