package tracer

import (
	"time"

	"github.com/achilleasa/meshbvh/bvh"
)

// Result holds the outcome of tracing a single ray.
type Result struct {
	Hit bvh.Hit
	Ok  bool
}

// Worker statistics for the last traced block.
type Stats struct {
	// The number of rays in the block.
	BlockSize int

	// The time for tracing this block.
	BlockTime time.Duration

	// The number of rays that hit a primitive.
	Hits int
}

// A contiguous range of a ray batch assigned to a worker.
type blockRequest struct {
	rays    []bvh.Ray
	results []Result

	// The worker signals on this channel with its id once the block is done.
	doneCh chan<- int
}

// Worker traces blocks of rays against a tree in its own goroutine.
type Worker struct {
	id    int
	tree  *bvh.Tree
	speed float32
	reqCh chan blockRequest
	stats Stats
}

func newWorker(id int, tree *bvh.Tree) *Worker {
	return &Worker{
		id:    id,
		tree:  tree,
		speed: 1.0,
		reqCh: make(chan blockRequest),
	}
}

// Get worker id.
func (w *Worker) ID() int {
	return w.id
}

// Get the worker's computation speed estimate compared to a baseline
// single core implementation.
func (w *Worker) SpeedEstimate() float32 {
	return w.speed
}

// Retrieve last block statistics.
func (w *Worker) Stats() Stats {
	return w.stats
}

func (w *Worker) run() {
	for req := range w.reqCh {
		start := time.Now()
		hits := 0
		for index, ray := range req.rays {
			hit, ok := w.tree.Intersect(ray)
			req.results[index] = Result{Hit: hit, Ok: ok}
			if ok {
				hits++
			}
		}

		w.stats = Stats{
			BlockSize: len(req.rays),
			BlockTime: time.Since(start),
			Hits:      hits,
		}
		req.doneCh <- w.id
	}
}
