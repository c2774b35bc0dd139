package tracer

import (
	"bytes"
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/meshbvh/bvh"
	"github.com/achilleasa/meshbvh/log"
	"github.com/olekukonko/tablewriter"
)

// Pool fans ray batches out to a set of workers sharing a read-only tree.
// Trace must not be called concurrently.
type Pool struct {
	logger    log.Logger
	workers   []*Worker
	scheduler BlockScheduler
	closed    bool
}

// Create a pool with numWorkers workers tracing rays against tree. If
// numWorkers <= 0, one worker per CPU is started. A nil scheduler selects
// the perfect scheduler.
func NewPool(tree *bvh.Tree, numWorkers int, scheduler BlockScheduler) (*Pool, error) {
	if tree == nil {
		return nil, ErrNoTree
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if scheduler == nil {
		scheduler = NewPerfectScheduler()
	}

	p := &Pool{
		logger:    log.New("tracer pool"),
		workers:   make([]*Worker, numWorkers),
		scheduler: scheduler,
	}
	for idx := range p.workers {
		p.workers[idx] = newWorker(idx, tree)
		go p.workers[idx].run()
	}

	p.logger.Debugf("started %d workers", numWorkers)
	return p, nil
}

// Get the pool workers.
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// Trace a batch of rays. Results are returned in the same order as rays.
func (p *Pool) Trace(rays []bvh.Ray) ([]Result, BatchStats, error) {
	if p.closed {
		return nil, BatchStats{}, ErrClosed
	}
	if len(p.workers) == 0 {
		return nil, BatchStats{}, ErrNoWorkers
	}

	start := time.Now()
	results := make([]Result, len(rays))
	blocks := p.scheduler.Schedule(p.workers, len(rays))

	doneCh := make(chan int, len(p.workers))
	pending := 0
	offset := 0
	for idx, w := range p.workers {
		blockSize := blocks[idx]
		if blockSize == 0 {
			w.stats = Stats{}
			continue
		}

		w.reqCh <- blockRequest{
			rays:    rays[offset : offset+blockSize],
			results: results[offset : offset+blockSize],
			doneCh:  doneCh,
		}
		offset += blockSize
		pending++
	}

	for ; pending > 0; pending-- {
		<-doneCh
	}

	stats := BatchStats{
		Rays:      len(rays),
		TraceTime: time.Since(start),
		Workers:   make([]WorkerStat, len(p.workers)),
	}
	for idx, w := range p.workers {
		ws := w.Stats()
		stats.Hits += ws.Hits
		stats.Workers[idx] = WorkerStat{
			ID:        w.ID(),
			BlockSize: ws.BlockSize,
			Hits:      ws.Hits,
			TraceTime: ws.BlockTime,
		}
		if len(rays) > 0 {
			stats.Workers[idx].BatchPercent = 100.0 * float32(ws.BlockSize) / float32(len(rays))
		}
	}

	return results, stats, nil
}

// Shutdown all workers.
func (p *Pool) Close() {
	if p.closed {
		return
	}
	p.closed = true
	for _, w := range p.workers {
		close(w.reqCh)
	}
}

type WorkerStat struct {
	ID int

	// The block size and the percentage of the batch it represents.
	BlockSize    int
	BatchPercent float32

	Hits      int
	TraceTime time.Duration
}

type BatchStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	Rays int
	Hits int

	// Total trace time for the entire batch.
	TraceTime time.Duration
}

// Build a tabular representation of the batch statistics.
func (s BatchStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Block size", "% of batch", "Hits", "Trace time"})
	for _, stat := range s.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.ID),
			fmt.Sprintf("%d", stat.BlockSize),
			fmt.Sprintf("%02.1f %%", stat.BatchPercent),
			fmt.Sprintf("%d", stat.Hits),
			stat.TraceTime.String(),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d", s.Rays), "TOTAL", fmt.Sprintf("%d", s.Hits), s.TraceTime.String()})

	table.Render()
	return buf.String()
}
