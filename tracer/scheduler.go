package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split a ray batch into contiguous blocks of variable size and
	// assign them to the pool of workers.
	//
	// This function returns the block size assignment for each worker
	// in the input list. The assignments always add up to batchSize.
	Schedule(workers []*Worker, batchSize int) []int
}

// The naive scheduler splits batches based on the speed estimate of each worker.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NewNaiveScheduler() BlockScheduler {
	return naiveScheduler{}
}

func (naiveScheduler) Schedule(workers []*Worker, batchSize int) []int {
	weights := make([]float64, len(workers))
	for idx, w := range workers {
		weights[idx] = float64(w.SpeedEstimate())
	}
	return distribute(weights, batchSize)
}

// The perfect scheduler assumes that the cost of tracing a ray is roughly
// the same between two subsequent batches.
type perfectScheduler struct {
	blockAssignment []int
}

// Create a new perfect scheduler instance.
func NewPerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

// Split a ray batch using feedback collected from the previous batch.
//
// When previous batch information is available the scheduler uses the
// following formula for estimating the workload for worker w and batch i+1:
// w_i, b_i+1 = (blockSize,w_i / time,w_i) / Σ(blockSize_i / time,i)
func (sch *perfectScheduler) Schedule(workers []*Worker, batchSize int) []int {
	// If this is the first time we try to schedule or the number of
	// workers has changed we need to reset the block assignments
	if len(sch.blockAssignment) != len(workers) {
		sch.blockAssignment = NewNaiveScheduler().Schedule(workers, batchSize)
		return sch.blockAssignment
	}

	// Use last batch statistics; workers without a timed block give us
	// nothing to extrapolate from so fall back to speed estimates.
	weights := make([]float64, len(workers))
	for idx, w := range workers {
		stats := w.Stats()
		if stats.BlockSize == 0 || stats.BlockTime <= 0 {
			sch.blockAssignment = NewNaiveScheduler().Schedule(workers, batchSize)
			return sch.blockAssignment
		}
		weights[idx] = float64(stats.BlockSize) / float64(stats.BlockTime)
	}

	sch.blockAssignment = distribute(weights, batchSize)
	return sch.blockAssignment
}

// Split batchSize proportionally to weights.
func distribute(weights []float64, batchSize int) []int {
	assignment := make([]int, len(weights))
	if len(weights) == 0 {
		return assignment
	}

	var total float64
	for _, w := range weights {
		total += w
	}

	assigned := 0
	if total > 0 {
		scaler := float64(batchSize) / total
		for idx, w := range weights {
			assignment[idx] = int(math.Floor(w * scaler))
			assigned += assignment[idx]
		}
	}

	// In case rays don't add up to the batch size append the missing ones to the first worker
	assignment[0] += batchSize - assigned
	return assignment
}
