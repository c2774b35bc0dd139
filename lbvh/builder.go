package lbvh

import (
	"cmp"
	"errors"
	"math/bits"
	"slices"
	"sync"
	"time"

	"github.com/achilleasa/meshbvh/log"
)

var (
	ErrNoPrimitives = errors.New("lbvh: no primitives supplied")
	ErrUnsorted     = errors.New("lbvh: id/code pairs are not sorted by code")
)

// IDCodePair associates a primitive with the Morton code of its centroid.
type IDCodePair struct {
	TriangleID int
	Code       uint32
}

// Sort pairs in ascending code order. Pairs sharing a code keep their
// relative order.
func SortPairs(pairs []IDCodePair) {
	slices.SortStableFunc(pairs, func(a, b IDCodePair) int {
		return cmp.Compare(a.Code, b.Code)
	})
}

// An Option configures a linear BVH build.
type Option func(*builder)

// Generate the first half of any range spanning at least minItems pairs
// in its own goroutine. A value of 0 disables parallel construction.
func WithParallelism(minItems int) Option {
	return func(b *builder) {
		if minItems >= 0 {
			b.parallelMin = minItems
		}
	}
}

type builder struct {
	logger      log.Logger
	sorted      []IDCodePair
	parallelMin int
}

// Build a binary hierarchy over a list of id/code pairs sorted by code.
func BuildLinear(sorted []IDCodePair, opts ...Option) (*Node, error) {
	if len(sorted) == 0 {
		return nil, ErrNoPrimitives
	}
	if !slices.IsSortedFunc(sorted, func(a, b IDCodePair) int { return cmp.Compare(a.Code, b.Code) }) {
		return nil, ErrUnsorted
	}

	b := &builder{
		logger: log.New("lbvh builder"),
		sorted: sorted,
	}
	for _, opt := range opts {
		opt(b)
	}

	start := time.Now()
	root := b.generateHierarchy(0, len(sorted)-1)
	b.logger.Debugf("LBVH hierarchy build time: %d ms, leafs: %d", time.Since(start).Nanoseconds()/1e6, len(sorted))
	return root, nil
}

func (b *builder) generateHierarchy(first, last int) *Node {
	if first == last {
		return newLeaf(b.sorted[first].TriangleID)
	}

	split := findSplit(b.sorted, first, last)

	var childA, childB *Node
	if b.parallelMin > 0 && last-first+1 >= b.parallelMin {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			childA = b.generateHierarchy(first, split)
		}()
		childB = b.generateHierarchy(split+1, last)
		wg.Wait()
	} else {
		childA = b.generateHierarchy(first, split)
		childB = b.generateHierarchy(split+1, last)
	}

	return newInternal(childA, childB)
}

// Find the index of the last pair in [first, last) that shares more
// leading code bits with sorted[first] than sorted[last] does. The
// returned index always satisfies first <= split < last.
func findSplit(sorted []IDCodePair, first, last int) int {
	firstCode := sorted[first].Code
	lastCode := sorted[last].Code

	// Identical codes at both ends; split the range in the middle
	if firstCode == lastCode {
		return (first + last) >> 1
	}

	commonPrefix := bits.LeadingZeros32(firstCode ^ lastCode)

	// Binary search for the furthest pair whose prefix with the first
	// code is longer than the common prefix of the range.
	split := first
	step := last - first
	for {
		step = (step + 1) >> 1
		newSplit := split + step
		if newSplit < last {
			splitPrefix := bits.LeadingZeros32(firstCode ^ sorted[newSplit].Code)
			if splitPrefix > commonPrefix {
				split = newSplit
			}
		}
		if step <= 1 {
			break
		}
	}
	return split
}
