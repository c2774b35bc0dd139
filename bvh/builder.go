package bvh

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/achilleasa/meshbvh/log"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

const (
	// Nodes referencing this many primitives or fewer are not split further.
	DefaultLeafSize = 2
)

// An Option configures a Builder.
type Option func(*Builder)

// Set the maximum number of primitives a node may hold before the builder
// attempts to split it. Values < 1 are ignored.
func WithLeafSize(leafSize int) Option {
	return func(b *Builder) {
		if leafSize > 0 {
			b.leafSize = leafSize
		}
	}
}

// Build the left subtree of any node holding at least minItems primitives
// in its own goroutine. Sibling subtrees own disjoint permutation ranges
// and node slots so the only shared state is the pool cursor. A value of
// 0 disables parallel construction.
func WithParallelism(minItems int) Option {
	return func(b *Builder) {
		if minItems >= 0 {
			b.parallelMin = minItems
		}
	}
}

// Builder constructs a BVH over a primitive store by recursively
// splitting each node at the spatial median of its longest axis.
type Builder struct {
	logger log.Logger
	store  *mesh.Store

	// The max number of primitives in a leaf.
	leafSize int

	// Min number of node primitives for forking a goroutine; 0 disables forking.
	parallelMin int
}

// Create a new builder for the given primitive store.
func NewBuilder(store *mesh.Store, opts ...Option) *Builder {
	b := &Builder{
		logger:   log.New("bvh builder"),
		store:    store,
		leafSize: DefaultLeafSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build a BVH over all primitives in a freshly allocated pool.
func Build(store *mesh.Store, opts ...Option) (*Tree, error) {
	if store == nil || store.Len() == 0 {
		return nil, mesh.ErrNoPrimitives
	}
	return NewBuilder(store, opts...).Build(NewPool(store.Len()))
}

// Build a BVH into the supplied pool. A pool can only be built once;
// subsequent calls fail with ErrAlreadyBuilt.
func (b *Builder) Build(pool *Pool) (*Tree, error) {
	if b.store == nil || b.store.Len() == 0 {
		return nil, mesh.ErrNoPrimitives
	}

	primCount := b.store.Len()
	if pool.Cap() < 2*primCount-1 {
		return nil, ErrPoolCapacity
	}
	if pool.Len() != 0 || !pool.built.CompareAndSwap(false, true) {
		return nil, ErrAlreadyBuilt
	}

	bs := &buildState{
		store:       b.store,
		pool:        pool,
		perm:        make([]uint32, primCount),
		leafSize:    uint32(b.leafSize),
		parallelMin: uint32(b.parallelMin),
	}
	for index := range bs.perm {
		bs.perm[index] = uint32(index)
	}

	start := time.Now()
	root, err := pool.alloc(1)
	if err != nil {
		return nil, err
	}
	pool.nodes[root].SetPrimitives(0, uint32(primCount))
	bs.subdivide(root)
	bs.wg.Wait()
	if bs.err != nil {
		return nil, bs.err
	}

	tree := &Tree{
		store: b.store,
		perm:  bs.perm,
		nodes: pool.nodes[:pool.Len()],
	}
	tree.stats = tree.collectStats()
	tree.stats.AbortedSplits = int(bs.abortedSplits.Load())
	tree.stats.BuildTime = time.Since(start)

	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, aborted splits: %d",
		tree.stats.BuildTime.Nanoseconds()/1e6,
		tree.stats.MaxDepth, tree.stats.Nodes, tree.stats.Leaves, tree.stats.AbortedSplits,
	)
	return tree, nil
}

// buildState holds the data shared by all recursive subdivide calls of a
// single build.
type buildState struct {
	store *mesh.Store
	pool  *Pool
	perm  []uint32

	leafSize    uint32
	parallelMin uint32

	wg            sync.WaitGroup
	abortedSplits atomic.Int64

	errMu sync.Mutex
	err   error
}

func (bs *buildState) setErr(err error) {
	bs.errMu.Lock()
	if bs.err == nil {
		bs.err = err
	}
	bs.errMu.Unlock()
}

// Recompute the node AABB as the union of the bboxes of all primitives
// in the node range.
func (bs *buildState) updateBounds(node *Node) {
	bbox := types.EmptyBBox()
	for _, primIndex := range bs.perm[node.First : node.First+node.Count] {
		bbox = bbox.Union(bs.store.BBox(int(primIndex)))
	}
	node.SetBBox(bbox)
}

// Partition the node primitive range so that all primitives whose centroid
// along axis is < splitPoint come first. Returns the number of primitives
// in the left partition.
func (bs *buildState) partition(first, count uint32, axis types.Axis, splitPoint float32) uint32 {
	i := int(first)
	j := int(first+count) - 1
	for i <= j {
		if bs.store.Centroid(int(bs.perm[i]))[axis] < splitPoint {
			i++
		} else {
			bs.perm[i], bs.perm[j] = bs.perm[j], bs.perm[i]
			j--
		}
	}
	return uint32(i) - first
}

func (bs *buildState) subdivide(nodeIndex uint32) {
	node := &bs.pool.nodes[nodeIndex]
	bs.updateBounds(node)

	// Do we have enough items for partitioning? If not keep node as a leaf
	if node.Count <= bs.leafSize {
		return
	}

	side := node.Max.Sub(node.Min)
	axis := side.MaxAxis()
	splitPoint := node.Min[axis] + side[axis]*0.5

	first, count := node.First, node.Count
	leftCount := bs.partition(first, count, axis, splitPoint)

	// All centroids ended up on the same side; keep an oversized leaf
	if leftCount == 0 || leftCount == count {
		bs.abortedSplits.Add(1)
		return
	}

	left, err := bs.pool.alloc(2)
	if err != nil {
		bs.setErr(err)
		return
	}
	right := left + 1

	bs.pool.nodes[left].SetPrimitives(first, leftCount)
	bs.pool.nodes[right].SetPrimitives(first+leftCount, count-leftCount)
	node.SetChildNodes(left, right, axis)

	if bs.parallelMin > 0 && count >= bs.parallelMin {
		bs.wg.Add(1)
		go func() {
			defer bs.wg.Done()
			bs.subdivide(left)
		}()
	} else {
		bs.subdivide(left)
	}
	bs.subdivide(right)
}
