package bvh

import (
	"errors"
	"sync/atomic"

	"github.com/achilleasa/meshbvh/types"
)

var (
	ErrAlreadyBuilt = errors.New("bvh: node pool already contains a built tree")
	ErrPoolCapacity = errors.New("bvh: node pool capacity exceeded")
)

// Bvh node definition. A node is a leaf iff Count > 0; leafs own the
// permutation range [First, First+Count). Internal nodes have Count == 0
// and point to exactly two children via Left and Right.
type Node struct {
	Min types.Vec3
	Max types.Vec3

	Left  uint32
	Right uint32

	First uint32
	Count uint32

	// The axis used for splitting an internal node.
	SplitAxis types.Axis
}

// Returns true if this node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Count > 0
}

// Get node AABB.
func (n *Node) BBox() types.BBox {
	return types.BBox{n.Min, n.Max}
}

// Set node AABB.
func (n *Node) SetBBox(bbox types.BBox) {
	n.Min = bbox[0]
	n.Max = bbox[1]
}

// Set left and right child node indices and turn the node into an internal node.
func (n *Node) SetChildNodes(left, right uint32, axis types.Axis) {
	n.Left = left
	n.Right = right
	n.SplitAxis = axis
	n.First = 0
	n.Count = 0
}

// Set primitive range.
func (n *Node) SetPrimitives(first, count uint32) {
	n.First = first
	n.Count = count
}

// Pool is a pre-sized flat node array. A tree over N primitives never needs
// more than 2N-1 nodes so the backing array is allocated once and never
// grows. Slots are handed out by an atomic bump cursor which makes the
// pool safe to allocate from concurrently.
type Pool struct {
	nodes  []Node
	cursor atomic.Uint32
	built  atomic.Bool
}

// Create a node pool large enough for a tree over the given number of primitives.
func NewPool(primitives int) *Pool {
	capacity := 0
	if primitives > 0 {
		capacity = 2*primitives - 1
	}
	return &Pool{
		nodes: make([]Node, capacity),
	}
}

// Get pool capacity.
func (p *Pool) Cap() int {
	return len(p.nodes)
}

// Get the number of allocated nodes.
func (p *Pool) Len() int {
	return int(p.cursor.Load())
}

// Reserve count contiguous nodes and return the index of the first one.
func (p *Pool) alloc(count uint32) (uint32, error) {
	end := p.cursor.Add(count)
	if int(end) > len(p.nodes) {
		return 0, ErrPoolCapacity
	}
	return end - count, nil
}
