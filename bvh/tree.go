package bvh

import (
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

// A Tree is an immutable BVH over the primitives of a mesh.Store. Node 0 is
// the root. Trees are safe for concurrent queries.
type Tree struct {
	store *mesh.Store

	// Primitive indices referenced by leaf ranges.
	perm []uint32

	// Bvh nodes stored as a contiguous list
	nodes []Node

	stats Stats
}

// Get the number of nodes in the tree.
func (t *Tree) Count() int {
	return len(t.nodes)
}

// Get the root node.
func (t *Tree) Root() Node {
	return t.nodes[0]
}

// Get node by index.
func (t *Tree) Node(index uint32) Node {
	return t.nodes[index]
}

// Get the primitive index permutation. Leaf nodes reference sub-ranges of
// this slice. The returned slice must not be modified.
func (t *Tree) Permutation() []uint32 {
	return t.perm
}

// Get the primitive store the tree was built from.
func (t *Tree) Store() *mesh.Store {
	return t.store
}

// Get the tree root AABB.
func (t *Tree) Bounds() types.BBox {
	return t.nodes[0].BBox()
}

// Get the indices of the primitives referenced by a leaf node.
func (t *Tree) LeafPrimitives(node Node) []uint32 {
	return t.perm[node.First : node.First+node.Count]
}

// Intersect a ray with the tree. The ray is passed by value and the tree
// is not modified so identical queries always produce identical results.
func (t *Tree) Intersect(r Ray) (Hit, bool) {
	return t.IntersectRay(&r)
}

// Intersect a ray with the tree and shrink r.TMax to the distance of the
// nearest hit. If nothing is hit r.TMax is left unchanged.
func (t *Tree) IntersectRay(r *Ray) (Hit, bool) {
	hit := Hit{Distance: r.TMax, Primitive: -1}
	invDir := r.Dir.Recip()
	t.intersectNode(0, r, invDir, &hit)
	return hit, hit.Primitive >= 0
}

// Recursively visit nodes whose AABB the ray can reach. Both children of an
// internal node are visited; visiting the nearest child first would allow
// more aggressive pruning of the second.
func (t *Tree) intersectNode(nodeIndex uint32, r *Ray, invDir types.Vec3, hit *Hit) {
	node := &t.nodes[nodeIndex]
	if !intersectBBox(node, r.Origin, invDir, r.TMin, r.TMax) {
		return
	}

	if node.IsLeaf() {
		for _, primIndex := range t.perm[node.First : node.First+node.Count] {
			tri := t.store.Triangle(int(primIndex))
			if dist, ok := intersectTriangle(&tri, r); ok {
				r.TMax = dist
				hit.Distance = dist
				hit.Primitive = int(primIndex)
			}
		}
		return
	}

	t.intersectNode(node.Left, r, invDir, hit)
	t.intersectNode(node.Right, r, invDir, hit)
}
