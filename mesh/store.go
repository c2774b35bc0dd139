package mesh

import (
	"errors"

	"github.com/achilleasa/meshbvh/types"
)

var (
	ErrNoPrimitives = errors.New("mesh: no primitives supplied")
)

// A triangle primitive.
type Triangle struct {
	V0, V1, V2 types.Vec3
}

// Get the triangle centroid.
func (tri Triangle) Centroid() types.Vec3 {
	return tri.V0.Add(tri.V1).Add(tri.V2).Mul(1.0 / 3.0)
}

// Get the triangle AABB.
func (tri Triangle) BBox() types.BBox {
	return types.BBox{
		types.MinVec3(tri.V0, types.MinVec3(tri.V1, tri.V2)),
		types.MaxVec3(tri.V0, types.MaxVec3(tri.V1, tri.V2)),
	}
}

// Get the triangle area. Degenerate triangles have zero area.
func (tri Triangle) Area() float32 {
	return 0.5 * tri.V1.Sub(tri.V0).Cross(tri.V2.Sub(tri.V0)).Len()
}

// Store owns an immutable triangle soup together with the per-triangle
// centroid and bounding box values that the BVH builders consume. The
// derived values are computed once when the store is created; a Store is
// safe for concurrent reads.
type Store struct {
	triangles []Triangle
	centroids []types.Vec3
	bboxes    []types.BBox

	bounds         types.BBox
	centroidBounds types.BBox
}

// Create a store for the supplied triangles. The slice is copied so callers
// may reuse it. An empty triangle list is rejected with ErrNoPrimitives.
func NewStore(triangles []Triangle) (*Store, error) {
	if len(triangles) == 0 {
		return nil, ErrNoPrimitives
	}

	s := &Store{
		triangles:      make([]Triangle, len(triangles)),
		centroids:      make([]types.Vec3, len(triangles)),
		bboxes:         make([]types.BBox, len(triangles)),
		bounds:         types.EmptyBBox(),
		centroidBounds: types.EmptyBBox(),
	}
	copy(s.triangles, triangles)

	for index, tri := range s.triangles {
		s.centroids[index] = tri.Centroid()
		s.bboxes[index] = tri.BBox()

		s.bounds = s.bounds.Union(s.bboxes[index])
		s.centroidBounds = s.centroidBounds.Extend(s.centroids[index])
	}

	return s, nil
}

// Get the number of stored primitives.
func (s *Store) Len() int {
	return len(s.triangles)
}

// Get triangle by index.
func (s *Store) Triangle(index int) Triangle {
	return s.triangles[index]
}

// Get triangle centroid by index.
func (s *Store) Centroid(index int) types.Vec3 {
	return s.centroids[index]
}

// Get triangle AABB by index.
func (s *Store) BBox(index int) types.BBox {
	return s.bboxes[index]
}

// Get the AABB enclosing all stored triangles.
func (s *Store) Bounds() types.BBox {
	return s.bounds
}

// Get the AABB enclosing all triangle centroids.
func (s *Store) CentroidBounds() types.BBox {
	return s.centroidBounds
}
