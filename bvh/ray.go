package bvh

import (
	"math"

	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

// Determinants with a magnitude below this value are treated as a ray
// running parallel to the triangle plane.
const detEpsilon float32 = 1e-8

// A ray query. TMin is the near bound; only intersections at distances
// strictly greater than TMin are reported. TMax holds the distance to the
// nearest hit found so far and is initialized to +Inf by NewRay.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3

	TMin float32
	TMax float32

	// Only report hits against the front face of triangles, i.e. the side
	// that the counter-clockwise winding normal points to.
	CullBackFaces bool
}

// The result of a successful ray query.
type Hit struct {
	// Distance along the ray direction (in units of Dir length).
	Distance float32

	// Index of the hit triangle in the primitive store.
	Primitive int
}

// Create a ray with the default [0, +Inf) search interval.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   0,
		TMax:   float32(math.Inf(1)),
	}
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Slab test of a ray against a node AABB. A zero direction component
// yields an infinite reciprocal and thus an unbounded slab; NaN values
// produced when the origin lies on a slab plane fail every comparison and
// leave the running interval untouched.
func intersectBBox(node *Node, origin, invDir types.Vec3, tMin, tMax float32) bool {
	tNear := float32(math.Inf(-1))
	tFar := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		t1 := (node.Min[axis] - origin[axis]) * invDir[axis]
		t2 := (node.Max[axis] - origin[axis]) * invDir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
	}

	return tFar >= tNear && tNear < tMax && tFar > tMin
}

// Intersect a ray with a triangle using the Moller-Trumbore algorithm.
// Returns the hit distance if it lies inside the open interval (tMin, tMax).
func intersectTriangle(tri *mesh.Triangle, r *Ray) (float32, bool) {
	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)

	h := r.Dir.Cross(edge2)
	det := edge1.Dot(h)

	if r.CullBackFaces {
		if det < detEpsilon {
			return 0, false
		}
	} else if det > -detEpsilon && det < detEpsilon {
		return 0, false
	}

	f := 1.0 / det
	s := r.Origin.Sub(tri.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Dir.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= r.TMin || t >= r.TMax {
		return 0, false
	}
	return t, true
}

// Intersect a ray with a single triangle. This is the direct computation
// that tree traversal performs for each candidate primitive.
func IntersectTriangle(tri mesh.Triangle, r Ray) (float32, bool) {
	return intersectTriangle(&tri, &r)
}
