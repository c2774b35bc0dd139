// Package synth generates synthetic triangle soups for benchmarks and
// tests. All generators take an explicitly seeded random source so that
// runs are reproducible.
package synth

import (
	"math/rand"

	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

// Generate count triangles whose vertices lie within maxSize of a center
// point picked uniformly inside bounds.
func Soup(rng *rand.Rand, count int, bounds types.BBox, maxSize float32) []mesh.Triangle {
	tris := make([]mesh.Triangle, count)
	side := bounds.Extent()
	for index := range tris {
		center := bounds[0].Add(randVec(rng).MulVec(side))
		tris[index] = mesh.Triangle{
			V0: center.Add(randOffset(rng, maxSize)),
			V1: center.Add(randOffset(rng, maxSize)),
			V2: center.Add(randOffset(rng, maxSize)),
		}
	}
	return tris
}

// Generate a soup made of several clusters, one per supplied bounding box,
// each holding perCluster triangles.
func Clusters(rng *rand.Rand, perCluster int, maxSize float32, clusters ...types.BBox) []mesh.Triangle {
	tris := make([]mesh.Triangle, 0, perCluster*len(clusters))
	for _, bounds := range clusters {
		tris = append(tris, Soup(rng, perCluster, bounds, maxSize)...)
	}
	return tris
}

// Generate a triangulated grid of quads on the z=0 plane covering
// [0, cols] x [0, rows].
func Grid(cols, rows int) []mesh.Triangle {
	tris := make([]mesh.Triangle, 0, 2*cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			x0, y0 := float32(x), float32(y)
			x1, y1 := x0+1, y0+1
			tris = append(tris,
				mesh.Triangle{V0: types.Vec3{x0, y0, 0}, V1: types.Vec3{x1, y0, 0}, V2: types.Vec3{x1, y1, 0}},
				mesh.Triangle{V0: types.Vec3{x0, y0, 0}, V1: types.Vec3{x1, y1, 0}, V2: types.Vec3{x0, y1, 0}},
			)
		}
	}
	return tris
}

// Pick a random point inside bounds.
func Point(rng *rand.Rand, bounds types.BBox) types.Vec3 {
	return bounds[0].Add(randVec(rng).MulVec(bounds.Extent()))
}

// Pick a random unit direction.
func Direction(rng *rand.Rand) types.Vec3 {
	for {
		d := types.Vec3{
			2*rng.Float32() - 1,
			2*rng.Float32() - 1,
			2*rng.Float32() - 1,
		}
		if l := d.Len(); l > 1e-3 && l <= 1 {
			return d.Mul(1 / l)
		}
	}
}

func randVec(rng *rand.Rand) types.Vec3 {
	return types.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
}

func randOffset(rng *rand.Rand, maxSize float32) types.Vec3 {
	return types.Vec3{
		(2*rng.Float32() - 1) * maxSize,
		(2*rng.Float32() - 1) * maxSize,
		(2*rng.Float32() - 1) * maxSize,
	}
}
