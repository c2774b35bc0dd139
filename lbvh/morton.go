package lbvh

import (
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

const (
	// Each coordinate is quantized to 10 bits.
	mortonResolution = 1024

	// Number of significant bits in a Morton code.
	MortonBits = 30
)

// Spread the lower 10 bits of v so that two zero bits follow each bit.
func expandBits(v uint32) uint32 {
	v = (v * 0x00010001) & 0xFF0000FF
	v = (v * 0x00000101) & 0x0F00F00F
	v = (v * 0x00000011) & 0xC30C30C3
	v = (v * 0x00000005) & 0x49249249
	return v
}

// Quantize a coordinate to [0, 1023]. Values outside [0, 1] are clamped.
func quantize(c float32) uint32 {
	c *= mortonResolution
	if !(c > 0) {
		return 0
	}
	if c > mortonResolution-1 {
		return mortonResolution - 1
	}
	return uint32(c)
}

// Calculate the 30-bit Morton code of a point inside the unit cube. The x
// bits occupy the most significant position of each 3-bit group, followed
// by y and z. Points outside the unit cube are clamped to its faces, so
// callers holding mesh-space coordinates should map them with
// NormalizeToBounds first.
func MortonCode(p types.Vec3) uint32 {
	xx := expandBits(quantize(p[0]))
	yy := expandBits(quantize(p[1]))
	zz := expandBits(quantize(p[2]))
	return xx*4 + yy*2 + zz
}

// Map p to the unit cube spanned by bounds. Flat axes map to 0.
func NormalizeToBounds(p types.Vec3, bounds types.BBox) types.Vec3 {
	side := bounds.Extent()
	var out types.Vec3
	for axis := 0; axis < 3; axis++ {
		if side[axis] > 0 {
			out[axis] = (p[axis] - bounds[0][axis]) / side[axis]
		}
	}
	return out
}

// Calculate an id/code pair for every primitive centroid in the store. If
// normalize is true centroids are first mapped to the unit cube spanned by
// the store centroid bounds; otherwise raw centroids are quantized and
// anything outside [0, 1] is clamped.
func EncodeStore(store *mesh.Store, normalize bool) []IDCodePair {
	pairs := make([]IDCodePair, store.Len())
	bounds := store.CentroidBounds()
	for index := range pairs {
		centroid := store.Centroid(index)
		if normalize {
			centroid = NormalizeToBounds(centroid, bounds)
		}
		pairs[index] = IDCodePair{
			TriangleID: index,
			Code:       MortonCode(centroid),
		}
	}
	return pairs
}
