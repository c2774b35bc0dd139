package lbvh

import (
	"testing"

	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
	"github.com/stretchr/testify/require"
)

func TestExpandBits(t *testing.T) {
	require.Equal(t, uint32(0), expandBits(0))
	require.Equal(t, uint32(1), expandBits(1))
	require.Equal(t, uint32(8), expandBits(2))
	require.Equal(t, uint32(0x09249249), expandBits(1023))
}

func TestMortonCode(t *testing.T) {
	specs := []struct {
		name string
		p    types.Vec3
		exp  uint32
	}{
		{"origin", types.Vec3{0, 0, 0}, 0},
		{"far corner", types.Vec3{1, 1, 1}, 0x3FFFFFFF},
		{"x half", types.Vec3{0.5, 0, 0}, 1 << 29},
		{"y half", types.Vec3{0, 0.5, 0}, 1 << 28},
		{"z half", types.Vec3{0, 0, 0.5}, 1 << 27},
		{"clamped", types.Vec3{2, -1, 5}, 0x2DB6DB6D},
	}

	for _, spec := range specs {
		t.Run(spec.name, func(t *testing.T) {
			require.Equal(t, spec.exp, MortonCode(spec.p))
		})
	}
}

func TestMortonCodeFitsIn30Bits(t *testing.T) {
	for _, p := range []types.Vec3{{1e9, 1e9, 1e9}, {-1e9, 3, 0.999}, {0.999, 0.999, 0.999}} {
		require.Zero(t, MortonCode(p)>>MortonBits, "point %v", p)
	}
}

func TestNormalizeToBounds(t *testing.T) {
	bounds := types.BBox{types.Vec3{-2, 0, 5}, types.Vec3{2, 4, 5}}

	got := NormalizeToBounds(types.Vec3{0, 4, 5}, bounds)
	require.Equal(t, types.Vec3{0.5, 1, 0}, got)
}

func TestEncodeStore(t *testing.T) {
	point := func(v float32) mesh.Triangle {
		p := types.Vec3{v, v, v}
		return mesh.Triangle{V0: p, V1: p, V2: p}
	}
	store, err := mesh.NewStore([]mesh.Triangle{point(-1), point(0.3)})
	require.NoError(t, err)

	raw := EncodeStore(store, false)
	require.Len(t, raw, 2)
	require.Equal(t, IDCodePair{TriangleID: 0, Code: 0}, raw[0])
	require.Equal(t, 1, raw[1].TriangleID)
	require.Equal(t, MortonCode(store.Centroid(1)), raw[1].Code)
	require.NotEqual(t, uint32(0x3FFFFFFF), raw[1].Code)

	normalized := EncodeStore(store, true)
	require.Equal(t, uint32(0), normalized[0].Code)
	require.Equal(t, uint32(0x3FFFFFFF), normalized[1].Code)
}
