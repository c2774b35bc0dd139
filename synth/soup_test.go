package synth

import (
	"math/rand"
	"testing"

	"github.com/achilleasa/meshbvh/types"
	"github.com/stretchr/testify/require"
)

func TestSoupIsReproducible(t *testing.T) {
	bounds := types.BBox{types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1}}
	a := Soup(rand.New(rand.NewSource(42)), 64, bounds, 0.1)
	b := Soup(rand.New(rand.NewSource(42)), 64, bounds, 0.1)
	require.Equal(t, a, b)

	c := Soup(rand.New(rand.NewSource(43)), 64, bounds, 0.1)
	require.NotEqual(t, a, c)
}

func TestSoupStaysNearBounds(t *testing.T) {
	bounds := types.BBox{types.Vec3{0, 0, 0}, types.Vec3{10, 5, 1}}
	grown := types.BBox{bounds[0].Sub(types.Vec3{0.5, 0.5, 0.5}), bounds[1].Add(types.Vec3{0.5, 0.5, 0.5})}

	for _, tri := range Soup(rand.New(rand.NewSource(1)), 256, bounds, 0.5) {
		require.True(t, grown.Contains(tri.BBox()), "triangle %v escapes %v", tri, grown)
	}
}

func TestGrid(t *testing.T) {
	tris := Grid(3, 2)
	require.Len(t, tris, 12)

	var area float32
	for _, tri := range tris {
		area += tri.Area()
	}
	require.InDelta(t, 6.0, area, 1e-5)
}

func TestDirectionIsUnitLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		require.InDelta(t, 1.0, Direction(rng).Len(), 1e-5)
	}
}
