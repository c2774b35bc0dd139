package mesh

import (
	"testing"

	"github.com/achilleasa/meshbvh/types"
	"github.com/stretchr/testify/require"
)

func TestEmptyStore(t *testing.T) {
	s, err := NewStore(nil)
	require.ErrorIs(t, err, ErrNoPrimitives)
	require.Nil(t, s)
}

func TestCentroidAndBBox(t *testing.T) {
	tris := []Triangle{
		{types.Vec3{0, 0, 0}, types.Vec3{3, 0, 0}, types.Vec3{0, 3, 0}},
		{types.Vec3{-1, 2, 5}, types.Vec3{1, -2, 5}, types.Vec3{0, 0, 8}},
	}
	s, err := NewStore(tris)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	require.Equal(t, types.Vec3{1, 1, 0}, s.Centroid(0))
	require.Equal(t, types.BBox{types.Vec3{0, 0, 0}, types.Vec3{3, 3, 0}}, s.BBox(0))
	require.Equal(t, types.BBox{types.Vec3{-1, -2, 5}, types.Vec3{1, 2, 8}}, s.BBox(1))

	require.Equal(t, types.BBox{types.Vec3{-1, -2, 0}, types.Vec3{3, 3, 8}}, s.Bounds())
	require.Equal(t, types.BBox{types.Vec3{0, 0, 0}, types.Vec3{1, 1, 6}}, s.CentroidBounds())
}

func TestStoreCopiesInput(t *testing.T) {
	tris := []Triangle{{types.Vec3{0, 0, 0}, types.Vec3{1, 0, 0}, types.Vec3{0, 1, 0}}}
	s, err := NewStore(tris)
	require.NoError(t, err)

	tris[0].V1 = types.Vec3{100, 0, 0}
	require.Equal(t, types.Vec3{1, 0, 0}, s.Triangle(0).V1)
	require.Equal(t, types.Vec3{1, 1, 0}, s.BBox(0)[1])
}

func TestDegenerateTriangle(t *testing.T) {
	// All three vertices on a line: the bbox collapses to a segment.
	tri := Triangle{types.Vec3{0, 0, 0}, types.Vec3{1, 1, 1}, types.Vec3{2, 2, 2}}
	s, err := NewStore([]Triangle{tri})
	require.NoError(t, err)

	require.Equal(t, float32(0), tri.Area())
	require.Equal(t, types.BBox{types.Vec3{0, 0, 0}, types.Vec3{2, 2, 2}}, s.Bounds())
}
