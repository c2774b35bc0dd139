package cmd

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/meshbvh/bvh"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

func TestLoadSyntheticStore(t *testing.T) {
	src := meshSource{Synthetic: 64, Seed: 3}
	store, err := loadStore(src)
	require.NoError(t, err)
	require.Equal(t, 64, store.Len())

	again, err := loadStore(src)
	require.NoError(t, err)
	require.Equal(t, store.Bounds(), again.Bounds())
}

func TestLoadStoreFromFile(t *testing.T) {
	meshFile := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(meshFile, []byte("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"), 0o644))

	store, err := loadStore(meshSource{Path: meshFile})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	_, err = loadStore(meshSource{})
	require.EqualError(t, err, "missing mesh file argument")
}

func TestBuildReport(t *testing.T) {
	store, err := loadStore(meshSource{Synthetic: 200, Seed: 1})
	require.NoError(t, err)

	tree, err := buildTree(store, buildOptions{LeafSize: 4, Parallel: 32})
	require.NoError(t, err)
	require.LessOrEqual(t, tree.Count(), 2*store.Len()-1)

	reportFile := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, writeReport(reportFile, buildReport{
		Mesh:     "synthetic",
		Bounds:   tree.Bounds(),
		LeafSize: 4,
		Stats:    tree.Stats(),
	}))

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)

	var report buildReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Equal(t, tree.Stats().Nodes, report.Stats.Nodes)
	require.Equal(t, tree.Stats().Leaves, report.Stats.Leaves)
	require.Equal(t, tree.Bounds(), report.Bounds)
}

func TestBuildLinearTree(t *testing.T) {
	store, err := loadStore(meshSource{Synthetic: 300, Seed: 5})
	require.NoError(t, err)

	for _, normalize := range []bool{false, true} {
		_, stats, err := buildLinearTree(store, linearOptions{Normalize: normalize, Parallel: 64})
		require.NoError(t, err)
		require.Equal(t, store.Len(), stats.Leaves)
		require.Equal(t, 2*store.Len()-1, stats.Nodes)
	}
}

func TestGenerateRays(t *testing.T) {
	store, err := loadStore(meshSource{Synthetic: 50, Seed: 2})
	require.NoError(t, err)

	rays := generateRays(rand.New(rand.NewSource(1)), store, 33, true)
	require.Len(t, rays, 33)
	for _, ray := range rays {
		require.True(t, ray.CullBackFaces)
		require.InDelta(t, 1.0, ray.Dir.Len(), 1e-4)
	}
}

func TestTraceRays(t *testing.T) {
	store, err := loadStore(meshSource{Synthetic: 500, Seed: 7})
	require.NoError(t, err)
	tree, err := bvh.Build(store)
	require.NoError(t, err)

	summary, err := traceRays(tree, traceOptions{Rays: 1000, BatchSize: 300, Workers: 3, Seed: 11})
	require.NoError(t, err)
	require.Equal(t, 1000, summary.Rays)
	require.Equal(t, 100, summary.LastBatch.Rays)
	require.Greater(t, summary.Hits, 0)
	require.LessOrEqual(t, summary.Hits, summary.Rays)
}
