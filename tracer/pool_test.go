package tracer

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/achilleasa/meshbvh/bvh"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/synth"
	"github.com/achilleasa/meshbvh/types"
)

func buildTree(t *testing.T) *bvh.Tree {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	bounds := types.BBox{types.Vec3{-5, -5, -5}, types.Vec3{5, 5, 5}}
	store, err := mesh.NewStore(synth.Soup(rng, 800, bounds, 1.0))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := bvh.Build(store)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func randomRays(seed int64, count int, bounds types.BBox) []bvh.Ray {
	rng := rand.New(rand.NewSource(seed))
	rays := make([]bvh.Ray, count)
	for index := range rays {
		rays[index] = bvh.NewRay(synth.Point(rng, bounds), synth.Direction(rng))
	}
	return rays
}

func TestPoolMatchesSerialTraversal(t *testing.T) {
	tree := buildTree(t)
	pool, err := NewPool(tree, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	for batch, count := range []int{1, 3, 257, 1000} {
		rays := randomRays(int64(batch), count, tree.Bounds())
		results, stats, err := pool.Trace(rays)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != count || stats.Rays != count {
			t.Fatalf("[batch %d] expected %d results; got %d", batch, count, len(results))
		}

		expHits := 0
		for index, ray := range rays {
			hit, ok := tree.Intersect(ray)
			if ok {
				expHits++
			}
			if results[index].Ok != ok || results[index].Hit != hit {
				t.Fatalf("[batch %d, ray %d] expected %+v (%t); got %+v (%t)", batch, index, hit, ok, results[index].Hit, results[index].Ok)
			}
		}
		if stats.Hits != expHits {
			t.Fatalf("[batch %d] expected %d hits; got %d", batch, expHits, stats.Hits)
		}

		traced := 0
		for _, ws := range stats.Workers {
			traced += ws.BlockSize
		}
		if traced != count {
			t.Fatalf("[batch %d] expected workers to trace %d rays; got %d", batch, count, traced)
		}
	}
}

func TestPoolStatsTable(t *testing.T) {
	tree := buildTree(t)
	pool, err := NewPool(tree, 2, NewNaiveScheduler())
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	_, stats, err := pool.Trace(randomRays(9, 64, tree.Bounds()))
	if err != nil {
		t.Fatal(err)
	}
	if table := stats.Table(); !strings.Contains(table, "TOTAL") || !strings.Contains(table, "% of batch") {
		t.Fatalf("expected stats table with totals; got\n%s", table)
	}
}

func TestPoolErrors(t *testing.T) {
	if _, err := NewPool(nil, 1, nil); err != ErrNoTree {
		t.Fatalf("expected to get %v; got %v", ErrNoTree, err)
	}

	pool, err := NewPool(buildTree(t), 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pool.Workers()) == 0 {
		t.Fatal("expected one worker per cpu")
	}
	pool.Close()
	pool.Close()

	if _, _, err = pool.Trace(nil); err != ErrClosed {
		t.Fatalf("expected to get %v; got %v", ErrClosed, err)
	}
}
