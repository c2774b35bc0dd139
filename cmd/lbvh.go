package cmd

import (
	"time"

	"github.com/achilleasa/meshbvh/lbvh"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/metrics"
	"github.com/urfave/cli"
)

type linearOptions struct {
	Normalize bool
	Parallel  int
}

// Build a linear BVH over a mesh and display its statistics.
func BuildLinearTree(ctx *cli.Context) error {
	setupLogging(ctx)

	store, err := loadStore(meshSourceFromContext(ctx))
	if err != nil {
		return err
	}

	opts := linearOptions{
		Normalize: ctx.Bool("normalize"),
		Parallel:  ctx.Int("parallel"),
	}
	if !opts.Normalize {
		logger.Info("using raw centroids for morton codes; coordinates outside the unit cube will be clamped")
	}

	_, stats, err := buildLinearTree(store, opts)
	if err != nil {
		return err
	}
	logger.Noticef("hierarchy statistics\n%s", stats.Table())
	return nil
}

func buildLinearTree(store *mesh.Store, opts linearOptions) (*lbvh.Node, lbvh.Stats, error) {
	start := time.Now()
	pairs := lbvh.EncodeStore(store, opts.Normalize)
	lbvh.SortPairs(pairs)

	root, err := lbvh.BuildLinear(pairs, lbvh.WithParallelism(opts.Parallel))
	if err != nil {
		return nil, lbvh.Stats{}, err
	}
	elapsed := time.Since(start)

	stats := lbvh.Inspect(root)
	logger.Infof("encoded, sorted and linked %d primitives in %d ms", len(pairs), elapsed.Nanoseconds()/1e6)
	metrics.ObserveBuild("lbvh", elapsed, stats.Nodes, stats.Leaves, stats.MaxDepth)
	return root, stats, nil
}
