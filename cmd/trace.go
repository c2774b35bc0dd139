package cmd

import (
	"errors"
	"math/rand"
	"net/http"

	"github.com/achilleasa/meshbvh/bvh"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/metrics"
	"github.com/achilleasa/meshbvh/synth"
	"github.com/achilleasa/meshbvh/tracer"
	"github.com/achilleasa/meshbvh/types"
	"github.com/urfave/cli"
)

type traceOptions struct {
	Rays      int
	BatchSize int
	Workers   int
	Seed      int64
	Cull      bool
}

type traceSummary struct {
	Rays int
	Hits int

	// Stats for the last traced batch.
	LastBatch tracer.BatchStats
}

// Trace random rays against a mesh BVH.
func TraceRays(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := traceOptions{
		Rays:      ctx.Int("rays"),
		BatchSize: ctx.Int("batch"),
		Workers:   ctx.Int("workers"),
		Seed:      ctx.Int64("seed"),
		Cull:      ctx.Bool("cull"),
	}
	if opts.Rays <= 0 || opts.BatchSize <= 0 {
		return errors.New("the number of rays and the batch size must be positive")
	}

	if addr := ctx.String("metrics-addr"); addr != "" {
		srv := serveMetrics(addr)
		defer srv.Close()
	}

	store, err := loadStore(meshSourceFromContext(ctx))
	if err != nil {
		return err
	}
	tree, err := buildTree(store, buildOptions{LeafSize: bvh.DefaultLeafSize})
	if err != nil {
		return err
	}

	summary, err := traceRays(tree, opts)
	if err != nil {
		return err
	}

	logger.Noticef("last batch statistics\n%s", summary.LastBatch.Table())
	logger.Noticef("traced %d rays; %d hits (%.1f %%)", summary.Rays, summary.Hits, 100.0*float64(summary.Hits)/float64(summary.Rays))
	return nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("metrics server: %s", err.Error())
		}
	}()
	logger.Noticef("serving metrics on %s/metrics", addr)
	return srv
}

func traceRays(tree *bvh.Tree, opts traceOptions) (traceSummary, error) {
	var summary traceSummary

	pool, err := tracer.NewPool(tree, opts.Workers, tracer.NewPerfectScheduler())
	if err != nil {
		return summary, err
	}
	defer pool.Close()

	rng := rand.New(rand.NewSource(opts.Seed))
	for summary.Rays < opts.Rays {
		batchSize := opts.BatchSize
		if remaining := opts.Rays - summary.Rays; remaining < batchSize {
			batchSize = remaining
		}

		rays := generateRays(rng, tree.Store(), batchSize, opts.Cull)
		results, stats, err := pool.Trace(rays)
		if err != nil {
			return summary, err
		}
		for _, res := range results {
			metrics.CountRay(res.Ok)
		}

		summary.Rays += stats.Rays
		summary.Hits += stats.Hits
		summary.LastBatch = stats
		logger.Debugf("traced batch of %d rays in %s", stats.Rays, stats.TraceTime)
	}

	return summary, nil
}

// Generate rays whose origins lie in a box twice the size of the mesh
// bounds. Every other ray is aimed at the centroid of a random triangle;
// the rest get a random direction.
func generateRays(rng *rand.Rand, store *mesh.Store, count int, cull bool) []bvh.Ray {
	bounds := store.Bounds()
	halfExtent := bounds.Extent().Mul(0.5)
	outer := types.BBox{bounds[0].Sub(halfExtent), bounds[1].Add(halfExtent)}

	rays := make([]bvh.Ray, count)
	for index := range rays {
		origin := synth.Point(rng, outer)
		dir := synth.Direction(rng)
		if index%2 == 0 {
			if toTarget := store.Centroid(rng.Intn(store.Len())).Sub(origin); toTarget.Len() > 0 {
				dir = toTarget.Normalize()
			}
		}

		rays[index] = bvh.NewRay(origin, dir)
		rays[index].CullBackFaces = cull
	}
	return rays
}
