package cmd

import (
	"os"

	"github.com/achilleasa/meshbvh/bvh"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/metrics"
	"github.com/achilleasa/meshbvh/types"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli"
)

type buildOptions struct {
	LeafSize int
	Parallel int
}

func (opts buildOptions) builderOptions() []bvh.Option {
	return []bvh.Option{
		bvh.WithLeafSize(opts.LeafSize),
		bvh.WithParallelism(opts.Parallel),
	}
}

// The contents of a build report file.
type buildReport struct {
	Mesh     string     `json:"mesh"`
	Bounds   types.BBox `json:"bounds"`
	LeafSize int        `json:"leaf_size"`
	Parallel int        `json:"parallel"`
	Stats    bvh.Stats  `json:"stats"`
}

// Build a top-down BVH over a mesh and display its statistics.
func BuildTree(ctx *cli.Context) error {
	setupLogging(ctx)

	src := meshSourceFromContext(ctx)
	store, err := loadStore(src)
	if err != nil {
		return err
	}

	opts := buildOptions{
		LeafSize: ctx.Int("leaf-size"),
		Parallel: ctx.Int("parallel"),
	}
	tree, err := buildTree(store, opts)
	if err != nil {
		return err
	}
	logger.Noticef("tree statistics\n%s", tree.Stats().Table())

	if reportFile := ctx.String("report"); reportFile != "" {
		report := buildReport{
			Mesh:     src.String(),
			Bounds:   tree.Bounds(),
			LeafSize: opts.LeafSize,
			Parallel: opts.Parallel,
			Stats:    tree.Stats(),
		}
		if err = writeReport(reportFile, report); err != nil {
			return err
		}
		logger.Noticef("wrote build report to %s", reportFile)
	}

	return nil
}

func buildTree(store *mesh.Store, opts buildOptions) (*bvh.Tree, error) {
	tree, err := bvh.Build(store, opts.builderOptions()...)
	if err != nil {
		return nil, err
	}

	stats := tree.Stats()
	metrics.ObserveBuild("topdown", stats.BuildTime, stats.Nodes, stats.Leaves, stats.MaxDepth)
	return tree, nil
}

func writeReport(filename string, report interface{}) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}
