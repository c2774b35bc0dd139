package cmd

import (
	"github.com/urfave/cli"
)

const defaultInfoTriangles = 10000

// Build both hierarchy types over a mesh and display their statistics. When
// no mesh is given a synthetic soup is used.
func ShowInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	src := meshSourceFromContext(ctx)
	if src.Path == "" && src.Synthetic <= 0 {
		src.Synthetic = defaultInfoTriangles
	}

	store, err := loadStore(src)
	if err != nil {
		return err
	}
	logger.Noticef("mesh: %s; bounds: %v", src, store.Bounds())

	tree, err := buildTree(store, buildOptions{LeafSize: ctx.Int("leaf-size")})
	if err != nil {
		return err
	}
	logger.Noticef("top-down tree statistics\n%s", tree.Stats().Table())

	_, stats, err := buildLinearTree(store, linearOptions{Normalize: true})
	if err != nil {
		return err
	}
	logger.Noticef("linear hierarchy statistics\n%s", stats.Table())
	return nil
}
