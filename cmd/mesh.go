package cmd

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/achilleasa/meshbvh/asset/reader"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/synth"
	"github.com/achilleasa/meshbvh/types"
	"github.com/urfave/cli"
)

// Synthetic soups are generated inside this box.
var syntheticBounds = types.BBox{types.Vec3{-100, -100, -100}, types.Vec3{100, 100, 100}}

const syntheticTriangleSize = 2.0

// Describes where the triangles of a command come from.
type meshSource struct {
	// Path or URL of a mesh file.
	Path string

	// If > 0 a synthetic soup with this many triangles is generated instead.
	Synthetic int
	Seed      int64
}

func meshSourceFromContext(ctx *cli.Context) meshSource {
	return meshSource{
		Path:      ctx.Args().First(),
		Synthetic: ctx.GlobalInt("synthetic"),
		Seed:      ctx.GlobalInt64("seed"),
	}
}

func (src meshSource) String() string {
	if src.Synthetic > 0 {
		return fmt.Sprintf("synthetic soup (%d triangles, seed %d)", src.Synthetic, src.Seed)
	}
	return src.Path
}

// Load the triangles described by src into a primitive store.
func loadStore(src meshSource) (*mesh.Store, error) {
	var (
		tris []mesh.Triangle
		err  error
	)

	switch {
	case src.Synthetic > 0:
		rng := rand.New(rand.NewSource(src.Seed))
		tris = synth.Soup(rng, src.Synthetic, syntheticBounds, syntheticTriangleSize)
	case src.Path != "":
		tris, err = reader.ReadMesh(src.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("missing mesh file argument")
	}

	store, err := mesh.NewStore(tris)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %d triangles from %s", store.Len(), src)
	return store, nil
}
