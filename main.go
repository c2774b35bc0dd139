package main

import (
	"os"

	"github.com/achilleasa/meshbvh/cmd"
	"github.com/achilleasa/meshbvh/log"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "meshbvh"
	app.Usage = "build and query bounding volume hierarchies over triangle meshes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.IntFlag{
			Name:  "synthetic",
			Usage: "use a synthetic triangle soup with this many triangles instead of a mesh file",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed for the synthetic triangle soup",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a top-down BVH over a mesh",
			Description: `
Load a wavefront obj mesh (or a zip archive of obj files) and build a BVH by
recursively splitting each node at the spatial median of its longest axis.

Tree statistics are displayed once the build completes and can optionally be
written to a JSON report.`,
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "leaf-size",
					Value: 2,
					Usage: "max number of primitives in a leaf",
				},
				cli.IntFlag{
					Name:  "parallel",
					Usage: "build subtrees with at least this many primitives in parallel; 0 disables parallel builds",
				},
				cli.StringFlag{
					Name:  "report",
					Usage: "write build statistics to this JSON file",
				},
			},
			Action: cmd.BuildTree,
		},
		{
			Name:  "lbvh",
			Usage: "build a linear BVH over a mesh using morton codes",
			Description: `
Encode triangle centroids as 30-bit morton codes, sort them and link the
sorted primitives into a binary hierarchy by splitting ranges at their
highest differing code bit.`,
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "normalize",
					Usage: "map centroids to the unit cube before encoding",
				},
				cli.IntFlag{
					Name:  "parallel",
					Usage: "link ranges with at least this many primitives in parallel; 0 disables parallel builds",
				},
			},
			Action: cmd.BuildLinearTree,
		},
		{
			Name:      "trace",
			Usage:     "trace random rays against a mesh BVH",
			ArgsUsage: "mesh.obj",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of rays to trace",
				},
				cli.IntFlag{
					Name:  "batch",
					Value: 10000,
					Usage: "number of rays per batch",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of tracing workers; defaults to the number of CPUs",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for ray generation",
				},
				cli.BoolFlag{
					Name:  "cull",
					Usage: "ignore hits against back-facing triangles",
				},
				cli.StringFlag{
					Name:  "metrics-addr",
					Usage: "serve prometheus metrics on this address while tracing",
				},
			},
			Action: cmd.TraceRays,
		},
		{
			Name:      "info",
			Usage:     "display statistics for both hierarchy types",
			ArgsUsage: "[mesh.obj]",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "leaf-size",
					Value: 2,
					Usage: "max number of primitives in a top-down tree leaf",
				},
			},
			Action: cmd.ShowInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("meshbvh").Error(err)
		os.Exit(1)
	}
}
