package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/conor722/go-ray-tracer/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-ray-tracer"
	app.Usage = "render triangle meshes with an octree-accelerated ray tracer"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a png file",
			Description: `
Render a single frame of the scene and write it out as a png file.

The scene argument is either the name of a built-in scene (such as
"triangle") or the path to a mesh file in wavefront obj or ply format.
Material libraries and textures referenced by an obj file are resolved
relative to it; ply meshes are assigned a neutral material.`,
			ArgsUsage: "scene",
			Flags: append(renderFlags(),
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			),
			Action: cmd.RenderFrame,
		},
		{
			Name:        "view",
			Usage:       "render a scene and present it in a window",
			Description: `Render a single frame of the scene and show it in a desktop window. Escape closes the window.`,
			ArgsUsage:   "scene",
			Flags:       renderFlags(),
			Action:      cmd.ViewFrame,
		},
		{
			Name:      "info",
			Usage:     "print scene and octree statistics without rendering",
			ArgsUsage: "scene",
			Flags:     octreeFlags(),
			Action:    cmd.SceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func renderFlags() []cli.Flag {
	return append([]cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 800,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 800,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of render workers; defaults to the number of CPUs",
		},
		cli.Float64Flag{
			Name:  "fov",
			Usage: "vertical field of view in degrees",
		},
	}, octreeFlags()...)
}

func octreeFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "leaf-triangles",
			Usage: "octree subdivision threshold in triangles per leaf",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Usage: "octree depth limit",
		},
	}
}
