package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/renderer"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// RenderFrame renders a still frame and writes it out as a PNG file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	sc, err := scene.Load(ctx.Args().First(), cameraOverrides(ctx))
	if err != nil {
		return err
	}

	r := renderer.NewRenderer(sc, renderConfig(ctx))
	frame, stats, err := r.Render(context.Background())
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	start := time.Now()
	if err = png.Encode(f, frame); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1e6)

	displayRenderStats(stats)
	return nil
}

// renderConfig collects the render flags shared by the render and view
// commands.
func renderConfig(ctx *cli.Context) renderer.Config {
	return renderer.Config{
		Width:   ctx.Int("width"),
		Height:  ctx.Int("height"),
		Workers: ctx.Int("workers"),
		Octree: geometry.OctreeConfig{
			MaxTriangles: ctx.Int("leaf-triangles"),
			MaxDepth:     ctx.Int("max-depth"),
		},
	}
}

// cameraOverrides maps the camera flags onto a camera config override.
func cameraOverrides(ctx *cli.Context) scene.CameraConfig {
	return scene.CameraConfig{
		VFov: ctx.Float64("fov"),
	}
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Workers", "Triangles", "Build time", "Render time", "Rays", "Hit rate"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.Width, stats.Height),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%s", stats.BuildTime),
		fmt.Sprintf("%s", stats.RenderTime),
		fmt.Sprintf("%d", stats.PrimaryRays+stats.ShadowRays),
		fmt.Sprintf("%02.1f %%", stats.HitRate()*100),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
