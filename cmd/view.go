package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/conor722/go-ray-tracer/pkg/display"
	"github.com/conor722/go-ray-tracer/pkg/renderer"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// ViewFrame renders a still frame and presents it in a desktop window.
func ViewFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	sceneName := ctx.Args().First()
	sc, err := scene.Load(sceneName, cameraOverrides(ctx))
	if err != nil {
		return err
	}

	r := renderer.NewRenderer(sc, renderConfig(ctx))
	frame, stats, err := r.Render(context.Background())
	if err != nil {
		return err
	}
	displayRenderStats(stats)

	return display.Show(fmt.Sprintf("go-ray-tracer - %s", sceneName), frame)
}
