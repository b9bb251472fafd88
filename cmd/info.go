package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// SceneInfo loads a scene, builds its octree and prints the statistics
// without rendering anything.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	sc, err := scene.Load(ctx.Args().First())
	if err != nil {
		return err
	}

	start := time.Now()
	octree, err := geometry.NewOctree(sc.Store, geometry.OctreeConfig{
		MaxTriangles: ctx.Int("leaf-triangles"),
		MaxDepth:     ctx.Int("max-depth"),
	})
	if err != nil {
		return err
	}
	buildTime := time.Since(start)

	stats := octree.Stats()
	bounds := octree.Bounds()

	duplication := 0.0
	if sc.TriangleCount() > 0 {
		duplication = float64(stats.TriangleRefs) / float64(sc.TriangleCount())
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.Append([]string{"Triangles", fmt.Sprintf("%d", sc.TriangleCount())})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(sc.Store.Positions))})
	table.Append([]string{"Normals", fmt.Sprintf("%d", len(sc.Store.Normals))})
	table.Append([]string{"Tex coords", fmt.Sprintf("%d", len(sc.Store.TexCoords))})
	table.Append([]string{"Materials", fmt.Sprintf("%d", len(sc.Store.Materials))})
	table.Append([]string{"Lights", fmt.Sprintf("%d", len(sc.Lights))})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%.2f, %.2f, %.2f)", bounds.Min.X, bounds.Min.Y, bounds.Min.Z)})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%.2f, %.2f, %.2f)", bounds.Max.X, bounds.Max.Y, bounds.Max.Z)})
	table.Append([]string{"Octree nodes", fmt.Sprintf("%d", stats.Nodes)})
	table.Append([]string{"Octree leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"Octree depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Triangle refs", fmt.Sprintf("%d (%.2fx)", stats.TriangleRefs, duplication)})
	table.Append([]string{"Build time", fmt.Sprintf("%s", buildTime)})

	table.Render()
	logger.Noticef("scene statistics\n%s", buf.String())
	return nil
}
