package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/log"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

var logger = log.New("renderer")

// State identifies a phase of the render lifecycle.
type State int32

const (
	StateIdle State = iota
	StateBuilding
	StateRendering
	StateComplete
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateRendering:
		return "rendering"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Config controls the render loop
type Config struct {
	Width       int
	Height      int
	Workers     int // 0 selects one worker per CPU
	RowsPerTask int // rows per work unit handed to a worker
	Octree      geometry.OctreeConfig
}

// DefaultConfig returns the standard 800x800 frame with one worker per CPU
func DefaultConfig() Config {
	return Config{
		Width:       800,
		Height:      800,
		RowsPerTask: 8,
	}
}

// rowBand is the unit of work handed to a worker: the pixel rows in
// [y0, y1). Bands never overlap, so workers write to disjoint slices of the
// shared framebuffer without locking.
type rowBand struct {
	y0, y1 int
}

// Renderer drives the pipeline for one frame: validate and index the scene
// geometry, then trace every pixel across a pool of workers.
type Renderer struct {
	scene  *scene.Scene
	config Config
	state  atomic.Int32
}

// NewRenderer creates a renderer for the scene, filling config zero values
// with defaults.
func NewRenderer(s *scene.Scene, config Config) *Renderer {
	defaults := DefaultConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.RowsPerTask <= 0 {
		config.RowsPerTask = defaults.RowsPerTask
	}

	return &Renderer{scene: s, config: config}
}

// State returns the current lifecycle phase. Safe to call from any goroutine
// while Render runs.
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// Render produces the frame. It validates the scene geometry and builds the
// octree first; if validation fails no pixel work starts and no image is
// returned. Cancelling the context abandons the frame between row bands and
// also returns no image: callers never see a partially traced buffer.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	stats := RenderStats{
		Width:   r.config.Width,
		Height:  r.config.Height,
		Workers: r.config.Workers,
	}

	r.state.Store(int32(StateBuilding))
	buildStart := time.Now()

	octree, err := geometry.NewOctree(r.scene.Store, r.config.Octree)
	if err != nil {
		r.state.Store(int32(StateIdle))
		return nil, stats, err
	}

	stats.BuildTime = time.Since(buildStart)
	stats.Triangles = len(r.scene.Store.Triangles)
	stats.Octree = octree.Stats()
	logger.Debugf("indexed %d triangles in %s", stats.Triangles, stats.BuildTime)

	r.state.Store(int32(StateRendering))
	renderStart := time.Now()
	logger.Debugf("rendering %dx%d with %d workers", r.config.Width, r.config.Height, r.config.Workers)

	camera := NewCamera(r.scene.Camera, r.config.Width, r.config.Height)
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))

	numBands := (r.config.Height + r.config.RowsPerTask - 1) / r.config.RowsPerTask
	tasks := make(chan rowBand, numBands)

	var wg sync.WaitGroup
	var primaryRays, primaryHits, shadowRays atomic.Int64

	for w := 0; w < r.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tracer := NewRaytracer(r.scene, octree, camera)
			for band := range tasks {
				if ctx.Err() != nil {
					continue // drain the queue without tracing
				}
				r.renderBand(tracer, img, band)
			}

			primaryRays.Add(tracer.primaryRays)
			primaryHits.Add(tracer.primaryHits)
			shadowRays.Add(tracer.shadowRays)
		}()
	}

	for y := 0; y < r.config.Height && ctx.Err() == nil; y += r.config.RowsPerTask {
		tasks <- rowBand{y0: y, y1: min(y+r.config.RowsPerTask, r.config.Height)}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.state.Store(int32(StateIdle))
		return nil, stats, err
	}

	stats.RenderTime = time.Since(renderStart)
	stats.PrimaryRays = primaryRays.Load()
	stats.PrimaryHits = primaryHits.Load()
	stats.ShadowRays = shadowRays.Load()

	r.state.Store(int32(StateComplete))
	return img, stats, nil
}

// renderBand traces every pixel in the band into the band's rows of the
// framebuffer.
func (r *Renderer) renderBand(tracer *Raytracer, img *image.RGBA, band rowBand) {
	for y := band.y0; y < band.y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*r.config.Width]
		for x := 0; x < r.config.Width; x++ {
			c := tracer.TracePixel(x, y)
			row[4*x+0] = c.R
			row[4*x+1] = c.G
			row[4*x+2] = c.B
			row[4*x+3] = 255
		}
	}
}
