package renderer

import (
	"time"

	"github.com/conor722/go-ray-tracer/pkg/geometry"
)

// RenderStats contains statistics about one completed render
type RenderStats struct {
	Width   int // Frame width in pixels
	Height  int // Frame height in pixels
	Workers int // Number of workers used

	Triangles int                  // Triangles in the scene
	Octree    geometry.OctreeStats // Spatial index shape

	BuildTime  time.Duration // Time spent validating and indexing geometry
	RenderTime time.Duration // Time spent tracing pixels

	PrimaryRays int64 // Camera rays traced
	PrimaryHits int64 // Camera rays that hit geometry
	ShadowRays  int64 // Occlusion rays traced
}

// HitRate returns the fraction of primary rays that hit geometry
func (rs RenderStats) HitRate() float64 {
	if rs.PrimaryRays == 0 {
		return 0
	}
	return float64(rs.PrimaryHits) / float64(rs.PrimaryRays)
}
