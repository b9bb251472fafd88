package renderer

import (
	"math"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/scene"
)

// Camera generates primary rays. It sits at its configured position looking
// along +z through a projection plane one unit away.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	width           int
	height          int
}

// NewCamera creates a camera for the given placement and output resolution.
// The horizontal extent of the projection plane scales with the aspect
// ratio, so non-square images sample a wider or narrower view instead of
// stretching it.
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	vfov := config.VFov
	if vfov == 0 {
		vfov = scene.DefaultVFov
	}

	theta := vfov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	aspectRatio := float64(width) / float64(height)
	viewportWidth := aspectRatio * viewportHeight
	focalLength := 1.0

	origin := config.Position
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Add(core.NewVec3(0, 0, focalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
		width:           width,
		height:          height,
	}
}

// GetRay generates the ray through the center of pixel (px, py). Pixel rows
// grow downward while world y grows upward, so rows are flipped. Distinct
// pixels always map to distinct rays.
func (c *Camera) GetRay(px, py int) core.Ray {
	s := (float64(px) + 0.5) / float64(c.width)
	t := (float64(c.height-1-py) + 0.5) / float64(c.height)

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
