package scene

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/lights"
)

// ErrNoSuchScene is returned by Load for names that match neither a built-in
// scene nor a wavefront file.
var ErrNoSuchScene = errors.New("scene: no such scene")

// DefaultVFov is the vertical field of view, in degrees, of a 1x1 viewport
// one unit in front of the camera.
var DefaultVFov = 2 * math.Atan(0.5) * 180 / math.Pi

// CameraConfig describes camera placement. The camera looks along +z.
type CameraConfig struct {
	Position core.Vec3
	VFov     float64 // vertical field of view in degrees
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	merged := base
	if override.Position != (core.Vec3{}) {
		merged.Position = override.Position
	}
	if override.VFov != 0 {
		merged.VFov = override.VFov
	}
	return merged
}

// Scene contains all the elements needed for rendering: finalized geometry,
// the lights that illuminate it, camera placement, and the color of rays
// that hit nothing.
type Scene struct {
	Store      *geometry.Store
	Lights     []lights.Light
	Camera     CameraConfig
	Background core.Color
}

// DefaultCamera places the camera back along -z looking at the origin,
// where meshes loaded without their own rig end up.
func DefaultCamera() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 0, -60),
		VFov:     DefaultVFov,
	}
}

// DefaultLights is the standard rig for loaded meshes: soft ambient fill,
// a point light up and to the right, and a directional light from the left.
func DefaultLights() []lights.Light {
	return []lights.Light{
		lights.NewAmbient(0.4),
		lights.NewPoint(0.7, core.NewVec3(2, 2, 0)),
		lights.NewDirectional(0.5, core.NewVec3(-5, 0, 2)),
	}
}

// Load resolves a scene argument: either the name of a built-in scene or a
// path to a wavefront OBJ or PLY mesh.
func Load(name string, cameraOverrides ...CameraConfig) (*Scene, error) {
	ext := filepath.Ext(name)

	switch {
	case name == "triangle":
		return NewTriangleScene(cameraOverrides...), nil
	case strings.EqualFold(ext, ".obj"), strings.EqualFold(ext, ".ply"):
		return NewMeshScene(name, cameraOverrides...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoSuchScene, name)
	}
}

// TriangleCount returns the number of triangles in the scene
func (s *Scene) TriangleCount() int {
	if s.Store == nil {
		return 0
	}
	return len(s.Store.Triangles)
}
