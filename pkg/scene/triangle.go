package scene

import (
	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/lights"
	"github.com/conor722/go-ray-tracer/pkg/material"
)

// NewTriangleScene creates the built-in demo scene: a single red triangle
// wound so its face normal points back toward the camera.
func NewTriangleScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Position: core.NewVec3(0, 0, -2.5),
		VFov:     DefaultVFov,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	store := &geometry.Store{
		Positions: []core.Vec3{
			core.NewVec3(-1, -1, 0),
			core.NewVec3(0, 1, 0),
			core.NewVec3(1, -1, 0),
		},
		Triangles: []geometry.Triangle{
			geometry.NewTriangle(0, 1, 2, 0),
		},
		Materials: []material.Material{
			material.NewFlat(core.NewColor(220, 50, 40), 64),
		},
	}

	return &Scene{
		Store: store,
		Lights: []lights.Light{
			lights.NewAmbient(0.4),
			lights.NewPoint(0.7, core.NewVec3(0, 2, -3)),
		},
		Camera:     cameraConfig,
		Background: core.White,
	}
}
