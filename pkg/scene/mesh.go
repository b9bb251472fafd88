package scene

import (
	"path/filepath"
	"strings"

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/geometry"
	"github.com/conor722/go-ray-tracer/pkg/loaders"
)

// NewMeshScene loads a mesh file, picking the loader by extension, and
// pairs it with the default camera and lighting rig.
func NewMeshScene(path string, cameraOverrides ...CameraConfig) (*Scene, error) {
	var store *geometry.Store
	var err error
	if strings.EqualFold(filepath.Ext(path), ".ply") {
		store, err = loaders.LoadPLY(path)
	} else {
		store, err = loaders.LoadOBJ(path)
	}
	if err != nil {
		return nil, err
	}

	cameraConfig := DefaultCamera()
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(cameraConfig, cameraOverrides[0])
	}

	return &Scene{
		Store:      store,
		Lights:     DefaultLights(),
		Camera:     cameraConfig,
		Background: core.White,
	}, nil
}
