package lights

import (
	"math"
	"testing"

	"github.com/conor722/go-ray-tracer/pkg/core"
)

const tolerance = 1e-9

func TestLight_Incidence(t *testing.T) {
	tests := []struct {
		name         string
		light        Light
		point        core.Vec3
		expectedDir  core.Vec3
		expectedDist float64
	}{
		{
			name:         "Point light straight above",
			light:        NewPoint(0.7, core.Vec3{Y: 5}),
			point:        core.Vec3{Y: 2},
			expectedDir:  core.Vec3{Y: 1},
			expectedDist: 3,
		},
		{
			name:         "Point light along a diagonal",
			light:        NewPoint(0.7, core.Vec3{X: 3, Y: 4}),
			point:        core.Vec3{},
			expectedDir:  core.Vec3{X: 0.6, Y: 0.8},
			expectedDist: 5,
		},
		{
			name:         "Directional light normalizes its direction",
			light:        NewDirectional(0.5, core.Vec3{X: 0, Y: 0, Z: 4}),
			point:        core.Vec3{X: 100, Y: -3, Z: 7},
			expectedDir:  core.Vec3{Z: 1},
			expectedDist: math.Inf(1),
		},
		{
			name:         "Ambient light has no direction",
			light:        NewAmbient(0.4),
			point:        core.Vec3{X: 1, Y: 2, Z: 3},
			expectedDir:  core.Vec3{},
			expectedDist: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, dist := tt.light.Incidence(tt.point)

			if dir.Subtract(tt.expectedDir).Length() > tolerance {
				t.Errorf("Expected direction %v, got %v", tt.expectedDir, dir)
			}
			if math.IsInf(tt.expectedDist, 1) {
				if !math.IsInf(dist, 1) {
					t.Errorf("Expected infinite distance, got %v", dist)
				}
			} else if math.Abs(dist-tt.expectedDist) > tolerance {
				t.Errorf("Expected distance %v, got %v", tt.expectedDist, dist)
			}
		})
	}
}

func TestLight_Constructors(t *testing.T) {
	ambient := NewAmbient(0.4)
	if ambient.Kind != Ambient || ambient.Intensity != 0.4 {
		t.Errorf("Expected ambient light with intensity 0.4, got %+v", ambient)
	}

	point := NewPoint(0.7, core.Vec3{X: 2, Y: 2})
	if point.Kind != Point || point.Intensity != 0.7 {
		t.Errorf("Expected point light with intensity 0.7, got %+v", point)
	}
	if point.Position != (core.Vec3{X: 2, Y: 2}) {
		t.Errorf("Expected position (2,2,0), got %v", point.Position)
	}

	directional := NewDirectional(0.5, core.Vec3{X: -5, Z: 2})
	if directional.Kind != Directional || directional.Intensity != 0.5 {
		t.Errorf("Expected directional light with intensity 0.5, got %+v", directional)
	}
	if directional.Direction != (core.Vec3{X: -5, Z: 2}) {
		t.Errorf("Expected direction (-5,0,2), got %v", directional.Direction)
	}
}
