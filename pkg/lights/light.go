package lights

import (
	"math"

	"github.com/conor722/go-ray-tracer/pkg/core"
)

// Kind discriminates the light variants
type Kind int

const (
	// Ambient light contributes a constant intensity everywhere
	Ambient Kind = iota
	// Point light radiates from a position and is blocked by geometry
	Point
	// Directional light arrives from a fixed direction, as if infinitely far away
	Directional
)

// Light is a tagged variant over the three light kinds. Position is used by
// Point lights; Direction is used by Directional lights and points from
// surfaces toward the light.
type Light struct {
	Kind      Kind
	Intensity float64
	Position  core.Vec3
	Direction core.Vec3
}

// NewAmbient creates an ambient light
func NewAmbient(intensity float64) Light {
	return Light{Kind: Ambient, Intensity: intensity}
}

// NewPoint creates a point light at the given position
func NewPoint(intensity float64, position core.Vec3) Light {
	return Light{Kind: Point, Intensity: intensity, Position: position}
}

// NewDirectional creates a directional light. The direction points toward
// the light, not along its travel.
func NewDirectional(intensity float64, direction core.Vec3) Light {
	return Light{Kind: Directional, Intensity: intensity, Direction: direction}
}

// Incidence returns the unit direction from the point toward the light and
// the distance beyond which an occluder no longer shadows the point.
// It is meaningless for Ambient lights, which reach everywhere.
func (l Light) Incidence(point core.Vec3) (core.Vec3, float64) {
	switch l.Kind {
	case Point:
		toLight := l.Position.Subtract(point)
		return toLight.Normalize(), toLight.Length()
	case Directional:
		return l.Direction.Normalize(), math.Inf(1)
	default:
		return core.Vec3{}, 0
	}
}
