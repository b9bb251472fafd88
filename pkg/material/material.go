package material

import "github.com/conor722/go-ray-tracer/pkg/core"

// Kind discriminates the material variants
type Kind int

const (
	// Flat materials shade with a single base color
	Flat Kind = iota
	// Textured materials sample their base color from a texture
	Textured
)

// Material describes how a surface is shaded. It is a tagged variant rather
// than an interface so the per-pixel shading path can switch on Kind without
// dynamic dispatch.
type Material struct {
	Kind     Kind
	Color    core.Color // base color, used by Flat
	Specular float64    // specular exponent; the highlight is skipped unless > 0
	Texture  *Texture   // pixel surface, used by Textured
}

// NewFlat creates a material with a constant base color
func NewFlat(color core.Color, specular float64) Material {
	return Material{Kind: Flat, Color: color, Specular: specular}
}

// NewTextured creates a material whose base color comes from a texture
func NewTextured(texture *Texture, specular float64) Material {
	return Material{Kind: Textured, Texture: texture, Specular: specular}
}

// BaseColor returns the surface color at the given texture coordinate.
// Flat materials ignore the coordinate.
func (m Material) BaseColor(uv core.Vec2) core.Color {
	switch m.Kind {
	case Textured:
		return m.Texture.Sample(uv.X, uv.Y)
	default:
		return m.Color
	}
}
