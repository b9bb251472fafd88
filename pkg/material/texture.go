package material

import (
	"math"

	"github.com/conor722/go-ray-tracer/pkg/core"
)

// Texture is a 2D pixel surface sampled by texture coordinate
type Texture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewTexture creates a new texture from row-major pixel data
func NewTexture(width, height int, pixels []core.Color) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Sample returns the texel at texture coordinate (u, v) using
// nearest-neighbor filtering. Coordinates outside [0,1) wrap:
// the texel column is floor(u*Width) mod Width (shifted into range when
// negative) and likewise for rows. V grows upward in texture space while
// pixel rows are stored top-down, so the row index is flipped.
func (t *Texture) Sample(u, v float64) core.Color {
	x := int(math.Floor(u*float64(t.Width))) % t.Width
	if x < 0 {
		x += t.Width
	}

	y := int(math.Floor(v*float64(t.Height))) % t.Height
	if y < 0 {
		y += t.Height
	}

	return t.Pixels[(t.Height-1-y)*t.Width+x]
}
