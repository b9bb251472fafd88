package core

// Color represents an RGB color with 8-bit channels
type Color struct {
	R, G, B uint8
}

// Common colors
var (
	White = Color{255, 255, 255}
	Black = Color{0, 0, 0}
)

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Shade returns the color scaled by a lighting intensity,
// with each channel clamped to [0, 255]
func (c Color) Shade(intensity float64) Color {
	return Color{
		R: clampChannel(float64(c.R) * intensity),
		G: clampChannel(float64(c.G) * intensity),
		B: clampChannel(float64(c.B) * intensity),
	}
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
