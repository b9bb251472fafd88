package loaders

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder

	"github.com/conor722/go-ray-tracer/pkg/core"
	"github.com/conor722/go-ray-tracer/pkg/log"
	"github.com/conor722/go-ray-tracer/pkg/material"
)

var logger = log.New("loaders")

// LoadTexture decodes an image file into a texture. The format is detected
// from the file header; PNG, JPEG, GIF, BMP and TIFF are registered.
func LoadTexture(filename string) (*material.Texture, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %q: %w", filename, err)
	}

	tex := NewTextureFromImage(img)
	logger.Debugf("decoded %s texture %q (%dx%d)", format, filename, tex.Width, tex.Height)
	return tex, nil
}

// NewTextureFromImage flattens a decoded image into a texture's pixel array.
// Alpha is dropped; the shading model has no transparency.
func NewTextureFromImage(img image.Image) *material.Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 channels in [0, 65535]
			pixels[y*width+x] = core.NewColor(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}

	return material.NewTexture(width, height, pixels)
}
