package display

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/conor722/go-ray-tracer/pkg/log"
)

var logger = log.New("display")

// viewer presents one already-rendered frame. The frame never changes, so
// Draw blits the same uploaded image every tick.
type viewer struct {
	frame *ebiten.Image
	size  image.Point
}

func (v *viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.DrawImage(v.frame, nil)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.size.X, v.size.Y
}

// Show opens a desktop window sized to the frame and blocks until it is
// closed or Escape is pressed.
func Show(title string, img *image.RGBA) error {
	bounds := img.Bounds()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(bounds.Dx(), bounds.Dy())

	logger.Debugf("presenting %dx%d frame", bounds.Dx(), bounds.Dy())
	return ebiten.RunGame(&viewer{
		frame: ebiten.NewImageFromImage(img),
		size:  bounds.Size(),
	})
}
