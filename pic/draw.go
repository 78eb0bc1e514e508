package pic

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Caption colors, matching the overlay convention of green for the
// recognized line and red for the translated line.
var (
	Green = color.RGBA{G: 0xff, A: 0xff}
	Red   = color.RGBA{R: 0xff, A: 0xff}
)

// DrawString rasterizes s into the frame with the fixed 7x13 face.
// x, y is the text baseline, so a y smaller than the face height puts
// the text partly above the frame, same as any baseline-anchored
// drawing.
func DrawString(f *Frame, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  f,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
