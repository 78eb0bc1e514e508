package cam

import (
	"errors"

	"github.com/ShikharGupta-75/Video-Call-translator/pic"
)

// TestPattern is a synthetic camera: a color wash that drifts over
// time with a bright sweep bar, so motion is visible end to end
// without any capture hardware.
type TestPattern struct {
	width  int
	height int
	tick   int
	closed bool
}

func NewTestPattern(w, h int) *TestPattern {
	return &TestPattern{width: w, height: h}
}

func (c *TestPattern) Read() (*pic.Frame, error) {
	if c.closed {
		return nil, errors.New("cam: camera closed")
	}
	f := pic.New(c.width, c.height, pic.RGB)
	phase := uint8(c.tick * 2)
	bar := c.tick % c.width
	for y := 0; y < c.height; y++ {
		g := uint8(y * 255 / c.height)
		for x := 0; x < c.width; x++ {
			r := uint8(x * 255 / c.width)
			f.SetRGB(x, y, r, g, phase)
		}
	}
	for y := 0; y < c.height; y++ {
		for dx := 0; dx < 4; dx++ {
			f.SetRGB((bar+dx)%c.width, y, 255, 255, 255)
		}
	}
	c.tick++
	return f, nil
}

func (c *TestPattern) Close() error {
	c.closed = true
	return nil
}
