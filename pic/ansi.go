package pic

import (
	"fmt"
	"strings"
)

// ANSI renders the frame for a terminal using half-block characters
// and 24-bit color, downscaled to at most cols columns. Every output
// row covers two pixel rows: the upper pixel is the foreground of a
// "▀", the lower pixel the background.
func ANSI(f *Frame, cols int) string {
	if f == nil || f.Width == 0 || f.Height == 0 || cols <= 0 {
		return ""
	}
	w := cols
	if f.Width < w {
		w = f.Width
	}
	h := f.Height * w / f.Width
	if h < 2 {
		h = 2
	}
	if h%2 != 0 {
		h--
	}
	scaled := Resize(f, w, h)

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			tr, tg, tb := scaled.RGBAt(x, y)
			br, bg, bb := scaled.RGBAt(x, y+1)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
		}
		b.WriteString("\x1b[0m")
		if y+2 < h {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
