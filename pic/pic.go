// Package pic is the frame model for the translator: a plain pixel
// buffer with the operations the call pipeline needs. Frames implement
// the standard image interfaces so text overlays can be rasterized
// with golang.org/x/image directly into the buffer.
package pic

import (
	"fmt"
	"image"
	"image/color"
)

// Format identifies the pixel layout of a frame.
type Format byte

const (
	// Gray is one byte per pixel.
	Gray Format = 1
	// RGB is three bytes per pixel, in r, g, b order.
	RGB Format = 2
)

func (f Format) BytesPerPixel() int {
	switch f {
	case Gray:
		return 1
	case RGB:
		return 3
	}
	return 0
}

func (f Format) String() string {
	switch f {
	case Gray:
		return "gray"
	case RGB:
		return "rgb"
	}
	return fmt.Sprintf("format(%d)", byte(f))
}

// Frame is a single video frame. Pix holds Width*Height pixels in
// row-major order, packed according to Format.
type Frame struct {
	Width  int
	Height int
	Format Format
	Pix    []byte
}

// New allocates a zeroed frame.
func New(w, h int, f Format) *Frame {
	return &Frame{
		Width:  w,
		Height: h,
		Format: f,
		Pix:    make([]byte, w*h*f.BytesPerPixel()),
	}
}

func (f *Frame) Clone() *Frame {
	c := &Frame{Width: f.Width, Height: f.Height, Format: f.Format}
	c.Pix = make([]byte, len(f.Pix))
	copy(c.Pix, f.Pix)
	return c
}

func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * f.Format.BytesPerPixel()
}

// SetRGB writes one pixel. Out-of-bounds writes are dropped.
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.offset(x, y)
	switch f.Format {
	case Gray:
		f.Pix[i] = luma(r, g, b)
	case RGB:
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
}

// RGBAt reads one pixel. Out-of-bounds reads return black.
func (f *Frame) RGBAt(x, y int) (r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0, 0, 0
	}
	i := f.offset(x, y)
	switch f.Format {
	case Gray:
		v := f.Pix[i]
		return v, v, v
	case RGB:
		return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
	}
	return 0, 0, 0
}

func luma(r, g, b uint8) uint8 {
	// Rec. 601 weights in integer form.
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	if f.Format == Gray {
		return color.GrayModel
	}
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	r, g, b := f.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	f.SetRGB(x, y, uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Resize scales the frame to w by h with nearest-neighbour sampling.
// It returns the source unchanged when the size already matches.
func Resize(src *Frame, w, h int) *Frame {
	if src.Width == w && src.Height == h {
		return src
	}
	dst := New(w, h, src.Format)
	bpp := src.Format.BytesPerPixel()
	for y := 0; y < h; y++ {
		sy := y * src.Height / h
		for x := 0; x < w; x++ {
			sx := x * src.Width / w
			si := src.offset(sx, sy)
			di := dst.offset(x, y)
			copy(dst.Pix[di:di+bpp], src.Pix[si:si+bpp])
		}
	}
	return dst
}
