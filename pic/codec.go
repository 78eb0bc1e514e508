package pic

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frames cross the wire in a fixed binary schema rather than a general
// object encoding, so a peer can never make the decoder instantiate
// anything but a pixel buffer:
//
//	bytes 0..3   magic "VCF1"
//	byte  4      pixel format
//	bytes 5..6   width, big-endian uint16
//	bytes 7..8   height, big-endian uint16
//	bytes 9..    pixel data, exactly width*height*bpp bytes
const (
	frameMagic = "VCF1"

	// codecHeaderSize is the fixed prefix before the pixel data.
	codecHeaderSize = 9

	// MaxFrameBytes bounds the pixel data a decoder will accept.
	// Headers promising more than this are treated as corruption.
	MaxFrameBytes = 32 << 20
)

// ErrSchema reports a payload that is not a valid encoded frame.
var ErrSchema = errors.New("pic: malformed frame payload")

// Marshal encodes the frame into the wire schema.
func Marshal(f *Frame) []byte {
	b := make([]byte, codecHeaderSize+len(f.Pix))
	copy(b, frameMagic)
	b[4] = byte(f.Format)
	binary.BigEndian.PutUint16(b[5:7], uint16(f.Width))
	binary.BigEndian.PutUint16(b[7:9], uint16(f.Height))
	copy(b[codecHeaderSize:], f.Pix)
	return b
}

// Unmarshal decodes a frame from the wire schema. The returned frame
// owns its pixels; b can be reused afterwards.
func Unmarshal(b []byte) (*Frame, error) {
	if len(b) < codecHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrSchema, len(b))
	}
	if string(b[:4]) != frameMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrSchema, b[:4])
	}
	format := Format(b[4])
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: unknown pixel format %d", ErrSchema, b[4])
	}
	w := int(binary.BigEndian.Uint16(b[5:7]))
	h := int(binary.BigEndian.Uint16(b[7:9]))
	want := w * h * bpp
	if want > MaxFrameBytes {
		return nil, fmt.Errorf("%w: %dx%d %s frame exceeds limit", ErrSchema, w, h, format)
	}
	if len(b)-codecHeaderSize != want {
		return nil, fmt.Errorf("%w: %dx%d %s frame wants %d pixel bytes, payload has %d",
			ErrSchema, w, h, format, want, len(b)-codecHeaderSize)
	}
	f := &Frame{Width: w, Height: h, Format: format, Pix: make([]byte, want)}
	copy(f.Pix, b[codecHeaderSize:])
	return f, nil
}
