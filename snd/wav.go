package snd

import (
	"bytes"
	"encoding/binary"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
)

// EncodeWAV wraps a raw PCM clip in a RIFF/WAVE header so it can be
// posted to a recognition service as audio/wav.
func EncodeWAV(c mic.Clip) []byte {
	blockAlign := c.Channels * 2
	byteRate := c.SampleRate * blockAlign

	var b bytes.Buffer
	b.Grow(44 + len(c.PCM))
	b.WriteString("RIFF")
	le32(&b, uint32(36+len(c.PCM)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	le32(&b, 16)
	le16(&b, 1) // PCM
	le16(&b, uint16(c.Channels))
	le32(&b, uint32(c.SampleRate))
	le32(&b, uint32(byteRate))
	le16(&b, uint16(blockAlign))
	le16(&b, 16) // bits per sample

	b.WriteString("data")
	le32(&b, uint32(len(c.PCM)))
	b.Write(c.PCM)
	return b.Bytes()
}

func le16(b *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.Write(tmp[:])
}

func le32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}
