package snd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
)

func TestEncodeWAV(t *testing.T) {
	pcm := make([]byte, 320)
	for i := range pcm {
		pcm[i] = byte(i)
	}
	clip := mic.Clip{PCM: pcm, SampleRate: 16000, Channels: 1}
	b := EncodeWAV(clip)

	if len(b) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(b))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size: expected %d, got %d", 36+len(pcm), got)
	}
	if got := binary.LittleEndian.Uint16(b[20:22]); got != 1 {
		t.Errorf("audio format: expected PCM (1), got %d", got)
	}
	if got := binary.LittleEndian.Uint16(b[22:24]); got != 1 {
		t.Errorf("channels: expected 1, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != 16000 {
		t.Errorf("sample rate: expected 16000, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[28:32]); got != 32000 {
		t.Errorf("byte rate: expected 32000, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(b[32:34]); got != 2 {
		t.Errorf("block align: expected 2, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(b[34:36]); got != 16 {
		t.Errorf("bits per sample: expected 16, got %d", got)
	}
	if string(b[36:40]) != "data" {
		t.Error("missing data marker")
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size: expected %d, got %d", len(pcm), got)
	}
	if !bytes.Equal(b[44:], pcm) {
		t.Error("pcm payload corrupted")
	}
}

func TestEncodeWAVStereo(t *testing.T) {
	clip := mic.Clip{PCM: make([]byte, 64), SampleRate: 44100, Channels: 2}
	b := EncodeWAV(clip)
	if got := binary.LittleEndian.Uint16(b[22:24]); got != 2 {
		t.Errorf("channels: expected 2, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[28:32]); got != 44100*4 {
		t.Errorf("byte rate: expected %d, got %d", 44100*4, got)
	}
	if got := binary.LittleEndian.Uint16(b[32:34]); got != 4 {
		t.Errorf("block align: expected 4, got %d", got)
	}
}

func TestResampleHalvesFrames(t *testing.T) {
	// 8 stereo frames of a ramp.
	in := make([]byte, 8*4)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint16(in[i*4:], uint16(int16(i*100)))
		binary.LittleEndian.PutUint16(in[i*4+2:], uint16(int16(i*100)))
	}
	out := resampleStereo16(in, 48000, 24000)
	if len(out) != 4*4 {
		t.Fatalf("expected 4 frames, got %d bytes", len(out))
	}
	// First output frame must be the first input frame.
	if got := int16(binary.LittleEndian.Uint16(out[0:])); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
	// Second output frame sits at source position 2.
	if got := int16(binary.LittleEndian.Uint16(out[4:])); got != 200 {
		t.Errorf("expected 200, got %d", got)
	}
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out := resampleStereo16(in, 24000, 24000)
	if !bytes.Equal(in, out) {
		t.Error("expected identical bytes at equal rates")
	}
}
