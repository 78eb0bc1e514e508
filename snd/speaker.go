package snd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// speakerRate is the output context rate. Sources at other rates are
// resampled on the way in, since one process gets one oto context.
const speakerRate = 24000

// Speaker plays MP3 speech through the default output device.
type Speaker struct {
	otoCtx *oto.Context
	log    *log.Logger
}

func NewSpeaker(logger *log.Logger) (*Speaker, error) {
	if logger == nil {
		logger = log.Default()
	}
	opts := &oto.NewContextOptions{
		SampleRate:   speakerRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("open audio output: %w", err)
	}
	<-ready
	return &Speaker{otoCtx: otoCtx, log: logger}, nil
}

// Play decodes the MP3 and blocks until playback finishes.
func (s *Speaker) Play(mp3Bytes []byte) error {
	dec, err := mp3.NewDecoder(bytes.NewReader(mp3Bytes))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	if dec.SampleRate() != speakerRate {
		pcm = resampleStereo16(pcm, dec.SampleRate(), speakerRate)
	}

	p := s.otoCtx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	return p.Close()
}

// Close is a no-op: an oto context lives for the process.
func (s *Speaker) Close() error {
	return nil
}

// resampleStereo16 linearly resamples interleaved 16-bit stereo PCM.
// Decoded MP3 is always in that layout.
func resampleStereo16(pcm []byte, from, to int) []byte {
	const frameBytes = 4
	frames := len(pcm) / frameBytes
	if from == to || frames == 0 {
		return pcm
	}
	outFrames := int(int64(frames) * int64(to) / int64(from))
	out := make([]byte, outFrames*frameBytes)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * float64(from) / float64(to)
		i0 := int(pos)
		frac := pos - float64(i0)
		i1 := i0 + 1
		if i1 >= frames {
			i1 = frames - 1
		}
		for ch := 0; ch < 2; ch++ {
			s0 := int16(binary.LittleEndian.Uint16(pcm[i0*frameBytes+ch*2:]))
			s1 := int16(binary.LittleEndian.Uint16(pcm[i1*frameBytes+ch*2:]))
			v := float64(s0) + (float64(s1)-float64(s0))*frac
			binary.LittleEndian.PutUint16(out[i*frameBytes+ch*2:], uint16(int16(v)))
		}
	}
	return out
}
