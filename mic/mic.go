// Package mic captures speech from the default input device, one
// utterance at a time. An energy gate decides where an utterance
// starts and ends, the way push-to-talk would if the talking did the
// pushing.
package mic

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout reports that no speech started within the listen window.
// Callers treat it as silence, not as a failure.
var ErrTimeout = errors.New("mic: no speech before timeout")

// Clip is one utterance of raw audio: signed 16-bit little-endian
// samples, interleaved when Channels > 1.
type Clip struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Samples is the per-channel sample count.
func (c Clip) Samples() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.PCM) / 2 / c.Channels
}

func (c Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Samples()) * time.Second / time.Duration(c.SampleRate)
}

// Microphone hands out one utterance per call. Listen blocks no
// longer than its configured listen window, so callers polling a
// shutdown flag between calls stay responsive.
type Microphone interface {
	Listen(ctx context.Context) (Clip, error)
	Close() error
}

// Silent is a microphone that never hears anything. It stands in when
// no capture device can be opened so the call can still run.
type Silent struct {
	// Timeout paces the ErrTimeout returns. Defaults to 2s.
	Timeout time.Duration
}

func (s Silent) Listen(ctx context.Context) (Clip, error) {
	d := s.Timeout
	if d <= 0 {
		d = 2 * time.Second
	}
	select {
	case <-time.After(d):
		return Clip{}, ErrTimeout
	case <-ctx.Done():
		return Clip{}, ctx.Err()
	}
}

func (s Silent) Close() error {
	return nil
}
