// Package tts turns translated text back into speech.
package tts

import (
	"context"
	"time"
)

// Synthesizer renders text in the given language as MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// Stub produces a tiny placeholder payload instead of audio, for
// demos and tests. Pair it with a player that does not decode.
type Stub struct {
	Delay time.Duration
}

func (s Stub) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []byte("tts:" + language + ":" + text), nil
}
