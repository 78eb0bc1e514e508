// Package stt turns captured utterances into text.
package stt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
)

// ErrNoSpeech reports a clip the service could not find words in.
// Callers treat it like silence.
var ErrNoSpeech = errors.New("stt: no speech recognized")

// Recognizer transcribes one clip in the given language.
type Recognizer interface {
	Recognize(ctx context.Context, clip mic.Clip, language string) (string, error)
}

// Stub fabricates transcripts without a speech service, for demos and
// tests. With no Lines it produces numbered placeholders.
type Stub struct {
	Lines []string
	Delay time.Duration

	mu sync.Mutex
	n  int
}

func (s *Stub) Recognize(ctx context.Context, clip mic.Clip, language string) (string, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	if len(s.Lines) == 0 {
		return fmt.Sprintf("utterance %d in %s (%v)", s.n, language, clip.Duration()), nil
	}
	return s.Lines[(s.n-1)%len(s.Lines)], nil
}
