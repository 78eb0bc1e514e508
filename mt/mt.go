// Package mt translates recognized text between the catalog
// languages.
package mt

import (
	"context"
	"fmt"
	"time"
)

// Translator renders text from the source language into the target
// language.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Stub marks text instead of translating it, for demos and tests.
type Stub struct {
	Delay time.Duration
}

func (s Stub) Translate(ctx context.Context, text, source, target string) (string, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return fmt.Sprintf("[%s] %s", target, text), nil
}
