package call

import (
	"context"
	"errors"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
)

// captureLoop pulls utterances off the microphone and queues them for
// recognition. The microphone's own listen window bounds each call,
// so the loop recrosses the running check every couple of seconds at
// worst.
func (p *Pipeline) captureLoop(ctx context.Context) error {
	for p.on(ctx) {
		clip, err := p.st.Mic.Listen(ctx)
		switch {
		case errors.Is(err, mic.ErrTimeout):
			// Nobody spoke; listen again.
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			// The loop condition handles it.
		case err != nil:
			p.st.Log.Error("audio capture failed", "error", err)
			time.Sleep(stageBackoff)
		default:
			p.st.Log.Debug("captured utterance", "duration", clip.Duration())
			p.clips.Push(clip)
		}
	}
	return nil
}
