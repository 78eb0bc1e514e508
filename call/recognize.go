package call

import (
	"context"
	"errors"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/stt"
	"github.com/ShikharGupta-75/Video-Call-translator/wire"
)

// recognizeLoop drains the clip queue through the recognizer. Every
// recognized line feeds three places: the caption cell for the local
// overlay, the text queue for translation, and the outbound queue for
// the peer when one is connected.
func (p *Pipeline) recognizeLoop(ctx context.Context) error {
	for p.on(ctx) {
		clip, ok := p.clips.Pop()
		if !ok {
			time.Sleep(p.cfg.Poll)
			continue
		}

		text, err := p.st.Recognizer.Recognize(ctx, clip, p.cfg.Source.Code)
		switch {
		case errors.Is(err, stt.ErrNoSpeech):
			// A clip with no words in it; not worth a log line.
			continue
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			continue
		case err != nil:
			p.st.Log.Error("speech recognition failed", "error", err)
			continue
		}

		p.st.Log.Info("recognized", "text", text)
		p.caption.Set(text)
		p.texts.Push(text)
		if p.transport != nil {
			p.outbound.Push(wire.Text(text))
		}
	}
	return nil
}
