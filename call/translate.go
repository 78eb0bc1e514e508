package call

import (
	"context"
	"time"
)

// translateLoop consumes recognized lines, translates them, and
// speaks the result. Lines that arrive while translation is toggled
// off are consumed and dropped, so stale text never plays when the
// toggle comes back.
func (p *Pipeline) translateLoop(ctx context.Context) error {
	for p.on(ctx) {
		text, ok := p.texts.Pop()
		if !ok {
			time.Sleep(p.cfg.Poll)
			continue
		}
		if !p.translating.Get() {
			continue
		}

		out, err := p.st.Translator.Translate(ctx, text, p.cfg.Source.Code, p.cfg.Target.Code)
		if err != nil {
			if ctx.Err() == nil {
				p.st.Log.Error("translation failed", "error", err)
			}
			continue
		}
		p.st.Log.Info("translated", "text", out)
		p.translated.Set(Translation{Source: text, Text: out})

		speech, err := p.st.Synthesizer.Synthesize(ctx, out, p.cfg.Target.Code)
		if err != nil {
			if ctx.Err() == nil {
				p.st.Log.Error("speech synthesis failed", "error", err)
			}
			continue
		}
		if err := p.st.Player.Play(speech); err != nil {
			p.st.Log.Error("audio playback failed", "error", err)
		}
	}
	return nil
}
