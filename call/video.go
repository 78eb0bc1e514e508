package call

import (
	"context"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/cam"
	"github.com/ShikharGupta-75/Video-Call-translator/pic"
	"github.com/ShikharGupta-75/Video-Call-translator/wire"
)

// videoLoop is the drumbeat of the call. Each beat reads a frame,
// paints the latest captions onto it, shows it, ships it to the peer,
// surfaces whatever frame the peer sent, and handles key events. The
// quit key here is the one place a healthy call ends.
func (p *Pipeline) videoLoop(ctx context.Context) error {
	for p.on(ctx) {
		start := time.Now()

		frame, err := p.st.Camera.Read()
		if err != nil {
			p.st.Log.Error("frame capture failed", "error", err)
			time.Sleep(stageBackoff)
			continue
		}
		frame = pic.Resize(frame, p.cfg.Width, p.cfg.Height)

		if text, ok := p.caption.Get(); ok {
			pic.DrawString(frame, 10, 30, "Original: "+text, pic.Green)
		}
		if p.translating.Get() {
			if tr, ok := p.translated.Get(); ok {
				pic.DrawString(frame, 10, 70, "Translated: "+tr.Text, pic.Red)
			}
		}

		p.st.Display.ShowLocal(frame)
		if p.transport != nil {
			p.outbound.Push(wire.Video(pic.Marshal(frame)))
		}
		if remote, ok := p.remote.Get(); ok {
			p.st.Display.ShowRemote(remote)
		}

		for _, ev := range p.st.Display.Events() {
			switch ev {
			case cam.EventQuit:
				p.st.Log.Info("leaving call")
				p.running.Set(false)
			case cam.EventToggleTranslate:
				on := p.translating.Toggle()
				p.st.Log.Info("translation toggled", "enabled", on)
			}
		}

		if d := p.cfg.FramePace - time.Since(start); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}
