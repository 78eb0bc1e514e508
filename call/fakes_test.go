package call

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ShikharGupta-75/Video-Call-translator/cam"
	"github.com/ShikharGupta-75/Video-Call-translator/mic"
	"github.com/ShikharGupta-75/Video-Call-translator/mt"
	"github.com/ShikharGupta-75/Video-Call-translator/pic"
	"github.com/ShikharGupta-75/Video-Call-translator/tts"
)

// scriptMic plays back prepared clips, then times out politely like a
// real microphone that hears nothing.
type scriptMic struct {
	mu     sync.Mutex
	clips  []mic.Clip
	pace   time.Duration
	closed bool
}

func (m *scriptMic) Listen(ctx context.Context) (mic.Clip, error) {
	pace := m.pace
	if pace <= 0 {
		pace = 5 * time.Millisecond
	}
	select {
	case <-time.After(pace):
	case <-ctx.Done():
		return mic.Clip{}, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.clips) == 0 {
		return mic.Clip{}, mic.ErrTimeout
	}
	clip := m.clips[0]
	m.clips = m.clips[1:]
	return clip, nil
}

func (m *scriptMic) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *scriptMic) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func oneClip() []mic.Clip {
	return []mic.Clip{{PCM: make([]byte, 3200), SampleRate: 16000, Channels: 1}}
}

type fakeCam struct {
	mu     sync.Mutex
	fail   bool
	reads  int
	closed bool
}

func (c *fakeCam) Read() (*pic.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return nil, errors.New("no capture device")
	}
	c.reads++
	f := pic.New(32, 24, pic.RGB)
	f.SetRGB(0, 0, byte(c.reads), 0, 0)
	return f, nil
}

func (c *fakeCam) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeCam) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeDisplay struct {
	mu      sync.Mutex
	locals  int
	remotes int
	texts   []string
	events  []cam.Event
	closed  bool
}

func (d *fakeDisplay) ShowLocal(*pic.Frame) {
	d.mu.Lock()
	d.locals++
	d.mu.Unlock()
}

func (d *fakeDisplay) ShowRemote(*pic.Frame) {
	d.mu.Lock()
	d.remotes++
	d.mu.Unlock()
}

func (d *fakeDisplay) ShowText(s string) {
	d.mu.Lock()
	d.texts = append(d.texts, s)
	d.mu.Unlock()
}

func (d *fakeDisplay) Events() []cam.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	evs := d.events
	d.events = nil
	return evs
}

func (d *fakeDisplay) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDisplay) push(ev cam.Event) {
	d.mu.Lock()
	d.events = append(d.events, ev)
	d.mu.Unlock()
}

func (d *fakeDisplay) counts() (locals, remotes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.locals, d.remotes
}

func (d *fakeDisplay) lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.texts...)
}

func (d *fakeDisplay) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakePlayer struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePlayer) Play(mp3 []byte) error {
	p.mu.Lock()
	p.payloads = append(p.payloads, mp3)
	p.mu.Unlock()
	return nil
}

func (p *fakePlayer) Close() error {
	return nil
}

func (p *fakePlayer) played() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

// countingTranslator wraps another translator and counts the calls.
type countingTranslator struct {
	inner mt.Translator
	calls atomic.Int32
}

func (c *countingTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	c.calls.Add(1)
	return c.inner.Translate(ctx, text, source, target)
}

// countingSynth wraps another synthesizer and counts the calls.
type countingSynth struct {
	inner tts.Synthesizer
	calls atomic.Int32
}

func (c *countingSynth) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.Synthesize(ctx, text, language)
}
