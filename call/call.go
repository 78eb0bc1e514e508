// Package call runs a translated video call: four pipeline stages and
// an optional network transport around a small set of queues, cells
// and flags. Stages poll a shared running flag and every blocking
// call they make is timeout-bounded, so clearing that flag winds the
// whole call down within a poll interval.
package call

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ShikharGupta-75/Video-Call-translator/cam"
	"github.com/ShikharGupta-75/Video-Call-translator/flow"
	"github.com/ShikharGupta-75/Video-Call-translator/lang"
	"github.com/ShikharGupta-75/Video-Call-translator/mic"
	"github.com/ShikharGupta-75/Video-Call-translator/mt"
	"github.com/ShikharGupta-75/Video-Call-translator/pic"
	"github.com/ShikharGupta-75/Video-Call-translator/snd"
	"github.com/ShikharGupta-75/Video-Call-translator/stt"
	"github.com/ShikharGupta-75/Video-Call-translator/tts"
	"github.com/ShikharGupta-75/Video-Call-translator/wire"
)

// Mode is how this process takes part in a call.
type Mode int

const (
	// ModeDemo runs everything locally with no network at all.
	ModeDemo Mode = iota
	// ModeHost waits for a peer to connect.
	ModeHost
	// ModeJoin connects to a waiting host.
	ModeJoin
)

func (m Mode) String() string {
	switch m {
	case ModeDemo:
		return "demo"
	case ModeHost:
		return "host"
	case ModeJoin:
		return "join"
	}
	return "unknown"
}

// stageBackoff paces retries after a recoverable stage failure so a
// broken device cannot spin a core.
const stageBackoff = 100 * time.Millisecond

// Config is everything a call needs decided up front.
type Config struct {
	Mode   Mode
	Source lang.Language
	Target lang.Language

	// ListenAddr is where the host binds, e.g. ":5000".
	ListenAddr string
	// PeerAddr is where a joining side dials, e.g. "localhost:5000".
	PeerAddr string

	// Width and Height set the frame geometry on the wire. Camera
	// output is scaled to fit. Defaults to 640x480.
	Width  int
	Height int

	// FramePace is the video loop cadence. Defaults to 33ms.
	FramePace time.Duration
	// Poll is how often idle stages recheck their queues. Defaults to
	// 10ms.
	Poll time.Duration
	// IOTimeout bounds each socket operation. Defaults to 100ms.
	IOTimeout time.Duration
}

func (c *Config) defaults() {
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.FramePace <= 0 {
		c.FramePace = 33 * time.Millisecond
	}
	if c.Poll <= 0 {
		c.Poll = 10 * time.Millisecond
	}
	if c.IOTimeout <= 0 {
		c.IOTimeout = 100 * time.Millisecond
	}
}

// Stack bundles the call's collaborators. Every field is required.
type Stack struct {
	Mic         mic.Microphone
	Recognizer  stt.Recognizer
	Translator  mt.Translator
	Synthesizer tts.Synthesizer
	Player      snd.Player
	Camera      cam.Camera
	Display     cam.Display
	Log         *log.Logger
}

func (s Stack) validate() error {
	switch {
	case s.Mic == nil:
		return errors.New("call: stack needs a microphone")
	case s.Recognizer == nil:
		return errors.New("call: stack needs a recognizer")
	case s.Translator == nil:
		return errors.New("call: stack needs a translator")
	case s.Synthesizer == nil:
		return errors.New("call: stack needs a synthesizer")
	case s.Player == nil:
		return errors.New("call: stack needs a player")
	case s.Camera == nil:
		return errors.New("call: stack needs a camera")
	case s.Display == nil:
		return errors.New("call: stack needs a display")
	}
	return nil
}

// Translation pairs a translated line with the recognized line it
// came from.
type Translation struct {
	Source string
	Text   string
}

// Pipeline is one call. Build it with New, run it once with Run.
type Pipeline struct {
	cfg Config
	st  Stack

	running     *flow.Flag
	translating *flow.Flag

	clips    *flow.Queue[mic.Clip]
	texts    *flow.Queue[string]
	outbound *flow.Queue[wire.Message]

	caption    *flow.Cell[string]
	translated *flow.Cell[Translation]
	remote     *flow.Cell[*pic.Frame]

	transport *wire.Transport
}

// New wires a pipeline and fails fast on anything the call cannot
// start without: a missing collaborator, a dead camera, or a port
// that will not bind.
func New(cfg Config, st Stack) (*Pipeline, error) {
	cfg.defaults()
	if st.Log == nil {
		st.Log = log.Default()
	}
	if err := st.validate(); err != nil {
		return nil, err
	}
	if _, err := st.Camera.Read(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}

	p := &Pipeline{
		cfg:         cfg,
		st:          st,
		running:     flow.NewFlag(false),
		translating: flow.NewFlag(true),
		clips:       flow.NewQueue[mic.Clip](),
		texts:       flow.NewQueue[string](),
		outbound:    flow.NewQueue[wire.Message](),
		caption:     flow.NewCell[string](),
		translated:  flow.NewCell[Translation](),
		remote:      flow.NewCell[*pic.Frame](),
	}

	if cfg.Mode != ModeDemo {
		wcfg := wire.Config{
			IOTimeout: cfg.IOTimeout,
			Poll:      cfg.Poll,
			Outbound:  p.outbound,
			Remote:    p.remote,
			Running:   p.running,
			OnText:    st.Display.ShowText,
			Log:       st.Log,
		}
		if cfg.Mode == ModeHost {
			wcfg.Role = wire.RoleHost
			wcfg.ListenAddr = cfg.ListenAddr
		} else {
			wcfg.Role = wire.RoleClient
			wcfg.PeerAddr = cfg.PeerAddr
		}
		transport, err := wire.New(wcfg)
		if err != nil {
			return nil, err
		}
		p.transport = transport
	}
	return p, nil
}

// Session is the network session, or nil for a local demo.
func (p *Pipeline) Session() *wire.Session {
	if p.transport == nil {
		return nil
	}
	return p.transport.Session()
}

// Addr is the bound listen address for a host, or nil.
func (p *Pipeline) Addr() net.Addr {
	if p.transport == nil {
		return nil
	}
	return p.transport.Addr()
}

// Translating reports whether translation is currently enabled.
func (p *Pipeline) Translating() bool {
	return p.translating.Get()
}

// Run owns the call from first connection to released devices. For
// networked modes it first waits for the peer, then raises the
// running flag and lets the stages loose. It returns once every
// stage has wound down and the devices are released.
func (p *Pipeline) Run(ctx context.Context) error {
	p.running.Set(true)
	defer p.teardown()

	if p.transport != nil {
		if err := p.transport.Connect(ctx); err != nil {
			if errors.Is(err, wire.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("establish call: %w", err)
		}
	}

	p.st.Log.Info("call started",
		"mode", p.cfg.Mode,
		"source", p.cfg.Source.Code,
		"target", p.cfg.Target.Code)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.captureLoop(ctx) })
	g.Go(func() error { return p.recognizeLoop(ctx) })
	g.Go(func() error { return p.translateLoop(ctx) })
	g.Go(func() error { return p.videoLoop(ctx) })
	if p.transport != nil {
		g.Go(func() error {
			// A dead transport ends the connection, not the call.
			if err := p.transport.Run(ctx); err != nil {
				p.st.Log.Error("transport failed, continuing locally", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	p.st.Log.Info("call ended")
	return err
}

// on is the liveness check every stage loop polls.
func (p *Pipeline) on(ctx context.Context) bool {
	return p.running.Get() && ctx.Err() == nil
}

// teardown releases the devices in a fixed order: camera, audio,
// network, display. Every release runs even if an earlier one fails.
func (p *Pipeline) teardown() {
	p.running.Set(false)
	if err := p.st.Camera.Close(); err != nil {
		p.st.Log.Error("release camera", "error", err)
	}
	if err := p.st.Mic.Close(); err != nil {
		p.st.Log.Error("release microphone", "error", err)
	}
	if err := p.st.Player.Close(); err != nil {
		p.st.Log.Error("release audio output", "error", err)
	}
	if p.transport != nil {
		p.transport.Close()
	}
	if err := p.st.Display.Close(); err != nil {
		p.st.Log.Error("close display", "error", err)
	}
}
