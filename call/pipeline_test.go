package call

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ShikharGupta-75/Video-Call-translator/cam"
	"github.com/ShikharGupta-75/Video-Call-translator/lang"
	"github.com/ShikharGupta-75/Video-Call-translator/mt"
	"github.com/ShikharGupta-75/Video-Call-translator/stt"
	"github.com/ShikharGupta-75/Video-Call-translator/tts"
	"github.com/ShikharGupta-75/Video-Call-translator/wire"
)

func testConfig(mode Mode) Config {
	en, _ := lang.ByCode("en")
	hi, _ := lang.ByCode("hi")
	cfg := Config{
		Mode:      mode,
		Source:    en,
		Target:    hi,
		Width:     32,
		Height:    24,
		FramePace: 5 * time.Millisecond,
		Poll:      2 * time.Millisecond,
		IOTimeout: 20 * time.Millisecond,
	}
	if mode == ModeHost {
		cfg.ListenAddr = "127.0.0.1:0"
	}
	return cfg
}

type harness struct {
	mic     *scriptMic
	cam     *fakeCam
	display *fakeDisplay
	player  *fakePlayer
}

func (h *harness) stack(lines ...string) Stack {
	return Stack{
		Mic:         h.mic,
		Recognizer:  &stt.Stub{Lines: lines},
		Translator:  &mt.Stub{},
		Synthesizer: &tts.Stub{},
		Player:      h.player,
		Camera:      h.cam,
		Display:     h.display,
		Log:         log.New(io.Discard),
	}
}

func newHarness(clipCount int) *harness {
	h := &harness{
		mic:     &scriptMic{},
		cam:     &fakeCam{},
		display: &fakeDisplay{},
		player:  &fakePlayer{},
	}
	for i := 0; i < clipCount; i++ {
		h.mic.clips = append(h.mic.clips, oneClip()...)
	}
	return h
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func runPipeline(t *testing.T, p *Pipeline) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("pipeline did not stop")
		return nil
	}
}

func TestDemoCallEndToEnd(t *testing.T) {
	h := newHarness(1)
	p, err := New(testConfig(ModeDemo), h.stack("hello there"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Session() != nil {
		t.Error("demo call should have no session")
	}
	if p.transport != nil {
		t.Error("demo call should have no transport")
	}

	done := runPipeline(t, p)

	waitFor(t, "spoken translation", func() bool {
		return len(h.player.played()) >= 1
	})
	waitFor(t, "local frames", func() bool {
		locals, _ := h.display.counts()
		return locals >= 2
	})

	want := "tts:hi:[hi] hello there"
	if got := h.player.played()[0]; !bytes.Equal(got, []byte(want)) {
		t.Errorf("played %q, want %q", got, want)
	}
	if caption, ok := p.caption.Get(); !ok || caption != "hello there" {
		t.Errorf("caption = %q, %v; want %q", caption, ok, "hello there")
	}
	if tr, ok := p.translated.Get(); !ok || tr.Text != "[hi] hello there" {
		t.Errorf("translation = %+v, %v", tr, ok)
	}

	h.display.push(cam.EventQuit)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Run returned %v", err)
	}

	if !h.cam.isClosed() {
		t.Error("camera not released")
	}
	if !h.mic.isClosed() {
		t.Error("microphone not released")
	}
	if !h.display.isClosed() {
		t.Error("display not closed")
	}
}

func TestQuitEventStopsCallQuickly(t *testing.T) {
	h := newHarness(0)
	p, err := New(testConfig(ModeDemo), h.stack())
	if err != nil {
		t.Fatal(err)
	}
	done := runPipeline(t, p)

	waitFor(t, "first frame", func() bool {
		locals, _ := h.display.counts()
		return locals >= 1
	})

	start := time.Now()
	h.display.push(cam.EventQuit)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Run returned %v", err)
	}
	if took := time.Since(start); took > 2*time.Second {
		t.Errorf("shutdown took %v", took)
	}
	if p.running.Get() {
		t.Error("running flag still set after Run")
	}
}

func TestToggleOffSkipsTranslation(t *testing.T) {
	h := newHarness(1)
	st := h.stack("quiet please")
	translator := &countingTranslator{inner: &mt.Stub{}}
	synth := &countingSynth{inner: &tts.Stub{}}
	st.Translator = translator
	st.Synthesizer = synth

	p, err := New(testConfig(ModeDemo), st)
	if err != nil {
		t.Fatal(err)
	}
	p.translating.Set(false)

	done := runPipeline(t, p)

	// The recognized line must still land in the caption and the text
	// queue must still drain even though nothing downstream runs.
	waitFor(t, "caption", func() bool {
		caption, ok := p.caption.Get()
		return ok && caption == "quiet please"
	})
	waitFor(t, "text queue drain", func() bool {
		return p.texts.Len() == 0
	})
	time.Sleep(50 * time.Millisecond)

	if n := translator.calls.Load(); n != 0 {
		t.Errorf("translator called %d times with translation off", n)
	}
	if n := synth.calls.Load(); n != 0 {
		t.Errorf("synthesizer called %d times with translation off", n)
	}
	if got := h.player.played(); len(got) != 0 {
		t.Errorf("player got %d payloads with translation off", len(got))
	}

	h.display.push(cam.EventToggleTranslate)
	waitFor(t, "toggle to land", func() bool { return p.Translating() })

	h.display.push(cam.EventQuit)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestHostClientCall(t *testing.T) {
	hostSide := newHarness(1)
	host, err := New(testConfig(ModeHost), hostSide.stack("hello from host"))
	if err != nil {
		t.Fatal(err)
	}
	addr := host.Addr()
	if addr == nil {
		t.Fatal("host has no listen address")
	}

	clientSide := newHarness(0)
	clientCfg := testConfig(ModeJoin)
	clientCfg.PeerAddr = addr.String()
	client, err := New(clientCfg, clientSide.stack())
	if err != nil {
		t.Fatal(err)
	}

	hostDone := runPipeline(t, host)
	clientDone := runPipeline(t, client)

	waitFor(t, "text on client display", func() bool {
		for _, line := range clientSide.display.lines() {
			if strings.Contains(line, "hello from host") {
				return true
			}
		}
		return false
	})
	waitFor(t, "remote video on both sides", func() bool {
		_, hostRemotes := hostSide.display.counts()
		_, clientRemotes := clientSide.display.counts()
		return hostRemotes >= 1 && clientRemotes >= 1
	})

	hostSide.display.push(cam.EventQuit)
	clientSide.display.push(cam.EventQuit)
	if err := waitDone(t, hostDone); err != nil {
		t.Errorf("host Run returned %v", err)
	}
	if err := waitDone(t, clientDone); err != nil {
		t.Errorf("client Run returned %v", err)
	}

	if state := host.Session().State(); state != wire.StateClosed {
		t.Errorf("host session state = %v, want %v", state, wire.StateClosed)
	}
	if state := client.Session().State(); state != wire.StateClosed {
		t.Errorf("client session state = %v, want %v", state, wire.StateClosed)
	}
}

func TestCallOutlivesPeer(t *testing.T) {
	hostSide := newHarness(0)
	host, err := New(testConfig(ModeHost), hostSide.stack())
	if err != nil {
		t.Fatal(err)
	}

	clientSide := newHarness(0)
	clientCfg := testConfig(ModeJoin)
	clientCfg.PeerAddr = host.Addr().String()
	client, err := New(clientCfg, clientSide.stack())
	if err != nil {
		t.Fatal(err)
	}

	hostDone := runPipeline(t, host)
	clientDone := runPipeline(t, client)

	waitFor(t, "call up", func() bool {
		return host.Session().State() == wire.StateConnected &&
			client.Session().State() == wire.StateConnected
	})

	clientSide.display.push(cam.EventQuit)
	if err := waitDone(t, clientDone); err != nil {
		t.Errorf("client Run returned %v", err)
	}

	// The host keeps rendering locally after the peer is gone.
	locals, _ := hostSide.display.counts()
	waitFor(t, "host still rendering", func() bool {
		now, _ := hostSide.display.counts()
		return now > locals
	})
	select {
	case err := <-hostDone:
		t.Fatalf("host stopped with peer: %v", err)
	default:
	}

	hostSide.display.push(cam.EventQuit)
	if err := waitDone(t, hostDone); err != nil {
		t.Errorf("host Run returned %v", err)
	}
}

func TestNewRejectsDeadCamera(t *testing.T) {
	h := newHarness(0)
	h.cam.fail = true
	_, err := New(testConfig(ModeDemo), h.stack())
	if err == nil {
		t.Fatal("expected camera error")
	}
	if !strings.Contains(err.Error(), "open camera") {
		t.Errorf("error = %v", err)
	}
}

func TestNewRejectsIncompleteStack(t *testing.T) {
	h := newHarness(0)
	cases := []struct {
		name  string
		strip func(*Stack)
	}{
		{"microphone", func(s *Stack) { s.Mic = nil }},
		{"recognizer", func(s *Stack) { s.Recognizer = nil }},
		{"translator", func(s *Stack) { s.Translator = nil }},
		{"synthesizer", func(s *Stack) { s.Synthesizer = nil }},
		{"player", func(s *Stack) { s.Player = nil }},
		{"camera", func(s *Stack) { s.Camera = nil }},
		{"display", func(s *Stack) { s.Display = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := h.stack()
			tc.strip(&st)
			if _, err := New(testConfig(ModeDemo), st); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestHostPortInUseFailsFast(t *testing.T) {
	h := newHarness(0)
	cfg := testConfig(ModeHost)
	first, err := New(cfg, h.stack())
	if err != nil {
		t.Fatal(err)
	}
	defer first.transport.Close()

	cfg.ListenAddr = first.Addr().String()
	other := newHarness(0)
	if _, err := New(cfg, other.stack()); err == nil {
		t.Fatal("expected bind failure on a busy port")
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{
		ModeDemo: "demo",
		ModeHost: "host",
		ModeJoin: "join",
		Mode(42): "unknown",
	} {
		if got := mode.String(); got != want {
			t.Errorf("Mode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}
