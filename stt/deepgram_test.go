package stt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ShikharGupta-75/Video-Call-translator/mic"
)

func testClip() mic.Clip {
	return mic.Clip{PCM: make([]byte, 3200), SampleRate: 16000, Channels: 1}
}

func TestDeepgramRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Token secret" {
			t.Errorf("unexpected authorization %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/wav" {
			t.Errorf("unexpected content type %q", got)
		}
		q := r.URL.Query()
		if q.Get("model") != "nova-2" || q.Get("language") != "hi" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"namaste","confidence":0.98}]}]}}`))
	}))
	defer srv.Close()

	d := NewDeepgram("secret")
	d.BaseURL = srv.URL

	text, err := d.Recognize(context.Background(), testClip(), "hi")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if text != "namaste" {
		t.Errorf("expected namaste, got %q", text)
	}
}

func TestDeepgramEmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{"channels":[{"alternatives":[{"transcript":"","confidence":0}]}]}}`))
	}))
	defer srv.Close()

	d := NewDeepgram("secret")
	d.BaseURL = srv.URL

	_, err := d.Recognize(context.Background(), testClip(), "en")
	if !errors.Is(err, ErrNoSpeech) {
		t.Errorf("expected ErrNoSpeech, got %v", err)
	}
}

func TestDeepgramUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err_msg":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	d := NewDeepgram("wrong")
	d.BaseURL = srv.URL

	_, err := d.Recognize(context.Background(), testClip(), "en")
	if err == nil {
		t.Fatal("expected an error for status 401")
	}
	if errors.Is(err, ErrNoSpeech) {
		t.Error("a service failure must not read as silence")
	}
}

func TestStubCyclesLines(t *testing.T) {
	s := &Stub{Lines: []string{"one", "two"}}
	ctx := context.Background()
	for i, want := range []string{"one", "two", "one"} {
		got, err := s.Recognize(ctx, testClip(), "en")
		if err != nil {
			t.Fatalf("recognize %d: %v", i, err)
		}
		if got != want {
			t.Errorf("call %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestStubWithoutLines(t *testing.T) {
	s := &Stub{}
	got, err := s.Recognize(context.Background(), testClip(), "en")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if got == "" {
		t.Error("expected a placeholder transcript")
	}
}
