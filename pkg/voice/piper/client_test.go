package piper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSynthesizeRequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/text-to-speech" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "hello there" {
			t.Errorf("Expected text query, got %q", got)
		}
		if got := r.URL.Query().Get("voice"); got != "en_US-amy-low" {
			t.Errorf("Expected configured voice, got %q", got)
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("RIFFdata"))
	}))
	defer srv.Close()

	p := New(srv.URL)
	p.Voice = "en_US-amy-low"

	audio, err := p.Synthesize(context.Background(), "hello there", "")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "RIFFdata" {
		t.Errorf("Unexpected clip: %q", audio)
	}
}

func TestSynthesizeVoiceOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("voice"); got != "override-voice" {
			t.Errorf("Per-call voice should win, got %q", got)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := New(srv.URL)
	p.Voice = "configured-voice"

	if _, err := p.Synthesize(context.Background(), "hi", "override-voice"); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	p := New("http://localhost:59999")
	if _, err := p.Synthesize(context.Background(), "", ""); err == nil {
		t.Error("Expected an error for empty text")
	}
}

func TestSynthesizeSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := New(srv.URL)
	if _, err := p.Synthesize(context.Background(), "hi", ""); err == nil {
		t.Error("Expected an error for a non-200 response")
	}
}
