package input

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
	"github.com/Sweta1G/chat-widget/pkg/voice/audioring"
)

type fakeTranscriber struct {
	mu         sync.Mutex
	transcript string
	err        error
	gotBytes   int
	gotLang    languages.Code
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, wav []byte, lang languages.Code) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotBytes = len(wav)
	f.gotLang = lang
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return f.transcript, f.err
}

type fakeCanceller struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeCanceller) Cancel() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeCanceller) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitResult(t *testing.T, s *CaptureSession) Result {
	t.Helper()
	select {
	case r := <-s.Result():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for capture result")
		return Result{}
	}
}

func TestStartCaptureSilencesSpeechFirst(t *testing.T) {
	speech := &fakeCanceller{}
	ctl := New(&fakeTranscriber{transcript: "ok"}, speech, Logger.Noop())

	s, err := ctl.StartCapture(languages.English)
	if err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	if speech.count() != 1 {
		t.Errorf("Expected speech cancelled once, got %d", speech.count())
	}
	s.Abort()
}

func TestCaptureFinishTranscribes(t *testing.T) {
	tr := &fakeTranscriber{transcript: "hello widget"}
	ctl := New(tr, nil, Logger.Noop())

	s, err := ctl.StartCapture(languages.Hindi)
	if err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}

	s.AddFrame(audioring.Frame{Data: []byte{1, 2, 3, 4}, SampleRate: 16000, Channels: 1})
	s.Finish()

	res := waitResult(t, s)
	if res.Transcript != "hello widget" {
		t.Errorf("Expected transcript, got %+v", res)
	}
	if tr.gotLang != languages.Hindi {
		t.Errorf("Expected hi passed through, got %s", tr.gotLang)
	}
	// 44-byte container header plus the 4 data bytes
	if tr.gotBytes != 48 {
		t.Errorf("Expected 48 clip bytes, got %d", tr.gotBytes)
	}
}

func TestCaptureEmitsExactlyOneTerminalEvent(t *testing.T) {
	ctl := New(&fakeTranscriber{transcript: "ok"}, nil, Logger.Noop())

	s, _ := ctl.StartCapture(languages.English)
	s.AddFrame(audioring.Frame{Data: []byte{1, 2}, SampleRate: 16000, Channels: 1})

	// race all terminal paths; the channel must resolve exactly once
	s.Finish()
	s.Abort()
	s.Fail(KindNetwork)

	first := waitResult(t, s)
	_ = first

	select {
	case r, ok := <-s.Result():
		if ok {
			t.Errorf("Second terminal event leaked: %+v", r)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Result channel should be closed after the terminal event")
	}
}

func TestCaptureFinishWithoutFramesIsNoSpeech(t *testing.T) {
	ctl := New(&fakeTranscriber{transcript: "never"}, nil, Logger.Noop())

	s, _ := ctl.StartCapture(languages.English)
	s.Finish()

	res := waitResult(t, s)
	if res.Err != KindNoSpeech {
		t.Errorf("Expected no-speech result, got %+v", res)
	}
}

func TestCaptureAbortEndsQuietly(t *testing.T) {
	ctl := New(&fakeTranscriber{transcript: "never"}, nil, Logger.Noop())

	s, _ := ctl.StartCapture(languages.English)
	s.AddFrame(audioring.Frame{Data: []byte{1}, SampleRate: 16000, Channels: 1})
	s.Abort()

	res := waitResult(t, s)
	if !res.Ended || res.Transcript != "" || res.Err != KindNone {
		t.Errorf("Expected a quiet end, got %+v", res)
	}

	// frames after abort are dropped silently
	s.AddFrame(audioring.Frame{Data: []byte{2}, SampleRate: 16000, Channels: 1})
}

func TestCaptureFailCarriesKind(t *testing.T) {
	ctl := New(&fakeTranscriber{}, nil, Logger.Noop())

	s, _ := ctl.StartCapture(languages.English)
	s.Fail(KindPermissionDenied)

	res := waitResult(t, s)
	if res.Err != KindPermissionDenied {
		t.Errorf("Expected permission-denied result, got %+v", res)
	}
}

func TestStartCaptureAbortsPrevious(t *testing.T) {
	ctl := New(&fakeTranscriber{transcript: "ok"}, nil, Logger.Noop())

	first, _ := ctl.StartCapture(languages.English)
	second, _ := ctl.StartCapture(languages.English)

	res := waitResult(t, first)
	if !res.Ended {
		t.Errorf("First capture should end when a second starts, got %+v", res)
	}
	second.Abort()
}

func TestUnsupportedWithoutTranscriber(t *testing.T) {
	ctl := New(nil, nil, Logger.Noop())

	if ctl.Supported() {
		t.Error("Controller without a transcriber should report unsupported")
	}
	if _, err := ctl.StartCapture(languages.English); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{sarvam.ErrNoTranscript, KindNoSpeech},
		{fmt.Errorf("all stt variants failed: %w", sarvam.ErrNoTranscript), KindNoSpeech},
		{context.Canceled, KindNetwork},
		{context.DeadlineExceeded, KindNetwork},
		{&url.Error{Op: "Post", URL: "http://x", Err: errors.New("refused")}, KindNetwork},
		{errors.New("something odd"), KindOther},
	}

	for _, c := range cases {
		if got := Classify(c.err); got != c.want {
			t.Errorf("Classify(%v): expected %v, got %v", c.err, c.want, got)
		}
	}
}

func TestBuildWAVHeader(t *testing.T) {
	frames := []audioring.Frame{
		{Data: []byte{1, 2, 3, 4}, SampleRate: 44100, Channels: 1},
		{Data: []byte{5, 6}, SampleRate: 44100, Channels: 1},
	}

	wav, err := BuildWAV(frames)
	if err != nil {
		t.Fatalf("BuildWAV failed: %v", err)
	}
	if len(wav) != 44+6 {
		t.Fatalf("Expected 50 bytes, got %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("Missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 44100 {
		t.Errorf("Expected sample rate 44100 in header, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 6 {
		t.Errorf("Expected data size 6, got %d", got)
	}
	if string(wav[44:]) != string([]byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("PCM payload out of order: %v", wav[44:])
	}
}

func TestBuildWAVDefaultsSampleRate(t *testing.T) {
	wav, err := BuildWAV([]audioring.Frame{{Data: []byte{1, 2}}})
	if err != nil {
		t.Fatalf("BuildWAV failed: %v", err)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("Expected fallback rate 16000, got %d", got)
	}
}

func TestBuildWAVRejectsEmptyInput(t *testing.T) {
	if _, err := BuildWAV(nil); err == nil {
		t.Error("Expected an error for zero frames")
	}
}
