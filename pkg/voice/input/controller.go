package input

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"

	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
	"github.com/Sweta1G/chat-widget/pkg/voice/audioring"
)

// ErrUnsupported is returned when no recognition facility is available;
// the caller hides the mic control instead of failing later.
var ErrUnsupported = errors.New("speech recognition not available")

// ErrorKind distinguishes recognition failures so each can surface as its
// own localized message.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindPermissionDenied
	KindNoSpeech
	KindNetwork
	KindOther
)

// Result is the single terminal event of a capture: a transcript, an error
// kind, or a plain end with no result.
type Result struct {
	Transcript string
	Err        ErrorKind
	Ended      bool
}

// Transcriber is satisfied by *sarvam.Client.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte, lang languages.Code) (string, error)
}

// OutputCanceller lets the input side silence the widget before listening;
// you cannot capture speech while the widget is talking.
type OutputCanceller interface {
	Cancel()
}

const defaultRingBytes = 1024 * 1024

// Controller hands out single-shot capture sessions, at most one active at
// a time per widget instance.
type Controller struct {
	mu          sync.Mutex
	active      *CaptureSession
	transcriber Transcriber
	speech      OutputCanceller
	ringBytes   int
	logger      *Logger.Logger
}

func New(transcriber Transcriber, speech OutputCanceller, logger *Logger.Logger) *Controller {
	if logger == nil {
		logger = Logger.Noop()
	}
	return &Controller{
		transcriber: transcriber,
		speech:      speech,
		ringBytes:   defaultRingBytes,
		logger:      logger,
	}
}

// Supported reports whether a recognition backend exists at all.
func (c *Controller) Supported() bool {
	return c.transcriber != nil
}

// StartCapture opens a new single-shot capture. Any active speech output is
// cancelled first, and any previous capture is aborted.
func (c *Controller) StartCapture(lang languages.Code) (*CaptureSession, error) {
	if !c.Supported() {
		return nil, ErrUnsupported
	}
	if c.speech != nil {
		c.speech.Cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Abort()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &CaptureSession{
		lang:        languages.Normalize(lang),
		ring:        audioring.New(c.ringBytes),
		result:      make(chan Result, 1),
		ctx:         ctx,
		cancel:      cancel,
		transcriber: c.transcriber,
		logger:      c.logger,
	}
	c.active = s
	return s, nil
}

// StopActive aborts the active capture, if any.
func (c *Controller) StopActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Abort()
		c.active = nil
	}
}

// CaptureSession buffers push-to-talk audio until the capture ends, then
// resolves to exactly one terminal Result.
type CaptureSession struct {
	lang        languages.Code
	ring        *audioring.FrameRing
	result      chan Result
	once        sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	transcriber Transcriber
	logger      *Logger.Logger
}

// Result yields the terminal event. It fires exactly once.
func (s *CaptureSession) Result() <-chan Result {
	return s.result
}

// AddFrame buffers one PCM frame from the capture side.
func (s *CaptureSession) AddFrame(f audioring.Frame) {
	if s.ctx.Err() != nil {
		return
	}
	if err := s.ring.Enqueue(f); err != nil {
		s.logger.Warnf("dropping capture frame: %v", err)
	}
}

// Finish ends the capture and transcribes what was heard. Runs async; the
// outcome arrives on Result.
func (s *CaptureSession) Finish() {
	go func() {
		frames := s.ring.Drain()
		if len(frames) == 0 {
			s.emit(Result{Err: KindNoSpeech})
			return
		}

		wav, err := BuildWAV(frames)
		if err != nil {
			s.logger.Errorf("failed to assemble capture clip: %v", err)
			s.emit(Result{Err: KindOther})
			return
		}

		transcript, err := s.transcriber.Transcribe(s.ctx, wav, s.lang)
		if err != nil {
			if s.ctx.Err() != nil {
				s.emit(Result{Ended: true})
				return
			}
			s.emit(Result{Err: Classify(err)})
			return
		}
		s.emit(Result{Transcript: transcript})
	}()
}

// Abort cancels the capture; it resolves to a no-result end.
func (s *CaptureSession) Abort() {
	s.cancel()
	s.ring.Reset()
	s.emit(Result{Ended: true})
}

// Fail resolves the capture with an externally detected error, e.g. a
// microphone permission denial reported by the platform.
func (s *CaptureSession) Fail(kind ErrorKind) {
	s.cancel()
	s.ring.Reset()
	s.emit(Result{Err: kind})
}

func (s *CaptureSession) emit(r Result) {
	s.once.Do(func() {
		s.result <- r
		close(s.result)
	})
}

// Classify maps a recognition error onto the kinds the widget reports
// distinctly.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, sarvam.ErrNoTranscript):
		return KindNoSpeech
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindOther
}
