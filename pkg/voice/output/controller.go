package output

import (
	"context"
	"sync"

	"github.com/looplab/fsm"

	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
	"github.com/Sweta1G/chat-widget/pkg/voice/piper"
)

// Playback states. Cancel is legal from either active state and returns the
// controller to idle immediately.
const (
	StateIdle         = "idle"
	StateSynthesizing = "synthesizing"
	StatePlaying      = "playing"

	evSpeak       = "speak"
	evSynthesized = "synthesized"
	evDone        = "done"
	evCancel      = "cancel"
)

// Sink is the render-adapter boundary for audible output. The widget core
// never touches an audio element directly; it hands bytes (or a local
// synthesis directive) to whatever is rendering the widget.
type Sink interface {
	// PlayAudio ships a decoded audio clip for playback.
	PlayAudio(ctx context.Context, audio []byte) error
	// SpeakLocal asks the platform to synthesize text itself, with the
	// given TTS locale tag.
	SpeakLocal(ctx context.Context, text, localeTag string) error
	// StopPlayback halts and releases any active playback.
	StopPlayback()
}

// RemoteSynthesizer is satisfied by *sarvam.Client.
type RemoteSynthesizer interface {
	Synthesize(ctx context.Context, text string, lang languages.Code) ([]byte, error)
	HasCredential() bool
}

// Controller owns the single playback slot of one widget instance. All
// current-utterance handles live here and nowhere else; cancellation is a
// method, not shared variable nulling.
type Controller struct {
	mu      sync.Mutex
	machine *fsm.FSM
	cancel  context.CancelFunc
	gen     uint64 // bumped per Speak; stale runs detect they lost the slot

	sink        Sink
	remote      RemoteSynthesizer
	local       *piper.Piper // optional sidecar; nil means directive-only local path
	defaultLang languages.Code
	logger      *Logger.Logger
}

func New(sink Sink, remote RemoteSynthesizer, local *piper.Piper, defaultLang languages.Code, logger *Logger.Logger) *Controller {
	if logger == nil {
		logger = Logger.Noop()
	}
	return &Controller{
		machine: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: evSpeak, Src: []string{StateIdle}, Dst: StateSynthesizing},
				{Name: evSynthesized, Src: []string{StateSynthesizing}, Dst: StatePlaying},
				{Name: evDone, Src: []string{StatePlaying, StateSynthesizing}, Dst: StateIdle},
				{Name: evCancel, Src: []string{StateSynthesizing, StatePlaying}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
		sink:        sink,
		remote:      remote,
		local:       local,
		defaultLang: languages.Normalize(defaultLang),
		logger:      logger,
	}
}

// State reports the current playback state.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Speak voices text in the given language. A subsequent Speak or Cancel
// stops it; at most one utterance/audio stream is live at any time. The
// call blocks until playback is handed to the sink (or skipped).
func (c *Controller) Speak(ctx context.Context, text string, lang languages.Code) error {
	clean := sarvam.ScrubForSpeech(text)
	if clean == "" {
		c.logger.Debug("nothing to speak after sanitization")
		return nil
	}
	lang = languages.Normalize(lang)

	c.mu.Lock()
	c.stopLocked()
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	myGen := c.gen
	_ = c.machine.Event(runCtx, evSpeak)
	c.mu.Unlock()

	defer c.finish(myGen)

	// Local synthesis directly when there is no credential or the language
	// is the widget's default one.
	if !c.remote.HasCredential() || lang == c.defaultLang {
		return c.speakLocal(runCtx, myGen, clean, lang)
	}

	audio, err := c.remote.Synthesize(runCtx, clean, lang)
	if runCtx.Err() != nil {
		return nil // cancelled mid-synthesis, not an error
	}
	if err != nil {
		// Remote synthesis trouble is recovered silently; the user hears
		// the local voice instead of an error.
		c.logger.Warnf("remote synthesis failed, falling back to local: %v", err)
		return c.speakLocal(runCtx, myGen, clean, lang)
	}

	if !c.advance(myGen) {
		return nil
	}
	if err := c.sink.PlayAudio(runCtx, audio); err != nil {
		if runCtx.Err() != nil {
			return nil
		}
		c.logger.Warnf("audio playback failed, falling back to local: %v", err)
		return c.speakLocal(runCtx, myGen, clean, lang)
	}
	return nil
}

// Cancel hard-stops synthesis and playback and returns to idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) speakLocal(ctx context.Context, myGen uint64, clean string, lang languages.Code) error {
	if ctx.Err() != nil {
		return nil
	}
	localeTag := languages.LocaleFor(lang).TTS

	if c.local != nil {
		audio, err := c.local.Synthesize(ctx, clean, "")
		if err == nil {
			if !c.advance(myGen) {
				return nil
			}
			if playErr := c.sink.PlayAudio(ctx, audio); playErr == nil || ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("piper clip playback failed, issuing local-speech directive")
		} else if ctx.Err() == nil {
			c.logger.Warnf("piper synthesis failed: %v", err)
		}
	}

	if !c.advance(myGen) {
		return nil
	}
	if err := c.sink.SpeakLocal(ctx, clean, localeTag); err != nil && ctx.Err() == nil {
		c.logger.Warnf("local speech directive failed: %v", err)
	}
	return nil
}

// advance moves synthesizing -> playing iff this run still owns the slot.
func (c *Controller) advance(myGen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != myGen {
		return false
	}
	_ = c.machine.Event(context.Background(), evSynthesized)
	return true
}

func (c *Controller) finish(myGen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != myGen {
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	_ = c.machine.Event(context.Background(), evDone)
}

// stopLocked aborts the in-flight request, halts sink playback, and resets
// the state machine. Callers hold c.mu.
func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.sink.StopPlayback()
	_ = c.machine.Event(context.Background(), evCancel)
}
