package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/voice/input"
)

// ConversationClient resolves a reply string for a prompt. It never fails;
// degraded modes answer with labeled fallback text.
type ConversationClient interface {
	Complete(ctx context.Context, prompt, systemCtx string, lang languages.Code) string
}

// Speaker voices assistant replies. Cancel hard-stops any active utterance.
type Speaker interface {
	Speak(ctx context.Context, text string, lang languages.Code) error
	Cancel()
}

// VoiceInput hands out single-shot capture sessions.
type VoiceInput interface {
	Supported() bool
	StartCapture(lang languages.Code) (*input.CaptureSession, error)
	StopActive()
}

// RenderAdapter is everything the core needs from whatever draws the
// widget: append a message, drop the thinking placeholder, flip the
// recording indicator. Pure rendering stays on the other side.
type RenderAdapter interface {
	AppendMessage(msg Message)
	RemoveMessage(id uuid.UUID)
	SetRecording(on bool)
}

// TranscriptLogger receives fire-and-forget transcript writes. It sits
// outside the correctness path: failures are logged, never surfaced.
type TranscriptLogger interface {
	Append(widgetID string, msg Message)
}

// Deps wires one widget instance. Speech, Voice, Render, and Log may be nil
// (headless or voice-disabled embeddings).
type Deps struct {
	Convo  ConversationClient
	Speech Speaker
	Voice  VoiceInput
	Render RenderAdapter
	Log    TranscriptLogger
	Logger *Logger.Logger
}

// Controller is the single source of truth for one widget instance: UI
// open/closed state, the in-memory transcript, the current language, and
// the coordination between conversation and voice.
type Controller struct {
	id   string
	cfg  config.WidgetConfig
	deps Deps

	mu         sync.Mutex
	open       bool
	sending    bool
	recording  bool
	lang       languages.Code
	transcript []Message
}

func newController(id string, cfg config.WidgetConfig, deps Deps) *Controller {
	if deps.Logger == nil {
		deps.Logger = Logger.Noop()
	}
	c := &Controller{
		id:   id,
		cfg:  cfg,
		deps: deps,
		lang: cfg.DefaultLanguage,
	}
	c.append(newMessage(RoleAssistant, welcomeText(cfg.Agent.Name, c.lang), c.lang, false))
	return c
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Config() config.WidgetConfig { return c.cfg }

func (c *Controller) Language() languages.Code {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Transcript returns a snapshot copy; the internal list stays append-only.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// ToggleOpen flips the panel. Closing cancels any active voice session.
func (c *Controller) ToggleOpen() bool {
	c.mu.Lock()
	c.open = !c.open
	nowOpen := c.open
	c.mu.Unlock()

	if !nowOpen {
		c.stopAllVoice()
	}
	return nowOpen
}

// Close shuts the panel and cancels any active voice session.
func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	c.stopAllVoice()
}

// SubmitText runs the full send pipeline for typed input.
func (c *Controller) SubmitText(ctx context.Context, text string) {
	c.submit(ctx, text, false)
}

// SubmitVoice routes a recognized transcript through the same pipeline as
// typed input, flagged as voice.
func (c *Controller) SubmitVoice(ctx context.Context, transcript string) {
	c.submit(ctx, transcript, true)
}

func (c *Controller) submit(ctx context.Context, text string, wasVoice bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.sending {
		// one send in flight per instance; replies must not interleave
		c.mu.Unlock()
		return
	}
	c.sending = true
	lang := c.lang
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	c.stopAllVoice()

	c.append(newMessage(RoleUser, text, lang, wasVoice))
	thinking := newMessage(RoleAssistant, thinkingText(lang), lang, false)
	c.append(thinking)

	reply := c.deps.Convo.Complete(ctx, text, c.cfg.Context, lang)
	if reply == "" {
		reply = sendFailureText(lang)
	}

	c.remove(thinking.ID)
	c.append(newMessage(RoleAssistant, reply, lang, false))

	if c.cfg.EnableVoice && c.deps.Speech != nil {
		if err := c.deps.Speech.Speak(ctx, reply, lang); err != nil {
			c.deps.Logger.Warnf("widget %s: speak failed: %v", c.id, err)
		}
	}
}

// StartVoiceCapture begins a push-to-talk capture and resolves its single
// terminal event in the background. The returned session is fed audio by
// the render side; nil means voice is unavailable (a notice was appended).
func (c *Controller) StartVoiceCapture(ctx context.Context) *input.CaptureSession {
	lang := c.Language()

	if !c.cfg.EnableVoice || c.deps.Voice == nil || !c.deps.Voice.Supported() {
		c.append(newMessage(RoleAssistant, voiceUnsupportedText(lang), lang, false))
		return nil
	}

	session, err := c.deps.Voice.StartCapture(lang)
	if err != nil {
		c.deps.Logger.Warnf("widget %s: capture start failed: %v", c.id, err)
		c.append(newMessage(RoleAssistant, voiceUnsupportedText(lang), lang, false))
		return nil
	}

	c.setRecording(true)
	go func() {
		res := <-session.Result()
		c.setRecording(false)

		switch {
		case res.Transcript != "":
			c.SubmitVoice(ctx, res.Transcript)
		case res.Err != input.KindNone:
			c.append(newMessage(RoleAssistant, captureErrorText(res.Err, c.Language()), c.Language(), false))
		default:
			// capture ended without a result; nothing to say
		}
	}()
	return session
}

// StopVoiceCapture aborts an in-progress capture without submitting.
func (c *Controller) StopVoiceCapture() {
	if c.deps.Voice != nil {
		c.deps.Voice.StopActive()
	}
	c.setRecording(false)
}

// ChangeLanguage switches the widget language, cancels any active voice
// session, and appends a localized notice. Prior messages are not replayed.
func (c *Controller) ChangeLanguage(code languages.Code) {
	if !languages.IsSupported(code) {
		return
	}

	c.mu.Lock()
	if c.lang == code {
		c.mu.Unlock()
		return
	}
	c.lang = code
	c.mu.Unlock()

	c.stopAllVoice()
	c.append(newMessage(RoleAssistant, languageSwitchedText(code), code, false))
}

// CancelSpeech silences the widget without touching the rest of the state.
func (c *Controller) CancelSpeech() {
	if c.deps.Speech != nil {
		c.deps.Speech.Cancel()
	}
}

func (c *Controller) stopAllVoice() {
	c.CancelSpeech()
	c.StopVoiceCapture()
}

func (c *Controller) setRecording(on bool) {
	c.mu.Lock()
	changed := c.recording != on
	c.recording = on
	c.mu.Unlock()

	if changed && c.deps.Render != nil {
		c.deps.Render.SetRecording(on)
	}
}

func (c *Controller) append(msg Message) {
	c.mu.Lock()
	c.transcript = append(c.transcript, msg)
	c.mu.Unlock()

	if c.deps.Render != nil {
		c.deps.Render.AppendMessage(msg)
	}
	if c.deps.Log != nil {
		c.deps.Log.Append(c.id, msg)
	}
}

// remove drops the thinking placeholder; nothing else is ever removed.
func (c *Controller) remove(id uuid.UUID) {
	c.mu.Lock()
	for i, m := range c.transcript {
		if m.ID == id {
			c.transcript = append(c.transcript[:i], c.transcript[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	if c.deps.Render != nil {
		c.deps.Render.RemoveMessage(id)
	}
}
