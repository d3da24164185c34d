package server

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/internal/languages"
	"github.com/Sweta1G/chat-widget/internal/widget"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/voice/audioring"
	"github.com/Sweta1G/chat-widget/pkg/voice/input"
	"github.com/Sweta1G/chat-widget/pkg/voice/output"
)

// Inbound control message types from the page.
const (
	msgInit     = "init"
	msgText     = "text"
	msgLang     = "lang"
	msgToggle   = "toggle"
	msgClose    = "close"
	msgMicStart = "mic-start"
	msgMicEnd   = "mic-end"
	msgMicError = "mic-error"
)

// Outbound message types to the page.
const (
	evMessage   = "message"
	evRemove    = "remove"
	evRecording = "recording"
	evAudio     = "audio"
	evSpeak     = "speak"
	evVoiceStop = "voice-stop"
	evReady     = "ready"
)

type clientMessage struct {
	Type     string         `json:"type"`
	WidgetID string         `json:"widgetId,omitempty"`
	Config   map[string]any `json:"config,omitempty"`
	Text     string         `json:"text,omitempty"`
	Lang     string         `json:"lang,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type RoutesManager struct {
	deps Dependencies
}

func NewRoutesManager(deps Dependencies) *RoutesManager {
	return &RoutesManager{deps: deps}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // widget embeds on any origin
}

// wsSession is the render adapter for one connected page: it pushes
// transcript/recording updates out and implements the playback sink the
// speech output controller talks to.
type wsSession struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	logger  *Logger.Logger

	mu      sync.Mutex
	ctl     *widget.Controller
	capture *input.CaptureSession
}

// AppendMessage implements widget.RenderAdapter.
func (s *wsSession) AppendMessage(msg widget.Message) {
	if err := s.send(gin.H{"type": evMessage, "message": msg}); err != nil {
		s.logger.Debugf("render push failed: %v", err)
	}
}

// RemoveMessage implements widget.RenderAdapter.
func (s *wsSession) RemoveMessage(id uuid.UUID) {
	if err := s.send(gin.H{"type": evRemove, "id": id.String()}); err != nil {
		s.logger.Debugf("render push failed: %v", err)
	}
}

// SetRecording implements widget.RenderAdapter.
func (s *wsSession) SetRecording(on bool) {
	if err := s.send(gin.H{"type": evRecording, "on": on}); err != nil {
		s.logger.Debugf("render push failed: %v", err)
	}
}

// PlayAudio implements output.Sink.
func (s *wsSession) PlayAudio(ctx context.Context, audio []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.send(gin.H{"type": evAudio, "data": base64.StdEncoding.EncodeToString(audio)})
}

// SpeakLocal implements output.Sink.
func (s *wsSession) SpeakLocal(ctx context.Context, text, localeTag string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return s.send(gin.H{"type": evSpeak, "text": text, "lang": localeTag})
}

// StopPlayback implements output.Sink.
func (s *wsSession) StopPlayback() {
	_ = s.send(gin.H{"type": evVoiceStop})
}

func (s *wsSession) send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (rm *RoutesManager) handleWidgetSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rm.deps.Logger.Errorf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := &wsSession{conn: conn, logger: rm.deps.Logger}
	sessCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mountID string
	defer func() {
		if mountID != "" {
			rm.deps.Registry.Remove(mountID)
		}
	}()

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			rm.deps.Logger.Debugf("ws read ended: %v", err)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				rm.deps.Logger.Warnf("discarding malformed control message: %v", err)
				continue
			}
			if msg.Type == msgInit {
				mountID = rm.initSession(sess, msg)
				continue
			}
			rm.handleControl(sessCtx, sess, msg)
		case websocket.BinaryMessage:
			rm.handleAudioFrame(sess, raw)
		}
	}
}

// initSession mounts (or re-attaches to) the widget for this page. Repeated
// init messages for the same widget ID are no-ops by design.
func (rm *RoutesManager) initSession(sess *wsSession, msg clientMessage) string {
	mountID := msg.WidgetID
	if mountID == "" {
		mountID = uuid.New().String()
	}

	override := config.MergeOverrides(rm.deps.Configs.Widget, msg.Config)
	cfg := config.Resolve(override)

	speech := output.New(sess, rm.deps.Sarvam, rm.deps.Piper, cfg.DefaultLanguage, rm.deps.Logger)
	voice := input.New(rm.deps.Sarvam, speech, rm.deps.Logger)

	ctl, created := rm.deps.Registry.Initialize(mountID, override, widget.Deps{
		Convo:  rm.deps.Sarvam,
		Speech: speech,
		Voice:  voice,
		Render: sess,
		Log:    rm.deps.TranscriptLog,
		Logger: rm.deps.Logger,
	})

	sess.mu.Lock()
	sess.ctl = ctl
	sess.mu.Unlock()

	if !created {
		// reconnecting page: replay the transcript it already owns
		for _, m := range ctl.Transcript() {
			sess.AppendMessage(m)
		}
	}

	_ = sess.send(gin.H{"type": evReady, "widgetId": mountID, "created": created})
	rm.deps.Logger.Infof("widget %s attached (created=%v)", mountID, created)
	return mountID
}

func (rm *RoutesManager) handleControl(ctx context.Context, sess *wsSession, msg clientMessage) {
	sess.mu.Lock()
	ctl := sess.ctl
	sess.mu.Unlock()
	if ctl == nil {
		rm.deps.Logger.Warnf("control message %q before init", msg.Type)
		return
	}

	switch msg.Type {
	case msgText:
		// submit runs async so the read loop stays responsive; the
		// controller itself rejects overlapping sends
		go ctl.SubmitText(ctx, msg.Text)
	case msgLang:
		ctl.ChangeLanguage(languages.Code(msg.Lang))
	case msgToggle:
		ctl.ToggleOpen()
	case msgClose:
		ctl.Close()
	case msgMicStart:
		capture := ctl.StartVoiceCapture(ctx)
		sess.mu.Lock()
		sess.capture = capture
		sess.mu.Unlock()
	case msgMicEnd:
		sess.mu.Lock()
		capture := sess.capture
		sess.capture = nil
		sess.mu.Unlock()
		if capture != nil {
			capture.Finish()
		}
	case msgMicError:
		sess.mu.Lock()
		capture := sess.capture
		sess.capture = nil
		sess.mu.Unlock()
		if capture != nil {
			capture.Fail(captureKindFromPage(msg.Error))
		}
	default:
		rm.deps.Logger.Warnf("unhandled control message type %q", msg.Type)
	}
}

// handleAudioFrame feeds one push-to-talk frame into the active capture.
// Frame layout: sample rate (4) + channels (2) + reserved (2) + PCM data.
func (rm *RoutesManager) handleAudioFrame(sess *wsSession, raw []byte) {
	if len(raw) < 8 {
		rm.deps.Logger.Debugf("discarding short audio frame (%d bytes)", len(raw))
		return
	}

	sess.mu.Lock()
	capture := sess.capture
	sess.mu.Unlock()
	if capture == nil {
		return
	}

	capture.AddFrame(audioring.Frame{
		SampleRate: int32(binary.LittleEndian.Uint32(raw[0:4])),
		Channels:   int16(binary.LittleEndian.Uint16(raw[4:6])),
		Data:       raw[8:],
	})
}

// captureKindFromPage maps the browser recognizer's error strings onto the
// input controller's kinds.
func captureKindFromPage(code string) input.ErrorKind {
	switch code {
	case "not-allowed", "permission-denied":
		return input.KindPermissionDenied
	case "no-speech":
		return input.KindNoSpeech
	case "network":
		return input.KindNetwork
	default:
		return input.KindOther
	}
}
