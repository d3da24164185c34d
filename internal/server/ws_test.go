package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/internal/widget"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
	"github.com/Sweta1G/chat-widget/pkg/sarvam"
)

type wsEvent struct {
	Type     string         `json:"type"`
	WidgetID string         `json:"widgetId"`
	Created  bool           `json:"created"`
	ID       string         `json:"id"`
	On       bool           `json:"on"`
	Text     string         `json:"text"`
	Message  widget.Message `json:"message"`
}

func dialTestSocket(t *testing.T) (*websocket.Conn, *widget.Registry, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := widget.NewRegistry()
	dep := NewServerDependencies(
		registry,
		sarvam.New("", "", Logger.Noop()), // no credential: demo replies, no network
		nil,
		nil,
		Logger.Noop(),
		&config.Settings{},
	)

	r := gin.New()
	InitializeRoutes(r, dep)
	srv := httptest.NewServer(r)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Failed to dial socket: %v", err)
	}

	return conn, registry, func() {
		conn.Close()
		srv.Close()
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) wsEvent {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var ev wsEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	return ev
}

// readUntil drains events until one matches, failing on timeout.
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsEvent) bool) wsEvent {
	t.Helper()
	for i := 0; i < 20; i++ {
		ev := readEvent(t, conn)
		if match(ev) {
			return ev
		}
	}
	t.Fatal("Expected event never arrived")
	return wsEvent{}
}

func TestSocketInitDeliversWelcome(t *testing.T) {
	conn, registry, done := dialTestSocket(t)
	defer done()

	err := conn.WriteJSON(map[string]any{
		"type":     "init",
		"widgetId": "page-1",
		"config":   map[string]any{"agent": map[string]any{"name": "TestBot"}},
	})
	if err != nil {
		t.Fatalf("Failed to send init: %v", err)
	}

	welcome := readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "message" })
	if !strings.Contains(welcome.Message.Text, "TestBot") {
		t.Errorf("Welcome should carry the page-configured agent name, got: %s", welcome.Message.Text)
	}

	ready := readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "ready" })
	if ready.WidgetID != "page-1" || !ready.Created {
		t.Errorf("Unexpected ready event: %+v", ready)
	}

	if registry.Len() != 1 {
		t.Errorf("Expected one mounted widget, got %d", registry.Len())
	}
}

func TestSocketTextRoundTrip(t *testing.T) {
	conn, _, done := dialTestSocket(t)
	defer done()

	_ = conn.WriteJSON(map[string]any{"type": "init", "widgetId": "page-2"})
	readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "ready" })

	_ = conn.WriteJSON(map[string]any{"type": "text", "text": "what can you do?"})

	userMsg := readUntil(t, conn, func(ev wsEvent) bool {
		return ev.Type == "message" && ev.Message.Role == widget.RoleUser
	})
	if userMsg.Message.Text != "what can you do?" {
		t.Errorf("User message should echo the input, got: %s", userMsg.Message.Text)
	}

	reply := readUntil(t, conn, func(ev wsEvent) bool {
		return ev.Type == "message" && ev.Message.Role == widget.RoleAssistant &&
			strings.Contains(ev.Message.Text, "mock response")
	})
	if !strings.Contains(reply.Message.Text, "what can you do?") {
		t.Errorf("Demo reply should embed the prompt, got: %s", reply.Message.Text)
	}
}

func TestSocketDisconnectUnmountsWidget(t *testing.T) {
	conn, registry, done := dialTestSocket(t)
	defer done()

	_ = conn.WriteJSON(map[string]any{"type": "init", "widgetId": "page-3"})
	readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "ready" })

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Widget should unmount when its socket closes")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSocketSecondInitIsNoOp(t *testing.T) {
	conn, registry, done := dialTestSocket(t)
	defer done()

	_ = conn.WriteJSON(map[string]any{"type": "init", "widgetId": "page-4"})
	first := readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "ready" })
	if !first.Created {
		t.Fatal("First init should create")
	}

	_ = conn.WriteJSON(map[string]any{"type": "init", "widgetId": "page-4"})
	second := readUntil(t, conn, func(ev wsEvent) bool { return ev.Type == "ready" })
	if second.Created {
		t.Error("Second init for the same widget must be a no-op")
	}
	if registry.Len() != 1 {
		t.Errorf("Expected one mounted widget, got %d", registry.Len())
	}
}
