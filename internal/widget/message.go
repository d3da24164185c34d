package widget

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a widget's transcript. Messages are never mutated
// after creation; the transcript is append-only (the transient "thinking"
// placeholder is the only entry ever removed) and lives only as long as the
// session.
type Message struct {
	ID            uuid.UUID      `json:"id"`
	Role          Role           `json:"role"`
	Text          string         `json:"text"`
	CreatedAt     time.Time      `json:"createdAt"`
	Language      languages.Code `json:"language"`
	WasVoiceInput bool           `json:"wasVoiceInput"`
}

func newMessage(role Role, text string, lang languages.Code, wasVoice bool) Message {
	return Message{
		ID:            uuid.New(),
		Role:          role,
		Text:          text,
		CreatedAt:     time.Now(),
		Language:      lang,
		WasVoiceInput: wasVoice,
	}
}
