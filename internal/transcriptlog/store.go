package transcriptlog

import (
	"encoding/json"
	"time"

	"github.com/go-redis/redis"

	"github.com/Sweta1G/chat-widget/internal/widget"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
)

const keyPrefix = "widget:transcript:"

// Store mirrors transcripts into Redis, fire-and-forget. It sits entirely
// outside the widget's correctness path: a nil store, a missing Redis, or a
// failed write all degrade to "no log", never to a user-visible error.
type Store struct {
	rc     *redis.Client
	ttl    time.Duration
	logger *Logger.Logger
}

func New(rc *redis.Client, ttl time.Duration, logger *Logger.Logger) *Store {
	if logger == nil {
		logger = Logger.Noop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rc: rc, ttl: ttl, logger: logger}
}

// Append implements widget.TranscriptLogger.
func (s *Store) Append(widgetID string, msg widget.Message) {
	if s == nil || s.rc == nil {
		return
	}
	go func() {
		raw, err := json.Marshal(msg)
		if err != nil {
			s.logger.Debugf("transcript log encode failed: %v", err)
			return
		}
		key := keyPrefix + widgetID
		if err := s.rc.RPush(key, raw).Err(); err != nil {
			s.logger.Debugf("transcript log write failed: %v", err)
			return
		}
		_ = s.rc.Expire(key, s.ttl).Err()
	}()
}
