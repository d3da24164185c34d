package sarvam

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

const ttsSpeaker = "anushka"

// ErrNoCredential marks calls that need a vendor key but have none; callers
// switch to the local synthesis path instead of surfacing this.
var ErrNoCredential = errors.New("no vendor credential configured")

type ttsVariant struct {
	name    string
	attempt func(ctx context.Context, text, localeTag string) (map[string]any, error)
}

func (c *Client) ttsVariants() []ttsVariant {
	return []ttsVariant{
		{
			name: "text-to-speech (subscription key)",
			attempt: func(ctx context.Context, text, localeTag string) (map[string]any, error) {
				return c.postJSON(ctx, c.baseURL+"/text-to-speech", c.subscriptionHeader(), map[string]any{
					"inputs":               []string{text},
					"target_language_code": localeTag,
					"speaker":              ttsSpeaker,
					"pitch":                0,
					"pace":                 1.0,
					"loudness":             1.5,
					"speech_sample_rate":   8000,
					"enable_preprocessing": true,
					"model":                "bulbul:v2",
				})
			},
		},
		{
			name: "v1/text-to-speech (bearer)",
			attempt: func(ctx context.Context, text, localeTag string) (map[string]any, error) {
				return c.postJSON(ctx, c.baseURL+"/v1/text-to-speech", c.bearerHeader(), map[string]any{
					"inputs":               []string{text},
					"target_language_code": localeTag,
					"speaker":              ttsSpeaker,
					"model":                "bulbul:v1",
				})
			},
		},
	}
}

// Synthesize converts text into playable audio bytes via the remote speech
// synthesis endpoint, decoding the base64 payload the vendor returns.
func (c *Client) Synthesize(ctx context.Context, text string, lang languages.Code) ([]byte, error) {
	if !c.HasCredential() {
		return nil, ErrNoCredential
	}

	localeTag := languages.LocaleFor(lang).TTS
	var lastErr error
	for _, v := range c.ttsVariants() {
		decoded, err := v.attempt(ctx, text, localeTag)
		if err != nil {
			c.logger.Warnf("tts variant %q failed: %v", v.name, err)
			lastErr = err
			continue
		}

		encoded, path := firstMatch(audioExtractors, decoded)
		if encoded == "" {
			lastErr = fmt.Errorf("no audio payload in response")
			c.logger.Warnf("tts variant %q: %v", v.name, lastErr)
			continue
		}

		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			lastErr = fmt.Errorf("failed to decode audio payload: %w", err)
			c.logger.Warnf("tts variant %q: %v", v.name, lastErr)
			continue
		}
		c.logger.Debugf("audio extracted via %s (%d bytes)", path, len(audio))
		return audio, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no tts variants configured")
	}
	return nil, fmt.Errorf("all tts variants failed: %w", lastErr)
}
