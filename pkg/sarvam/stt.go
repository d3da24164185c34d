package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

// ErrNoTranscript marks a recognition round that produced no usable text,
// e.g. silence or an unintelligible clip.
var ErrNoTranscript = errors.New("no transcript in response")

type sttVariant struct {
	name      string
	path      string
	headers   func() map[string]string
	langField string
	model     string
}

func (c *Client) sttVariants() []sttVariant {
	return []sttVariant{
		{
			name:      "speech-to-text (subscription key)",
			path:      "/speech-to-text",
			headers:   c.subscriptionHeader,
			langField: "source_language_code",
			model:     "saarika:v2",
		},
		{
			name:      "v1/speech-to-text (bearer)",
			path:      "/v1/speech-to-text",
			headers:   c.bearerHeader,
			langField: "language",
			model:     "saarika:v2",
		},
		{
			name:      "speech-to-text (flash model)",
			path:      "/speech-to-text",
			headers:   c.subscriptionHeader,
			langField: "source_language_code",
			model:     "saarika:flash",
		},
	}
}

// Transcribe sends a WAV clip to the remote recognition endpoint and returns
// the transcript of the single utterance it contains.
func (c *Client) Transcribe(ctx context.Context, wav []byte, lang languages.Code) (string, error) {
	if !c.HasCredential() {
		return "", ErrNoCredential
	}
	if len(wav) == 0 {
		return "", fmt.Errorf("empty audio clip")
	}

	localeTag := languages.LocaleFor(lang).STT
	var lastErr error
	for _, v := range c.sttVariants() {
		transcript, err := c.transcribeOnce(ctx, v, wav, localeTag)
		if err != nil {
			c.logger.Warnf("stt variant %q failed: %v", v.name, err)
			lastErr = err
			continue
		}
		return transcript, nil
	}
	return "", fmt.Errorf("all stt variants failed: %w", lastErr)
}

func (c *Client) transcribeOnce(ctx context.Context, v sttVariant, wav []byte, localeTag string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return "", fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.WriteField(v.langField, localeTag); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", v.model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+v.path, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, val := range v.headers() {
		req.Header.Set(k, val)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var decoded map[string]any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	transcript, _ := firstMatch(transcriptExtractors, decoded)
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrNoTranscript
	}
	return transcript, nil
}
