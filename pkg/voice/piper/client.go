package piper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Piper is a client for a local wyoming-piper TTS sidecar. It is the
// server-local synthesis fallback used when the remote vendor is
// unavailable or unconfigured.
type Piper struct {
	BaseURL string
	Client  *http.Client
	Voice   string
	Timeout time.Duration
}

func New(baseURL string) Piper {
	return Piper{BaseURL: baseURL}
}

// Synthesize renders text to a WAV clip.
// wyoming-piper HTTP: GET /api/text-to-speech?text=...&voice=...
func (p *Piper) Synthesize(ctx context.Context, text string, optVoice string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	voice := p.Voice
	if optVoice != "" {
		voice = optVoice
	}

	u, err := url.Parse(p.BaseURL + "/api/text-to-speech")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("text", text)
	if voice != "" {
		q.Set("voice", voice)
	}
	u.RawQuery = q.Encode()

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/wav")

	hc := p.Client
	if hc == nil {
		hc = &http.Client{}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts http %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
