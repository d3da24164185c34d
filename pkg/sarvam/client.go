package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sweta1G/chat-widget/pkg/Logger"
)

const DefaultBaseURL = "https://api.sarvam.ai"

// Client talks to the conversational AI vendor. An empty API key is a valid
// state: every call path degrades to a documented offline behavior instead
// of reaching the network.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
	logger  *Logger.Logger
}

func New(apiKey, baseURL string, logger *Logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = Logger.Noop()
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		hc: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// HasCredential reports whether a vendor key is configured. Without one the
// widget runs in demo/offline mode.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// postJSON issues one JSON POST and returns the decoded body. Non-2xx
// statuses are errors carrying the body for the log.
func (c *Client) postJSON(ctx context.Context, url string, headers map[string]string, payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return decoded, nil
}

func (c *Client) subscriptionHeader() map[string]string {
	return map[string]string{"api-subscription-key": c.apiKey}
}

func (c *Client) bearerHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
