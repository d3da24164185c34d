package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sweta1G/chat-widget/internal/config"
	"github.com/Sweta1G/chat-widget/pkg/Logger"
)

// ProxyHandler forwards widget requests verbatim to the vendor, adding the
// server-side credential. Status and body come back unchanged so clients
// can treat the proxy and the vendor as interchangeable.
type ProxyHandler struct {
	apiKey  string
	baseURL string
	hc      *http.Client
	logger  *Logger.Logger
}

func NewProxyHandler(cfg config.SarvamConfig, logger *Logger.Logger) *ProxyHandler {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.sarvam.ai"
	}
	if logger == nil {
		logger = Logger.Noop()
	}
	return &ProxyHandler{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

func (h *ProxyHandler) Chat(c *gin.Context) {
	h.forward(c, "/v1/chat/completions")
}

func (h *ProxyHandler) TTS(c *gin.Context) {
	h.forward(c, "/text-to-speech")
}

func (h *ProxyHandler) forward(c *gin.Context, path string) {
	if h.apiKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missing SARVAM_API_KEY"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost, h.baseURL+path, bytes.NewReader(body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "proxy request failed"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", h.apiKey)

	resp, err := h.hc.Do(req)
	if err != nil {
		h.logger.Errorf("proxy %s failed: %v", path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not read upstream response"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, respBody)
}
