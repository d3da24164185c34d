package sarvam

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

const (
	chatModelPrimary   = "sarvam-m"
	chatModelSecondary = "gemma-12b"
)

// chatVariant is one candidate combination of endpoint, auth scheme, and
// payload shape. The variants are tried in order and the first one yielding
// a non-empty reply wins; this is format discovery over an unsettled vendor
// contract, not a retry/resilience mechanism.
type chatVariant struct {
	name    string
	attempt func(ctx context.Context, systemCtx, prompt string) (string, error)
}

func (c *Client) chatVariants() []chatVariant {
	return []chatVariant{
		{
			name: "chat completions (subscription key)",
			attempt: func(ctx context.Context, systemCtx, prompt string) (string, error) {
				return c.rawChat(ctx, c.baseURL+"/v1/chat/completions", c.subscriptionHeader(), chatModelPrimary, systemCtx, prompt)
			},
		},
		{
			name: "chat completions (bearer, openai sdk)",
			attempt: func(ctx context.Context, systemCtx, prompt string) (string, error) {
				return c.sdkChat(ctx, systemCtx, prompt)
			},
		},
		{
			name: "chat completions (subscription key, secondary model)",
			attempt: func(ctx context.Context, systemCtx, prompt string) (string, error) {
				return c.rawChat(ctx, c.baseURL+"/v1/chat/completions", c.subscriptionHeader(), chatModelSecondary, systemCtx, prompt)
			},
		},
	}
}

// Complete sends the prompt plus the widget's system context to the chat
// backend and resolves a reply string. It never fails: without a credential
// it answers in demo mode, and when every variant misses it falls back to
// the offline rule table.
func (c *Client) Complete(ctx context.Context, prompt, systemCtx string, lang languages.Code) string {
	if !c.HasCredential() {
		c.logger.Debug("no vendor credential configured, replying in demo mode")
		return DemoReply(prompt, lang)
	}

	for _, v := range c.chatVariants() {
		reply, err := v.attempt(ctx, systemCtx, prompt)
		if err != nil {
			c.logger.Warnf("chat variant %q failed: %v", v.name, err)
			continue
		}
		reply = ScrubReply(reply)
		if reply != "" {
			return reply
		}
		c.logger.Warnf("chat variant %q returned an empty reply", v.name)
	}

	c.logger.Warn("all chat variants failed, answering from the offline rule table")
	return OfflineReply(prompt, lang, time.Now())
}

func (c *Client) rawChat(ctx context.Context, url string, headers map[string]string, model, systemCtx, prompt string) (string, error) {
	payload := map[string]any{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": systemCtx},
			{"role": "user", "content": prompt},
		},
	}

	decoded, err := c.postJSON(ctx, url, headers, payload)
	if err != nil {
		return "", err
	}

	reply, path := firstMatch(replyExtractors, decoded)
	if reply == "" {
		return "", fmt.Errorf("no extractable reply in response")
	}
	c.logger.Debugf("reply extracted via %s", path)
	return strings.TrimSpace(reply), nil
}

// sdkChat covers the bearer-token scheme through the OpenAI-compatible SDK,
// which the vendor's newer endpoints follow exactly.
func (c *Client) sdkChat(ctx context.Context, systemCtx, prompt string) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(c.apiKey),
		option.WithBaseURL(c.baseURL+"/v1"),
		option.WithHTTPClient(c.hc),
	)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemCtx),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(chatModelPrimary),
	})
	if err != nil {
		return "", fmt.Errorf("sdk completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("sdk completion returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
