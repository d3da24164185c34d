package config

import (
	"github.com/Sweta1G/chat-widget/internal/languages"
)

// WidgetConfig is the effective, immutable configuration of one widget
// instance. It is produced once by Resolve and never mutated afterwards.
type WidgetConfig struct {
	Position        string
	Theme           Theme
	Agent           Agent
	EnableVoice     bool
	DefaultLanguage languages.Code
	Context         string
}

type Theme struct {
	PrimaryColor string
	FontFamily   string
}

type Agent struct {
	Name      string
	AvatarURL string
}

var validPositions = map[string]bool{
	"bottom-right": true,
	"bottom-left":  true,
	"top-right":    true,
	"top-left":     true,
}

// widgetDefaults returns a fresh default tree each call so merges can never
// leak into the shared defaults.
func widgetDefaults() map[string]any {
	return map[string]any{
		"position": "bottom-right",
		"theme": map[string]any{
			"primaryColor": "#4F46E5",
			"fontFamily":   "Inter, system-ui, sans-serif",
		},
		"agent": map[string]any{
			"name":   "SarvamBot",
			"avatar": "https://api.dicebear.com/7.x/bottts/svg?seed=SarvamBot",
		},
		"enableVoice":     true,
		"defaultLanguage": string(languages.Default),
		"context":         "You are a helpful AI assistant.",
	}
}

// Resolve deep-merges a page-supplied override over the widget defaults.
// Override wins at every leaf, nested maps merge recursively, slices replace
// wholesale. Missing fields inherit defaults, so there is no failure mode;
// resolving the same override twice yields structurally equal output.
func Resolve(override map[string]any) WidgetConfig {
	merged := deepMerge(widgetDefaults(), override)

	cfg := WidgetConfig{
		Position: stringAt(merged, "position"),
		Theme: Theme{
			PrimaryColor: stringAt(merged, "theme", "primaryColor"),
			FontFamily:   stringAt(merged, "theme", "fontFamily"),
		},
		Agent: Agent{
			Name:      stringAt(merged, "agent", "name"),
			AvatarURL: stringAt(merged, "agent", "avatar"),
		},
		EnableVoice:     boolAt(merged, "enableVoice"),
		DefaultLanguage: languages.Normalize(languages.Code(stringAt(merged, "defaultLanguage"))),
		Context:         stringAt(merged, "context"),
	}

	if !validPositions[cfg.Position] {
		cfg.Position = "bottom-right"
	}
	return cfg
}

// MergeOverrides layers a page-supplied override over a server-level one so
// both can feed a single Resolve call. Page wins per leaf.
func MergeOverrides(base, override map[string]any) map[string]any {
	return deepMerge(base, override)
}

func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if ovMap, ok := v.(map[string]any); ok {
			if baseMap, ok := out[k].(map[string]any); ok {
				out[k] = deepMerge(baseMap, ovMap)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func stringAt(m map[string]any, path ...string) string {
	cur := any(m)
	for _, p := range path {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = asMap[p]
	}
	s, _ := cur.(string)
	return s
}

func boolAt(m map[string]any, path ...string) bool {
	cur := any(m)
	for _, p := range path {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		cur = asMap[p]
	}
	b, _ := cur.(bool)
	return b
}
