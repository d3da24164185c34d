package config

import (
	"reflect"
	"testing"

	"github.com/Sweta1G/chat-widget/internal/languages"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Resolve(nil)

	if cfg.Position != "bottom-right" {
		t.Errorf("Expected bottom-right, got %s", cfg.Position)
	}
	if cfg.Theme.PrimaryColor != "#4F46E5" {
		t.Errorf("Expected default primary color, got %s", cfg.Theme.PrimaryColor)
	}
	if cfg.Agent.Name != "SarvamBot" {
		t.Errorf("Expected default agent name, got %s", cfg.Agent.Name)
	}
	if !cfg.EnableVoice {
		t.Error("Voice should default to enabled")
	}
	if cfg.DefaultLanguage != languages.English {
		t.Errorf("Expected en default, got %s", cfg.DefaultLanguage)
	}
	if cfg.Context == "" {
		t.Error("Expected a default system context")
	}
}

func TestResolveOverrideWinsPerLeaf(t *testing.T) {
	cfg := Resolve(map[string]any{
		"position": "top-left",
		"theme":    map[string]any{"primaryColor": "#000000"},
	})

	if cfg.Position != "top-left" {
		t.Errorf("Override should win, got %s", cfg.Position)
	}
	if cfg.Theme.PrimaryColor != "#000000" {
		t.Errorf("Nested override should win, got %s", cfg.Theme.PrimaryColor)
	}
	// sibling leaf inherits the default
	if cfg.Theme.FontFamily != "Inter, system-ui, sans-serif" {
		t.Errorf("Sibling leaf should keep its default, got %s", cfg.Theme.FontFamily)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	override := map[string]any{
		"agent":           map[string]any{"name": "Helper"},
		"defaultLanguage": "ta",
	}

	first := Resolve(override)
	second := Resolve(override)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolving twice must be structurally equal:\n%+v\n%+v", first, second)
	}
}

func TestResolveDoesNotMutateOverride(t *testing.T) {
	override := map[string]any{
		"theme": map[string]any{"primaryColor": "#123456"},
	}

	_ = Resolve(override)

	theme := override["theme"].(map[string]any)
	if len(theme) != 1 || theme["primaryColor"] != "#123456" {
		t.Errorf("Override map must not be mutated, got %v", override)
	}
}

func TestResolveInvalidPositionFallsBack(t *testing.T) {
	cfg := Resolve(map[string]any{"position": "center"})
	if cfg.Position != "bottom-right" {
		t.Errorf("Invalid position should fall back, got %s", cfg.Position)
	}
}

func TestResolveUnknownLanguageFallsBack(t *testing.T) {
	cfg := Resolve(map[string]any{"defaultLanguage": "fr"})
	if cfg.DefaultLanguage != languages.Default {
		t.Errorf("Unknown language should fall back, got %s", cfg.DefaultLanguage)
	}
}

func TestResolveIgnoresMistypedLeaves(t *testing.T) {
	cfg := Resolve(map[string]any{
		"enableVoice": "yes", // wrong type
		"theme":       "dark",
	})

	// mistyped leaves degrade to zero values or are skipped, never panic
	if cfg.EnableVoice {
		t.Error("Non-bool enableVoice should read as false")
	}
	if cfg.Position != "bottom-right" {
		t.Errorf("Unrelated fields keep defaults, got %s", cfg.Position)
	}
}

func TestMergeOverridesLayering(t *testing.T) {
	server := map[string]any{
		"agent": map[string]any{"name": "ServerBot", "avatar": "s.png"},
	}
	page := map[string]any{
		"agent": map[string]any{"name": "PageBot"},
	}

	merged := MergeOverrides(server, page)
	cfg := Resolve(merged)

	if cfg.Agent.Name != "PageBot" {
		t.Errorf("Page override should win, got %s", cfg.Agent.Name)
	}
	if cfg.Agent.AvatarURL != "s.png" {
		t.Errorf("Server-level leaf should survive, got %s", cfg.Agent.AvatarURL)
	}
}
