package i18n

import (
	"errors"
	"testing"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	en, err := ParseCatalog([]byte(`
buttons:
  play: Play
greeting: "Hello, {{name}}!"
score:
  one: "{{count}} point"
  other: "{{count}} points"
english_only: Only in English
`))
	if err != nil {
		t.Fatalf("parse en: %v", err)
	}
	fr, err := ParseCatalog([]byte(`
buttons:
  play: Jouer
greeting: "Bonjour, {{name}} !"
score:
  one: "{{count}} point"
  other: "{{count}} points"
`))
	if err != nil {
		t.Fatalf("parse fr: %v", err)
	}
	engine := NewEngine()
	engine.AddCatalog("en", en)
	engine.AddCatalog("fr", fr)
	return engine
}

func TestTranslateDottedKeys(t *testing.T) {
	engine := testEngine(t)
	if got := engine.Translate("buttons.play", Options{}); got != "Play" {
		t.Fatalf("expected Play, got %q", got)
	}
	if err := engine.SetLanguage("fr"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if got := engine.Translate("buttons.play", Options{}); got != "Jouer" {
		t.Fatalf("expected Jouer, got %q", got)
	}
}

func TestTranslateInterpolation(t *testing.T) {
	engine := testEngine(t)
	got := engine.Translate("greeting", Options{Interpolation: map[string]any{"name": "Asha"}})
	if got != "Hello, Asha!" {
		t.Fatalf("unexpected interpolation %q", got)
	}
}

func TestTranslatePluralization(t *testing.T) {
	engine := testEngine(t)
	one, many := 1, 5
	if got := engine.Translate("score", Options{Count: &one}); got != "1 point" {
		t.Fatalf("expected singular, got %q", got)
	}
	if got := engine.Translate("score", Options{Count: &many}); got != "5 points" {
		t.Fatalf("expected plural, got %q", got)
	}
}

func TestTranslateFallbackChain(t *testing.T) {
	engine := testEngine(t)
	if err := engine.SetLanguage("fr"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	// Missing in fr, present in en.
	if got := engine.Translate("english_only", Options{}); got != "Only in English" {
		t.Fatalf("expected English fallback, got %q", got)
	}
	// Missing everywhere: caller fallback wins, then the literal key.
	if got := engine.Translate("missing.key", Options{Fallback: "literal"}); got != "literal" {
		t.Fatalf("expected caller fallback, got %q", got)
	}
	if got := engine.Translate("missing.key", Options{}); got != "missing.key" {
		t.Fatalf("expected literal key, got %q", got)
	}
}

func TestSetLanguageUnknown(t *testing.T) {
	engine := testEngine(t)
	if err := engine.SetLanguage("tlh"); !errors.Is(err, domain.ErrLanguageNotFound) {
		t.Fatalf("expected language-not-found, got %v", err)
	}
	if engine.Language() != "en" {
		t.Fatalf("failed switch must not change the active language")
	}
}

func TestHasTranslation(t *testing.T) {
	engine := testEngine(t)
	if !engine.HasTranslation("buttons.play") {
		t.Fatalf("expected buttons.play to resolve")
	}
	if engine.HasTranslation("nope") {
		t.Fatalf("expected nope to be missing")
	}
}
