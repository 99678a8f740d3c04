package dom

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/AllieBaig/lingoquest/internal/i18n"
)

func testEngine(t *testing.T) *i18n.Engine {
	t.Helper()
	en, err := i18n.ParseCatalog([]byte(`
title: LingoQuest
play: Play
search: Search words
greeting: "Hello, {{name}}!"
answers:
  one: "{{count}} answer"
  other: "{{count}} answers"
`))
	if err != nil {
		t.Fatalf("parse en: %v", err)
	}
	fr, err := i18n.ParseCatalog([]byte(`
title: LingoQuest
play: Jouer
search: Rechercher des mots
greeting: "Bonjour, {{name}} !"
answers:
  one: "{{count}} réponse"
  other: "{{count}} réponses"
`))
	if err != nil {
		t.Fatalf("parse fr: %v", err)
	}
	engine := i18n.NewEngine()
	engine.AddCatalog("en", en)
	engine.AddCatalog("fr", fr)
	return engine
}

const fixture = `<html><body>
<h1 data-i18n="title">placeholder</h1>
<button data-i18n="play">placeholder</button>
<input type="text" data-i18n="search">
<p data-i18n="greeting" data-i18n-data='{"name":"Asha"}'>placeholder</p>
<span data-i18n="answers" data-i18n-count="3">placeholder</span>
</body></html>`

func findByKey(doc *Document, key string) *Element {
	var found *Element
	doc.Walk(func(el *Element) bool {
		if v, ok := el.attrs[AttrPrefix]; ok && v == key {
			found = el
			return false
		}
		return true
	})
	return found
}

func newTestTranslator(t *testing.T, engine *i18n.Engine) (*Document, *Translator) {
	t.Helper()
	doc, err := ParseString(fixture)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc, NewTranslator(doc, engine, WithBatchSize(2))
}

func TestApplyLanguageTranslatesBoundElements(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply en: %v", err)
	}

	if got := findByKey(doc, "play").Text(); got != "Play" {
		t.Fatalf("expected Play, got %q", got)
	}
	if got := findByKey(doc, "greeting").Text(); got != "Hello, Asha!" {
		t.Fatalf("expected interpolated greeting, got %q", got)
	}
	if got := findByKey(doc, "answers").Text(); got != "3 answers" {
		t.Fatalf("expected pluralized text, got %q", got)
	}
	if doc.Language() != "en" {
		t.Fatalf("expected document language en, got %q", doc.Language())
	}
}

func TestInputTextBindingFillsPlaceholder(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	input := findByKey(doc, "search")
	if got, _ := input.Attribute("placeholder"); got != "Search words" {
		t.Fatalf("expected placeholder set on input, got %q", got)
	}
	if input.Text() != "" {
		t.Fatalf("input text content must stay empty")
	}
}

func TestButtonInputTextBindingFillsValue(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, err := ParseString(`<html><body><input type="submit" data-i18n="play"></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	translator := NewTranslator(doc, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	input := findByKey(doc, "play")
	if got, _ := input.Attribute("value"); got != "Play" {
		t.Fatalf("expected value set on submit input, got %q", got)
	}
}

// en -> fr -> en restores every bound element's original English text.
func TestRoundTripLanguageSwitch(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply en: %v", err)
	}
	english := map[string]string{}
	for _, key := range []string{"title", "play", "greeting", "answers"} {
		english[key] = findByKey(doc, key).Text()
	}

	if err := engine.SetLanguage("fr"); err != nil {
		t.Fatalf("set fr: %v", err)
	}
	if err := translator.ApplyLanguage(ctx, "fr"); err != nil {
		t.Fatalf("apply fr: %v", err)
	}
	if got := findByKey(doc, "play").Text(); got != "Jouer" {
		t.Fatalf("expected French text, got %q", got)
	}

	if err := engine.SetLanguage("en"); err != nil {
		t.Fatalf("set en: %v", err)
	}
	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply en again: %v", err)
	}
	for key, want := range english {
		if got := findByKey(doc, key).Text(); got != want {
			t.Fatalf("%s: expected %q restored, got %q", key, want, got)
		}
	}
}

func TestMalformedInterpolationDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, err := ParseString(`<html><body>
<p data-i18n="greeting" data-i18n-data='{broken json'>x</p>
<p data-i18n="play">x</p>
</body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	translator := NewTranslator(doc, engine, WithLogger(log.New(&buf, "", 0)))
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	// The bad element still translates, just without interpolation…
	if got := findByKey(doc, "greeting").Text(); got != "Hello, {{name}}!" {
		t.Fatalf("expected uninterpolated translation, got %q", got)
	}
	// …the rest of the batch is unaffected, and a warning was logged.
	if got := findByKey(doc, "play").Text(); got != "Play" {
		t.Fatalf("expected sibling translated, got %q", got)
	}
	if !strings.Contains(buf.String(), "malformed") {
		t.Fatalf("expected warning log, got %q", buf.String())
	}
}

func TestAddedElementsAreTranslated(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	added := NewElement("button")
	added.SetAttribute(AttrPrefix, "play")
	doc.Root().AppendChild(added)

	if err := translator.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := added.Text(); got != "Play" {
		t.Fatalf("expected added element translated, got %q", got)
	}
}

func TestAttributeChangeRetranslates(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	el := findByKey(doc, "title")
	el.SetAttribute(AttrPrefix, "play")

	if err := translator.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := el.Text(); got != "Play" {
		t.Fatalf("expected re-translation after key change, got %q", got)
	}
}

func TestDetachedElementsAreDropped(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	el := findByKey(doc, "title")
	el.Remove()

	translator.mu.Lock()
	_, tracked := translator.applied[el]
	translator.mu.Unlock()
	if tracked {
		t.Fatalf("detached element should be dropped from tracking")
	}
}

func TestStopObservingFlushesQueuedWork(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)

	if err := translator.ApplyLanguage(ctx, "en"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	added := NewElement("span")
	added.SetAttribute(AttrPrefix, "play")
	doc.Root().AppendChild(added)

	// Stop must flush the queued element before fully detaching.
	translator.StopObserving()
	if got := added.Text(); got != "Play" {
		t.Fatalf("expected queued element flushed on stop, got %q", got)
	}
}

func TestBindingSignatureIsStable(t *testing.T) {
	engine := testEngine(t)
	doc, err := ParseString(`<html><body>
<input type="text" data-i18n="title" data-i18n-placeholder="search"
 data-i18n-title="play" data-i18n-aria-label="play" data-i18n-value="play">
</body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	translator := NewTranslator(doc, engine)

	el := findByKey(doc, "title")
	_, first := translator.parseBindings(el)
	for i := 0; i < 50; i++ {
		if _, sig := translator.parseBindings(el); sig != first {
			t.Fatalf("signature changed between passes: %q vs %q", first, sig)
		}
	}
}

func TestApplyLanguageIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := testEngine(t)
	doc, translator := newTestTranslator(t, engine)
	defer translator.StopObserving()

	for i := 0; i < 3; i++ {
		if err := translator.ApplyLanguage(ctx, "en"); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
	}
	if got := findByKey(doc, "play").Text(); got != "Play" {
		t.Fatalf("expected stable translation, got %q", got)
	}
}
