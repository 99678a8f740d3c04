package i18n

import (
	"context"
	"log"

	"github.com/AllieBaig/lingoquest/internal/events"
)

// LanguageKey is the preference-store key holding the chosen language.
const LanguageKey = "pref:language"

// Store is the key-value persistence the manager consumes. It is treated as
// an opaque store with no transactional guarantees.
type Store interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// DocumentApplier re-translates bound document elements for a language.
type DocumentApplier interface {
	ApplyLanguage(ctx context.Context, lang string) error
}

// Manager owns the current-language state: it loads catalogs into the
// engine, persists the user's choice, drives document re-translation, and
// announces changes on the event bus.
type Manager struct {
	engine    *Engine
	applier   DocumentApplier
	store     Store
	publisher events.Publisher
}

func NewManager(engine *Engine, applier DocumentApplier, store Store, publisher events.Publisher) *Manager {
	return &Manager{engine: engine, applier: applier, store: store, publisher: publisher}
}

// Engine exposes the translation engine for direct lookups.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Current returns the active language code.
func (m *Manager) Current() string {
	return m.engine.Language()
}

// SetLanguage switches the UI language. On failure the previously active
// language is restored so the document never stays mixed-language.
func (m *Manager) SetLanguage(ctx context.Context, lang string) error {
	previous := m.engine.Language()
	if lang == previous {
		// Idempotent: re-applying the active language just refreshes.
		return m.apply(ctx, lang)
	}

	if err := m.engine.SetLanguage(lang); err != nil {
		return err
	}
	if err := m.apply(ctx, lang); err != nil {
		// Roll back to the previous language; it was applied before, so a
		// second failure here is logged rather than propagated.
		if restoreErr := m.engine.SetLanguage(previous); restoreErr == nil {
			if applyErr := m.apply(ctx, previous); applyErr != nil {
				log.Printf("language rollback to %q failed: %v", previous, applyErr)
			}
		}
		return err
	}

	if m.store != nil {
		if err := m.store.SetItem(ctx, LanguageKey, lang); err != nil {
			log.Printf("persist language %q: %v", lang, err)
		}
	}
	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, events.EventLanguageChanged, events.LanguageChangedPayload{
			Previous: previous,
			Current:  lang,
		}); err != nil {
			log.Printf("publish language change: %v", err)
		}
	}
	return nil
}

// Restore applies the persisted language choice, if any; otherwise English.
func (m *Manager) Restore(ctx context.Context) error {
	lang := FallbackLanguage
	if m.store != nil {
		if saved, ok, err := m.store.GetItem(ctx, LanguageKey); err == nil && ok {
			lang = saved
		}
	}
	if err := m.SetLanguage(ctx, lang); err != nil {
		if lang == FallbackLanguage {
			return err
		}
		// A stale saved preference falls back to English.
		return m.SetLanguage(ctx, FallbackLanguage)
	}
	return nil
}

func (m *Manager) apply(ctx context.Context, lang string) error {
	if m.applier == nil {
		return nil
	}
	return m.applier.ApplyLanguage(ctx, lang)
}
