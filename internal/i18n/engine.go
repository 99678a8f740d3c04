// Package i18n resolves dotted translation keys to localized text, with
// English as the permanent fallback locale.
package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// FallbackLanguage is always consulted when the active locale misses a key.
const FallbackLanguage = "en"

// Options tune a single translation lookup.
type Options struct {
	// Interpolation values replace {{name}} placeholders.
	Interpolation map[string]any
	// Count selects the plural form via the key's .one/.other sub-keys and
	// is interpolated as {{count}}.
	Count *int
	// Fallback is returned when the key is absent everywhere; when empty the
	// literal key is returned instead.
	Fallback string
}

// Engine holds the loaded catalogs and the active language.
type Engine struct {
	mu       sync.RWMutex
	catalogs map[string]Catalog
	lang     string
}

func NewEngine() *Engine {
	return &Engine{
		catalogs: map[string]Catalog{},
		lang:     FallbackLanguage,
	}
}

// AddCatalog registers (or replaces) one language's table.
func (e *Engine) AddCatalog(lang string, catalog Catalog) {
	e.mu.Lock()
	e.catalogs[lang] = catalog
	e.mu.Unlock()
}

// SetLanguage switches the active locale; the catalog must be loaded.
func (e *Engine) SetLanguage(lang string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.catalogs[lang]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrLanguageNotFound, lang)
	}
	e.lang = lang
	return nil
}

// Language returns the active language code.
func (e *Engine) Language() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lang
}

// Languages lists the loaded language codes.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	langs := make([]string, 0, len(e.catalogs))
	for lang := range e.catalogs {
		langs = append(langs, lang)
	}
	return langs
}

// HasTranslation reports whether the key resolves in the active locale or
// the English fallback.
func (e *Engine) HasTranslation(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.lookup(key)
	return ok
}

// Translate resolves key in the active locale, falling back to English, then
// the caller-supplied fallback, then the literal key.
func (e *Engine) Translate(key string, opts Options) string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	lookupKey := key
	if opts.Count != nil {
		plural := key + ".other"
		if *opts.Count == 1 {
			plural = key + ".one"
		}
		if _, ok := e.lookup(plural); ok {
			lookupKey = plural
		}
	}

	text, ok := e.lookup(lookupKey)
	if !ok {
		if opts.Fallback != "" {
			text = opts.Fallback
		} else {
			text = key
		}
	}
	return interpolate(text, opts)
}

// lookup is called with e.mu held.
func (e *Engine) lookup(key string) (string, bool) {
	if catalog, ok := e.catalogs[e.lang]; ok {
		if text, ok := catalog[key]; ok {
			return text, true
		}
	}
	if e.lang != FallbackLanguage {
		if catalog, ok := e.catalogs[FallbackLanguage]; ok {
			if text, ok := catalog[key]; ok {
				return text, true
			}
		}
	}
	return "", false
}

func interpolate(text string, opts Options) string {
	if opts.Count != nil {
		text = strings.ReplaceAll(text, "{{count}}", fmt.Sprint(*opts.Count))
	}
	for name, value := range opts.Interpolation {
		text = strings.ReplaceAll(text, "{{"+name+"}}", fmt.Sprint(value))
	}
	return text
}
