package dom

import (
	"context"
	"encoding/json"
	"log"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/AllieBaig/lingoquest/internal/i18n"
)

// TranslationEngine is the lookup side the translator consumes.
type TranslationEngine interface {
	Translate(key string, opts i18n.Options) string
	HasTranslation(key string) bool
}

// Binding attributes. The base attribute value is the translation key; the
// sibling -data/-count/-fallback attributes carry per-lookup options.
const (
	AttrPrefix = "data-i18n"

	suffixData     = "-data"
	suffixCount    = "-count"
	suffixFallback = "-fallback"
)

// bindingAttrs lists the binding attribute names in the order bindings are
// parsed and signed; applied-state signatures depend on this order being
// stable across passes.
var bindingAttrs = []string{
	AttrPrefix,
	AttrPrefix + "-placeholder",
	AttrPrefix + "-title",
	AttrPrefix + "-aria-label",
	AttrPrefix + "-alt",
	AttrPrefix + "-value",
}

// targetAttrs maps binding attribute names to the property they fill.
// The bare prefix targets text content.
var targetAttrs = map[string]string{
	AttrPrefix:                  "text",
	AttrPrefix + "-placeholder": "placeholder",
	AttrPrefix + "-title":       "title",
	AttrPrefix + "-aria-label":  "aria-label",
	AttrPrefix + "-alt":         "alt",
	AttrPrefix + "-value":       "value",
}

// binding is the parsed, validated form of one element attribute triple.
type binding struct {
	key    string
	target string
	opts   i18n.Options
}

// DefaultBatchSize bounds how many elements are translated before yielding
// back to the scheduler, so large documents never monopolize a frame.
const DefaultBatchSize = 50

// Translator applies localized text to bound elements and keeps them in
// sync as the document mutates. Tracking is non-owning: entries are dropped
// when elements detach, so subtree removal needs no explicit unbinding.
type Translator struct {
	doc    *Document
	engine TranslationEngine
	logger *log.Logger

	batchSize int

	// proc serializes queue draining so Flush callers observe a fully
	// settled document even when the background loop is mid-batch.
	proc sync.Mutex

	mu        sync.Mutex
	queue     []*Element
	queued    map[*Element]bool
	applied   map[*Element]string
	observing bool
	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithBatchSize overrides the per-batch element count.
func WithBatchSize(n int) TranslatorOption {
	return func(t *Translator) {
		if n > 0 {
			t.batchSize = n
		}
	}
}

// WithLogger routes translation warnings to a specific logger.
func WithLogger(l *log.Logger) TranslatorOption {
	return func(t *Translator) { t.logger = l }
}

func NewTranslator(doc *Document, engine TranslationEngine, opts ...TranslatorOption) *Translator {
	t := &Translator{
		doc:       doc,
		engine:    engine,
		logger:    log.Default(),
		batchSize: DefaultBatchSize,
		queued:    map[*Element]bool{},
		applied:   map[*Element]string{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ApplyLanguage sets the document language metadata, re-translates every
// bound element in batches, and (idempotently) starts mutation observation.
func (t *Translator) ApplyLanguage(ctx context.Context, lang string) error {
	t.doc.SetLanguage(lang)

	t.mu.Lock()
	// A language change invalidates every previous application.
	t.applied = map[*Element]string{}
	t.mu.Unlock()

	t.enqueueAllBound()
	if err := t.drain(ctx); err != nil {
		return err
	}
	t.startObserving()
	return nil
}

// RefreshAll forces re-translation of every bound element by clearing the
// applied-tracking set.
func (t *Translator) RefreshAll(ctx context.Context) error {
	t.mu.Lock()
	t.applied = map[*Element]string{}
	t.mu.Unlock()
	t.enqueueAllBound()
	return t.drain(ctx)
}

// Flush synchronously processes everything currently queued. Mutation-driven
// work is normally drained by the background loop; tests and shutdown paths
// use Flush for determinism.
func (t *Translator) Flush(ctx context.Context) error {
	return t.drain(ctx)
}

// StopObserving detaches from the document. Queued-but-unprocessed elements
// are flushed before the background loop exits.
func (t *Translator) StopObserving() {
	t.mu.Lock()
	if !t.observing {
		t.mu.Unlock()
		return
	}
	t.observing = false
	stop, stopped := t.stop, t.stopped
	t.mu.Unlock()

	t.doc.Unobserve(t)
	close(stop)
	<-stopped
}

// ObserveMutation enqueues affected elements. It never translates inline;
// processing happens on the background loop so the observer callback stays
// cheap and re-entrancy safe.
func (t *Translator) ObserveMutation(m Mutation) {
	switch m.Type {
	case MutationChildAdded:
		for _, el := range m.Target.descendants() {
			if isBound(el) {
				t.enqueue(el)
			}
		}
	case MutationChildRemoved:
		t.mu.Lock()
		for _, el := range m.Target.descendants() {
			delete(t.applied, el)
			delete(t.queued, el)
		}
		t.mu.Unlock()
	case MutationAttribute:
		if !strings.HasPrefix(m.Attr, AttrPrefix) {
			return
		}
		t.mu.Lock()
		delete(t.applied, m.Target)
		t.mu.Unlock()
		if isBound(m.Target) {
			t.enqueue(m.Target)
		}
	}
}

func (t *Translator) startObserving() {
	t.mu.Lock()
	if t.observing {
		t.mu.Unlock()
		return
	}
	t.observing = true
	t.wake = make(chan struct{}, 1)
	t.stop = make(chan struct{})
	t.stopped = make(chan struct{})
	wake, stop, stopped := t.wake, t.stop, t.stopped
	t.mu.Unlock()

	t.doc.Observe(t)
	go t.loop(wake, stop, stopped)
}

func (t *Translator) loop(wake, stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	for {
		select {
		case <-stop:
			// Flush whatever was queued before fully stopping.
			_ = t.drain(context.Background())
			return
		case <-wake:
			_ = t.drain(context.Background())
		}
	}
}

func (t *Translator) enqueueAllBound() {
	var bound []*Element
	t.doc.Walk(func(el *Element) bool {
		for _, name := range bindingAttrs {
			if _, ok := el.attrs[name]; ok {
				bound = append(bound, el)
				break
			}
		}
		return true
	})
	for _, el := range bound {
		t.enqueue(el)
	}
}

func (t *Translator) enqueue(el *Element) {
	t.mu.Lock()
	if !t.queued[el] {
		t.queued[el] = true
		t.queue = append(t.queue, el)
	}
	wake := t.wake
	observing := t.observing
	t.mu.Unlock()

	if observing && wake != nil {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// drain processes the queue in batches, yielding the scheduler between
// batches so other work interleaves with large documents.
func (t *Translator) drain(ctx context.Context) error {
	t.proc.Lock()
	defer t.proc.Unlock()
	for {
		batch := t.takeBatch()
		if len(batch) == 0 {
			return nil
		}
		for _, el := range batch {
			t.translateElement(el)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
}

func (t *Translator) takeBatch() []*Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.batchSize
	if n > len(t.queue) {
		n = len(t.queue)
	}
	batch := t.queue[:n]
	t.queue = t.queue[n:]
	for _, el := range batch {
		delete(t.queued, el)
	}
	return batch
}

// translateElement applies every binding on one element. Failures are
// per-element: a bad element is logged and skipped, never aborting the batch.
func (t *Translator) translateElement(el *Element) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("translate element <%s>: %v", el.Tag, r)
		}
	}()

	if !el.Attached() {
		t.mu.Lock()
		delete(t.applied, el)
		t.mu.Unlock()
		return
	}

	bindings, signature := t.parseBindings(el)
	if len(bindings) == 0 {
		return
	}
	signature = t.doc.Language() + "|" + signature

	t.mu.Lock()
	if t.applied[el] == signature {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	for _, b := range bindings {
		text := t.engine.Translate(b.key, b.opts)
		t.applyTarget(el, b.target, text)
	}

	t.mu.Lock()
	t.applied[el] = signature
	t.mu.Unlock()
}

// parseBindings reads the element's binding attributes into the fixed
// schema. Malformed interpolation JSON degrades to translating without
// interpolation; it never fails the element.
func (t *Translator) parseBindings(el *Element) ([]binding, string) {
	attrs := el.Attributes()
	var bindings []binding
	var sig strings.Builder

	for _, name := range bindingAttrs {
		key, ok := attrs[name]
		if !ok || key == "" {
			continue
		}
		b := binding{key: key, target: targetAttrs[name]}
		b.opts.Fallback = attrs[name+suffixFallback]

		if raw, ok := attrs[name+suffixData]; ok && raw != "" {
			var interp map[string]any
			if err := json.Unmarshal([]byte(raw), &interp); err != nil {
				t.logger.Printf("element <%s>: malformed %s%s payload, translating without interpolation: %v",
					el.Tag, name, suffixData, err)
			} else {
				b.opts.Interpolation = interp
			}
		}
		if raw, ok := attrs[name+suffixCount]; ok && raw != "" {
			if count, err := strconv.Atoi(raw); err == nil {
				b.opts.Count = &count
			} else {
				t.logger.Printf("element <%s>: non-integer %s%s value %q ignored", el.Tag, name, suffixCount, raw)
			}
		}
		bindings = append(bindings, b)
		sig.WriteString(name)
		sig.WriteByte('=')
		sig.WriteString(key)
		sig.WriteByte(';')
		sig.WriteString(attrs[name+suffixData])
		sig.WriteByte(';')
		sig.WriteString(attrs[name+suffixCount])
		sig.WriteByte(';')
		sig.WriteString(attrs[name+suffixFallback])
		sig.WriteByte('|')
	}
	return bindings, sig.String()
}

func (t *Translator) applyTarget(el *Element, target, text string) {
	if target == "text" {
		// Form controls take translated text on the attribute the browser
		// actually renders: placeholder for free-text fields, value for
		// button-like inputs.
		switch el.Tag {
		case "input":
			if typ, _ := el.Attribute("type"); typ == "button" || typ == "submit" {
				el.SetAttribute("value", text)
			} else {
				el.SetAttribute("placeholder", text)
			}
			return
		case "textarea":
			el.SetAttribute("placeholder", text)
			return
		}
		el.SetText(text)
		return
	}
	el.SetAttribute(target, text)
}

func isBound(el *Element) bool {
	attrs := el.Attributes()
	for _, name := range bindingAttrs {
		if _, ok := attrs[name]; ok {
			return true
		}
	}
	return false
}
