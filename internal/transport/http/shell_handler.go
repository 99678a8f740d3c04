package http

import (
	"log"
	"net/http"

	"github.com/AllieBaig/lingoquest/internal/dom"
)

// ShellHandler serves the translated HTML shell. The document is held
// server-side and re-translated by the dom.Translator whenever the language
// manager switches languages; each request renders the current state.
type ShellHandler struct {
	doc        *dom.Document
	translator *dom.Translator
}

func NewShellHandler(doc *dom.Document, translator *dom.Translator) *ShellHandler {
	return &ShellHandler{doc: doc, translator: translator}
}

func (h *ShellHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	// Settle any queued mutation work so the response never shows a
	// half-translated document.
	if err := h.translator.Flush(r.Context()); err != nil {
		log.Printf("flush shell translations: %v", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.doc.Render(w); err != nil {
		log.Printf("render shell: %v", err)
	}
}
