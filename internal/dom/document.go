// Package dom holds the in-memory element tree the translator works over.
// It plays the browser document's role: elements carry attributes, text, and
// children, and registered observers see structural and attribute mutations.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// MutationType discriminates mutation records.
type MutationType int

const (
	// MutationChildAdded fires once for the root of an attached subtree.
	MutationChildAdded MutationType = iota
	// MutationChildRemoved fires once for the root of a detached subtree.
	MutationChildRemoved
	// MutationAttribute fires for attribute set/remove on an attached element.
	MutationAttribute
	// MutationText fires when an element's text content changes.
	MutationText
)

// Mutation is one observed document change.
type Mutation struct {
	Type   MutationType
	Target *Element
	Attr   string
}

// Observer receives mutation records. Callbacks run synchronously on the
// mutating goroutine and must only enqueue work, never process it.
type Observer interface {
	ObserveMutation(Mutation)
}

// Element is one node in the tree. All access goes through the owning
// document's lock.
type Element struct {
	Tag string

	doc      *Document
	parent   *Element
	children []*Element
	attrs    map[string]string
	text     string
}

// NewElement creates a detached element; attach it with AppendChild.
func NewElement(tag string) *Element {
	return &Element{Tag: tag, attrs: map[string]string{}}
}

// Document owns the tree root, the document language, and the observer list.
type Document struct {
	mu        sync.RWMutex
	root      *Element
	lang      string
	observers []Observer
}

// NewDocument creates an empty document with a root element.
func NewDocument() *Document {
	d := &Document{lang: "en"}
	d.root = &Element{Tag: "root", attrs: map[string]string{}, doc: d}
	return d
}

// Parse builds a document from HTML markup.
func Parse(r io.Reader) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := NewDocument()
	convertChildren(d, d.root, node)
	return d, nil
}

// ParseString is a convenience wrapper for fixtures.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

func convertChildren(d *Document, parent *Element, node *html.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			el := &Element{Tag: child.Data, attrs: map[string]string{}, doc: d, parent: parent}
			for _, attr := range child.Attr {
				el.attrs[attr.Key] = attr.Val
			}
			parent.children = append(parent.children, el)
			convertChildren(d, el, child)
		case html.TextNode:
			if text := strings.TrimSpace(child.Data); text != "" {
				parent.text += text
			}
		}
	}
}

// Root returns the document root element.
func (d *Document) Root() *Element {
	return d.root
}

// SetLanguage records the document language metadata.
func (d *Document) SetLanguage(lang string) {
	d.mu.Lock()
	d.lang = lang
	d.root.attrs["lang"] = lang
	d.mu.Unlock()
}

// Language returns the document language metadata.
func (d *Document) Language() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lang
}

// Observe registers an observer; registering twice is a no-op.
func (d *Document) Observe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.observers {
		if existing == o {
			return
		}
	}
	d.observers = append(d.observers, o)
}

// Unobserve removes an observer.
func (d *Document) Unobserve(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.observers {
		if existing == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// notify runs outside the document lock so observers may inspect the tree.
func (d *Document) notify(m Mutation) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()
	for _, o := range observers {
		o.ObserveMutation(m)
	}
}

// Walk visits every element depth-first under a read lock until fn returns
// false. fn must not mutate the tree; collect first, mutate after.
func (d *Document) Walk(fn func(*Element) bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	walk(d.root, fn)
}

func walk(el *Element, fn func(*Element) bool) bool {
	if !fn(el) {
		return false
	}
	for _, child := range el.children {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// Attribute returns one attribute value.
func (e *Element) Attribute(name string) (string, bool) {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	v, ok := e.attrs[name]
	return v, ok
}

// Attributes returns a copy of the attribute map.
func (e *Element) Attributes() map[string]string {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	out := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		out[k] = v
	}
	return out
}

// SetAttribute sets an attribute and reports the mutation.
func (e *Element) SetAttribute(name, value string) {
	d := e.doc
	if d != nil {
		d.mu.Lock()
	}
	if e.attrs == nil {
		e.attrs = map[string]string{}
	}
	old, existed := e.attrs[name]
	e.attrs[name] = value
	if d != nil {
		d.mu.Unlock()
		if !existed || old != value {
			d.notify(Mutation{Type: MutationAttribute, Target: e, Attr: name})
		}
	}
}

// RemoveAttribute deletes an attribute and reports the mutation.
func (e *Element) RemoveAttribute(name string) {
	d := e.doc
	if d != nil {
		d.mu.Lock()
	}
	_, existed := e.attrs[name]
	delete(e.attrs, name)
	if d != nil {
		d.mu.Unlock()
		if existed {
			d.notify(Mutation{Type: MutationAttribute, Target: e, Attr: name})
		}
	}
}

// Text returns the element's text content.
func (e *Element) Text() string {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	return e.text
}

// SetText replaces the element's text content.
func (e *Element) SetText(text string) {
	d := e.doc
	if d != nil {
		d.mu.Lock()
	}
	changed := e.text != text
	e.text = text
	if d != nil {
		d.mu.Unlock()
		if changed {
			d.notify(Mutation{Type: MutationText, Target: e})
		}
	}
}

// AppendChild attaches a subtree and reports one child-added mutation for
// its root.
func (e *Element) AppendChild(child *Element) {
	d := e.doc
	if d != nil {
		d.mu.Lock()
	}
	child.parent = e
	adopt(child, d)
	e.children = append(e.children, child)
	if d != nil {
		d.mu.Unlock()
		d.notify(Mutation{Type: MutationChildAdded, Target: child})
	}
}

func adopt(el *Element, d *Document) {
	el.doc = d
	if el.attrs == nil {
		el.attrs = map[string]string{}
	}
	for _, child := range el.children {
		adopt(child, d)
	}
}

// Remove detaches the element from its parent and reports the mutation.
func (e *Element) Remove() {
	d := e.doc
	if d != nil {
		d.mu.Lock()
	}
	parent := e.parent
	if parent != nil {
		for i, child := range parent.children {
			if child == e {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	}
	e.parent = nil
	if d != nil {
		d.mu.Unlock()
		if parent != nil {
			d.notify(Mutation{Type: MutationChildRemoved, Target: e})
		}
	}
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Parent returns the parent element, nil when detached.
func (e *Element) Parent() *Element {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	return e.parent
}

// Attached reports whether the element is reachable from the document root.
func (e *Element) Attached() bool {
	d := e.doc
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for cur := e; cur != nil; cur = cur.parent {
		if cur == d.root {
			return true
		}
	}
	return false
}

// descendants collects the subtree rooted at e, e included.
func (e *Element) descendants() []*Element {
	if d := e.doc; d != nil {
		d.mu.RLock()
		defer d.mu.RUnlock()
	}
	var out []*Element
	var collect func(*Element)
	collect = func(el *Element) {
		out = append(out, el)
		for _, child := range el.children {
			collect(child)
		}
	}
	collect(e)
	return out
}
