package dom

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never carry content or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render serializes the tree to HTML markup. It takes the document read
// lock, so a render sees a consistent snapshot even while the translator
// is applying text.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	var b strings.Builder
	for _, child := range d.root.children {
		renderElement(&b, child)
	}
	d.mu.RUnlock()

	_, err := io.WriteString(w, b.String())
	return err
}

func renderElement(b *strings.Builder, el *Element) {
	b.WriteByte('<')
	b.WriteString(el.Tag)

	names := make([]string, 0, len(el.attrs))
	for name := range el.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(el.attrs[name]))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidElements[el.Tag] {
		return
	}
	if el.text != "" {
		b.WriteString(html.EscapeString(el.text))
	}
	for _, child := range el.children {
		renderElement(b, child)
	}
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteByte('>')
}
