package xml

import (
	"sort"
	"strings"
)

// Canonicalize renders doc in a deterministic, canonical form: attributes
// sorted lexicographically by name, no self-closing tags, and comments and
// processing instructions omitted. It is a supplemental, non-default output
// mode — it does not participate in the round-trip guarantee Serialize
// provides and exists for comparison/hashing use cases (diffing two
// documents that may differ only in formatting or attribute order),
// generalized from the teacher's c14n.go.
func Canonicalize(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, newInvalidArgument("Canonicalize", "document is nil")
	}
	var b strings.Builder
	root := doc.RootElement()
	if root != nil {
		writeCanonicalElement(&b, root)
	}
	return []byte(b.String()), nil
}

func writeCanonicalElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.Name.String())

	names := e.Attrs.Keys()
	sort.Strings(names)
	for _, name := range names {
		attr := e.Attrs.Get(name)
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(escapeAttrValue(attr.Value, '"'))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	for _, c := range e.Children {
		switch v := c.(type) {
		case *Element:
			writeCanonicalElement(b, v)
		case *Text:
			b.WriteString(escapeText(v.Content))
		}
	}

	b.WriteString("</")
	b.WriteString(e.Name.String())
	b.WriteByte('>')
}
