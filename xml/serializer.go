package xml

import "strings"

// Serialize renders doc back to XML text under cfg. In the default
// (raw-preserving) mode, every node that has not been modified since parse
// reproduces its original bytes exactly — this is what gives
// Serialize(Parse(source)) == source for any unmodified document (§4.4,
// §8). When cfg.WithPrettyPrint(true) has been set, modified elements are
// re-indented from their depth and document-level nodes are placed on
// their own lines; elements unchanged since parse still reproduce their
// captured bytes.
func Serialize(doc *Document, cfg Config) (string, error) {
	if doc == nil {
		return "", newInvalidArgument("Serialize", "document is nil")
	}
	if cfg.prettyPrint {
		return serializePretty(doc, cfg), nil
	}
	return serializeRaw(doc, cfg), nil
}

// String renders doc with DefaultConfig(), for convenience and for
// fmt.Stringer-style debugging.
func (d *Document) String() string {
	out, _ := Serialize(d, DefaultConfig())
	return out
}

func serializeRaw(doc *Document, cfg Config) string {
	var b strings.Builder
	if doc.Declaration != nil && doc.Declaration.Present {
		if doc.Declaration.Modified || doc.Declaration.Raw == "" {
			b.WriteString(renderDeclaration(doc.Declaration))
		} else {
			b.WriteString(doc.Declaration.Raw)
		}
	}
	if doc.Doctype != "" {
		b.WriteString(doc.doctypeLeadingWhitespace)
		b.WriteString(doc.Doctype)
	}
	for _, c := range doc.Children {
		renderRawChild(c, cfg, &b)
	}
	return b.String()
}

func renderDeclaration(d *Declaration) string {
	var b strings.Builder
	b.WriteString(`<?xml version="`)
	version := d.Version
	if version == "" {
		version = "1.0"
	}
	b.WriteString(version)
	b.WriteByte('"')
	if d.Encoding != "" {
		b.WriteString(` encoding="`)
		b.WriteString(d.Encoding)
		b.WriteByte('"')
	}
	if d.Standalone {
		b.WriteString(` standalone="yes"`)
	}
	b.WriteString("?>")
	return b.String()
}

func renderRawChild(c ChildNode, cfg Config, b *strings.Builder) {
	switch v := c.(type) {
	case *Element:
		b.WriteString(v.PrecedingWhitespace())
		renderRawElement(v, cfg, b)
	case *Text:
		b.WriteString(v.PrecedingWhitespace())
		renderRawText(v, b)
	case *Comment:
		// §4.4: preserveComments=false drops comments in modified subtrees;
		// an unmodified comment is part of the bytes already captured from
		// the source and is always reproduced.
		if !cfg.preserveComments && v.Modified() {
			return
		}
		b.WriteString(v.PrecedingWhitespace())
		b.WriteString("<!--")
		b.WriteString(v.Data)
		b.WriteString("-->")
	case *ProcessingInstruction:
		if !cfg.preserveInstructions && v.Modified() {
			return
		}
		b.WriteString(v.PrecedingWhitespace())
		renderPI(v, b)
	}
}

func renderRawText(t *Text, b *strings.Builder) {
	if t.CDATA {
		b.WriteString("<![CDATA[")
		b.WriteString(t.Content)
		b.WriteString("]]>")
		return
	}
	if t.Raw != nil {
		b.WriteString(*t.Raw)
		return
	}
	b.WriteString(escapeText(t.Content))
}

func renderPI(p *ProcessingInstruction, b *strings.Builder) {
	b.WriteString("<?")
	b.WriteString(p.Target)
	if p.Data != "" {
		b.WriteByte(' ')
		b.WriteString(p.Data)
	}
	b.WriteString("?>")
}

func renderRawElement(e *Element, cfg Config, b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.Name.String())
	e.Attrs.ForEach(func(name string, a *Attribute) bool {
		if a.PrecedingWhitespace == "" {
			b.WriteByte(' ')
		} else {
			b.WriteString(a.PrecedingWhitespace)
		}
		renderAttr(name, a, cfg, b)
		return true
	})
	b.WriteString(e.OpenTagWhitespace)
	if e.SelfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		renderRawChild(c, cfg, b)
	}
	b.WriteString(e.InnerPrecedingWhitespace)
	b.WriteString("</")
	b.WriteString(e.CloseTagWhitespace)
	b.WriteString(e.Name.String())
	b.WriteByte('>')
}

func renderAttr(name string, a *Attribute, cfg Config, b *strings.Builder) {
	q := a.Quote
	if q == 0 {
		q = cfg.defaultQuote
	}
	qb := q.Byte()
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteByte(qb)
	if a.Raw != nil {
		b.WriteString(*a.Raw)
	} else {
		b.WriteString(escapeAttrValue(a.Value, qb))
	}
	b.WriteByte(qb)
}

// serializePretty rebuilds indentation from tree depth for modified
// elements and puts each document-level node on its own line, discarding
// the captured whitespace between them; Clean elements are emitted through
// renderRawElement with their captured bytes.
func serializePretty(doc *Document, cfg Config) string {
	var b strings.Builder
	if doc.Declaration != nil && doc.Declaration.Present {
		if doc.Declaration.Modified || doc.Declaration.Raw == "" {
			b.WriteString(renderDeclaration(doc.Declaration))
		} else {
			b.WriteString(doc.Declaration.Raw)
		}
		b.WriteByte('\n')
	}
	if doc.Doctype != "" {
		b.WriteString(doc.Doctype)
		b.WriteByte('\n')
	}

	first := true
	for _, c := range doc.Children {
		switch v := c.(type) {
		case *Element:
			if !first {
				b.WriteByte('\n')
			}
			if v.state == Clean {
				renderRawElement(v, cfg, &b)
			} else {
				prettyElement(v, 0, cfg, &b)
			}
			first = false
		case *Comment:
			if !cfg.preserveComments && v.Modified() {
				continue
			}
			if !first {
				b.WriteByte('\n')
			}
			b.WriteString("<!--")
			b.WriteString(v.Data)
			b.WriteString("-->")
			first = false
		case *ProcessingInstruction:
			if !cfg.preserveInstructions && v.Modified() {
				continue
			}
			if !first {
				b.WriteByte('\n')
			}
			renderPI(v, &b)
			first = false
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// prettyElement re-renders e from its semantic structure. It is only ever
// called on an element that is itself dirty (state != Clean) or whose
// ancestor is being reformatted; an unmodified descendant still takes the
// raw-preserving path, so pretty-printing never touches bytes a modification
// didn't reach (§4.4 "Unmodified subtrees nested inside still use the
// raw-preserving path").
func prettyElement(e *Element, depth int, cfg Config, b *strings.Builder) {
	if e.state == Clean {
		b.WriteString(strings.Repeat(cfg.indent, depth))
		renderRawElement(e, cfg, b)
		return
	}

	b.WriteString(strings.Repeat(cfg.indent, depth))
	b.WriteByte('<')
	b.WriteString(e.Name.String())
	e.Attrs.ForEach(func(name string, a *Attribute) bool {
		b.WriteByte(' ')
		renderAttr(name, a, cfg, b)
		return true
	})

	if e.SelfClosing {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')

	if !e.HasChildElements() {
		for _, c := range e.Children {
			renderInlinePrettyChild(c, cfg, b)
		}
		b.WriteString("</")
		b.WriteString(e.Name.String())
		b.WriteByte('>')
		return
	}

	for _, c := range e.Children {
		switch v := c.(type) {
		case *Element:
			b.WriteByte('\n')
			prettyElement(v, depth+1, cfg, b)
		case *Comment:
			if !cfg.preserveComments && v.Modified() {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(cfg.indent, depth+1))
			b.WriteString("<!--")
			b.WriteString(v.Data)
			b.WriteString("-->")
		case *ProcessingInstruction:
			if !cfg.preserveInstructions && v.Modified() {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(cfg.indent, depth+1))
			renderPI(v, b)
		case *Text:
			if isAllWhitespace(v.Content) {
				continue
			}
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(cfg.indent, depth+1))
			renderRawText(v, b)
		}
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(cfg.indent, depth))
	b.WriteString("</")
	b.WriteString(e.Name.String())
	b.WriteByte('>')
}

func renderInlinePrettyChild(c ChildNode, cfg Config, b *strings.Builder) {
	switch v := c.(type) {
	case *Text:
		renderRawText(v, b)
	case *Comment:
		if cfg.preserveComments || !v.Modified() {
			b.WriteString("<!--")
			b.WriteString(v.Data)
			b.WriteString("-->")
		}
	case *ProcessingInstruction:
		if cfg.preserveInstructions || !v.Modified() {
			renderPI(v, b)
		}
	}
}
