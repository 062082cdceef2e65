package xml

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseOptions controls the handful of parser behaviors the spec leaves
// configurable (§4.3). The zero value is the default, strict configuration.
type ParseOptions struct {
	// LenientEndTags disables the mismatched-closing-tag-name check. Off by
	// default — "strict mode is on" per §4.3.
	LenientEndTags bool
}

// ParseOption configures a Parse call.
type ParseOption func(*ParseOptions)

// WithLenientEndTags disables the closing-tag-name match check.
func WithLenientEndTags() ParseOption {
	return func(o *ParseOptions) { o.LenientEndTags = true }
}

// Parse parses a complete XML document from source, returning a Document
// whose structure and captured formatting metadata allow byte-identical
// re-serialization when unmodified (§4.3). Parse fails with a *ParseError
// of kind UnexpectedEOF on nil, empty, or whitespace-only input.
func Parse(source string, opts ...ParseOption) (*Document, error) {
	var o ParseOptions
	for _, opt := range opts {
		opt(&o)
	}

	if strings.TrimSpace(source) == "" {
		return nil, withSource(newParseError(UnexpectedEOF, 0, "empty document"), source)
	}

	p := &parser{src: source, opts: o}
	doc, err := p.parseDocument()
	if err != nil {
		return nil, withSource(err, source)
	}
	return doc, nil
}

func withSource(err error, source string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.source = source
	}
	return err
}

// parseFragment parses source as a sequence of nodes rather than a full
// document: no declaration, no DOCTYPE, and no single-root requirement.
// It is the internal entry point §9 calls for: used by Editor.UncommentElement to
// interpret a comment's body as XML. Empty input yields an empty, non-error
// result — the one place parsing is infallible on the empty boundary.
func parseFragment(source string) ([]ChildNode, error) {
	p := &parser{src: source}
	nodes, _, err := p.scanNodes(0, false)
	if err != nil {
		return nil, withSource(err, source)
	}
	return nodes, nil
}

type parser struct {
	src  string
	opts ParseOptions

	// trailingRun is set by scanNodes on return: the whitespace run it could
	// not attach to any child node, immediately preceding either "</" (inside
	// an element) or EOF (fragment mode).
	trailingRun trailingRun
}

func (p *parser) parseDocument() (*Document, error) {
	doc := NewDocument()
	pos := 0

	if strings.HasPrefix(p.src, "<?xml") && (len(p.src) == 5 || isXMLDeclBoundary(p.src[5])) {
		decl, newPos, err := p.parseDeclaration(pos)
		if err != nil {
			return nil, err
		}
		doc.Declaration = decl
		pos = newPos
	}

	// Prolog: whitespace, comments, PIs, and at most one DOCTYPE, leading up
	// to the root element.
	ws := ""
	for {
		wsStart := pos
		pos = skipWhitespace(p.src, pos)
		ws += p.src[wsStart:pos]

		if pos >= len(p.src) {
			return nil, newParseError(UnexpectedEOF, pos, "no root element found")
		}

		switch {
		case strings.HasPrefix(p.src[pos:], "<!--"):
			c, newPos, err := p.parseComment(pos)
			if err != nil {
				return nil, err
			}
			c.SetPrecedingWhitespace(ws)
			ws = ""
			doc.AppendChild(c)
			pos = newPos

		case strings.HasPrefix(p.src[pos:], "<!DOCTYPE"):
			if doc.Doctype != "" {
				return nil, newParseError(InvalidChar, pos, "duplicate DOCTYPE declaration")
			}
			raw, newPos, err := p.parseDoctype(pos)
			if err != nil {
				return nil, err
			}
			doc.Doctype = raw
			doc.doctypeLeadingWhitespace = ws
			ws = ""
			pos = newPos

		case strings.HasPrefix(p.src[pos:], "<?"):
			pi, newPos, err := p.parsePI(pos)
			if err != nil {
				return nil, err
			}
			pi.SetPrecedingWhitespace(ws)
			ws = ""
			doc.AppendChild(pi)
			pos = newPos

		case p.src[pos] == '<' && isElementStart(p.src, pos+1):
			el, newPos, err := p.parseElement(pos)
			if err != nil {
				return nil, err
			}
			el.SetPrecedingWhitespace(ws)
			ws = ""
			doc.AppendChild(el)
			pos = newPos
			goto epilogue

		default:
			return nil, newParseError(InvalidChar, pos, "unexpected content before root element")
		}
	}

epilogue:
	ws = ""
	for {
		wsStart := pos
		pos = skipWhitespace(p.src, pos)
		ws += p.src[wsStart:pos]

		if pos >= len(p.src) {
			if ws != "" {
				doc.AppendChild(&Text{Content: ws})
			}
			return doc, nil
		}

		switch {
		case strings.HasPrefix(p.src[pos:], "<!--"):
			c, newPos, err := p.parseComment(pos)
			if err != nil {
				return nil, err
			}
			c.SetPrecedingWhitespace(ws)
			ws = ""
			doc.AppendChild(c)
			pos = newPos

		case strings.HasPrefix(p.src[pos:], "<?"):
			pi, newPos, err := p.parsePI(pos)
			if err != nil {
				return nil, err
			}
			pi.SetPrecedingWhitespace(ws)
			ws = ""
			doc.AppendChild(pi)
			pos = newPos

		default:
			return nil, newParseError(InvalidChar, pos, "unexpected content after root element")
		}
	}
}

func isXMLDeclBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '?'
}

// parseDeclaration parses "<?xml ... ?>" starting at pos (which must point
// at '<'). It extracts version/encoding/standalone from the pseudo-attribute
// syntax while retaining the entire raw slice for lossless re-emission.
func (p *parser) parseDeclaration(pos int) (*Declaration, int, error) {
	start := pos
	pos += len("<?xml")

	attrs := map[string]string{}
	for {
		wsEnd := skipWhitespace(p.src, pos)
		pos = wsEnd
		if pos >= len(p.src) {
			return nil, 0, newParseError(UnexpectedEOF, pos, "unterminated XML declaration")
		}
		if strings.HasPrefix(p.src[pos:], "?>") {
			pos += 2
			break
		}
		name, next, ok := scanName(p.src, pos)
		if !ok {
			return nil, 0, newParseError(InvalidName, pos, "invalid name in XML declaration")
		}
		pos = skipWhitespace(p.src, next)
		if pos >= len(p.src) || p.src[pos] != '=' {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "expected '=' in XML declaration")
		}
		pos = skipWhitespace(p.src, pos+1)
		if pos >= len(p.src) || (p.src[pos] != '"' && p.src[pos] != '\'') {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "expected quoted value in XML declaration")
		}
		quote := p.src[pos]
		pos++
		valEnd := strings.IndexByte(p.src[pos:], quote)
		if valEnd < 0 {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "unterminated value in XML declaration")
		}
		attrs[name] = p.src[pos : pos+valEnd]
		pos += valEnd + 1
	}

	decl := &Declaration{
		Present:  true,
		Version:  attrs["version"],
		Encoding: attrs["encoding"],
		Raw:      p.src[start:pos],
	}
	if decl.Version == "" {
		decl.Version = "1.0"
	}
	decl.Standalone = attrs["standalone"] == "yes"
	return decl, pos, nil
}

// parseDoctype parses "<!DOCTYPE ... >" starting at pos, balancing the
// internal subset's '[' ... ']' and skipping quoted literals, returning the
// entire raw slice including the terminator.
func (p *parser) parseDoctype(pos int) (string, int, error) {
	start := pos
	pos += len("<!DOCTYPE")

	depth := 0
	var inQuote byte
	for {
		if pos >= len(p.src) {
			return "", 0, newParseError(UnterminatedDoctype, start, "unterminated DOCTYPE declaration")
		}
		c := p.src[pos]
		switch {
		case inQuote != 0:
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth == 0:
			pos++
			return p.src[start:pos], pos, nil
		}
		pos++
	}
}

func (p *parser) parseComment(pos int) (*Comment, int, error) {
	start := pos
	pos += len("<!--")
	end := strings.Index(p.src[pos:], "-->")
	if end < 0 {
		return nil, 0, newParseError(UnterminatedComment, start, "unterminated comment")
	}
	data := p.src[pos : pos+end]
	pos += end + len("-->")
	return &Comment{Data: data}, pos, nil
}

func (p *parser) parseCDATA(pos int) (*Text, int, error) {
	start := pos
	pos += len("<![CDATA[")
	end := strings.Index(p.src[pos:], "]]>")
	if end < 0 {
		return nil, 0, newParseError(UnterminatedCData, start, "unterminated CDATA section")
	}
	data := p.src[pos : pos+end]
	pos += end + len("]]>")
	return &Text{Content: data, CDATA: true}, pos, nil
}

func (p *parser) parsePI(pos int) (*ProcessingInstruction, int, error) {
	start := pos
	pos += len("<?")
	name, next, ok := scanName(p.src, pos)
	if !ok {
		return nil, 0, newParseError(InvalidName, pos, "invalid processing instruction target")
	}
	pos = next

	dataStart := pos
	if pos < len(p.src) && isWhitespaceByte(p.src[pos]) {
		pos = skipWhitespace(p.src, pos)
		dataStart = pos
	}

	end := strings.Index(p.src[pos:], "?>")
	if end < 0 {
		return nil, 0, newParseError(UnexpectedEOF, start, "unterminated processing instruction")
	}
	data := p.src[dataStart : pos+end]
	pos += end + len("?>")
	return &ProcessingInstruction{Target: name, Data: data}, pos, nil
}

// parseElement parses a full element (start tag, children, end tag — or a
// self-closing tag) starting at pos, which must point at '<'.
func (p *parser) parseElement(pos int) (*Element, int, error) {
	pos++ // consume '<'
	name, next, ok := scanName(p.src, pos)
	if !ok {
		return nil, 0, newParseError(InvalidName, pos, "invalid element name")
	}
	pos = next

	el := &Element{Name: parseQName(name), Attrs: newAttributeMap()}

	for {
		wsStart := pos
		pos = skipWhitespace(p.src, pos)
		ws := p.src[wsStart:pos]

		if pos >= len(p.src) {
			return nil, 0, newParseError(UnterminatedTag, wsStart, "unterminated start tag for <"+name+">")
		}

		if p.src[pos] == '/' && pos+1 < len(p.src) && p.src[pos+1] == '>' {
			el.OpenTagWhitespace = ws
			el.SelfClosing = true
			return el, pos + 2, nil
		}
		if p.src[pos] == '>' {
			el.OpenTagWhitespace = ws
			pos++
			break
		}

		attrName, attrNext, ok := scanName(p.src, pos)
		if !ok {
			return nil, 0, newParseError(InvalidName, pos, "invalid attribute name")
		}
		pos = attrNext

		pos = skipWhitespace(p.src, pos)
		if pos >= len(p.src) || p.src[pos] != '=' {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "expected '=' after attribute name")
		}
		pos = skipWhitespace(p.src, pos+1)
		if pos >= len(p.src) || (p.src[pos] != '"' && p.src[pos] != '\'') {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "expected quoted attribute value")
		}
		quote := p.src[pos]
		pos++
		valEnd := strings.IndexByte(p.src[pos:], quote)
		if valEnd < 0 {
			return nil, 0, newParseError(UnterminatedAttribute, pos, "unterminated attribute value")
		}
		raw := p.src[pos : pos+valEnd]
		pos += valEnd + 1

		qs, _ := decodeQuoteStyle(quote)
		el.Attrs.Put(attrName, &Attribute{
			Name:                attrName,
			Value:               decodeEntities(raw),
			Quote:               qs,
			PrecedingWhitespace: ws,
			Raw:                 &raw,
		})
	}

	children, endPos, err := p.scanNodes(pos, true)
	if err != nil {
		return nil, 0, err
	}
	el.Children = children
	for _, c := range children {
		c.setParent(el)
	}

	// scanNodes returns endPos pointing at "</"; the whitespace run it could
	// not attach to a child is the element's innerPrecedingWhitespace.
	el.InnerPrecedingWhitespace = p.trailingRun.whitespace
	pos = endPos

	pos += len("</")
	closeWSStart := pos
	pos = skipWhitespace(p.src, pos)
	el.CloseTagWhitespace = p.src[closeWSStart:pos]

	endName, next2, ok := scanName(p.src, pos)
	if !ok {
		return nil, 0, newParseError(InvalidName, pos, "invalid closing tag name")
	}
	pos = next2
	if !p.opts.LenientEndTags && endName != name {
		return nil, 0, newParseError(MismatchedEndTag, pos, "closing tag </"+endName+"> does not match <"+name+">")
	}
	pos = skipWhitespace(p.src, pos)
	if pos >= len(p.src) || p.src[pos] != '>' {
		return nil, 0, newParseError(UnterminatedTag, pos, "unterminated closing tag for </"+name+">")
	}
	pos++

	return el, pos, nil
}

// scanNodes scans a sequence of sibling nodes (comments, PIs, CDATA,
// elements, and text) starting at pos. When insideElement is true, scanning
// stops at the first "</" and the whitespace run immediately preceding it
// is returned via p.trailingRun instead of being attached to any node, per
// the whitespace-capture contract (§4.3). When insideElement is false
// (fragment mode, used by parseFragment), scanning runs to EOF.
func (p *parser) scanNodes(pos int, insideElement bool) ([]ChildNode, int, error) {
	var nodes []ChildNode
	ws := ""

	for {
		if pos >= len(p.src) {
			if insideElement {
				return nil, 0, newParseError(UnterminatedTag, pos, "unterminated element: missing closing tag")
			}
			p.trailingRun = trailingRun{ws, pos}
			return nodes, pos, nil
		}

		if insideElement && strings.HasPrefix(p.src[pos:], "</") {
			p.trailingRun = trailingRun{ws, pos}
			return nodes, pos, nil
		}

		switch {
		case strings.HasPrefix(p.src[pos:], "<!--"):
			c, newPos, err := p.parseComment(pos)
			if err != nil {
				return nil, 0, err
			}
			c.SetPrecedingWhitespace(ws)
			ws = ""
			nodes = append(nodes, c)
			pos = newPos

		case strings.HasPrefix(p.src[pos:], "<![CDATA["):
			t, newPos, err := p.parseCDATA(pos)
			if err != nil {
				return nil, 0, err
			}
			t.SetPrecedingWhitespace(ws)
			ws = ""
			nodes = append(nodes, t)
			pos = newPos

		case strings.HasPrefix(p.src[pos:], "<?"):
			pi, newPos, err := p.parsePI(pos)
			if err != nil {
				return nil, 0, err
			}
			pi.SetPrecedingWhitespace(ws)
			ws = ""
			nodes = append(nodes, pi)
			pos = newPos

		case p.src[pos] == '<' && isElementStart(p.src, pos+1):
			el, newPos, err := p.parseElement(pos)
			if err != nil {
				return nil, 0, err
			}
			el.SetPrecedingWhitespace(ws)
			ws = ""
			nodes = append(nodes, el)
			pos = newPos

		case p.src[pos] == '<':
			return nil, 0, newParseError(InvalidChar, pos, "unexpected '<' not starting a recognized construct")

		default:
			end := strings.IndexByte(p.src[pos:], '<')
			if end < 0 {
				end = len(p.src)
			} else {
				end += pos
			}
			raw := p.src[pos:end]
			pos = end
			if isAllWhitespace(raw) {
				ws += raw
				continue
			}
			t := &Text{Content: decodeEntities(raw), Raw: &raw}
			t.SetPrecedingWhitespace(ws)
			ws = ""
			nodes = append(nodes, t)
		}
	}
}

type trailingRun struct {
	whitespace string
	pos        int
}

func isElementStart(src string, pos int) bool {
	if pos >= len(src) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(src[pos:])
	return isNameStartRune(r)
}

func isWhitespaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipWhitespace(src string, pos int) int {
	for pos < len(src) && isWhitespaceByte(src[pos]) {
		pos++
	}
	return pos
}

func isAllWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWhitespaceByte(s[i]) {
			return false
		}
	}
	return true
}

func isNameStartRune(r rune) bool {
	return r == '_' || r == ':' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return isNameStartRune(r) || r == '-' || r == '.' || unicode.IsDigit(r)
}

// scanName scans a Name production (qualified names included, via ':')
// starting at pos. Returns false if pos is not a valid name start.
func scanName(src string, pos int) (string, int, bool) {
	start := pos
	if pos >= len(src) {
		return "", pos, false
	}
	r, size := utf8.DecodeRuneInString(src[pos:])
	if !isNameStartRune(r) {
		return "", pos, false
	}
	pos += size
	for pos < len(src) {
		r, size := utf8.DecodeRuneInString(src[pos:])
		if !isNameRune(r) {
			break
		}
		pos += size
	}
	return src[start:pos], pos, true
}
