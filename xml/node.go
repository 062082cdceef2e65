package xml

import (
	"iter"
	"strings"
)

// NodeKind tags the node variant, following the tagged-variant design in
// spec.md §3/§9. Only Element carries attributes and children-by-name
// queries; the others return the zero value / false for those.
type NodeKind int

const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
)

func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case ProcInstNode:
		return "ProcessingInstruction"
	default:
		return "Unknown"
	}
}

// Node is the minimal interface every node in a document, including the
// Document itself, satisfies.
type Node interface {
	Kind() NodeKind
	Parent() Node
}

// ChildNode is satisfied by every node that can appear in a Document's or
// Element's child sequence: Element, Text, Comment, ProcessingInstruction.
type ChildNode interface {
	Node
	ParentElement() *Element
	OwnerDocument() *Document
	PrecedingWhitespace() string
	SetPrecedingWhitespace(string)

	setParent(Node)
}

func ownerDocument(start Node) *Document {
	for n := start; n != nil; n = n.Parent() {
		if d, ok := n.(*Document); ok {
			return d
		}
	}
	return nil
}

// childBase implements the ChildNode plumbing shared by every concrete
// child node type: a non-owning parent back-reference (§9 "Parent
// back-reference ... a back-edge, not ownership") and the preceding
// whitespace run captured/derived for this node (§3).
type childBase struct {
	parent              Node
	precedingWhitespace string
}

func (c *childBase) Parent() Node                        { return c.parent }
func (c *childBase) setParent(p Node)                     { c.parent = p }
func (c *childBase) PrecedingWhitespace() string          { return c.precedingWhitespace }
func (c *childBase) SetPrecedingWhitespace(w string)      { c.precedingWhitespace = w }
func (c *childBase) OwnerDocument() *Document             { return ownerDocument(c.parent) }
func (c *childBase) ParentElement() *Element {
	if e, ok := c.parent.(*Element); ok {
		return e
	}
	return nil
}

// ModState is the three-state modification flag gating raw-slice reuse by
// the serializer (§4.5 "State machine of an element's modification flag").
type ModState int

const (
	Clean ModState = iota
	DirtySelf
	DirtyDeep
)

// Declaration holds the optional XML declaration's parsed fields plus its
// verbatim raw source slice. Per the documented Open Question (§9, see
// DESIGN.md), Version/Encoding/Standalone are populated from a parsed
// declaration for introspection, but Serialize always emits Raw verbatim
// when the declaration itself has not been marked Modified — mutating the
// fields alone does not perturb output.
type Declaration struct {
	Present    bool
	Version    string
	Encoding   string
	Standalone bool
	Raw        string
	Modified   bool
}

func defaultDeclaration() *Declaration {
	return &Declaration{Version: "1.0", Standalone: false}
}

// QName is an element's qualified name: the element's own declared prefix
// and local name. The namespace URI is not stored here; Element.NamespaceURI
// resolves it best-effort from in-scope xmlns/xmlns:prefix attributes.
// Resolution is informational only — no schema or well-formedness rule
// depends on it (§1 "Out of scope ... namespace-aware schema resolution").
type QName struct {
	Prefix string
	Local  string
}

// String returns the qualified name as it would appear in a start tag.
func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

func parseQName(raw string) QName {
	if i := strings.IndexByte(raw, ':'); i > 0 {
		return QName{Prefix: raw[:i], Local: raw[i+1:]}
	}
	return QName{Local: raw}
}

// Document is the root container (§3). It is never itself a ChildNode: it
// has no parent and cannot be inserted into another tree.
type Document struct {
	Declaration *Declaration
	Doctype     string
	Children    []ChildNode

	// doctypeLeadingWhitespace is the whitespace run between the XML
	// declaration (or the start of the source, if absent) and the DOCTYPE
	// declaration. It exists purely to keep serialization byte-exact in the
	// declaration+DOCTYPE case — DOCTYPE itself is not a Children entry, so
	// it has nowhere else to carry this run (§9).
	doctypeLeadingWhitespace string
}

// NewDocument creates an empty Document with a default (absent) declaration.
func NewDocument() *Document {
	return &Document{Declaration: defaultDeclaration()}
}

func (d *Document) Kind() NodeKind { return DocumentNode }
func (d *Document) Parent() Node   { return nil }

// RootElement returns the Document's single element child, or nil if none
// has been added yet.
func (d *Document) RootElement() *Element {
	for _, c := range d.Children {
		if e, ok := c.(*Element); ok {
			return e
		}
	}
	return nil
}

// AppendChild appends child to the Document's top-level child sequence and
// sets its parent.
func (d *Document) AppendChild(child ChildNode) {
	child.setParent(d)
	d.Children = append(d.Children, child)
}

// InsertChild inserts child at position i in the Document's top-level
// child sequence.
func (d *Document) InsertChild(i int, child ChildNode) {
	child.setParent(d)
	d.Children = append(d.Children, nil)
	copy(d.Children[i+1:], d.Children[i:])
	d.Children[i] = child
}

func (d *Document) removeChild(target ChildNode) bool {
	for i, c := range d.Children {
		if c == target {
			d.Children = append(d.Children[:i], d.Children[i+1:]...)
			target.setParent(nil)
			return true
		}
	}
	return false
}

// Element is a tagged XML element: a qualified name, ordered attributes,
// ordered children, and the formatting metadata needed to reproduce its
// exact source rendering when unmodified (§3, §4.2).
type Element struct {
	childBase

	Name  QName
	Attrs *AttributeMap

	Children    []ChildNode
	SelfClosing bool

	// OpenTagWhitespace is the run before the closing '>' / '/>' of the
	// opening tag. CloseTagWhitespace is the run between '</' and the
	// element name in the closing tag. InnerPrecedingWhitespace is the run
	// immediately before the closing tag (between the last child and
	// '</name>').
	OpenTagWhitespace        string
	CloseTagWhitespace       string
	InnerPrecedingWhitespace string

	state ModState
}

// NewElement creates a detached element with the given local name and no
// attributes or children.
func NewElement(name string) *Element {
	return &Element{Name: parseQName(name), Attrs: newAttributeMap(), state: DirtySelf}
}

// NewElementWithText creates a detached element with a single Text child.
func NewElementWithText(name, text string) *Element {
	e := NewElement(name)
	e.AppendChild(NewText(text))
	return e
}

// NewSelfClosingElement creates a detached, self-closing, childless element.
func NewSelfClosingElement(name string) *Element {
	e := NewElement(name)
	e.SelfClosing = true
	return e
}

func (e *Element) Kind() NodeKind { return ElementNode }

// Modified reports whether e's own content (name, attributes, self-closing
// flag, or child sequence) or any of its descendants has changed since
// parse — i.e. state is DirtySelf or DirtyDeep.
func (e *Element) Modified() bool { return e.state != Clean }

// ModState returns the element's current Clean/DirtySelf/DirtyDeep state.
func (e *Element) ModState() ModState { return e.state }

func (e *Element) markDirtySelf() {
	if e.state == Clean {
		e.state = DirtySelf
	}
	propagateDirtyDeep(e.Parent())
}

func propagateDirtyDeep(n Node) {
	for n != nil {
		e, ok := n.(*Element)
		if !ok {
			return
		}
		if e.state == DirtyDeep {
			return
		}
		e.state = DirtyDeep
		n = e.Parent()
	}
}

// Depth returns the element's depth, where the document's root element has
// depth 1 (§4.2).
func (e *Element) Depth() int {
	d := 1
	for p := e.ParentElement(); p != nil; p = p.ParentElement() {
		d++
	}
	return d
}

// Attr looks up an attribute by local name.
func (e *Element) Attr(name string) (string, bool) {
	a := e.Attrs.Get(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// AttrNS looks up an attribute by namespace URI and local name: it first
// resolves which prefix (if any) is bound to uri in scope, then looks up
// prefix:local (or local, for the default namespace).
func (e *Element) AttrNS(uri, local string) (string, bool) {
	prefix, ok := e.resolvePrefixForURI(uri)
	if !ok {
		return "", false
	}
	name := local
	if prefix != "" {
		name = prefix + ":" + local
	}
	return e.Attr(name)
}

func (e *Element) resolvePrefixForURI(uri string) (string, bool) {
	for el := e; el != nil; el = el.ParentElement() {
		found := false
		el.Attrs.ForEach(func(name string, attr *Attribute) bool {
			switch {
			case name == "xmlns" && attr.Value == uri:
				found = true
				return false
			case strings.HasPrefix(name, "xmlns:") && attr.Value == uri:
				found = true
				return false
			}
			return true
		})
		if found {
			var prefix string
			el.Attrs.ForEach(func(name string, attr *Attribute) bool {
				if name == "xmlns" && attr.Value == uri {
					prefix = ""
					return false
				}
				if strings.HasPrefix(name, "xmlns:") && attr.Value == uri {
					prefix = strings.TrimPrefix(name, "xmlns:")
					return false
				}
				return true
			})
			return prefix, true
		}
	}
	return "", false
}

// NamespaceURI resolves the namespace URI bound to the element's own
// prefix (or the default namespace, if the element has no prefix), walking
// ancestors for an in-scope xmlns declaration. Returns "" if unresolved —
// resolution is best-effort (§1 non-goal: namespace-aware schema
// resolution is out of scope).
func (e *Element) NamespaceURI() string {
	attrName := "xmlns"
	if e.Name.Prefix != "" {
		attrName = "xmlns:" + e.Name.Prefix
	}
	for el := e; el != nil; el = el.ParentElement() {
		if v, ok := el.Attr(attrName); ok {
			return v
		}
	}
	return ""
}

// SetAttr sets an attribute's value, creating it if absent. When quote is
// omitted, an existing attribute's quote style is retained; a newly
// created attribute is left without a quote style, so the serializer
// renders it with its Config's default quote style. Any existing raw slice
// is discarded — only the new decoded value feeds serialization from now
// on.
func (e *Element) SetAttr(name, value string, quote ...QuoteStyle) {
	existing := e.Attrs.Get(name)
	var q QuoteStyle
	switch {
	case len(quote) > 0:
		q = quote[0]
	case existing != nil:
		q = existing.Quote
	}
	e.Attrs.Put(name, &Attribute{Name: name, Value: value, Quote: q})
	e.markDirtySelf()
}

// RemoveAttr removes an attribute by name. It is a no-op if absent.
func (e *Element) RemoveAttr(name string) {
	if !e.Attrs.Has(name) {
		return
	}
	e.Attrs.Remove(name)
	e.markDirtySelf()
}

// FirstChildElement returns the first direct child element named name, or
// nil.
func (e *Element) FirstChildElement(name string) *Element {
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok && ce.Name.Local == name {
			return ce
		}
	}
	return nil
}

// ChildElements returns the direct child elements, in document order.
// When names is non-empty, only elements whose local name matches one of
// names are returned.
func (e *Element) ChildElements(names ...string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		ce, ok := c.(*Element)
		if !ok {
			continue
		}
		if len(names) == 0 || containsString(names, ce.Name.Local) {
			out = append(out, ce)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Descendants returns a lazy, pre-order, left-to-right sequence of e's
// descendant elements. Each call returns a fresh iterator, so it is
// restartable by re-invoking Descendants (§9 "lazy descendant sequences").
func (e *Element) Descendants() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		var walk func(*Element) bool
		walk = func(el *Element) bool {
			for _, c := range el.Children {
				ce, ok := c.(*Element)
				if !ok {
					continue
				}
				if !yield(ce) {
					return false
				}
				if !walk(ce) {
					return false
				}
			}
			return true
		}
		walk(e)
	}
}

// HasChildElements reports whether e has at least one child Element.
func (e *Element) HasChildElements() bool {
	for _, c := range e.Children {
		if _, ok := c.(*Element); ok {
			return true
		}
	}
	return false
}

// HasTextContent reports whether e has at least one Text child (whitespace
// or not — inter-element whitespace never becomes a Text child per the
// parser's whitespace-capture contract, so any Text child here is
// semantic).
func (e *Element) HasTextContent() bool {
	for _, c := range e.Children {
		if _, ok := c.(*Text); ok {
			return true
		}
	}
	return false
}

// TrimmedTextContent concatenates all Text descendants (depth-first,
// document order) and trims the result. It never sets Modified.
func (e *Element) TrimmedTextContent() string {
	var b strings.Builder
	var walk func(ChildNode)
	walk = func(n ChildNode) {
		switch v := n.(type) {
		case *Text:
			b.WriteString(v.Content)
		case *Element:
			for _, c := range v.Children {
				walk(c)
			}
		}
	}
	for _, c := range e.Children {
		walk(c)
	}
	return strings.TrimSpace(b.String())
}

// SetTextContent replaces all of e's children with a single Text node
// carrying content.
func (e *Element) SetTextContent(content string) {
	for _, c := range e.Children {
		c.setParent(nil)
	}
	e.Children = []ChildNode{NewText(content)}
	e.Children[0].setParent(e)
	e.markDirtySelf()
}

// SetTextContentPreserveWhitespace replaces e's children with a single Text
// node carrying content, but re-wraps it with the leading/trailing
// whitespace run taken from the first existing Text child, if any (§4.2).
// With no existing Text child, it behaves like SetTextContent.
func (e *Element) SetTextContentPreserveWhitespace(content string) {
	var lead, trail string
	for _, c := range e.Children {
		if t, ok := c.(*Text); ok {
			lead, trail = splitSurroundingWhitespace(t.Content)
			break
		}
	}
	if lead == "" && trail == "" {
		e.SetTextContent(content)
		return
	}
	e.SetTextContent(lead + content + trail)
}

func splitSurroundingWhitespace(s string) (lead, trail string) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s, ""
	}
	leadLen := strings.Index(s, trimmed)
	lead = s[:leadLen]
	trail = s[leadLen+len(trimmed):]
	return lead, trail
}

// AppendChild appends child to e's child sequence. A self-closing element
// gains a body as soon as it gains a child.
func (e *Element) AppendChild(child ChildNode) {
	child.setParent(e)
	e.Children = append(e.Children, child)
	e.SelfClosing = false
	e.markDirtySelf()
}

// InsertChild inserts child at position i in e's child sequence.
func (e *Element) InsertChild(i int, child ChildNode) {
	child.setParent(e)
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = child
	e.SelfClosing = false
	e.markDirtySelf()
}

func (e *Element) removeChild(target ChildNode) bool {
	for i, c := range e.Children {
		if c == target {
			e.Children = append(e.Children[:i], e.Children[i+1:]...)
			target.setParent(nil)
			e.markDirtySelf()
			return true
		}
	}
	return false
}

// Detach removes e from its parent's child sequence. It is a no-op if e is
// already detached.
func (e *Element) Detach() {
	detachFrom(e.Parent(), e)
}

func detachFrom(parent Node, target ChildNode) bool {
	switch p := parent.(type) {
	case *Document:
		return p.removeChild(target)
	case *Element:
		return p.removeChild(target)
	}
	return false
}

// Text is a text node: decoded content plus a CDATA flag (§3). Raw mirrors
// Attribute.Raw's duality (§9): when set, it is the exact, un-decoded source
// slice and takes priority over re-encoding Content on serialization. Any
// mutation clears it.
type Text struct {
	childBase
	Content  string
	CDATA    bool
	Raw      *string
	modified bool
}

// NewText creates a detached, already-modified plain text node.
func NewText(content string) *Text {
	return &Text{Content: content, modified: true}
}

// NewCDATA creates a detached, already-modified CDATA text node.
func NewCDATA(content string) *Text {
	return &Text{Content: content, CDATA: true, modified: true}
}

func (t *Text) Kind() NodeKind { return TextNode }
func (t *Text) Modified() bool { return t.modified }

// SetContent updates the text node's content, marking it modified and
// discarding any raw source slice.
func (t *Text) SetContent(content string) {
	t.Content = content
	t.Raw = nil
	t.modified = true
	propagateDirtyDeep(t.Parent())
}

// SetCDATA toggles the CDATA rendering flag, marking the node modified and
// discarding any raw source slice.
func (t *Text) SetCDATA(isCDATA bool) {
	t.CDATA = isCDATA
	t.Raw = nil
	t.modified = true
	propagateDirtyDeep(t.Parent())
}

// Detach removes t from its parent's child sequence.
func (t *Text) Detach() { detachFrom(t.Parent(), t) }

// Comment is a comment node; Data is the text between <!-- and --> (§3).
type Comment struct {
	childBase
	Data     string
	modified bool
}

// NewComment creates a detached, already-modified comment node.
func NewComment(data string) *Comment {
	return &Comment{Data: data, modified: true}
}

func (c *Comment) Kind() NodeKind { return CommentNode }
func (c *Comment) Modified() bool { return c.modified }

// SetData updates the comment's body, marking it modified.
func (c *Comment) SetData(data string) {
	c.Data = data
	c.modified = true
	propagateDirtyDeep(c.Parent())
}

// Detach removes c from its parent's child sequence.
func (c *Comment) Detach() { detachFrom(c.Parent(), c) }

// ProcessingInstruction is a PI node: a target plus its body (§3).
type ProcessingInstruction struct {
	childBase
	Target   string
	Data     string
	modified bool
}

// NewProcessingInstruction creates a detached, already-modified PI node.
func NewProcessingInstruction(target, data string) *ProcessingInstruction {
	return &ProcessingInstruction{Target: target, Data: data, modified: true}
}

func (p *ProcessingInstruction) Kind() NodeKind { return ProcInstNode }
func (p *ProcessingInstruction) Modified() bool { return p.modified }

// SetData updates the PI's body, marking it modified.
func (p *ProcessingInstruction) SetData(data string) {
	p.Data = data
	p.modified = true
	propagateDirtyDeep(p.Parent())
}

// Detach removes p from its parent's child sequence.
func (p *ProcessingInstruction) Detach() { detachFrom(p.Parent(), p) }
