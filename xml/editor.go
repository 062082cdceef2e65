package xml

import "strings"

// Editor is a thin, stateless façade over the node model: every method
// takes the nodes it operates on as arguments and returns a new result or
// an error, with no undo/redo and no memory of prior calls (§4.5). It holds
// only an immutable Config snapshot, used for the default quote style on
// newly created attributes and the indent unit for inherited-indent
// whitespace derivation.
type Editor struct {
	cfg Config
}

// NewEditor returns an Editor bound to cfg.
func NewEditor(cfg Config) Editor {
	return Editor{cfg: cfg}
}

// AddElementOptions carries addElement's optional arguments.
type AddElementOptions struct {
	Text        string
	BlankBefore bool
	BlankAfter  bool
}

// AddElement appends a new child element named name to parent, deriving its
// precedingWhitespace from neighboring context so the result stays visually
// consistent with the rest of the document (§4.5).
func (ed Editor) AddElement(parent *Element, name string, opts AddElementOptions) (*Element, error) {
	if parent == nil {
		return nil, newInvalidArgument("AddElement", "parent is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, newInvalidXML("element name must not be empty")
	}

	el := NewElement(name)
	if opts.Text != "" {
		el.AppendChild(NewText(opts.Text))
	}

	ws := ed.deriveChildWhitespace(parent)
	if opts.BlankBefore {
		ws = "\n" + ws
	}
	el.SetPrecedingWhitespace(ws)

	if opts.BlankAfter {
		parent.InnerPrecedingWhitespace = "\n" + parent.InnerPrecedingWhitespace
	}

	parent.AppendChild(el)
	return el, nil
}

// deriveChildWhitespace implements §4.5's three-step priority: copy the
// last child element's own leading whitespace; else reuse the parent's
// innerPrecedingWhitespace; else synthesize one indent level deeper than
// the parent.
func (ed Editor) deriveChildWhitespace(parent *Element) string {
	if siblings := parent.ChildElements(); len(siblings) > 0 {
		return siblings[len(siblings)-1].PrecedingWhitespace()
	}
	if parent.InnerPrecedingWhitespace != "" {
		return parent.InnerPrecedingWhitespace
	}
	return "\n" + strings.Repeat(ed.cfg.indent, parent.Depth())
}

// RemoveElement detaches target from its parent, absorbing adjacent
// whitespace so the remaining siblings keep their original formatting
// (§4.5). Returns false if target is nil or already detached.
func RemoveElement(target *Element) bool {
	if target == nil {
		return false
	}
	parent := target.Parent()
	if parent == nil {
		return false
	}

	children := childrenOf(parent)
	idx := indexOfChild(children, target)
	if idx < 0 {
		return false
	}

	// First child removed: the new first child inherits what used to be
	// the removed node's own leading whitespace, discarding its own.
	if idx == 0 && idx+1 < len(children) {
		children[idx+1].SetPrecedingWhitespace(target.PrecedingWhitespace())
	}
	// Last-child and middle-child removal need no further adjustment: the
	// parent's innerPrecedingWhitespace is untouched, and interior siblings
	// keep their own precedingWhitespace.

	switch p := parent.(type) {
	case *Document:
		return p.removeChild(target)
	case *Element:
		return p.removeChild(target)
	}
	return false
}

// RemoveElement is Editor's facade over the package-level RemoveElement.
func (ed Editor) RemoveElement(target *Element) bool {
	return RemoveElement(target)
}

// CommentOutElement replaces target with a single Comment wrapping its
// serialized form. It is shorthand for CommentOutElements(target).
func (ed Editor) CommentOutElement(target *Element) (*Comment, error) {
	return ed.CommentOutElements(target)
}

// CommentOutElements replaces a contiguous run of sibling elements (all
// children of the same parent, in document order) with a single Comment
// whose body is " " + the targets' serialized form + " " (§4.5). Fails with
// InvalidArgumentError if any target is nil, detached, the document root,
// or if the targets are not a single contiguous run of a shared parent.
func (ed Editor) CommentOutElements(targets ...*Element) (*Comment, error) {
	if len(targets) == 0 {
		return nil, newInvalidArgument("CommentOutElements", "no targets given")
	}

	var parent Node
	for i, t := range targets {
		if t == nil {
			return nil, newInvalidArgument("CommentOutElements", "target is nil")
		}
		if t.Parent() == nil {
			return nil, newInvalidArgument("CommentOutElements", "target is detached")
		}
		if isDocumentRoot(t) {
			return nil, newInvalidArgument("CommentOutElements", "cannot comment out the document root element")
		}
		if i == 0 {
			parent = t.Parent()
		} else if t.Parent() != parent {
			return nil, newInvalidArgument("CommentOutElements", "targets do not share a parent")
		}
	}

	children := childrenOf(parent)
	startIdx := indexOfChild(children, targets[0])
	if startIdx < 0 {
		return nil, newInvalidArgument("CommentOutElements", "target not found in parent")
	}
	for i, t := range targets {
		if startIdx+i >= len(children) || children[startIdx+i] != ChildNode(t) {
			return nil, newInvalidArgument("CommentOutElements", "targets are not a contiguous run in document order")
		}
	}

	body := serializeSpanForComment(targets, ed.cfg)
	comment := NewComment(body)
	comment.SetPrecedingWhitespace(targets[0].PrecedingWhitespace())

	newChildren := make([]ChildNode, 0, len(children)-len(targets)+1)
	newChildren = append(newChildren, children[:startIdx]...)
	newChildren = append(newChildren, comment)
	newChildren = append(newChildren, children[startIdx+len(targets):]...)

	for _, t := range targets {
		t.setParent(nil)
	}
	comment.setParent(parent)
	setChildrenOf(parent, newChildren)

	return comment, nil
}

// serializeSpanForComment renders targets for use as a comment-out body:
// the first element's own precedingWhitespace is omitted (it becomes the
// comment's own precedingWhitespace instead), but inter-element whitespace
// within the span is kept.
func serializeSpanForComment(targets []*Element, cfg Config) string {
	var b strings.Builder
	b.WriteByte(' ')
	for i, t := range targets {
		if i > 0 {
			b.WriteString(t.PrecedingWhitespace())
		}
		renderRawElement(t, cfg, &b)
	}
	b.WriteByte(' ')
	return b.String()
}

// UncommentElement parses comment's body as an XML fragment and, if it
// yields exactly one element (optionally surrounded by whitespace),
// replaces the comment with that element, preserving the comment's
// precedingWhitespace (§4.5, §9 fragment mode). Fails with
// InvalidArgumentError if the body is empty/whitespace-only or does not
// parse as a well-formed single element.
func (ed Editor) UncommentElement(comment *Comment) (*Element, error) {
	if comment == nil {
		return nil, newInvalidArgument("UncommentElement", "comment is nil")
	}
	if strings.TrimSpace(comment.Data) == "" {
		return nil, newInvalidArgument("UncommentElement", "comment body is empty")
	}

	nodes, err := parseFragment(comment.Data)
	if err != nil {
		return nil, newInvalidArgument("UncommentElement", "comment body is not well-formed XML: "+err.Error())
	}

	var el *Element
	for _, n := range nodes {
		switch v := n.(type) {
		case *Element:
			if el != nil {
				return nil, newInvalidArgument("UncommentElement", "comment body contains more than one element")
			}
			el = v
		case *Text:
			if !isAllWhitespace(v.Content) {
				return nil, newInvalidArgument("UncommentElement", "comment body contains non-whitespace text outside the element")
			}
		default:
			return nil, newInvalidArgument("UncommentElement", "comment body contains content other than a single element")
		}
	}
	if el == nil {
		return nil, newInvalidArgument("UncommentElement", "comment body does not contain an element")
	}

	parent := comment.Parent()
	if parent == nil {
		return nil, newInvalidArgument("UncommentElement", "comment is detached")
	}
	children := childrenOf(parent)
	idx := indexOfChild(children, comment)
	if idx < 0 {
		return nil, newInvalidArgument("UncommentElement", "comment not found in parent")
	}

	el.SetPrecedingWhitespace(comment.PrecedingWhitespace())
	children[idx] = el
	el.setParent(parent)
	comment.setParent(nil)
	setChildrenOf(parent, children)

	return el, nil
}

// CreateDocument returns a new Document with a self-closing root element
// named rootName and a default "1.0" declaration. Fails with
// InvalidArgumentError on a null/empty name.
func (ed Editor) CreateDocument(rootName string) (*Document, error) {
	if strings.TrimSpace(rootName) == "" {
		return nil, newInvalidArgument("CreateDocument", "root element name must not be empty")
	}
	doc := NewDocument()
	doc.Declaration.Present = true
	doc.AppendChild(NewSelfClosingElement(rootName))
	return doc, nil
}

func isDocumentRoot(e *Element) bool {
	doc := e.OwnerDocument()
	return doc != nil && doc.RootElement() == e
}

func childrenOf(n Node) []ChildNode {
	switch v := n.(type) {
	case *Document:
		return v.Children
	case *Element:
		return v.Children
	}
	return nil
}

func setChildrenOf(n Node, children []ChildNode) {
	switch v := n.(type) {
	case *Document:
		v.Children = children
	case *Element:
		v.Children = children
		v.markDirtySelf()
	}
}

func indexOfChild(children []ChildNode, target ChildNode) int {
	for i, c := range children {
		if c == target {
			return i
		}
	}
	return -1
}
