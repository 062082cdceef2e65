package xml

import "testing"

func TestParse_RoundTripIdentity(t *testing.T) {
	docs := []string{
		`<root/>`,
		`<root></root>`,
		`<?xml version="1.0" encoding="UTF-8"?>` + "\n<root><child>text</child></root>",
		"<root>\n    <child>text</child>\n</root>\n",
		`<root attr1='single quotes' attr2="double quotes"><e other="normal"/></root>`,
		`<root><!-- a comment --><child/></root>`,
		`<root><?pi target data?><child/></root>`,
		`<root><![CDATA[<raw> & stuff]]></root>`,
		`<!DOCTYPE note [<!ELEMENT note (to)>]>` + "\n<note><to>X</to></note>",
		`<root mixed="v">some <b>bold</b> text</root>`,
	}
	for _, src := range docs {
		t.Run(src, func(t *testing.T) {
			doc, err := Parse(src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", src, err)
			}
			out, err := Serialize(doc, DefaultConfig())
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			if out != src {
				t.Errorf("round trip mismatch:\n got: %q\nwant: %q", out, src)
			}
		})
	}
}

func TestParse_DoctypeWithInternalSubset(t *testing.T) {
	src := "<!DOCTYPE note [<!ELEMENT note (to)>]>\n<note><to>X</to></note>"
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Doctype != "<!DOCTYPE note [<!ELEMENT note (to)>]>" {
		t.Errorf("Doctype = %q", doc.Doctype)
	}
	out, err := Serialize(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if out != src {
		t.Errorf("serialize mismatch: got %q, want %q", out, src)
	}
}

func TestParse_MixedQuoteAttributes(t *testing.T) {
	src := `<root attr1='single quotes' attr2="double quotes"><e other="normal"/></root>`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := doc.RootElement()
	if root.Attrs.Get("attr1").Quote != SingleQuote {
		t.Error("attr1 should keep single-quote style")
	}
	if root.Attrs.Get("attr2").Quote != DoubleQuote {
		t.Error("attr2 should keep double-quote style")
	}
	out, _ := Serialize(doc, DefaultConfig())
	if out != src {
		t.Errorf("round trip mismatch: got %q", out)
	}
}

func TestParse_NumericEntityInAttribute(t *testing.T) {
	src := `<root attr="line1&#10;line2"/>`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := doc.RootElement().Attr("attr")
	if !ok || v != "line1\nline2" {
		t.Fatalf("Attr(attr) = %q, %v", v, ok)
	}
	out, _ := Serialize(doc, DefaultConfig())
	if out != src {
		t.Errorf("serialize mismatch: got %q, want %q", out, src)
	}
}

func TestParse_NoWhitespaceOnlyTextChildrenBetweenElements(t *testing.T) {
	doc, err := Parse("<root>\n    <a/>\n    <b/>\n</root>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := doc.RootElement()
	for _, c := range root.Children {
		if tn, ok := c.(*Text); ok && isAllWhitespace(tn.Content) {
			t.Fatalf("found a whitespace-only Text child between elements: %q", tn.Content)
		}
	}
	a := root.FirstChildElement("a")
	if a.PrecedingWhitespace() != "\n    " {
		t.Errorf("a.PrecedingWhitespace() = %q", a.PrecedingWhitespace())
	}
	b := root.FirstChildElement("b")
	if b.PrecedingWhitespace() != "\n    " {
		t.Errorf("b.PrecedingWhitespace() = %q", b.PrecedingWhitespace())
	}
	if root.InnerPrecedingWhitespace != "\n" {
		t.Errorf("root.InnerPrecedingWhitespace = %q", root.InnerPrecedingWhitespace)
	}
}

func TestParse_MixedContentKeepsSurroundingWhitespace(t *testing.T) {
	doc, err := Parse(`<root>  some <b>bold</b> text  </root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := doc.RootElement()
	first, ok := root.Children[0].(*Text)
	if !ok || first.Content != "  some " {
		t.Fatalf("leading mixed-content text = %+v", root.Children[0])
	}
}

func TestParse_TrailingDocumentWhitespace(t *testing.T) {
	doc, err := Parse("<root/>\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Children) != 2 {
		t.Fatalf("expected root + trailing whitespace text node, got %d children", len(doc.Children))
	}
	trailing, ok := doc.Children[1].(*Text)
	if !ok || trailing.Content != "\n" {
		t.Fatalf("trailing node = %+v", doc.Children[1])
	}
}

func TestParse_TrailingCommentAfterRoot(t *testing.T) {
	doc, err := Parse("<root/>\n<!-- trailing -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Children) != 2 {
		t.Fatalf("expected root + comment, got %d", len(doc.Children))
	}
	c, ok := doc.Children[1].(*Comment)
	if !ok || c.PrecedingWhitespace() != "\n" {
		t.Fatalf("trailing comment = %+v", doc.Children[1])
	}
}

func TestParse_EmptyInputFails(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\t"} {
		_, err := Parse(src)
		if err == nil {
			t.Fatalf("Parse(%q) should fail", src)
		}
		pe, ok := err.(*ParseError)
		if !ok || pe.Kind != UnexpectedEOF {
			t.Errorf("Parse(%q) error = %v, want UnexpectedEOF", src, err)
		}
	}
}

func TestParse_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind ParseErrorKind
	}{
		{"unterminated tag", `<root`, UnterminatedTag},
		{"mismatched end tag", `<root></other>`, MismatchedEndTag},
		{"invalid attribute name", `<root 1abc="v"/>`, InvalidName},
		{"missing equals after attribute name", `<root attr "v"/>`, UnterminatedAttribute},
		{"unterminated attribute quote", `<root attr="v/>`, UnterminatedAttribute},
		{"unterminated comment", `<root><!-- oops</root>`, UnterminatedComment},
		{"unterminated cdata", `<root><![CDATA[oops</root>`, UnterminatedCData},
		{"unterminated doctype", `<!DOCTYPE root`, UnterminatedDoctype},
		{"content after root", `<root/>x`, InvalidChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.src)
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("error is not *ParseError: %v", err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.kind)
			}
			if pe.Line() <= 0 {
				t.Errorf("Line() = %d, want > 0", pe.Line())
			}
		})
	}
}

func TestParse_LenientEndTags(t *testing.T) {
	_, err := Parse(`<root></other>`, WithLenientEndTags())
	if err != nil {
		t.Errorf("lenient parse should accept mismatched end tags, got %v", err)
	}
}

func TestParse_UnknownEntityPassesThrough(t *testing.T) {
	doc, err := Parse(`<root>&nbsp;</root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.RootElement().TrimmedTextContent(); got != "&nbsp;" {
		t.Errorf("TrimmedTextContent() = %q, want &nbsp;", got)
	}
}

func TestParse_ControlCharacterAccepted(t *testing.T) {
	doc, err := Parse("<root>\x00</root>")
	if err != nil {
		t.Fatalf("control characters should be accepted leniently, got %v", err)
	}
	if doc.RootElement().Children[0].(*Text).Content != "\x00" {
		t.Error("control character should survive decoding unchanged")
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := parseFragment(` <item/> `)
	if err != nil {
		t.Fatalf("parseFragment: %v", err)
	}
	var elCount int
	for _, n := range nodes {
		if _, ok := n.(*Element); ok {
			elCount++
		}
	}
	if elCount != 1 {
		t.Fatalf("expected exactly one element in fragment, got %d nodes: %+v", elCount, nodes)
	}
}

func TestParseFragment_Empty(t *testing.T) {
	nodes, err := parseFragment("")
	if err != nil {
		t.Fatalf("empty fragment should not error, got %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("empty fragment should yield no nodes, got %d", len(nodes))
	}
}
