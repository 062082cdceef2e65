package xml

import "testing"

func TestCanonicalize_SortsAttributesAndDropsSelfClosing(t *testing.T) {
	doc, err := Parse(`<root z="1" a='2'/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := `<root a="2" z="1"></root>`
	if string(out) != want {
		t.Errorf("Canonicalize() = %q, want %q", out, want)
	}
}

func TestCanonicalize_DropsCommentsAndInstructions(t *testing.T) {
	doc, err := Parse(`<root><!-- c --><?pi d?><child/></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := `<root><child></child></root>`
	if string(out) != want {
		t.Errorf("Canonicalize() = %q, want %q", out, want)
	}
}

func TestCanonicalize_OrderIndependentOfSourceFormatting(t *testing.T) {
	a, err := Parse(`<root b="2" a="1"/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse("<root a='1' b='2'></root>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ca, _ := Canonicalize(a)
	cb, _ := Canonicalize(b)
	if string(ca) != string(cb) {
		t.Errorf("canonical forms differ despite equivalent content: %q vs %q", ca, cb)
	}
}

func TestCanonicalize_NilDocument(t *testing.T) {
	if _, err := Canonicalize(nil); err == nil {
		t.Error("Canonicalize(nil) should fail")
	}
}

func TestCanonicalize_NoRootElement(t *testing.T) {
	doc := NewDocument()
	out, err := Canonicalize(doc)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Canonicalize of a rootless document = %q, want empty", out)
	}
}
