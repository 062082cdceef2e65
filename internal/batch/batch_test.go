package batch

import (
	"strings"
	"testing"

	xmlmodel "github.com/arturoeanton/xmledit/xml"
)

func TestParse(t *testing.T) {
	data := []byte(`
serializer:
  prettyPrint: true
  indent: "  "
operations:
  - op: setAttr
    path: server
    name: port
    value: "8080"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Serializer.PrettyPrint || cfg.Serializer.Indent != "  " {
		t.Fatalf("serializer = %+v", cfg.Serializer)
	}
	if len(cfg.Operations) != 1 || cfg.Operations[0].Op != "setAttr" {
		t.Fatalf("operations = %+v", cfg.Operations)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("not: [valid")); err == nil {
		t.Error("Parse should fail on malformed YAML")
	}
}

func TestConfig_SerializerOptions(t *testing.T) {
	preserve := false
	cfg := &Config{Serializer: SerializerConfig{
		PrettyPrint:      true,
		Indent:           "\t",
		PreserveComments: &preserve,
		DefaultQuote:     "single",
	}}
	opts := cfg.SerializerOptions(xmlmodel.DefaultConfig())

	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc.RootElement().SetAttr("a", "1")
	out, err := xmlmodel.Serialize(doc, opts)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if !strings.Contains(out, `a='1'`) {
		t.Errorf("expected single-quoted attribute from SerializerOptions, got %q", out)
	}
}

func TestResolve_SimplePath(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root><servers><server name="a"/><server name="b"/></servers></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	el, err := Resolve(doc, "servers/server")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v, _ := el.Attr("name"); v != "a" {
		t.Errorf("resolved element name attr = %q, want a", v)
	}
}

func TestResolve_IndexedSegment(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root><servers><server name="a"/><server name="b"/></servers></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	el, err := Resolve(doc, "servers/server[1]")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v, _ := el.Attr("name"); v != "b" {
		t.Errorf("resolved element name attr = %q, want b", v)
	}
}

func TestResolve_EmptyPathReturnsRoot(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	el, err := Resolve(doc, "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != doc.RootElement() {
		t.Error("Resolve(\"\") should return the root element")
	}
}

func TestResolve_MissingChildErrors(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Resolve(doc, "missing"); err == nil {
		t.Error("Resolve of a missing child should fail")
	}
}

func TestResolve_IndexOutOfRangeErrors(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root><a/></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Resolve(doc, "a[5]"); err == nil {
		t.Error("Resolve with an out-of-range index should fail")
	}
}

func TestResolve_NoRootElement(t *testing.T) {
	doc := xmlmodel.NewDocument()
	if _, err := Resolve(doc, "a"); err == nil {
		t.Error("Resolve on a rootless document should fail")
	}
}

func TestApply_SetAttrThenSetText(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root><server/></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := xmlmodel.NewEditor(xmlmodel.DefaultConfig())
	ops := []Operation{
		{Op: "setAttr", Path: "server", Name: "port", Value: "8080"},
		{Op: "setText", Path: "server", Text: "hello"},
	}
	if err := Apply(doc, ed, ops); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	server := doc.RootElement().FirstChildElement("server")
	if v, _ := server.Attr("port"); v != "8080" {
		t.Errorf("port attr = %q", v)
	}
	if server.TrimmedTextContent() != "hello" {
		t.Errorf("text content = %q", server.TrimmedTextContent())
	}
}

func TestApply_AddAndRemoveElement(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := xmlmodel.NewEditor(xmlmodel.DefaultConfig())
	ops := []Operation{
		{Op: "addElement", Path: "", Name: "child", Text: "v"},
	}
	if err := Apply(doc, ed, ops); err != nil {
		t.Fatalf("Apply(addElement): %v", err)
	}
	if doc.RootElement().FirstChildElement("child") == nil {
		t.Fatal("expected <child> to have been added")
	}

	ops = []Operation{{Op: "removeElement", Path: "child"}}
	if err := Apply(doc, ed, ops); err != nil {
		t.Fatalf("Apply(removeElement): %v", err)
	}
	if doc.RootElement().FirstChildElement("child") != nil {
		t.Error("expected <child> to have been removed")
	}
}

func TestApply_CommentOut(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root><child/></root>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := xmlmodel.NewEditor(xmlmodel.DefaultConfig())
	ops := []Operation{{Op: "commentOut", Path: "child"}}
	if err := Apply(doc, ed, ops); err != nil {
		t.Fatalf("Apply(commentOut): %v", err)
	}
	if doc.RootElement().FirstChildElement("child") != nil {
		t.Error("expected <child> to have been replaced by a comment")
	}
}

func TestApply_UnknownOpFails(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := xmlmodel.NewEditor(xmlmodel.DefaultConfig())
	err = Apply(doc, ed, []Operation{{Op: "bogus"}})
	if err == nil {
		t.Error("Apply with an unknown op should fail")
	}
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	doc, err := xmlmodel.Parse(`<root/>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ed := xmlmodel.NewEditor(xmlmodel.DefaultConfig())
	ops := []Operation{
		{Op: "addElement", Path: "", Name: "first"},
		{Op: "setAttr", Path: "missing", Name: "x", Value: "1"},
		{Op: "addElement", Path: "", Name: "second"},
	}
	if err := Apply(doc, ed, ops); err == nil {
		t.Fatal("Apply should fail on the second operation")
	}
	if doc.RootElement().FirstChildElement("first") == nil {
		t.Error("the first operation's effect should remain applied")
	}
	if doc.RootElement().FirstChildElement("second") != nil {
		t.Error("the third operation should not have run after the second failed")
	}
}
