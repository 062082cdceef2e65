package xml

import "testing"

func TestAttributeMap_InsertionOrder(t *testing.T) {
	m := newAttributeMap()
	m.Put("b", &Attribute{Name: "b", Value: "2"})
	m.Put("a", &Attribute{Name: "a", Value: "1"})
	m.Put("c", &Attribute{Name: "c", Value: "3"})

	want := []string{"b", "a", "c"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAttributeMap_ReplacePreservesPosition(t *testing.T) {
	m := newAttributeMap()
	m.Put("a", &Attribute{Name: "a", Value: "1"})
	m.Put("b", &Attribute{Name: "b", Value: "2"})
	m.Put("a", &Attribute{Name: "a", Value: "updated"})

	if got := m.Get("a").Value; got != "updated" {
		t.Errorf("Get(a).Value = %q, want updated", got)
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("replacing a key should not move it: Keys() = %v", got)
	}
}

func TestAttributeMap_Remove(t *testing.T) {
	m := newAttributeMap()
	m.Put("a", &Attribute{Name: "a"})
	m.Put("b", &Attribute{Name: "b"})
	m.Put("c", &Attribute{Name: "c"})

	m.Remove("b")

	if m.Has("b") {
		t.Error("b should be removed")
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Keys() after remove = %v, want [a c]", got)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	// removing an absent key is a no-op
	m.Remove("nope")
	if m.Len() != 2 {
		t.Errorf("removing an absent key should be a no-op, Len() = %d", m.Len())
	}
}

func TestAttributeMap_ForEachStopsEarly(t *testing.T) {
	m := newAttributeMap()
	m.Put("a", &Attribute{Name: "a"})
	m.Put("b", &Attribute{Name: "b"})
	m.Put("c", &Attribute{Name: "c"})

	var seen []string
	m.ForEach(func(name string, attr *Attribute) bool {
		seen = append(seen, name)
		return name != "b"
	})
	if len(seen) != 2 {
		t.Errorf("ForEach should have stopped after b, saw %v", seen)
	}
}

func TestQuoteStyle(t *testing.T) {
	if q, err := decodeQuoteStyle('"'); err != nil || q != DoubleQuote {
		t.Errorf("decodeQuoteStyle('\"') = %v, %v", q, err)
	}
	if q, err := decodeQuoteStyle('\''); err != nil || q != SingleQuote {
		t.Errorf("decodeQuoteStyle('\\'') = %v, %v", q, err)
	}
	if _, err := decodeQuoteStyle('x'); err == nil {
		t.Error("decodeQuoteStyle('x') should fail")
	}
}
