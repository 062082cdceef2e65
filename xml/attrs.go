package xml

// QuoteStyle is the quote character used to delimit an attribute value.
type QuoteStyle byte

const (
	DoubleQuote QuoteStyle = '"'
	SingleQuote QuoteStyle = '\''
)

// Byte returns the quote style's delimiter byte.
func (q QuoteStyle) Byte() byte { return byte(q) }

func decodeQuoteStyle(c byte) (QuoteStyle, error) {
	switch c {
	case '"':
		return DoubleQuote, nil
	case '\'':
		return SingleQuote, nil
	default:
		return 0, &QuoteStyleError{Char: c}
	}
}

// Attribute is a single attribute record: the decoded semantic value, the
// quote style and preceding whitespace captured from the source, and — when
// the attribute has not been modified since parse — the raw slice between
// its quotes (§3). Raw is cleared on any mutation of the value.
type Attribute struct {
	Name                string
	Value               string
	Quote               QuoteStyle
	PrecedingWhitespace string
	Raw                 *string
}

// AttributeMap is an insertion-order-preserving attribute container,
// generalized from the teacher's OrderedMap (map.go) — same
// keys-slice/values-map dual structure for O(1) lookup with stable
// iteration order, specialized to *Attribute instead of any.
type AttributeMap struct {
	keys   []string
	values map[string]*Attribute
}

func newAttributeMap() *AttributeMap {
	return &AttributeMap{values: make(map[string]*Attribute)}
}

// Put inserts or replaces the attribute under name, preserving the original
// insertion position on replace.
func (m *AttributeMap) Put(name string, attr *Attribute) {
	if _, exists := m.values[name]; !exists {
		m.keys = append(m.keys, name)
	}
	m.values[name] = attr
}

// Get returns the attribute stored under name, or nil.
func (m *AttributeMap) Get(name string) *Attribute {
	return m.values[name]
}

// Has reports whether name is present.
func (m *AttributeMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Remove deletes name, keeping the remaining keys in their original order.
func (m *AttributeMap) Remove(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of attributes.
func (m *AttributeMap) Len() int { return len(m.keys) }

// Keys returns the attribute names in insertion order.
func (m *AttributeMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// ForEach calls fn for every attribute in insertion order, stopping early if
// fn returns false.
func (m *AttributeMap) ForEach(fn func(name string, attr *Attribute) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

func (m *AttributeMap) clone() *AttributeMap {
	clone := newAttributeMap()
	m.ForEach(func(name string, attr *Attribute) bool {
		a := *attr
		clone.Put(name, &a)
		return true
	})
	return clone
}
