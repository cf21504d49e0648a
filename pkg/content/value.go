package content

import "strings"

// Value is a resolved content value.
type Value interface {
	isValue()
}

// Scalar is a single text value as stored, escapes included.
type Scalar struct {
	Text string
	// Original is the verbatim store text captured by metadata decoration.
	// Only decorated scalars carry it.
	Original string
	// Decorated reports whether Original was captured for edit annotation.
	Decorated bool
}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

// Mapping is an ordered sequence of keyed values.
type Mapping struct {
	Entries []Entry
}

// Entry is one keyed value of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Missing marks a key that has no value. Key is the key as requested.
type Missing struct {
	Key string
}

func (Scalar) isValue()   {}
func (*List) isValue()    {}
func (*Mapping) isValue() {}
func (Missing) isValue()  {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{}
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key in place or appends a new entry,
// so the first insertion decides the key's position.
func (m *Mapping) Set(key string, v Value) {
	for i := range m.Entries {
		if m.Entries[i].Key == key {
			m.Entries[i].Value = v
			return
		}
	}
	m.Entries = append(m.Entries, Entry{Key: key, Value: v})
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Entries)
}

// Keys returns entry keys in store order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Lookup traverses dot-separated keys through nested mappings.
// For example "handler.states" resolves m["handler"]["states"].
func (m *Mapping) Lookup(key string) (Value, bool) {
	if key == "" {
		return nil, false
	}
	current := m
	parts := strings.Split(key, ".")
	for i, part := range parts {
		v, ok := current.Get(part)
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(*Mapping)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Merge copies every entry of other into m. Nested mappings present on both
// sides are merged recursively; any other collision is won by other.
func (m *Mapping) Merge(other *Mapping) {
	if other == nil {
		return
	}
	for _, e := range other.Entries {
		existing, ok := m.Get(e.Key)
		if ok {
			dst, dstOK := existing.(*Mapping)
			src, srcOK := e.Value.(*Mapping)
			if dstOK && srcOK {
				dst.Merge(src)
				continue
			}
		}
		m.Set(e.Key, e.Value)
	}
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// SetAt stores v at index i, growing the list with Missing holes when needed.
func (l *List) SetAt(i int, v Value) {
	for len(l.Items) <= i {
		l.Items = append(l.Items, Missing{})
	}
	l.Items[i] = v
}

// At returns the item at index i.
func (l *List) At(i int) (Value, bool) {
	if l == nil || i < 0 || i >= len(l.Items) {
		return nil, false
	}
	return l.Items[i], true
}

// IsMissing reports whether v is absent.
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Missing)
	return ok
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch val := v.(type) {
	case *List:
		out := &List{Items: make([]Value, len(val.Items))}
		for i, item := range val.Items {
			out.Items[i] = Clone(item)
		}
		return out
	case *Mapping:
		out := &Mapping{Entries: make([]Entry, len(val.Entries))}
		for i, e := range val.Entries {
			out.Entries[i] = Entry{Key: e.Key, Value: Clone(e.Value)}
		}
		return out
	default:
		return v
	}
}
