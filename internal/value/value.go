// Package value provides the dynamically-typed value model that all
// JSON-shaped data flows through: theme tokens, node props, runtime data,
// action payloads. It is a tagged union with exhaustive kind switching at
// every consumption site instead of runtime casts.
package value

import (
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns the schema-visible kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable JSON-shaped value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	l    []Value
	m    *Map
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a float64.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer as a number.
func Int(n int) Value { return Value{kind: KindNumber, n: float64(n)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps a slice of values.
func List(items ...Value) Value { return Value{kind: KindList, l: items} }

// MapValue wraps an ordered map.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload if the value is a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber returns the numeric payload if the value is a number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// AsString returns the string payload if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsList returns the list payload if the value is a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.l, true
}

// AsMap returns the map payload if the value is a map.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// NumberLike coerces the value to a float64 for numeric comparison.
// Numbers pass through; numeric strings parse. Everything else fails.
func (v Value) NumberLike() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Truthy reports whether the value passes a truthiness test: null is false,
// booleans are themselves, numbers are non-zero, strings are non-empty and
// not "false" (case-insensitive), lists and maps are non-empty.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != "" && !strings.EqualFold(v.s, "false")
	case KindList:
		return len(v.l) > 0
	case KindMap:
		return v.m.Len() > 0
	default:
		return false
	}
}

// Empty reports whether the value counts as empty for the "empty" operator:
// null, the empty string, and zero-length lists and maps.
func (v Value) Empty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == ""
	case KindList:
		return len(v.l) == 0
	case KindMap:
		return v.m.Len() == 0
	default:
		return false
	}
}

// String renders the value for string interpolation and loose comparison.
// Whole numbers render without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if v.n == float64(int64(v.n)) {
			return strconv.FormatInt(int64(v.n), 10)
		}
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.l))
		for i, item := range v.l {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindMap:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			item, _ := v.m.Get(k)
			sb.WriteString(k)
			sb.WriteByte(':')
			sb.WriteString(item.String())
		}
		sb.WriteByte('}')
		return sb.String()
	default:
		return ""
	}
}

// Equal reports deep equality. Map key order is ignored.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.l) != len(other.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(other.l[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.m.Len() != other.m.Len() {
			return false
		}
		for _, k := range v.m.Keys() {
			a, _ := v.m.Get(k)
			b, ok := other.m.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Map is a string-keyed map that remembers insertion order. Lookups go
// through the index; order only matters when serializing back out.
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (m *Map) Set(key string, v Value) {
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
}

// Get returns the value for key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *Map) Keys() []string { return m.keys }

// SortedKeys returns the keys sorted lexically, for deterministic output
// where insertion order is not meaningful.
func (m *Map) SortedKeys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	sort.Strings(out)
	return out
}

// FromStringMap builds an ordered map from a plain map, keys sorted for
// determinism.
func FromStringMap(src map[string]Value) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := NewMap()
	for _, k := range keys {
		m.Set(k, src[k])
	}
	return m
}
