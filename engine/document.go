// Package engine implements the recode-engine transcoding orchestrator: a
// grammar-validated recipe language, an evaluator that resolves arguments
// and checks input admissibility, and a sprint scheduler that drives an
// FFmpeg-family encoder and an MKV multiplexer through a processing plan.
package engine

import (
	"fmt"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
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

// OrderedMap is a keyed map from string to Value that preserves insertion
// order, so a validated document can be round-tripped for display without
// scrambling the recipe author's key order.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

// Set inserts or overwrites key with value, appending to key order on first
// insertion.
func (m *OrderedMap) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value at key and whether it was present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Value is the document tree's recursive value type: a tagged variant over
// Null, Bool, Int, Float, String, List, and Map, per the recipe document's
// canonical in-memory representation.
type Value struct {
	Kind Kind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
	List []Value
	Map  *OrderedMap
}

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{Kind: KindFloat, Flt: f} }

// String returns a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// List returns a list Value.
func List(items []Value) Value { return Value{Kind: KindList, List: items} }

// Map returns a map Value.
func Map(m *OrderedMap) Value { return Value{Kind: KindMap, Map: m} }

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// IsScalar reports whether v holds a terminal (non-collection) value.
func (v Value) IsScalar() bool {
	switch v.Kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// Scalar returns v's underlying Go value for a scalar Kind, or nil.
func (v Value) Scalar() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Flt
	case KindString:
		return v.Str
	default:
		return nil
	}
}

// Equal reports whether two Values represent the same data, recursively.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		// Allow numeric cross-kind equality (weak_parse commonly yields
		// int where a spec author wrote a float, or vice versa).
		if (v.Kind == KindInt || v.Kind == KindFloat) && (other.Kind == KindInt || other.Kind == KindFloat) {
			return v.asFloat() == other.asFloat()
		}
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt:
		return v.Int == other.Int
	case KindFloat:
		return v.Flt == other.Flt
	case KindString:
		return v.Str == other.Str
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.Map.Len() != other.Map.Len() {
			return false
		}
		for _, k := range v.Map.Keys() {
			a, _ := v.Map.Get(k)
			b, ok := other.Map.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) asFloat() float64 {
	if v.Kind == KindInt {
		return float64(v.Int)
	}
	return v.Flt
}

// Dump renders v as an indented tree, for printing the canonical,
// pruned document a validator run produced. Not a serialization format.
func (v Value) Dump(indent int) string {
	prefix := strings.Repeat("  ", indent)
	switch v.Kind {
	case KindMap:
		var b strings.Builder
		for _, k := range v.Map.Keys() {
			child, _ := v.Map.Get(k)
			if child.Kind == KindMap || child.Kind == KindList {
				fmt.Fprintf(&b, "%s%s:\n%s", prefix, k, child.Dump(indent+1))
			} else {
				fmt.Fprintf(&b, "%s%s: %s\n", prefix, k, child.GoString())
			}
		}
		return b.String()
	case KindList:
		var b strings.Builder
		for _, item := range v.List {
			if item.Kind == KindMap || item.Kind == KindList {
				fmt.Fprintf(&b, "%s-\n%s", prefix, item.Dump(indent+1))
			} else {
				fmt.Fprintf(&b, "%s- %s\n", prefix, item.GoString())
			}
		}
		return b.String()
	default:
		return prefix + v.GoString() + "\n"
	}
}

// String-render a Value for logging and diagnostics; not a serialization
// format.
func (v Value) GoString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.Bool)
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Flt)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindList:
		return fmt.Sprintf("list[%d]", len(v.List))
	case KindMap:
		return fmt.Sprintf("map[%d]", v.Map.Len())
	default:
		return "?"
	}
}
