package engine

import "sort"

// Set is a small string set, standing in for the sets of accepted map keys
// or terminal values that a GrammarRule both consumes and produces.
type Set map[string]struct{}

// NewSet builds a Set from the given members.
func NewSet(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Union returns the union of s and other, leaving both untouched.
func (s Set) Union(other Set) Set {
	res := make(Set, len(s)+len(other))
	for k := range s {
		res[k] = struct{}{}
	}
	for k := range other {
		res[k] = struct{}{}
	}
	return res
}

// Intersect returns the intersection of s and other.
func (s Set) Intersect(other Set) Set {
	res := make(Set)
	for k := range s {
		if _, ok := other[k]; ok {
			res[k] = struct{}{}
		}
	}
	return res
}

// Contains reports whether member is in s.
func (s Set) Contains(member string) bool {
	_, ok := s[member]
	return ok
}

// Sorted returns s's members in lexical order, for deterministic logging.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// GrammarInput is whatever a GrammarRule is asked to judge: a terminal
// scalar Value, a Set of a map's keys, or a list of Values (for collection
// rules). Exactly one of these is non-zero per call, mirroring logic.py's
// dynamically-typed single-argument rules.
type GrammarInput struct {
	Scalar   Value
	IsScalar bool
	Keys     Set
	IsKeys   bool
	Items    []Value
	IsItems  bool
}

// ScalarInput wraps a terminal Value for a rule call.
func ScalarInput(v Value) GrammarInput { return GrammarInput{Scalar: v, IsScalar: true} }

// KeysInput wraps a map's key Set for a rule call.
func KeysInput(keys Set) GrammarInput { return GrammarInput{Keys: keys, IsKeys: true} }

// ItemsInput wraps a list's elements for a rule call.
func ItemsInput(items []Value) GrammarInput { return GrammarInput{Items: items, IsItems: true} }

// GrammarRule is a pure function mapping a GrammarInput to the set of
// accepted item names (for map/list inputs) — callers needing the accepted
// scalar itself check GrammarResult.ScalarOK instead.
type GrammarRule func(GrammarInput) GrammarResult

// GrammarResult is what applying a GrammarRule to a GrammarInput yields:
// for scalars, whether the value was accepted; for maps/lists, the set of
// accepted keys/items.
type GrammarResult struct {
	ScalarOK bool
	Accepted Set
}

func emptyResult() GrammarResult { return GrammarResult{Accepted: NewSet()} }

// Grammar groups the primitive rule factories, mirroring logic.py's
// Grammar class: each factory returns a GrammarRule closing over its
// configuration.
type Grammar struct{}

// DictTreeRoot is the path naming the document tree's root, "/".
const DictTreeRoot = "/"

// Combine unions the outputs of several rules: a value is accepted if any
// rule accepts it.
func (Grammar) Combine(rules ...GrammarRule) GrammarRule {
	return func(in GrammarInput) GrammarResult {
		res := emptyResult()
		scalarOK := false
		for _, rule := range rules {
			r := rule(in)
			scalarOK = scalarOK || r.ScalarOK
			res.Accepted = res.Accepted.Union(r.Accepted)
		}
		res.ScalarOK = scalarOK
		return res
	}
}

// Any accepts anything unconditionally.
func (Grammar) Any() GrammarRule {
	return func(in GrammarInput) GrammarResult {
		switch {
		case in.IsScalar:
			return GrammarResult{ScalarOK: true, Accepted: NewSet()}
		case in.IsKeys:
			return GrammarResult{Accepted: in.Keys}
		case in.IsItems:
			accepted := NewSet()
			for _, it := range in.Items {
				if it.IsScalar() {
					accepted.Set(valueKey(it))
				}
			}
			return GrammarResult{Accepted: accepted}
		}
		return emptyResult()
	}
}

// Set is a helper used by Any/terminal_collection-style rules to record an
// accepted scalar item by its canonical string form.
func (s Set) Set(member string) { s[member] = struct{}{} }

func valueKey(v Value) string {
	switch v.Kind {
	case KindString:
		return v.Str
	default:
		return v.GoString()
	}
}

// AnyOf accepts, from a set of candidate keys, those present in what; if
// the input isn't a key set it returns empty (and the caller is expected
// to log a warning, per logic.py's any_of).
func (Grammar) AnyOf(what Set) GrammarRule {
	return func(in GrammarInput) GrammarResult {
		if !in.IsKeys {
			return emptyResult()
		}
		return GrammarResult{Accepted: in.Keys.Intersect(what)}
	}
}

// NOf accepts a key set iff exactly n of its members are in what.
func (Grammar) NOf(n int, what Set) GrammarRule {
	return func(in GrammarInput) GrammarResult {
		if !in.IsKeys {
			return emptyResult()
		}
		common := in.Keys.Intersect(what)
		if len(common) == n {
			return GrammarResult{Accepted: common}
		}
		return emptyResult()
	}
}

// AtLeastNOf accepts a key set iff at least n of its members are in what.
// Panics if n exceeds len(what), mirroring logic.py's construction-time
// ValueError.
func (Grammar) AtLeastNOf(n int, what Set) GrammarRule {
	if n > len(what) {
		panic("n larger than collection of allowed items")
	}
	return func(in GrammarInput) GrammarResult {
		if !in.IsKeys {
			return emptyResult()
		}
		common := in.Keys.Intersect(what)
		if len(common) >= n {
			return GrammarResult{Accepted: common}
		}
		return emptyResult()
	}
}

// AtLeast1Of accepts a key set iff at least one of its members is in what.
func (g Grammar) AtLeast1Of(what Set) GrammarRule {
	return g.AtLeastNOf(1, what)
}

// OneOf accepts a key set iff exactly one of its members is in what.
func (g Grammar) OneOf(what Set) GrammarRule {
	return g.NOf(1, what)
}

// AllOf accepts a key set iff it contains every member of what (and
// nothing besides what is counted).
func (g Grammar) AllOf(what Set) GrammarRule {
	return g.NOf(len(what), what)
}

// TerminalOpts configures TerminalVariable.
type TerminalOpts struct {
	Kind           Kind // zero value KindNull means "any scalar kind"
	AllowedValues  Set  // nil means "no restriction"
	restrictKind   bool
	restrictValues bool
}

// Terminal builds TerminalOpts restricted to a scalar Kind.
func Terminal(kind Kind) TerminalOpts {
	return TerminalOpts{Kind: kind, restrictKind: true}
}

// WithAllowedValues narrows a TerminalOpts to an explicit value whitelist.
func (o TerminalOpts) WithAllowedValues(allowed Set) TerminalOpts {
	o.AllowedValues = allowed
	o.restrictValues = true
	return o
}

// TerminalVariable accepts a terminal scalar (not a list, not a map) that
// matches the optional type restriction and the optional allowed-values
// restriction.
func (Grammar) TerminalVariable(opts ...TerminalOpts) GrammarRule {
	var o TerminalOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	return func(in GrammarInput) GrammarResult {
		if !in.IsScalar {
			return emptyResult()
		}
		v := in.Scalar
		if !v.IsScalar() {
			return emptyResult()
		}
		if o.restrictKind && v.Kind != o.Kind {
			return emptyResult()
		}
		if o.restrictValues && !o.AllowedValues.Contains(valueKey(v)) {
			return emptyResult()
		}
		return GrammarResult{ScalarOK: true, Accepted: NewSet()}
	}
}

// CollectionOpts configures TerminalCollection.
type CollectionOpts struct {
	Kind          Kind
	AllowedItems  Set
	RequiredItems Set
}

// TerminalCollection accepts an ordered list whose every element is a
// scalar of the given Kind, optionally drawn from AllowedItems and
// required to contain every member of RequiredItems.
func (Grammar) TerminalCollection(opts CollectionOpts) GrammarRule {
	return func(in GrammarInput) GrammarResult {
		if !in.IsItems {
			return emptyResult()
		}
		present := NewSet()
		for _, it := range in.Items {
			if !it.IsScalar() || it.Kind != opts.Kind {
				return emptyResult()
			}
			key := valueKey(it)
			if opts.AllowedItems != nil && !opts.AllowedItems.Contains(key) {
				return emptyResult()
			}
			present.Set(key)
		}
		if opts.RequiredItems != nil {
			for r := range opts.RequiredItems {
				if !present.Contains(r) {
					return emptyResult()
				}
			}
		}
		return GrammarResult{Accepted: present}
	}
}

// NonterminalOpts configures NonterminalCollection.
type NonterminalOpts struct {
	AllowedItems  Set
	RequiredItems Set
}

// NonterminalCollection accepts an ordered list of single-key maps,
// returning the set of their sole keys filtered to AllowedItems, and
// requiring every member of RequiredItems to appear among those keys.
func (Grammar) NonterminalCollection(opts NonterminalOpts) GrammarRule {
	return func(in GrammarInput) GrammarResult {
		if !in.IsItems {
			return emptyResult()
		}
		allKeys := NewSet()
		for _, it := range in.Items {
			if it.Kind != KindMap || it.Map.Len() != 1 {
				return emptyResult()
			}
			allKeys.Set(it.Map.Keys()[0])
		}
		if opts.RequiredItems != nil {
			for r := range opts.RequiredItems {
				if !allKeys.Contains(r) {
					return emptyResult()
				}
			}
		}
		accepted := NewSet()
		for _, it := range in.Items {
			key := it.Map.Keys()[0]
			if opts.AllowedItems == nil || opts.AllowedItems.Contains(key) {
				accepted.Set(key)
			}
		}
		return GrammarResult{Accepted: accepted}
	}
}
