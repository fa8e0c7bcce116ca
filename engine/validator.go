package engine

import (
	"regexp"
	"sort"
	"strings"
)

// GrammarSchema maps path patterns (§3 path syntax: literal segments and
// the "*" wildcard, joined by ".") to grammar rules. Exactly one rule must
// be registered at DictTreeRoot ("/").
type GrammarSchema map[string]GrammarRule

// patternEntry pairs a precompiled path-pattern regex with the schema key
// (pattern string) it was built from.
type patternEntry struct {
	re      *regexp.Regexp
	pattern string
}

// Validator walks a document guided by a GrammarSchema, returning the
// admissible subset and logging grammar violations along the way.
type Validator struct {
	schema   GrammarSchema
	patterns []patternEntry
	usage    map[string]struct{}
	log      Logger
}

// NewValidator builds a Validator from schema, precompiling one regex per
// path pattern. Panics if no rule is registered at DictTreeRoot, matching
// logic.py's construction-time assertion.
func NewValidator(schema GrammarSchema, log Logger) *Validator {
	if _, ok := schema[DictTreeRoot]; !ok {
		panic("grammar schema missing DICT_TREE_ROOT rule")
	}
	if log == nil {
		log = NopLogger{}
	}
	v := &Validator{schema: schema, log: log, usage: map[string]struct{}{}}
	for pattern := range schema {
		v.patterns = append(v.patterns, patternEntry{
			re:      compilePathPattern(pattern),
			pattern: pattern,
		})
	}
	return v
}

// compilePathPattern builds the regex for a schema path pattern: "*"
// matches one segment without dots, "." separates segments literally, and
// the whole pattern matches the tail of any concrete path.
func compilePathPattern(pattern string) *regexp.Regexp {
	escaped := strings.ReplaceAll(pattern, ".", `\.`)
	escaped = strings.ReplaceAll(escaped, "*", `[^.]*`)
	return regexp.MustCompile(`^.*\.?` + escaped + `$`)
}

// matchPower scores a path pattern per §3: 1.0 per literal segment, 0.5
// per "*", 0 per empty segment.
func matchPower(pattern string) float64 {
	var power float64
	for _, seg := range strings.Split(pattern, ".") {
		switch seg {
		case "*":
			power += 0.5
		case "":
			power += 0
		default:
			power += 1
		}
	}
	return power
}

// loadRule finds the unique grammar rule matching path, resolving
// ambiguity by match power and then by longest pattern string. Returns nil
// if no rule matches or the ambiguity can't be resolved (logging in either
// case).
func (v *Validator) loadRule(path string) GrammarRule {
	var candidates []string
	for _, p := range v.patterns {
		if p.re.MatchString(path) {
			candidates = append(candidates, p.pattern)
		}
	}

	var keyMatch string
	switch len(candidates) {
	case 0:
		v.log.Warnf("failed to match %q to grammar rule", path)
		return nil
	case 1:
		keyMatch = candidates[0]
	default:
		powers := make(map[string]float64, len(candidates))
		maxPower := -1.0
		for _, c := range candidates {
			p := matchPower(c)
			powers[c] = p
			if p > maxPower {
				maxPower = p
			}
		}
		var atMax []string
		for _, c := range candidates {
			if powers[c] == maxPower {
				atMax = append(atMax, c)
			}
		}
		switch {
		case len(atMax) == 1:
			keyMatch = atMax[0]
		case maxPower == 1:
			sort.Slice(atMax, func(i, j int) bool { return len(atMax[i]) > len(atMax[j]) })
			keyMatch = atMax[0]
		default:
			v.log.Errorf("could not determine match for %q among %v", path, candidates)
			return nil
		}
	}

	v.usage[keyMatch] = struct{}{}
	return v.schema[keyMatch]
}

// Validate checks data against the schema and returns the admissible
// subset, logging GrammarViolation warnings for dropped subtrees and a
// final warning listing schema paths never consulted.
func (v *Validator) Validate(data Value) Value {
	result := v.validate(data, DictTreeRoot)

	var unused []string
	for pattern := range v.schema {
		if _, used := v.usage[pattern]; !used {
			unused = append(unused, pattern)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		v.log.Warnf("unused grammar keys: %v", unused)
	}
	return result
}

func (v *Validator) validate(data Value, path string) Value {
	rule := v.loadRule(path)
	if rule == nil {
		v.log.Infof("could not find rule at path %s; discarding subtree", path)
		return Null()
	}

	switch data.Kind {
	case KindBool, KindInt, KindFloat, KindString:
		res := rule(ScalarInput(data))
		if res.ScalarOK {
			return data
		}
		return Null()

	case KindMap:
		keys := NewSet()
		for _, k := range data.Map.Keys() {
			keys.Set(k)
		}
		accepted := rule(KeysInput(keys)).Accepted
		out := NewOrderedMap()
		for _, k := range data.Map.Keys() {
			if !accepted.Contains(k) {
				v.log.Warnf("GrammarViolation: dropping %s.%s, not accepted by grammar", path, k)
				continue
			}
			child, _ := data.Map.Get(k)
			out.Set(k, v.validate(child, path+"."+k))
		}
		if out.Len() == 0 {
			v.log.Warnf("grammar rule returned an empty collection for %s", path)
		}
		return Map(out)

	case KindList:
		accepted := rule(ItemsInput(data.List)).Accepted
		var out []Value
		for _, item := range data.List {
			switch {
			case item.Kind == KindMap && item.Map.Len() == 1:
				key := item.Map.Keys()[0]
				if accepted.Contains(key) {
					inner, _ := item.Map.Get(key)
					m := NewOrderedMap()
					m.Set(key, v.validate(inner, path+"."+key))
					out = append(out, Map(m))
				}
			case item.IsScalar():
				if accepted.Contains(valueKey(item)) {
					out = append(out, item)
				}
			default:
				v.log.Warnf("could not deal with item of unexpected shape at %s", path)
			}
		}
		if len(out) == 0 {
			v.log.Warnf("grammar rule returned an empty collection for %s", path)
		}
		return List(out)

	case KindNull:
		return Null()

	default:
		v.log.Errorf("value of unexpected kind %v at %s", data.Kind, path)
		return Null()
	}
}
