package engine

import (
	"strconv"
)

// ArgumentSpec is one declared recipe argument, read out of the validated
// recipe's "arguments.<name>" subtree, per spec §3's Argument spec.
type ArgumentSpec struct {
	Name      string
	Type      string // one of "str", "int", "float", "bool"
	Required  bool
	HasDefault bool
	Default   Value
	Min       *Value
	Max       *Value
	Blacklist []string
	Whitelist []string
}

// ParseArgumentSpecs reads every declared argument out of the validated
// recipe's "arguments" subtree.
func ParseArgumentSpecs(argumentsNode Value) map[string]ArgumentSpec {
	specs := map[string]ArgumentSpec{}
	if argumentsNode.Kind != KindMap {
		return specs
	}
	for _, name := range argumentsNode.Map.Keys() {
		raw, _ := argumentsNode.Map.Get(name)
		if raw.Kind != KindMap {
			continue
		}
		spec := ArgumentSpec{Name: name}
		if t, ok := raw.Map.Get(KWArgumentType); ok && t.Kind == KindString {
			spec.Type = t.Str
		}
		if r, ok := raw.Map.Get(KWArgumentRequired); ok && r.Kind == KindBool {
			spec.Required = r.Bool
		}
		if d, ok := raw.Map.Get(KWDefault); ok {
			spec.HasDefault = true
			spec.Default = d
		}
		if m, ok := raw.Map.Get(KWDPSMin); ok {
			spec.Min = &m
		}
		if m, ok := raw.Map.Get(KWDPSMax); ok {
			spec.Max = &m
		}
		spec.Blacklist = readStringListValue(raw, KWDPSBlacklist)
		spec.Whitelist = readStringListValue(raw, KWDPSWhitelist)
		specs[name] = spec
	}
	return specs
}

func readStringListValue(parent Value, key string) []string {
	v, ok := parent.Map.Get(key)
	if !ok {
		return nil
	}
	switch v.Kind {
	case KindList:
		out := make([]string, 0, len(v.List))
		for _, item := range v.List {
			if item.Kind == KindString {
				out = append(out, item.Str)
			}
		}
		return out
	case KindString:
		return []string{v.Str}
	default:
		return nil
	}
}

// ResolveArguments merges user-supplied raw argument values with the
// recipe's declared argument specs, per spec §4.5. Extra user-supplied
// arguments with no matching spec are logged as dropped, not returned.
func ResolveArguments(specs map[string]ArgumentSpec, actual map[string]string, log Logger) (map[string]Value, error) {
	if log == nil {
		log = NopLogger{}
	}
	resolved := map[string]Value{}

	for name, spec := range specs {
		rawStr, supplied := actual[name]
		switch {
		case supplied:
			coerced, err := coerceArgument(spec, rawStr)
			if err != nil {
				return nil, err
			}
			if err := checkArgumentConstraints(spec, coerced); err != nil {
				return nil, err
			}
			resolved[name] = coerced
		case spec.HasDefault:
			resolved[name] = spec.Default
		case spec.Required:
			return nil, NewMissingArgumentError(name)
		default:
			log.Warnf("dropping argument %q: no value given and no default set", name)
		}
	}

	for name := range actual {
		if _, ok := specs[name]; !ok {
			log.Warnf("dropping unexpected argument %q: not declared in recipe", name)
		}
	}

	return resolved, nil
}

func coerceArgument(spec ArgumentSpec, raw string) (Value, error) {
	switch spec.Type {
	case "str":
		return String(raw), nil
	case "int":
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, NewArgumentTypeError(spec.Name, spec.Type, raw)
		}
		return Int(i), nil
	case "float":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, NewArgumentTypeError(spec.Name, spec.Type, raw)
		}
		return Float(f), nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, NewArgumentTypeError(spec.Name, spec.Type, raw)
		}
		return Bool(b), nil
	default:
		return String(raw), nil
	}
}

func checkArgumentConstraints(spec ArgumentSpec, v Value) error {
	numeric := v.Kind == KindInt || v.Kind == KindFloat
	asFloat := func(x Value) float64 {
		if x.Kind == KindInt {
			return float64(x.Int)
		}
		return x.Flt
	}

	if spec.Min != nil {
		if !numeric || asFloat(v) < asFloat(*spec.Min) {
			return NewArgumentConstraintError(spec.Name, v.Scalar())
		}
	}
	if spec.Max != nil {
		if !numeric || asFloat(v) > asFloat(*spec.Max) {
			return NewArgumentConstraintError(spec.Name, v.Scalar())
		}
	}
	if len(spec.Blacklist) > 0 && v.Kind == KindString {
		for _, b := range spec.Blacklist {
			if b == v.Str {
				return NewArgumentConstraintError(spec.Name, v.Scalar())
			}
		}
	}
	if len(spec.Whitelist) > 0 && v.Kind == KindString {
		found := false
		for _, w := range spec.Whitelist {
			if w == v.Str {
				found = true
				break
			}
		}
		if !found {
			return NewArgumentConstraintError(spec.Name, v.Scalar())
		}
	}
	return nil
}
