package engine

import (
	"strconv"
	"strings"
)

// durationQualifiers maps a duration token's unit suffix to its value in
// seconds, per recipe.py's MI_DURATION_QUALIFIERS.
var durationQualifiers = map[string]int64{
	"h":   3600,
	"min": 60,
	"s":   1,
}

// humanUnitFactor maps an SI-style bitrate/size suffix to its multiplier,
// per recipe.py's HUMAN_UNIT_FACTOR.
var humanUnitFactor = map[byte]float64{
	'G': 1e9,
	'M': 1e6,
	'K': 1e3,
}

// parseDurationToSeconds parses strings like "2 min 12 s" or "1 h 10 min"
// into a whole number of seconds, mirroring recipe.py's duration_MI_to_s.
// It requires an even number of whitespace-separated tokens (alternating
// number, unit).
func parseDurationToSeconds(s string) (int64, bool) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 || len(tokens)%2 != 0 {
		return 0, false
	}
	var total int64
	for i := 0; i < len(tokens); i += 2 {
		n, err := strconv.ParseInt(tokens[i], 10, 64)
		if err != nil {
			return 0, false
		}
		factor, ok := durationQualifiers[tokens[i+1]]
		if !ok {
			return 0, false
		}
		total += n * factor
	}
	return total, true
}

// WeakParse attempts to normalize a scalar Value's string form into a
// number, per spec §4.4:
//   - non-strings pass through unchanged
//   - duration-shaped strings ("2 min 12 s") become their sum in seconds
//   - SI-suffixed strings ("217M", "1.2k") become the numeric prefix times
//     the suffix's power of ten, case-insensitively
//   - anything else passes through unchanged
func WeakParse(v Value) Value {
	if v.Kind != KindString {
		return v
	}
	s := v.Str

	if seconds, ok := parseDurationToSeconds(s); ok {
		return Int(seconds)
	}

	if len(s) == 0 {
		return v
	}
	last := s[len(s)-1]
	if last >= 'a' && last <= 'z' {
		last -= 'a' - 'A'
	}
	if factor, ok := humanUnitFactor[last]; ok {
		prefix := s[:len(s)-1]
		if i, err := strconv.ParseInt(prefix, 10, 64); err == nil {
			return Int(i * int64(factor))
		}
		if f, err := strconv.ParseFloat(prefix, 64); err == nil {
			return Float(f * factor)
		}
	}

	return v
}

// WeakLeafParse walks a document tree applying WeakParse to every scalar
// leaf while preserving map/list structure, per recipe.py's
// weak_leaf_parse.
func WeakLeafParse(v Value) Value {
	switch v.Kind {
	case KindMap:
		out := NewOrderedMap()
		for _, k := range v.Map.Keys() {
			child, _ := v.Map.Get(k)
			out.Set(k, WeakLeafParse(child))
		}
		return Map(out)
	case KindList:
		items := make([]Value, len(v.List))
		for i, item := range v.List {
			items[i] = WeakLeafParse(item)
		}
		return List(items)
	case KindString:
		return WeakParse(v)
	default:
		return v
	}
}
