package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeakParseDurations(t *testing.T) {
	cases := map[string]int64{
		"2 min 12 s": 132,
		"1 h 10 min": 4200,
		"4 s":        4,
	}
	for input, want := range cases {
		got := WeakParse(String(input))
		assert.Equal(t, KindInt, got.Kind, "input %q", input)
		assert.Equal(t, want, got.Int, "input %q", input)
	}
}

func TestWeakParseHumanBitrates(t *testing.T) {
	got := WeakParse(String("217M"))
	assert.Equal(t, KindInt, got.Kind)
	assert.Equal(t, int64(217_000_000), got.Int)

	got = WeakParse(String("1.2k"))
	assert.Equal(t, KindFloat, got.Kind)
	assert.Equal(t, float64(1200), got.Flt)
}

func TestWeakParseIsIdempotent(t *testing.T) {
	inputs := []Value{
		String("2 min 12 s"),
		String("217M"),
		String("just a string"),
		Int(42),
		Bool(true),
	}
	for _, in := range inputs {
		once := WeakParse(in)
		twice := WeakParse(once)
		assert.True(t, once.Equal(twice), "weak_parse not idempotent for %#v", in)
	}
}

func TestWeakParsePassesThroughNonMatchingStrings(t *testing.T) {
	got := WeakParse(String("h264"))
	assert.Equal(t, KindString, got.Kind)
	assert.Equal(t, "h264", got.Str)
}

func TestWeakLeafParseRecursesThroughMapsAndLists(t *testing.T) {
	m := NewOrderedMap()
	m.Set("duration", String("4 s"))
	m.Set("tags", List([]Value{String("1.2k"), String("hello")}))

	got := WeakLeafParse(Map(m))

	d, _ := got.Map.Get("duration")
	assert.Equal(t, int64(4), d.Int)

	tags, _ := got.Map.Get("tags")
	assert.Equal(t, float64(1200), tags.List[0].Flt)
	assert.Equal(t, "hello", tags.List[1].Str)
}
