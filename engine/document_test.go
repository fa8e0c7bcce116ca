package engine

import "testing"

import "github.com/stretchr/testify/assert"

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("b", Int(2))
	m.Set("a", Int(1))
	m.Set("c", Int(3))

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
}

func TestOrderedMapSetOverwritesInPlace(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", Int(1))
	m.Set("a", Int(2))

	assert.Equal(t, []string{"a"}, m.Keys())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(2), v.Int)
}

func TestValueEqualCrossKindNumeric(t *testing.T) {
	assert.True(t, Int(4).Equal(Float(4.0)))
	assert.False(t, Int(4).Equal(Float(4.1)))
	assert.True(t, String("x").Equal(String("x")))
	assert.False(t, String("x").Equal(Int(1)))
}

func TestValueDumpRendersNestedTree(t *testing.T) {
	inner := NewOrderedMap()
	inner.Set("codec", String("h264"))
	outer := NewOrderedMap()
	outer.Set("video", Map(inner))
	outer.Set("tags", List([]Value{String("a"), String("b")}))

	dump := Map(outer).Dump(0)
	assert.Contains(t, dump, "video:")
	assert.Contains(t, dump, `codec: "h264"`)
	assert.Contains(t, dump, `- "a"`)
}
