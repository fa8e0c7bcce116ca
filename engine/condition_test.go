package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func thenConfig(processor string) Value {
	m := NewOrderedMap()
	m.Set(KWProcessor, String(processor))
	params := NewOrderedMap()
	m.Set(KWProcessorParameters, Map(params))
	return Map(m)
}

func TestEvaluateCasePicksFirstMatchingIf(t *testing.T) {
	minV := NewOrderedMap()
	minV.Set(KWDPSMin, Int(1000000))
	ifBranch := NewOrderedMap()
	ifBranch.Set(KWDPBitrate, Map(minV))
	ifBranch.Set(KWCFThen, thenConfig("ffmpeg-2pass"))
	ifEntry := NewOrderedMap()
	ifEntry.Set(KWCFIf, Map(ifBranch))

	defaultEntry := NewOrderedMap()
	defaultEntry.Set(KWDefault, thenConfig("ffmpeg-simple"))

	caseNode := List([]Value{Map(ifEntry), Map(defaultEntry)})

	ctx := ConditionContext{KWDPBitrate: scalarDP(Int(2000000))}
	chosen, ok := EvaluateCase(caseNode, ctx)
	assert.True(t, ok)
	proc, _ := chosen.Map.Get(KWProcessor)
	assert.Equal(t, "ffmpeg-2pass", proc.Str)
}

func TestEvaluateCaseFallsBackToDefault(t *testing.T) {
	minV := NewOrderedMap()
	minV.Set(KWDPSMin, Int(1000000))
	ifBranch := NewOrderedMap()
	ifBranch.Set(KWDPBitrate, Map(minV))
	ifBranch.Set(KWCFThen, thenConfig("ffmpeg-2pass"))
	ifEntry := NewOrderedMap()
	ifEntry.Set(KWCFIf, Map(ifBranch))

	defaultEntry := NewOrderedMap()
	defaultEntry.Set(KWDefault, thenConfig("ffmpeg-simple"))

	caseNode := List([]Value{Map(ifEntry), Map(defaultEntry)})

	ctx := ConditionContext{KWDPBitrate: scalarDP(Int(500000))}
	chosen, ok := EvaluateCase(caseNode, ctx)
	assert.True(t, ok)
	proc, _ := chosen.Map.Get(KWProcessor)
	assert.Equal(t, "ffmpeg-simple", proc.Str)
}

func TestEvaluateCaseNoMatchNoDefault(t *testing.T) {
	minV := NewOrderedMap()
	minV.Set(KWDPSMin, Int(1000000))
	ifBranch := NewOrderedMap()
	ifBranch.Set(KWDPBitrate, Map(minV))
	ifBranch.Set(KWCFThen, thenConfig("ffmpeg-2pass"))
	ifEntry := NewOrderedMap()
	ifEntry.Set(KWCFIf, Map(ifBranch))

	caseNode := List([]Value{Map(ifEntry)})

	ctx := ConditionContext{KWDPBitrate: scalarDP(Int(500000))}
	_, ok := EvaluateCase(caseNode, ctx)
	assert.False(t, ok)
}
