package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func whitelistRecipeDoc(codecs ...string) Value {
	whitelist := make([]Value, len(codecs))
	for i, c := range codecs {
		whitelist[i] = String(c)
	}
	whitelistSpec := NewOrderedMap()
	whitelistSpec.Set(KWDPSWhitelist, List(whitelist))

	codecRule := NewOrderedMap()
	codecRule.Set(KWDPCodec, Map(whitelistSpec))

	videoRule := NewOrderedMap()
	videoRule.Set(KWStreamTypeVideo, Map(codecRule))

	input := NewOrderedMap()
	input.Set(KWStreamTypeRoot, Map(videoRule))

	recipe := NewOrderedMap()
	recipe.Set(KWRecipeInput, Map(input))

	root := NewOrderedMap()
	root.Set(KWRecipeRoot, Map(recipe))
	return Map(root)
}

func TestValidateInputAdmitsWhitelistedCodec(t *testing.T) {
	doc := whitelistRecipeDoc("h264", "hevc")
	media := newFakeVideoFile("clip.mp4", "h264")

	ok, err := ValidateInput(doc, media, nil)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateInputRejectsNonWhitelistedCodec(t *testing.T) {
	doc := whitelistRecipeDoc("h264", "hevc")
	media := newFakeVideoFile("clip.mp4", "av1")

	ok, err := ValidateInput(doc, media, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateInputRejectsWhenAnyStreamFailsWhitelist(t *testing.T) {
	doc := whitelistRecipeDoc("h264", "hevc")
	media := newFakeVideoFile("clip.mp4", "h264", "av1")

	ok, err := ValidateInput(doc, media, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRuleMinMax(t *testing.T) {
	info := map[string]dataPointValue{
		"bitrate": scalarDP(Int(500000)),
	}
	spec := NewOrderedMap()
	spec.Set(KWDPSMax, Int(1000000))
	spec.Set(KWDPSMin, Int(100000))

	assert.True(t, VerifyRule("bitrate", Map(spec), info))

	tooHigh := NewOrderedMap()
	tooHigh.Set(KWDPSMax, Int(100))
	assert.False(t, VerifyRule("bitrate", Map(tooHigh), info))
}

func TestVerifyRuleMissingDatapointDoesNotInvalidate(t *testing.T) {
	spec := NewOrderedMap()
	spec.Set(KWDPSWhitelist, List([]Value{String("h264")}))
	assert.True(t, VerifyRule("codec", Map(spec), map[string]dataPointValue{}))
}
