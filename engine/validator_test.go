package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// captureLogger records every Warnf call verbatim, for asserting on the
// exact diagnostics a Validator run produces.
type captureLogger struct {
	warnings []string
}

func (l *captureLogger) Debugf(string, ...interface{}) {}
func (l *captureLogger) Infof(string, ...interface{})  {}
func (l *captureLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}
func (l *captureLogger) Errorf(string, ...interface{}) {}

func minimalValidRecipeDoc() Value {
	streamProc := NewOrderedMap()
	streamProc.Set(KWProcessor, String("ffmpeg-simple"))
	streamProc.Set(KWProcessorParameters, Map(NewOrderedMap()))

	defaultEntry := NewOrderedMap()
	defaultEntry.Set(KWDefault, Map(streamProc))
	caseList := List([]Value{Map(defaultEntry)})

	videoProc := NewOrderedMap()
	videoProc.Set(KWProcessor, String("ffmpeg-simple"))
	videoProc.Set(KWProcessorParameters, Map(NewOrderedMap()))
	videoProc.Set(KWCFCase, caseList)

	streamProcessor := NewOrderedMap()
	streamProcessor.Set(KWStreamTypeVideo, Map(videoProc))

	whitelist := NewOrderedMap()
	whitelist.Set(KWDPSWhitelist, List([]Value{String("mp4")}))
	extension := NewOrderedMap()
	extension.Set(KWDPExtension, Map(whitelist))

	ppCase := NewOrderedMap()
	ppDefault := NewOrderedMap()
	ppDefault.Set(KWDefault, Map(streamProc))
	ppCase.Set(KWCFCase, List([]Value{Map(ppDefault)}))
	postProcessing := List([]Value{Map(ppCase)})

	output := NewOrderedMap()
	output.Set(KWOutputDirectory, String("/tmp/out"))
	output.Set(KWOutputSuffix, String(".mp4"))

	recipe := NewOrderedMap()
	recipe.Set(KWRecipeInput, Map(extension))
	recipe.Set(KWRecipeStreamProc, Map(streamProcessor))
	recipe.Set(KWRecipePostProcessing, postProcessing)
	recipe.Set(KWRecipeOutput, Map(output))

	root := NewOrderedMap()
	root.Set(KWSpecVersion, Int(1))
	root.Set(KWRecipeRoot, Map(recipe))
	return Map(root)
}

// TestValidateMinimalRecipeStructurallyEqualModuloPruning exercises S2: a
// document with the four required recipe subtree keys validates with all of
// them intact.
func TestValidateMinimalRecipeStructurallyEqualModuloPruning(t *testing.T) {
	doc := minimalValidRecipeDoc()
	v := NewValidator(BuildRecipeSchema(), nil)
	result := v.Validate(doc)

	assert.Equal(t, KindMap, result.Kind)
	recode, ok := result.Map.Get(KWSpecVersion)
	assert.True(t, ok)
	assert.Equal(t, int64(1), recode.Int)

	recipe, ok := result.Map.Get(KWRecipeRoot)
	assert.True(t, ok)
	for _, key := range []string{KWRecipeInput, KWRecipeStreamProc, KWRecipePostProcessing, KWRecipeOutput} {
		_, ok := recipe.Map.Get(key)
		assert.Truef(t, ok, "expected %s to survive validation", key)
	}
}

// TestValidateDropsUnknownTopLevelKeyWithWarning exercises S3: an extra
// top-level key is pruned from the result and logged as a single
// GrammarViolation warning naming its path.
func TestValidateDropsUnknownTopLevelKeyWithWarning(t *testing.T) {
	doc := minimalValidRecipeDoc()
	doc.Map.Set("zzz", Int(1))

	log := &captureLogger{}
	v := NewValidator(BuildRecipeSchema(), log)
	result := v.Validate(doc)

	_, ok := result.Map.Get("zzz")
	assert.False(t, ok)

	matches := 0
	for _, w := range log.warnings {
		if strings.Contains(w, "GrammarViolation") && strings.Contains(w, "/.zzz") {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}
