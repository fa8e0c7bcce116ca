package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveArgumentsAppliesDefault(t *testing.T) {
	specs := map[string]ArgumentSpec{
		"preset": {Name: "preset", Type: "str", HasDefault: true, Default: String("fast")},
	}
	resolved, err := ResolveArguments(specs, map[string]string{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "fast", resolved["preset"].Str)
}

func TestResolveArgumentsCoercesSuppliedValue(t *testing.T) {
	specs := map[string]ArgumentSpec{
		"crf": {Name: "crf", Type: "int"},
	}
	resolved, err := ResolveArguments(specs, map[string]string{"crf": "23"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(23), resolved["crf"].Int)
}

func TestResolveArgumentsMissingRequiredFails(t *testing.T) {
	specs := map[string]ArgumentSpec{
		"codec": {Name: "codec", Type: "str", Required: true},
	}
	_, err := ResolveArguments(specs, map[string]string{}, nil)
	assert.Error(t, err)
	assert.IsType(t, &MissingArgumentError{}, err)
}

func TestResolveArgumentsEnforcesWhitelist(t *testing.T) {
	specs := map[string]ArgumentSpec{
		"codec": {Name: "codec", Type: "str", Whitelist: []string{"h264", "hevc"}},
	}
	_, err := ResolveArguments(specs, map[string]string{"codec": "av1"}, nil)
	assert.Error(t, err)
	assert.IsType(t, &ArgumentConstraintError{}, err)
}

func TestResolveArgumentsEnforcesMinMax(t *testing.T) {
	minV, maxV := Int(1), Int(10)
	specs := map[string]ArgumentSpec{
		"n": {Name: "n", Type: "int", Min: &minV, Max: &maxV},
	}
	_, err := ResolveArguments(specs, map[string]string{"n": "50"}, nil)
	assert.Error(t, err)
}

func TestResolveArgumentsBadTypeCoercionFails(t *testing.T) {
	specs := map[string]ArgumentSpec{
		"n": {Name: "n", Type: "int"},
	}
	_, err := ResolveArguments(specs, map[string]string{"n": "not-a-number"}, nil)
	assert.Error(t, err)
	assert.IsType(t, &ArgumentTypeError{}, err)
}
