package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMKVMergeStepVerifyRejectsNonMkvOutput(t *testing.T) {
	mf := newFakeVideoFile("a.mp4", "h264")
	_, err := NewMKVMergeStep(nil, "mkvmerge", mf.Streams(), "out.mp4", MKVMergeModeMerge, nil, nil)
	assert.Error(t, err)
	assert.IsType(t, &ParameterValidationError{}, err)
}

func TestMKVMergeStepVerifyRejectsEmptyInputs(t *testing.T) {
	_, err := NewMKVMergeStep(nil, "mkvmerge", nil, "out.mkv", MKVMergeModeMerge, nil, nil)
	assert.Error(t, err)
}

func TestMKVMergeBuildCommandMergeMode(t *testing.T) {
	mf1 := newFakeVideoFile("a.mp4", "h264")
	mf2 := newFakeVideoFile("b.mkv", "hevc")

	inputs := []Stream{mf1.Streams()[0], mf2.Streams()[0]}
	step, err := NewMKVMergeStep(nil, "mkvmerge", inputs, "out.mkv", MKVMergeModeMerge, nil, nil)
	assert.NoError(t, err)

	cmd := step.buildCommand()
	assert.Contains(t, cmd, "--video-tracks")
	assert.Contains(t, cmd, "--track-order")
	assert.Equal(t, "0:0,1:0", cmd[len(cmd)-1])
	assert.NotContains(t, cmd, "+")
}

func TestMKVMergeBuildCommandJoinModeInsertsPlus(t *testing.T) {
	mf1 := newFakeVideoFile("a.ts", "h264")
	mf2 := newFakeVideoFile("b.ts", "h264")

	inputs := []Stream{mf1.Streams()[0], mf2.Streams()[0]}
	step, err := NewMKVMergeStep(nil, "mkvmerge", inputs, "out.mkv", MKVMergeModeJoin, nil, nil)
	assert.NoError(t, err)

	cmd := step.buildCommand()
	assert.Contains(t, cmd, "+")
	assert.NotContains(t, cmd, "--track-order")
}
