package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeWorkingDirectory struct {
	cwd string
}

func (d *fakeWorkingDirectory) Cwd() string              { return d.cwd }
func (d *fakeWorkingDirectory) NewFile(name string) string { return "/tmp/wd/" + name }
func (d *fakeWorkingDirectory) GetFile(name string) string { return "/tmp/wd/" + name }

func TestFFmpegTranscodeStepVerifyRequiresEncoderAndInput(t *testing.T) {
	_, err := NewFFmpegTranscodeStep(nil, nil, nil, nil, &fakeWorkingDirectory{}, nil)
	assert.Error(t, err)
}

func TestFFmpegTranscodeStepBuildArgsMapsStreamIndex(t *testing.T) {
	mf := newFakeVideoFile("input.mp4", "h264")
	stream := mf.Streams()[0]
	enc := NewFFmpegEncoder("ffmpeg", "libx264")
	enc.SetRate(RateControlCRF, "23")

	step, err := NewFFmpegTranscodeStep(nil, stream, enc, []string{"-an"}, &fakeWorkingDirectory{}, nil)
	assert.NoError(t, err)

	args := step.buildArgs("/tmp/wd/out.mp4")
	assert.Equal(t, "ffmpeg", args[0])
	assert.Contains(t, args, "-map")
	assert.Contains(t, args, "0:0")
	assert.Contains(t, args, "-crf")
	assert.Contains(t, args, "23")
	assert.Contains(t, args, "-an")
	assert.Equal(t, "/tmp/wd/out.mp4", args[len(args)-1])
}

func TestFFmpegEncoderPreferredContainer(t *testing.T) {
	enc := NewFFmpegEncoder("ffmpeg", "libvpx-vp9")
	assert.Equal(t, "webm", enc.PreferredContainer())

	enc2 := NewFFmpegEncoder("ffmpeg", "libx264")
	assert.Equal(t, "mp4", enc2.PreferredContainer())
}

func TestFFmpegEncoderCloneIsIndependent(t *testing.T) {
	enc := NewFFmpegEncoder("ffmpeg", "libx264")
	enc.SetParameters(map[string]string{"preset": "fast"})

	clone := enc.Clone().(*FFmpegEncoder)
	clone.SetParameters(map[string]string{"preset": "slow"})

	assert.Equal(t, "fast", enc.params["preset"])
	assert.Equal(t, "slow", clone.params["preset"])
}
