package engine

import (
	"fmt"
	"sort"
)

// preferredContainers maps a codec name to the container extension ffmpeg
// output is conventionally muxed into, grounded on the teacher's
// transcoder_node.go codec-specific branches (H264/HEVC/VP9/AV1 each get
// their own ffmpeg flag handling) generalized into a lookup table.
var preferredContainers = map[string]string{
	"libx264":  "mp4",
	"libx265":  "mp4",
	"libvpx-vp9": "webm",
	"libaom-av1": "webm",
	"aac":      "m4a",
	"libopus":  "opus",
	"flac":     "flac",
}

// FFmpegEncoder is the concrete Encoder: an ffmpeg codec name plus a set of
// "-<key> <value>" codec parameters and an optional rate-control setting,
// grounded on transcoder_node.go's per-codec flag construction
// (-c:v/-c:a, -preset, -crf, -b:v) generalized from "baked into one
// Start() method" to "a reusable, clonable value object" since the step
// model needs to clone and mutate an encoder across sprints (first vs.
// second pass of a two-pass encode).
type FFmpegEncoder struct {
	executable string
	codec      string
	params     map[string]string
	rateMode   RateControlMode
	rateValue  string
	hasRate    bool
}

// NewFFmpegEncoder builds an encoder for codec, invoked via executable
// (typically "ffmpeg").
func NewFFmpegEncoder(executable, codec string) *FFmpegEncoder {
	return &FFmpegEncoder{
		executable: executable,
		codec:      codec,
		params:     map[string]string{},
	}
}

func (e *FFmpegEncoder) Executable() string { return e.executable }
func (e *FFmpegEncoder) Codec() string      { return e.codec }

func (e *FFmpegEncoder) Spec() string {
	return fmt.Sprintf("%s(%s)", e.executable, e.codec)
}

func (e *FFmpegEncoder) Clone() Encoder {
	clone := &FFmpegEncoder{
		executable: e.executable,
		codec:      e.codec,
		params:     make(map[string]string, len(e.params)),
		rateMode:   e.rateMode,
		rateValue:  e.rateValue,
		hasRate:    e.hasRate,
	}
	for k, v := range e.params {
		clone.params[k] = v
	}
	return clone
}

func (e *FFmpegEncoder) SetParameters(kv map[string]string) {
	for k, v := range kv {
		e.params[k] = v
	}
}

func (e *FFmpegEncoder) SetRate(mode RateControlMode, bitrate string) {
	e.rateMode = mode
	e.rateValue = bitrate
	e.hasRate = true
}

func (e *FFmpegEncoder) Args() []string {
	args := []string{"-c:v", e.codec}
	if isAudioCodec(e.codec) {
		args = []string{"-c:a", e.codec}
	}

	keys := make([]string, 0, len(e.params))
	for k := range e.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-"+k, e.params[k])
	}

	if e.hasRate {
		switch e.rateMode {
		case RateControlCRF:
			args = append(args, "-crf", e.rateValue)
		case RateControlVBR, RateControlCBR:
			args = append(args, "-b:v", e.rateValue)
		}
	}

	return args
}

func (e *FFmpegEncoder) PreferredContainer() string {
	if c, ok := preferredContainers[e.codec]; ok {
		return c
	}
	return "mp4"
}

func isAudioCodec(codec string) bool {
	switch codec {
	case "aac", "libopus", "flac", "ac3", "eac3", "mp3":
		return true
	default:
		return false
	}
}
