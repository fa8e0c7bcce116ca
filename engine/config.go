package engine

import (
	"github.com/creasty/defaults"
	"gopkg.in/dealancer/validate.v2"
	"gopkg.in/yaml.v3"
)

// EngineConfig is the engine's own ambient configuration, separate from
// the per-recipe document: where to find the ffmpeg family of binaries,
// where scratch working directories are rooted, and the log verbosity.
// Decoded the way the teacher decodes BitrateConfig/PipelineConfig: a
// defaults.Set() + unmarshal + validate.Validate() trio wired through
// UnmarshalYAML, per SPEC_FULL §4.10.
type EngineConfig struct {
	// Quiet suppresses informational log output, leaving only warnings and
	// errors.
	Quiet bool `yaml:"quiet" default:"false"`

	// DebugLogs enables debug-level log output (command lines, probe
	// results, grammar resolution detail).
	DebugLogs bool `yaml:"debug_logs" default:"false"`

	// FFmpegPath, FFprobePath and MkvmergePath locate the external
	// binaries this engine shells out to; empty means "resolve via PATH".
	FFmpegPath   string `yaml:"ffmpeg_path" default:"ffmpeg"`
	FFprobePath  string `yaml:"ffprobe_path" default:"ffprobe"`
	MkvmergePath string `yaml:"mkvmerge_path" default:"mkvmerge"`

	// WorkingDirRoot is the parent directory under which per-target-file
	// working directories are created.
	WorkingDirRoot string `yaml:"working_dir_root" default:"."`
}

func (c *EngineConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	if err := defaults.Set(c); err != nil {
		return NewMalformedConfigField("<root>", err.Error())
	}

	type plain EngineConfig
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}

	if err := validate.Validate(c); err != nil {
		return NewMalformedConfigField("<root>", err.Error())
	}

	return nil
}

// NewDefaultEngineConfig returns an EngineConfig with every field at its
// default, without going through YAML decoding.
func NewDefaultEngineConfig() (*EngineConfig, error) {
	c := &EngineConfig{}
	if err := defaults.Set(c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadEngineConfig decodes an EngineConfig from YAML bytes.
func LoadEngineConfig(data []byte) (*EngineConfig, error) {
	c := &EngineConfig{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Logger builds the Logger this configuration calls for.
func (c *EngineConfig) Logger() Logger {
	if c.Quiet {
		return NopLogger{}
	}
	return NewStdLogger(c.DebugLogs)
}

// ApplyBinaryPaths points the package-level hermetic binary path variables
// at this configuration's choices, mirroring the teacher's module-level
// HermeticFFProbe override pattern (streamer.HermeticFFProbe).
func (c *EngineConfig) ApplyBinaryPaths() {
	if c.FFprobePath != "" {
		HermeticFFProbe = c.FFprobePath
	}
}
