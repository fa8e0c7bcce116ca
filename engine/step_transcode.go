package engine

import (
	"context"
	"fmt"
)

// FFmpegTranscodeStep runs a single ffmpeg invocation to transcode one
// input stream to an output file using the given encoder, per spec §4.7's
// simple transcode variant (step.py's FFmpegSimpleTranscodeProcessingStep).
type FFmpegTranscodeStep struct {
	stepBase
	Input     Stream
	Encoder   Encoder
	ExtraArgs []string
	log       Logger
}

// NewFFmpegTranscodeStep constructs and verifies a FFmpegTranscodeStep.
func NewFFmpegTranscodeStep(ctx context.Context, input Stream, encoder Encoder, extraArgs []string, wd WorkingDirectory, log Logger) (*FFmpegTranscodeStep, error) {
	if log == nil {
		log = NopLogger{}
	}
	s := &FFmpegTranscodeStep{
		stepBase:  stepBase{kind: "ffmpeg-transcode", wd: wd, ctx: ctx},
		Input:     input,
		Encoder:   encoder,
		ExtraArgs: extraArgs,
		log:       log,
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FFmpegTranscodeStep) Verify() error {
	if s.Input == nil {
		return NewParameterValidationError(s.kind, "input stream is required")
	}
	if s.Encoder == nil {
		return NewParameterValidationError(s.kind, "encoder is required")
	}
	if s.wd == nil {
		return NewParameterValidationError(s.kind, "working directory is required")
	}
	return nil
}

// buildArgs constructs the ffmpeg argv for a single input/output transcode,
// generalized from transcoder_node.go's per-stream encodeVideo/encodeAudio
// flag construction into a single-input, single-output command.
func (s *FFmpegTranscodeStep) buildArgs(output string) []string {
	args := []string{
		s.Encoder.Executable(),
		"-y",
		"-i", s.Input.MediaFile().Path(),
		"-map", fmt.Sprintf("0:%d", s.Input.Idx()),
	}
	args = append(args, s.Encoder.Args()...)
	args = append(args, s.ExtraArgs...)
	args = append(args, output)
	return args
}

func (s *FFmpegTranscodeStep) Run() error {
	output := s.wd.NewFile(newFileName(s.Input.Idx(), s.Encoder.PreferredContainer(), ""))

	cmd := NewShellCommand(s.buildArgs(output), s.log)
	bundle, err := cmd.Execute(s.context())
	if err != nil {
		return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr, err)
	}

	outputMedia, err := ProbeMediaFile(output)
	if err != nil {
		return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr, err)
	}

	s.setResult(StepResult{OutputMediaFile: outputMedia})
	return nil
}
