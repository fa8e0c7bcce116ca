package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ffmpeg2passFileNames returns the two stats files ffmpeg's 2-pass encoding
// produces for a given pass-log base name, per utils.py's
// ffmpeg2pass_file_names.
func ffmpeg2passFileNames(name string) [2]string {
	return [2]string{name + "-0.log", name + "-0.log.mbtree"}
}

// getValidFFmpeg2passName finds a pass-log base name under dir that isn't
// already in use, per utils.py's get_valid_ffmpeg2pass_name.
func getValidFFmpeg2passName(dir, baseName string) string {
	for idx := 0; ; idx++ {
		candidate := fmt.Sprintf("%s_%d", baseName, idx)
		collides := false
		for _, f := range ffmpeg2passFileNames(candidate) {
			if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
				collides = true
				break
			}
		}
		if !collides {
			return candidate
		}
	}
}

// FFmpegTwoPassStep runs one pass of a target-bitrate two-pass ffmpeg
// encode. The first pass produces no media output but schedules a second
// pass as a next-sprint step (FFmpegTargetBitrate2passEncodeProcessingStep
// in step.py); the second pass consumes the first pass's stats files
// (handed off via the shared WorkingDirectory, per step.py's move-to-wd/
// copy-from-wd dance) and produces the final encoded stream.
type FFmpegTwoPassStep struct {
	stepBase
	Input         Stream
	Encoder       Encoder
	TargetBitrate string
	ExtraArgs     []string
	// PassLogName is empty on the first pass; the scheduler sets it (via
	// the second step's constructor) to the first pass's chosen pass-log
	// name to select the second pass branch.
	PassLogName string
	log         Logger
}

// NewFFmpegTwoPassStep constructs and verifies a FFmpegTwoPassStep. Pass
// passLogName == "" to build a first-pass step.
func NewFFmpegTwoPassStep(ctx context.Context, input Stream, encoder Encoder, targetBitrate string, extraArgs []string, passLogName string, wd WorkingDirectory, log Logger) (*FFmpegTwoPassStep, error) {
	if log == nil {
		log = NopLogger{}
	}
	s := &FFmpegTwoPassStep{
		stepBase:      stepBase{kind: "ffmpeg-2pass", wd: wd, ctx: ctx},
		Input:         input,
		Encoder:       encoder,
		TargetBitrate: targetBitrate,
		ExtraArgs:     extraArgs,
		PassLogName:   passLogName,
		log:           log,
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FFmpegTwoPassStep) Verify() error {
	if s.Input == nil || s.Encoder == nil {
		return NewParameterValidationError(s.kind, "input stream and encoder are required")
	}
	if s.TargetBitrate == "" {
		return NewParameterValidationError(s.kind, "target_bitrate is required")
	}
	if s.wd == nil {
		return NewParameterValidationError(s.kind, "working directory is required")
	}
	return nil
}

func (s *FFmpegTwoPassStep) isSecondPass() bool { return s.PassLogName != "" }

func (s *FFmpegTwoPassStep) passEncoder(pass int) Encoder {
	enc := s.Encoder.Clone()
	enc.SetParameters(map[string]string{"pass": strconv.Itoa(pass)})
	enc.SetRate(RateControlVBR, s.TargetBitrate)
	return enc
}

func (s *FFmpegTwoPassStep) buildArgs(enc Encoder, passLogName string, output string) []string {
	args := []string{
		enc.Executable(),
		"-y",
		"-i", s.Input.MediaFile().Path(),
		"-map", fmt.Sprintf("0:%d", s.Input.Idx()),
	}
	args = append(args, enc.Args()...)
	args = append(args, s.ExtraArgs...)
	args = append(args, "-passlogfile", passLogName)
	if output != "" {
		args = append(args, output)
	} else {
		args = append(args, "-f", "null", devNull())
	}
	return args
}

func devNull() string { return os.DevNull }

func (s *FFmpegTwoPassStep) Run() error {
	if !s.isSecondPass() {
		return s.runFirstPass()
	}
	return s.runSecondPass()
}

func (s *FFmpegTwoPassStep) runFirstPass() error {
	passLogName := getValidFFmpeg2passName(s.cwd(), fmt.Sprintf("stream%s_passlog", strconv.Itoa(s.Input.Idx())))
	enc := s.passEncoder(1)

	cmd := NewShellCommand(s.buildArgs(enc, passLogName, ""), s.log)
	bundle, err := cmd.Execute(s.context())
	if err != nil {
		return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr, err)
	}

	for _, f := range ffmpeg2passFileNames(passLogName) {
		src := filepath.Join(s.cwd(), f)
		if _, err := os.Stat(src); err != nil {
			return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr,
				fmt.Errorf("pass 1: expected stats file %s but it was missing", src))
		}
		dst := s.wd.NewFile(f)
		if _, err := os.Stat(dst); err == nil {
			s.log.Warnf("overwriting file %s", dst)
			os.Remove(dst)
		}
		if err := os.Rename(src, dst); err != nil {
			return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr, err)
		}
	}

	next, err := NewFFmpegTwoPassStep(s.ctx, s.Input, s.Encoder, s.TargetBitrate, s.ExtraArgs, passLogName, s.wd, s.log)
	if err != nil {
		return err
	}

	s.setResult(StepResult{NextSprintSteps: []ProcessingStep{next}})
	return nil
}

func (s *FFmpegTwoPassStep) runSecondPass() error {
	enc := s.passEncoder(2)
	output := s.wd.NewFile(newFileName(s.Input.Idx(), enc.PreferredContainer(), ""))

	for _, f := range ffmpeg2passFileNames(s.PassLogName) {
		src := s.wd.GetFile(f)
		dst := filepath.Join(s.cwd(), f)
		if _, err := os.Stat(dst); err == nil {
			s.log.Warnf("overwriting file %s", dst)
			os.Remove(dst)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return NewStepExecutionError(s.kind, "", "", err)
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return NewStepExecutionError(s.kind, "", "", err)
		}
	}

	cmd := NewShellCommand(s.buildArgs(enc, s.PassLogName, output), s.log)
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
