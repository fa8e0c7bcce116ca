package engine

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MKVMergeMode selects whether MKVMergeStep merges tracks from multiple
// sources into one timeline or joins multiple source files end-to-end into
// one continuous track, per utils.py's MKVMergeMode.
type MKVMergeMode int

const (
	MKVMergeModeMerge MKVMergeMode = iota
	MKVMergeModeJoin
)

var mkvmergeStreamTypeFlag = map[StreamType]struct{ positive, negative string }{
	StreamVideo:      {"--video-tracks", "--no-video"},
	StreamAudio:      {"--audio-tracks", "--no-audio"},
	StreamSubtitle:   {"--subtitle-tracks", "--no-subtitles"},
	StreamAttachment: {"--attachments", "--no-attachments"},
}

// MKVMergeStep uses mkvmerge to mux streams from one or more source files
// into a single MKV, or join several source files' matching tracks
// end-to-end, grounded on utils.py's make_mkvmerge_merge_command_from_streams
// and step.py's MKVMergeProcessingStep.
type MKVMergeStep struct {
	stepBase
	Executable string
	Inputs     []Stream
	Output     string
	Mode       MKVMergeMode
	log        Logger
}

// NewMKVMergeStep constructs and verifies a MKVMergeStep.
func NewMKVMergeStep(ctx context.Context, executable string, inputs []Stream, output string, mode MKVMergeMode, wd WorkingDirectory, log Logger) (*MKVMergeStep, error) {
	if executable == "" {
		executable = "mkvmerge"
	}
	if log == nil {
		log = NopLogger{}
	}
	s := &MKVMergeStep{
		stepBase:   stepBase{kind: "mkvmerge", wd: wd, ctx: ctx},
		Executable: executable,
		Inputs:     inputs,
		Output:     output,
		Mode:       mode,
		log:        log,
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MKVMergeStep) Verify() error {
	if len(s.Inputs) == 0 {
		return NewParameterValidationError(s.kind, "inputs must be non-empty")
	}
	if !strings.HasSuffix(strings.ToLower(s.Output), ".mkv") {
		return NewParameterValidationError(s.kind, "output must have a .mkv extension")
	}
	if _, err := os.Stat(s.Output); err == nil {
		return NewParameterValidationError(s.kind, fmt.Sprintf("output %s already exists", s.Output))
	}
	return nil
}

// buildCommand constructs the mkvmerge argv per utils.py's
// make_mkvmerge_merge_command_from_streams: streams are grouped by source
// file (in first-seen order), each source file contributes one
// --video-tracks/--no-video (and the audio/subtitle/attachment
// equivalents) pair selecting only the tracks drawn from it, JOIN mode
// inserts a bare "+" between source files after the first, and MERGE mode
// appends a --track-order listing every selected track as "<file-index>:<
// stream-index>" in the caller's requested order.
func (s *MKVMergeStep) buildCommand() []string {
	var sourceFiles []MediaFile
	fileIndex := map[string]int{}
	streamsPerFile := map[string]map[StreamType][]int{}
	trackOrder := make([]string, 0, len(s.Inputs))

	for _, in := range s.Inputs {
		mf := in.MediaFile()
		path := mf.Path()
		idx, seen := fileIndex[path]
		if !seen {
			idx = len(sourceFiles)
			fileIndex[path] = idx
			sourceFiles = append(sourceFiles, mf)
			streamsPerFile[path] = map[StreamType][]int{}
		}
		streamsPerFile[path][in.StreamType()] = append(streamsPerFile[path][in.StreamType()], in.Idx())
		trackOrder = append(trackOrder, fmt.Sprintf("%d:%d", idx, in.Idx()))
	}

	cmd := []string{s.Executable, "--output", s.Output}
	for i, mf := range sourceFiles {
		path := mf.Path()
		for _, st := range []StreamType{StreamVideo, StreamAudio, StreamSubtitle, StreamAttachment} {
			flag := mkvmergeStreamTypeFlag[st]
			if idxs := streamsPerFile[path][st]; len(idxs) > 0 {
				cmd = append(cmd, flag.positive, joinInts(idxs))
			} else {
				cmd = append(cmd, flag.negative)
			}
		}
		if i > 0 && s.Mode == MKVMergeModeJoin {
			cmd = append(cmd, "+")
		}
		cmd = append(cmd, path)
	}

	if s.Mode == MKVMergeModeMerge {
		cmd = append(cmd, "--track-order", strings.Join(trackOrder, ","))
	}

	return cmd
}

func joinInts(idxs []int) string {
	parts := make([]string, len(idxs))
	for i, v := range idxs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (s *MKVMergeStep) Run() error {
	cmd := NewShellCommand(s.buildCommand(), s.log)
	bundle, err := cmd.Execute(s.context())
	if err != nil {
		return NewMultiplexFailed(s.Output, bundle.Stdout, bundle.Stderr, err)
	}
	if _, err := os.Stat(s.Output); err != nil {
		return NewMultiplexFailed(s.Output, bundle.Stdout, bundle.Stderr,
			fmt.Errorf("output file wasn't created"))
	}

	output, err := ProbeMediaFile(s.Output)
	if err != nil {
		return NewStepExecutionError(s.kind, bundle.Stdout, bundle.Stderr, err)
	}

	s.setResult(StepResult{OutputMediaFile: output})
	return nil
}
