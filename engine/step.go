package engine

import (
	"context"
	"strconv"
)

// StepResult is what a successful ProcessingStep.Run() produces: an
// optional output media file and/or an optional set of follow-on steps to
// run in the next sprint, per spec §3's "Processing step" / result map.
type StepResult struct {
	OutputMediaFile MediaFile
	NextSprintSteps []ProcessingStep
}

// ProcessingStep is a single unit of the transcoding plan: an immutable
// parameter map, an optional working directory, a verify/run lifecycle,
// and a result on success, per spec §4.7.
type ProcessingStep interface {
	// Verify checks the step's parameters synchronously; construction of
	// concrete steps calls this and fails with ParameterValidationError
	// on a non-nil return.
	Verify() error
	// Run executes the step. On success it must make Result() return the
	// produced StepResult; on failure it must return a
	// StepExecutionError (or a specialization) and Result() must keep
	// failing with ResultNotReadyError.
	Run() error
	// Result returns the step's result, or ResultNotReadyError if Run()
	// hasn't completed successfully.
	Result() (StepResult, error)
	// Kind names the concrete step variant, for error messages and logs.
	Kind() string
}

// stepBase holds the bookkeeping every concrete step variant shares:
// the working directory, the lifecycle result, and a human-readable kind
// name for error messages. Concrete steps embed stepBase and implement
// Verify/Run themselves, mirroring the teacher's embedding-based node
// pattern (streamer.NodeBase) generalized from "one subprocess" to "one
// transcoding step".
type stepBase struct {
	kind   string
	wd     WorkingDirectory
	ctx    context.Context
	result *StepResult
}

func (s *stepBase) Kind() string { return s.kind }

// context returns the step's cancellation context, defaulting to
// context.Background() for steps built without one (e.g. test doubles),
// per spec §5's "cancelling the orchestrator aborts the current external
// process".
func (s *stepBase) context() context.Context {
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *stepBase) Result() (StepResult, error) {
	if s.result == nil {
		return StepResult{}, NewResultNotReadyError(s.kind)
	}
	return *s.result, nil
}

func (s *stepBase) setResult(r StepResult) {
	s.result = &r
}

func (s *stepBase) cwd() string {
	if s.wd == nil {
		return ""
	}
	return s.wd.Cwd()
}

// newFileName builds "stream<idx>[_<suffix>].<container>", per spec §6's
// working-directory artifact naming convention.
func newFileName(streamIdx int, container, suffix string) string {
	name := "stream" + strconv.Itoa(streamIdx)
	if suffix != "" {
		name += "_" + suffix
	}
	return name + "." + container
}
