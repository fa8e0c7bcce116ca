package engine

import "fmt"

// GrammarViolation reports a path that had no matching schema rule,
// multiple irresolvable candidate rules, or an empty accepted set. It is
// never fatal: the offending subtree is dropped and this is surfaced as a
// warning log, not returned as an error, per spec §7 — this type exists so
// callers that want to collect violations programmatically still can.
type GrammarViolation struct {
	Path   string
	Reason string
}

func NewGrammarViolation(path, reason string) *GrammarViolation {
	return &GrammarViolation{Path: path, Reason: reason}
}

func (e GrammarViolation) Error() string {
	return fmt.Sprintf("grammar violation at %s: %s", e.Path, e.Reason)
}

// ParameterValidationError is raised when a processing step is constructed
// with invalid or missing parameters. Fatal to that step.
type ParameterValidationError struct {
	StepKind string
	Reason   string
}

func NewParameterValidationError(stepKind, reason string) *ParameterValidationError {
	return &ParameterValidationError{StepKind: stepKind, Reason: reason}
}

func (e ParameterValidationError) Error() string {
	return fmt.Sprintf("%s: parameter validation failed: %s", e.StepKind, e.Reason)
}

// ArgumentTypeError is raised when a user-supplied argument value can't be
// coerced to its declared type.
type ArgumentTypeError struct {
	ArgName      string
	DeclaredType string
	Value        interface{}
}

func NewArgumentTypeError(argName, declaredType string, value interface{}) *ArgumentTypeError {
	return &ArgumentTypeError{ArgName: argName, DeclaredType: declaredType, Value: value}
}

func (e ArgumentTypeError) Error() string {
	return fmt.Sprintf("argument %q: cannot coerce %v to %s", e.ArgName, e.Value, e.DeclaredType)
}

// ArgumentConstraintError is raised when a coerced argument value fails its
// min/max/whitelist/blacklist constraint.
type ArgumentConstraintError struct {
	ArgName string
	Value   interface{}
}

func NewArgumentConstraintError(argName string, value interface{}) *ArgumentConstraintError {
	return &ArgumentConstraintError{ArgName: argName, Value: value}
}

func (e ArgumentConstraintError) Error() string {
	return fmt.Sprintf("argument %q: value %v doesn't satisfy min/max/whitelist/blacklist", e.ArgName, e.Value)
}

// MissingArgumentError is raised when a required argument has neither a
// user-supplied value nor a default.
type MissingArgumentError struct {
	ArgName string
}

func NewMissingArgumentError(argName string) *MissingArgumentError {
	return &MissingArgumentError{ArgName: argName}
}

func (e MissingArgumentError) Error() string {
	return fmt.Sprintf("missing required argument %q", e.ArgName)
}

// InputRejected reports that a candidate media file failed one or more
// admission rules. Non-fatal to the engine: the caller should simply skip
// this candidate.
type InputRejected struct {
	Path string
	Rule string
}

func NewInputRejected(path, rule string) *InputRejected {
	return &InputRejected{Path: path, Rule: rule}
}

func (e InputRejected) Error() string {
	return fmt.Sprintf("input %s rejected by rule %s", e.Path, e.Rule)
}

// StepExecutionError is raised when an external command failed or an
// expected output artifact is absent. Fatal to the run.
type StepExecutionError struct {
	StepKind string
	Stdout   string
	Stderr   string
	Cause    error
}

func NewStepExecutionError(stepKind, stdout, stderr string, cause error) *StepExecutionError {
	return &StepExecutionError{StepKind: stepKind, Stdout: stdout, Stderr: stderr, Cause: cause}
}

func (e StepExecutionError) Error() string {
	return fmt.Sprintf("%s: execution failed: %v\nstdout: %s\nstderr: %s", e.StepKind, e.Cause, e.Stdout, e.Stderr)
}

func (e StepExecutionError) Unwrap() error { return e.Cause }

// MultiplexFailed specializes StepExecutionError for the MKV mux step.
type MultiplexFailed struct {
	StepExecutionError
	Output string
}

func NewMultiplexFailed(output, stdout, stderr string, cause error) *MultiplexFailed {
	return &MultiplexFailed{
		StepExecutionError: *NewStepExecutionError("mkvmerge", stdout, stderr, cause),
		Output:             output,
	}
}

func (e MultiplexFailed) Error() string {
	return fmt.Sprintf("mkvmerge: output %s missing or command failed: %v", e.Output, e.Cause)
}

// ResultNotReadyError is a programmer error: result was queried before a
// successful run().
type ResultNotReadyError struct {
	StepKind string
}

func NewResultNotReadyError(stepKind string) *ResultNotReadyError {
	return &ResultNotReadyError{StepKind: stepKind}
}

func (e ResultNotReadyError) Error() string {
	return fmt.Sprintf("%s: result queried but run() wasn't called, isn't finished, or didn't complete successfully", e.StepKind)
}

// ParameterValidationError wraps a ConfigError-style malformed-field
// report for the engine configuration loader, following the teacher's
// MalformedField pattern.
type MalformedConfigField struct {
	Field  string
	Reason string
}

func NewMalformedConfigField(field, reason string) *MalformedConfigField {
	return &MalformedConfigField{Field: field, Reason: reason}
}

func (e MalformedConfigField) Error() string {
	return fmt.Sprintf("config field %q is malformed: %s", e.Field, e.Reason)
}
