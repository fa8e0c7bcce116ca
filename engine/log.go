package engine

import (
	"fmt"
	"log"
	"os"
)

// Logger is the engine's logging collaborator. The core only ever needs
// leveled, printf-style diagnostics, so the contract stays intentionally
// small; the logging backend itself is out of core scope (spec §1) and
// left to the embedding application.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards every message. Useful in tests and as the Validator's
// default when nil is passed.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}

// StdLogger adapts the standard library's log package to Logger, prefixing
// each line with its level. Debug lines are only emitted when Debug is
// true.
type StdLogger struct {
	Debug bool
	out   *log.Logger
}

// NewStdLogger returns a StdLogger writing to stderr.
func NewStdLogger(debug bool) *StdLogger {
	return &StdLogger{Debug: debug, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *StdLogger) Debugf(format string, args ...interface{}) {
	if l.Debug {
		l.out.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}

func (l *StdLogger) Infof(format string, args ...interface{}) {
	l.out.Output(2, "INFO  "+fmt.Sprintf(format, args...))
}

func (l *StdLogger) Warnf(format string, args ...interface{}) {
	l.out.Output(2, "WARN  "+fmt.Sprintf(format, args...))
}

func (l *StdLogger) Errorf(format string, args ...interface{}) {
	l.out.Output(2, "ERROR "+fmt.Sprintf(format, args...))
}
