package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// ShellCommand is the concrete Command implementation: a subprocess run to
// completion, with its combined argv logged the way the teacher's
// NodeBase.CreateProcess logs it ("+ arg1 arg2 ...", bash -x style) and
// captured stdout/stderr returned as a StdioBundle. Unlike NodeBase (which
// starts a long-running background process polled via CheckStatus),
// ProcessingStep.Run needs the subprocess's exit to gate success, so
// ShellCommand runs synchronously to completion.
type ShellCommand struct {
	Args []string
	Env  map[string]string
	// MergeEnv appends Env onto the parent process's environment instead of
	// replacing it entirely.
	MergeEnv bool
	log      Logger
}

// NewShellCommand builds a ShellCommand for args (args[0] is the
// executable). log may be nil.
func NewShellCommand(args []string, log Logger) *ShellCommand {
	if log == nil {
		log = NopLogger{}
	}
	return &ShellCommand{Args: args, log: log}
}

func (c *ShellCommand) formatEnv() []string {
	formatted := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		formatted = append(formatted, fmt.Sprintf("%s=%s", k, v))
	}
	return formatted
}

// Execute runs the subprocess to completion, or aborts it if ctx is done
// first (per spec §5: cancelling the orchestrator aborts the current
// external process). A nonzero exit, including one caused by cancellation,
// yields a StepExecutionError-flavoured error carrying the captured
// stdout/stderr; callers (concrete ProcessingSteps) are expected to wrap it
// further with their own step kind.
func (c *ShellCommand) Execute(ctx context.Context) (StdioBundle, error) {
	if len(c.Args) == 0 {
		return StdioBundle{}, fmt.Errorf("empty command")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	if c.MergeEnv {
		cmd.Env = append(os.Environ(), c.formatEnv()...)
	} else if len(c.Env) > 0 {
		cmd.Env = c.formatEnv()
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debugf("+ %s", strings.Join(c.Args, " "))

	if err := cmd.Start(); err != nil {
		return StdioBundle{}, err
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		stopProcessGroup(cmd, done)
		waitErr = ctx.Err()
	}

	bundle := StdioBundle{Stdout: stdout.String(), Stderr: stderr.String()}
	if waitErr != nil {
		return bundle, fmt.Errorf("%s: %w", c.Args[0], waitErr)
	}
	return bundle, nil
}

// stopProcessGroup sends SIGTERM to the process group, then SIGKILLs after a
// second if the process hasn't exited, per the teacher's NodeBase.Stop
// graceful-then-forceful policy. done is the channel Execute's own Wait
// goroutine reports on; stopProcessGroup drains it instead of calling
// cmd.Wait() itself, since Wait must only be called once per command.
func stopProcessGroup(cmd *exec.Cmd, done <-chan error) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err == nil {
		syscall.Kill(-pgid, syscall.SIGTERM)
	}

	select {
	case <-done:
		return
	case <-time.After(time.Second):
	}

	if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
		syscall.Kill(-pgid, syscall.SIGKILL)
	}
	<-done
}
