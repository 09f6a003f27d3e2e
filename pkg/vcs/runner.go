package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CommandRunner executes external commands.
type CommandRunner interface {
	// Run executes name with args in workDir and returns the trimmed stdout.
	// On failure the error is a *CommandError carrying the command output.
	Run(ctx context.Context, workDir, name string, args ...string) (string, error)
}

// ExecRunner is the default CommandRunner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command and waits for it, killing it when ctx is done.
func (r *ExecRunner) Run(ctx context.Context, workDir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", &CommandError{
			Command: name,
			Args:    args,
			WorkDir: workDir,
			Output:  output,
			Err:     err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CommandError is a failed command invocation.
type CommandError struct {
	Command string
	Args    []string
	WorkDir string
	Output  string
	Err     error
}

// Error returns the command output when there is any, since that is what
// git reports its failures in.
func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
