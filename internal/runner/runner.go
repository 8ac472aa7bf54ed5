// Package runner executes external commands from a discrete argv. Commands
// never pass through a shell.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// maxOutput caps the captured stdout and stderr of one command.
const maxOutput = 4 << 20 // 4MB

// Result is the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs a command in dir.
type Runner interface {
	Run(ctx context.Context, dir string, argv ...string) (*Result, error)
}

// ExitError is a command that could not start or exited non-zero. It
// renders as "<cmd> error: <stderr or exit status>".
type ExitError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("%s error: %s", e.Cmd, msg)
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("%s error: exit status %d", e.Cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s error: %v", e.Cmd, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ErrorContext reports the command name.
func (e *ExitError) ErrorContext() string { return e.Cmd }

// Exec runs commands with os/exec.
type Exec struct {
	logger *common.Logger
}

// NewExec creates an Exec runner.
func NewExec(logger *common.Logger) *Exec {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Exec{logger: logger}
}

// Run executes argv in dir. A non-zero exit returns both the Result and an
// *ExitError so callers that tolerate failing commands (npm audit exits 1
// when it finds vulnerabilities) can still read stdout.
func (e *Exec) Run(ctx context.Context, dir string, argv ...string) (*Result, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var stdout, stderr cappedBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	e.logger.Debug().Strs("argv", argv).Str("dir", dir).Int64("duration_ms", time.Since(start).Milliseconds()).Msg("command finished")

	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		res.ExitCode = -1
	}
	return res, &ExitError{Cmd: argv[0], ExitCode: res.ExitCode, Stderr: res.Stderr, Err: err}
}

// cappedBuffer drops writes beyond maxOutput.
type cappedBuffer struct {
	bytes.Buffer
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := maxOutput - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}
