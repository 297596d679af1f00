package javatool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
	"git.home.luguber.info/inful/droidbuild/internal/metrics"
	"git.home.luguber.info/inful/droidbuild/internal/observability"
)

// Runner executes a prepared command.
type Runner interface {
	Run(ctx context.Context, cmd *exec.Cmd) error
}

// ExecRunner runs commands as child processes.
type ExecRunner struct {
	// PrintCommands echoes each command line to CommandLog before running it.
	PrintCommands bool
	// CommandLog receives echoed command lines. Defaults to os.Stderr.
	CommandLog io.Writer
	// Stdout and Stderr, when set, also receive the tool's output as it runs.
	Stdout io.Writer
	Stderr io.Writer

	recorder metrics.Recorder
}

// NewExecRunner returns an ExecRunner with a no-op recorder.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder for tool invocations.
func (r *ExecRunner) WithRecorder(rec metrics.Recorder) *ExecRunner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// WithOutput streams tool output to the given writers in addition to capturing it.
func (r *ExecRunner) WithOutput(stdout, stderr io.Writer) *ExecRunner {
	r.Stdout, r.Stderr = stdout, stderr
	return r
}

// Run starts cmd and waits for it. A cancelled ctx is returned as ctx.Err();
// a start failure wraps ErrSpawn; a non-zero exit wraps an *ExitError.
func (r *ExecRunner) Run(ctx context.Context, cmd *exec.Cmd) error {
	tool := ToolName(cmd)
	ctx = observability.WithTool(ctx, tool)
	rec := r.recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	if r.PrintCommands {
		w := r.CommandLog
		if w == nil {
			w = os.Stderr
		}
		_, _ = fmt.Fprintln(w, strings.Join(cmd.Args, " "))
	}
	observability.DebugContext(ctx, "Running tool", logfields.Args(cmd.Args))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, r.Stdout)
	cmd.Stderr = tee(&stderr, r.Stderr)

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	rec.ObserveToolDuration(tool, elapsed)

	if s := strings.TrimSpace(stdout.String()); s != "" && r.Stdout == nil {
		slog.Debug("tool stdout", logfields.Tool(tool), slog.String("output", s))
	}

	if err == nil {
		rec.IncToolResult(tool, metrics.ToolSuccess)
		if s := strings.TrimSpace(stderr.String()); s != "" && r.Stderr == nil {
			observability.WarnContext(ctx, "Tool reported warnings", slog.String("output", s))
		}
		observability.DebugContext(ctx, "Tool finished", logfields.Duration(elapsed))
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		rec.IncToolResult(tool, metrics.ToolCanceled)
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		rec.IncToolResult(tool, metrics.ToolFailed)
		ee := &ExitError{
			Tool:   tool,
			Args:   cmd.Args,
			Code:   exitErr.ExitCode(),
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
		observability.DebugContext(ctx, "Tool failed", logfields.ExitCode(ee.Code), logfields.Duration(elapsed))
		return dberrors.ToolError(fmt.Sprintf("%s exited with status %d", tool, ee.Code)).
			WithCause(ee).
			WithContext(dberrors.ContextKeyExitCode, ee.Code).
			WithContext(logfields.KeyTool, tool).
			Build()
	}

	rec.IncToolResult(tool, metrics.ToolSpawnError)
	return dberrors.ProcessError(fmt.Sprintf("failed to start %s", tool)).
		WithCause(fmt.Errorf("%w: %w", ErrSpawn, err)).
		WithContext(logfields.KeyPath, cmd.Path).
		Build()
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// ToolName labels cmd for logs and metrics: "d8" for the D8 launcher,
// otherwise the executable's base name.
func ToolName(cmd *exec.Cmd) string {
	for _, a := range cmd.Args {
		if a == D8MainClass {
			return "d8"
		}
	}
	name := filepath.Base(cmd.Path)
	return strings.TrimSuffix(name, ".exe")
}
