package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "not found", err: NotFoundError("no sdk").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "process spawn", err: ProcessError("cannot start").Build(), expected: 9},
		{name: "tool without code", err: ToolError("javac failed").Build(), expected: 11},
		{name: "filesystem", err: FileSystemError("cannot write build/dex").Build(), expected: 13},
		{
			name:     "tool exit code propagated",
			err:      ToolError("javac failed").WithContext(ContextKeyExitCode, 2).Build(),
			expected: 2,
		},
		{
			name:     "tool exit code out of range",
			err:      ToolError("javac failed").WithContext(ContextKeyExitCode, -1).Build(),
			expected: 11,
		},
		{
			name:     "wrapped classified",
			err:      fmt.Errorf("stage compile: %w", NotFoundError("javac missing").Build()),
			expected: 3,
		},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	cause := errors.New("no such file")
	err := NotFoundError("android.jar not found").
		WithCause(cause).
		WithContext("path", "/sdk/platforms/android-34/android.jar").
		Build()

	quiet := NewCLIErrorAdapter(false, slog.Default()).FormatError(err)
	if quiet != "Error: android.jar not found: no such file" {
		t.Errorf("unexpected non-verbose message: %q", quiet)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default()).FormatError(err)
	if !strings.Contains(verbose, "path: /sdk/platforms/android-34/android.jar") {
		t.Errorf("expected verbose output to include context, got %q", verbose)
	}

	if got := NewCLIErrorAdapter(false, nil).FormatError(errors.New("boom")); got != "Error: boom" {
		t.Errorf("unexpected unclassified message: %q", got)
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger).WithOutput(&out)

	code := adapter.Report(ConfigError("config file missing").Build())

	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "config file missing") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected fatal error to be logged with category, got %q", logs.String())
	}
	if adapter.Report(nil) != 0 {
		t.Error("expected nil error to report exit code 0")
	}
}
