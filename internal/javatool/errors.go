package javatool

import (
	"errors"
	"fmt"
	"strings"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

var (
	// ErrSpawn indicates the tool process could not be started.
	ErrSpawn = errors.New("failed to start tool")
	// ErrToolFailed indicates the tool ran and exited with a non-zero status.
	ErrToolFailed = errors.New("tool exited with non-zero status")
	// ErrMainClassAndJar indicates JavaRun was given both a main class and a jar.
	ErrMainClassAndJar = errors.New("cannot provide both a main class and a jar file")
	// ErrNoInputs indicates a compile or dex invocation without input files.
	ErrNoInputs = errors.New("no input files")
	// ErrNotADirectory indicates a collect root that is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// ExitError carries the status and captured output of a failed tool run.
type ExitError struct {
	Tool   string
	Args   []string
	Code   int
	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Stderr)
	if out == "" {
		out = strings.TrimSpace(e.Stdout)
	}
	if out == "" {
		return fmt.Sprintf("%s failed with exit status %d", strings.Join(e.Args, " "), e.Code)
	}
	return fmt.Sprintf("%s failed with exit status %d: %s", strings.Join(e.Args, " "), e.Code, out)
}

func (e *ExitError) Unwrap() error { return ErrToolFailed }

// ExitCode returns the exit status of the tool that produced err.
func ExitCode(err error) (int, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}

func invalid(cause error, message string) error {
	return dberrors.ValidationError(message).WithCause(cause).Build()
}
