package javatool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	"git.home.luguber.info/inful/droidbuild/internal/metrics"
)

func envLocator(env map[string]string) *envpaths.Locator {
	return &envpaths.Locator{
		GOOS: "linux",
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		HomeDir:  func() (string, error) { return "", errors.New("no home") },
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
}

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, nil, 0o755))
	return p
}

func fakeJDK(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	touch(t, home, "bin", "java")
	touch(t, home, "bin", "javac")
	return home
}

// captureRunner records commands instead of running them.
type captureRunner struct {
	cmds []*exec.Cmd
	err  error
}

func (c *captureRunner) Run(_ context.Context, cmd *exec.Cmd) error {
	c.cmds = append(c.cmds, cmd)
	return c.err
}

type toolCall struct {
	tool   string
	result metrics.ToolResult
}

type fakeRecorder struct {
	metrics.NoopRecorder
	calls     []toolCall
	durations int
}

func (f *fakeRecorder) ObserveToolDuration(string, time.Duration) { f.durations++ }
func (f *fakeRecorder) IncToolResult(tool string, r metrics.ToolResult) {
	f.calls = append(f.calls, toolCall{tool, r})
}
