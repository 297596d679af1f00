package envpaths

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testLocator returns a Locator isolated from the host: env comes from the
// map, home is a temp dir and nothing is on PATH.
func testLocator(t *testing.T, env map[string]string) *Locator {
	t.Helper()
	home := t.TempDir()
	return &Locator{
		GOOS: "linux",
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		HomeDir:  func() (string, error) { return home, nil },
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		MacJavaHome: func(context.Context) (string, error) {
			return "", errors.New("no java_home")
		},
	}
}

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, nil, 0o755))
	return p
}

// fakeSDK lays out an SDK with the given platform directories (each with
// android.jar) and build-tools versions (each with lib/d8.jar).
func fakeSDK(t *testing.T, platforms, buildTools []string) string {
	t.Helper()
	sdk := t.TempDir()
	for _, p := range platforms {
		touch(t, sdk, "platforms", p, "android.jar")
	}
	for _, v := range buildTools {
		touch(t, sdk, "build-tools", v, "lib", "d8.jar")
	}
	return sdk
}

func fakeJDK(t *testing.T, tools ...string) string {
	t.Helper()
	home := t.TempDir()
	for _, name := range tools {
		touch(t, home, "bin", name)
	}
	return home
}

func mkdirAll(p string) error { return os.MkdirAll(p, 0o755) }
