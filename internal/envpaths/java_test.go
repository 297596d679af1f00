package envpaths

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

func TestJavaHome_Precedence(t *testing.T) {
	ctx := context.Background()
	envJDK := fakeJDK(t, "java", "javac")
	overrideJDK := fakeJDK(t, "java", "javac")

	t.Run("JAVA_HOME", func(t *testing.T) {
		l := testLocator(t, map[string]string{JavaHomeEnv: envJDK})
		got, err := l.JavaHome(ctx)
		require.NoError(t, err)
		require.Equal(t, envJDK, got)
	})

	t.Run("override", func(t *testing.T) {
		l := testLocator(t, map[string]string{JavaHomeEnv: envJDK}).
			WithOverrides(Overrides{JavaHome: overrideJDK})
		got, err := l.JavaHome(ctx)
		require.NoError(t, err)
		require.Equal(t, overrideJDK, got)
	})

	t.Run("darwin asks java_home", func(t *testing.T) {
		l := testLocator(t, nil)
		l.GOOS = "darwin"
		l.MacJavaHome = func(context.Context) (string, error) { return envJDK, nil }
		got, err := l.JavaHome(ctx)
		require.NoError(t, err)
		require.Equal(t, envJDK, got)
	})

	t.Run("not found", func(t *testing.T) {
		l := testLocator(t, nil)
		_, err := l.JavaHome(ctx)
		require.ErrorIs(t, err, ErrJavaNotFound)
		require.True(t, dberrors.HasCategory(err, dberrors.CategoryNotFound))
	})
}

func TestJavaHome_FromPATH(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	jdk := fakeJDK(t, "java", "javac")
	binDir := t.TempDir()
	link := filepath.Join(binDir, "java")
	require.NoError(t, os.Symlink(filepath.Join(jdk, "bin", "java"), link))

	l := testLocator(t, nil)
	l.LookPath = func(file string) (string, error) {
		if file == "java" {
			return link, nil
		}
		return "", errors.New("not found")
	}

	got, err := l.JavaHome(context.Background())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(jdk)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestJavacRequiresJDK(t *testing.T) {
	jre := fakeJDK(t, "java")
	l := testLocator(t, map[string]string{JavaHomeEnv: jre})

	java, err := l.Java(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(jre, "bin", "java"), java)

	_, err = l.Javac(context.Background())
	require.ErrorIs(t, err, ErrToolNotFound)
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryToolchain))
}

func TestToolInWindowsSuffix(t *testing.T) {
	jdk := fakeJDK(t, "javac.exe")
	l := testLocator(t, nil)
	l.GOOS = "windows"
	got, err := l.ToolIn(jdk, "javac")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(jdk, "bin", "javac.exe"), got)
}

func TestJavaVersionDefaults(t *testing.T) {
	l := testLocator(t, map[string]string{JavaSourceVersionEnv: "8", JavaTargetVersionEnv: " 11 "})
	require.Equal(t, "8", l.JavaSourceVersion())
	require.Equal(t, "11", l.JavaTargetVersion())
}
