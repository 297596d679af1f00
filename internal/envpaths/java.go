package envpaths

import (
	"context"
	"log/slog"
	"path/filepath"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// JavaHome returns the JDK root.
//
// Precedence: Overrides.JavaHome, JAVA_HOME, then auto-detection. On macOS
// detection asks /usr/libexec/java_home; elsewhere java is looked up on PATH,
// symlinks are resolved and the trailing bin/java is stripped.
func (l *Locator) JavaHome(ctx context.Context) (string, error) {
	var tried []candidate

	if o := l.Overrides.JavaHome; o != "" {
		if isDir(o) {
			return l.foundJava(o, "override")
		}
		tried = append(tried, candidate{source: "override", path: o, note: "missing"})
		return "", notFound(ErrJavaNotFound, "configured java_home does not exist", tried)
	}

	if v := l.Getenv(JavaHomeEnv); v != "" {
		if isDir(v) {
			return l.foundJava(v, JavaHomeEnv)
		}
		tried = append(tried, candidate{source: JavaHomeEnv, path: v, note: "missing"})
	} else {
		tried = append(tried, candidate{source: JavaHomeEnv, note: "unset"})
	}

	if l.GOOS == "darwin" && l.MacJavaHome != nil {
		p, err := l.MacJavaHome(ctx)
		switch {
		case err != nil:
			tried = append(tried, candidate{source: "java_home", note: err.Error()})
		case isDir(p):
			return l.foundJava(p, "java_home")
		default:
			tried = append(tried, candidate{source: "java_home", path: p, note: "missing"})
		}
	} else if l.LookPath != nil {
		exe := "java" + l.ExeSuffix()
		p, err := l.LookPath(exe)
		if err != nil {
			tried = append(tried, candidate{source: "PATH", note: exe + " not on PATH"})
		} else {
			if resolved, rerr := filepath.EvalSymlinks(p); rerr == nil {
				p = resolved
			}
			home := filepath.Dir(filepath.Dir(p))
			if isDir(home) {
				return l.foundJava(home, "PATH")
			}
			tried = append(tried, candidate{source: "PATH", path: home, note: "missing"})
		}
	}

	return "", notFound(ErrJavaNotFound, "java home not found; set JAVA_HOME to a JDK", tried)
}

func (l *Locator) foundJava(p, source string) (string, error) {
	slog.Debug("Resolved Java home", logfields.JavaHome(p), logfields.Source(source))
	return p, nil
}

// Java returns <java home>/bin/java.
func (l *Locator) Java(ctx context.Context) (string, error) {
	return l.jdkTool(ctx, "java")
}

// Javac returns <java home>/bin/javac. A java home without javac is a JRE.
func (l *Locator) Javac(ctx context.Context) (string, error) {
	return l.jdkTool(ctx, "javac")
}

func (l *Locator) jdkTool(ctx context.Context, name string) (string, error) {
	home, err := l.JavaHome(ctx)
	if err != nil {
		return "", err
	}
	return l.ToolIn(home, name)
}

// ToolIn returns <javaHome>/bin/<name> with the host executable suffix.
func (l *Locator) ToolIn(javaHome, name string) (string, error) {
	p := filepath.Join(javaHome, "bin", name+l.ExeSuffix())
	if pathExists(p) {
		return p, nil
	}
	return "", dberrors.ToolchainError(name+" not found in java home; a JDK is required").
		WithCause(ErrToolNotFound).
		WithContext("path", p).
		WithContext(logfields.KeyJavaHome, javaHome).
		Build()
}

// JavaSourceVersion is the default javac --source from JAVA_SOURCE_VERSION.
func (l *Locator) JavaSourceVersion() string {
	return l.Getenv(JavaSourceVersionEnv)
}

// JavaTargetVersion is the default javac --target from JAVA_TARGET_VERSION.
func (l *Locator) JavaTargetVersion() string {
	return l.Getenv(JavaTargetVersionEnv)
}
