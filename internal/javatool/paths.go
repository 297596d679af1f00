package javatool

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// appendUnique appends each non-empty value not already in list.
func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if v == "" || contains(list, v) {
			continue
		}
		list = append(list, v)
	}
	return list
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// joinPathList renders a path list as one flag value using the host separator.
func joinPathList(paths []string) string {
	return strings.Join(paths, string(os.PathListSeparator))
}

// collectFiles returns every regular file under root with the given
// extension, in lexical walk order.
func collectFiles(root, ext string) ([]string, error) {
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, dberrors.FileSystemError(root+" is not a directory").
			WithCause(ErrNotADirectory).
			WithContext("path", root).
			Build()
	}
	var out []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ext) {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, dberrors.FileSystemError("failed to scan " + root).WithCause(err).Build()
	}
	return out, nil
}

func locatorOrDefault(l *envpaths.Locator) *envpaths.Locator {
	if l == nil {
		return envpaths.NewLocator()
	}
	return l
}

// jdkTool resolves bin/<name> under javaHome, discovering the JDK when
// javaHome is empty.
func jdkTool(ctx context.Context, l *envpaths.Locator, javaHome, name string) (string, error) {
	if javaHome == "" {
		home, err := l.JavaHome(ctx)
		if err != nil {
			return "", err
		}
		javaHome = home
	}
	return l.ToolIn(javaHome, name)
}

func runnerOrDefault(r Runner) Runner {
	if r == nil {
		return NewExecRunner()
	}
	return r
}
