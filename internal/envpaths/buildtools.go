package envpaths

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// BuildToolsVersion is a build-tools directory version: major.minor.micro
// with an optional -rcN suffix. RC is zero for releases.
type BuildToolsVersion struct {
	Major, Minor, Micro int
	RC                  int
}

// ParseBuildToolsVersion parses "33.0.1" or "34.0.0-rc2".
func ParseBuildToolsVersion(raw string) (BuildToolsVersion, error) {
	s := strings.TrimSpace(raw)
	nums, rc, hasRC := strings.Cut(s, "-rc")
	parts := strings.Split(nums, ".")
	if len(parts) != 3 {
		return BuildToolsVersion{}, invalidVersion("build-tools version", raw,
			errors.New("expected major.minor.micro"))
	}
	var v BuildToolsVersion
	for i, dst := range []*int{&v.Major, &v.Minor, &v.Micro} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return BuildToolsVersion{}, invalidVersion("build-tools version", raw, err)
		}
		*dst = n
	}
	if hasRC {
		n, err := strconv.Atoi(rc)
		if err != nil || n <= 0 {
			return BuildToolsVersion{}, invalidVersion("build-tools version", raw,
				fmt.Errorf("bad release candidate %q", rc))
		}
		v.RC = n
	}
	return v, nil
}

func (v BuildToolsVersion) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	if v.RC > 0 {
		s += fmt.Sprintf("-rc%d", v.RC)
	}
	return s
}

// Compare returns -1, 0 or +1. A release sorts after every release
// candidate of the same numbers.
func (v BuildToolsVersion) Compare(o BuildToolsVersion) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Micro, o.Micro); c != 0 {
		return c
	}
	switch {
	case v.RC == o.RC:
		return 0
	case v.RC == 0:
		return 1
	case o.RC == 0:
		return -1
	}
	return cmp.Compare(v.RC, o.RC)
}

// LatestBuildTools scans <sdk>/build-tools and returns the highest version.
// Directories whose names do not parse are ignored.
func LatestBuildTools(sdk string) (BuildToolsVersion, string, error) {
	root := filepath.Join(sdk, "build-tools")
	entries, err := os.ReadDir(root)
	if err != nil {
		return BuildToolsVersion{}, "", notFound(ErrBuildToolsNotFound, "no build-tools installed in the Android SDK",
			[]candidate{{source: "build-tools", path: root, note: "unreadable"}})
	}

	var best BuildToolsVersion
	var bestDir string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := ParseBuildToolsVersion(e.Name())
		if err != nil {
			continue
		}
		if bestDir == "" || v.Compare(best) > 0 {
			best, bestDir = v, filepath.Join(root, e.Name())
		}
	}
	if bestDir == "" {
		return BuildToolsVersion{}, "", notFound(ErrBuildToolsNotFound, "no build-tools versions found in the Android SDK",
			[]candidate{{source: "build-tools", path: root, note: "empty"}})
	}
	return best, bestDir, nil
}

// BuildTools returns the build-tools directory and its version.
//
// The version is the argument, Overrides.BuildToolsVersion, or
// ANDROID_BUILD_TOOLS_VERSION; otherwise the latest installed one is used.
func (l *Locator) BuildTools(version string) (string, BuildToolsVersion, error) {
	sdk, err := l.AndroidSDK()
	if err != nil {
		return "", BuildToolsVersion{}, err
	}

	raw, source := version, "argument"
	if raw == "" && l.Overrides.BuildToolsVersion != "" {
		raw, source = l.Overrides.BuildToolsVersion, "override"
	}
	if raw == "" {
		raw, source = l.Getenv(AndroidBuildToolsVersion), AndroidBuildToolsVersion
	}

	if raw != "" {
		v, err := ParseBuildToolsVersion(raw)
		if err != nil {
			return "", BuildToolsVersion{}, err
		}
		dir := filepath.Join(sdk, "build-tools", v.String())
		if isDir(dir) {
			slog.Debug("Resolved build-tools", logfields.BuildTools(v.String()), logfields.Source(source))
			return dir, v, nil
		}
		return "", BuildToolsVersion{}, notFound(ErrBuildToolsNotFound,
			fmt.Sprintf("build-tools %s is not installed", v),
			[]candidate{{source: source, path: dir, note: "missing"}})
	}

	v, dir, err := LatestBuildTools(sdk)
	if err != nil {
		return "", BuildToolsVersion{}, err
	}
	slog.Debug("Resolved latest build-tools", logfields.BuildTools(v.String()))
	return dir, v, nil
}

// D8Jar returns the d8.jar to dex with.
//
// Precedence: Overrides.D8Jar, ANDROID_D8_JAR, then <build-tools>/lib/d8.jar.
func (l *Locator) D8Jar(version string) (string, error) {
	var tried []candidate

	if o := l.Overrides.D8Jar; o != "" {
		if pathExists(o) {
			return o, nil
		}
		tried = append(tried, candidate{source: "override", path: o, note: "missing"})
		return "", notFound(ErrJarNotFound, "configured d8_jar does not exist", tried)
	}

	if v := l.Getenv(AndroidD8Jar); v != "" {
		if pathExists(v) {
			return v, nil
		}
		tried = append(tried, candidate{source: AndroidD8Jar, path: v, note: "missing"})
	}

	dir, _, err := l.BuildTools(version)
	if err != nil {
		return "", withSearched(err, tried)
	}
	jar := filepath.Join(dir, "lib", "d8.jar")
	if pathExists(jar) {
		return jar, nil
	}
	tried = append(tried, candidate{source: "build-tools", path: jar, note: "missing"})
	return "", notFound(ErrJarNotFound, "d8.jar not found in build-tools", tried)
}
