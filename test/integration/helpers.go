package integration

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fakeLogEnv names the file the fake tools append their command lines to.
const fakeLogEnv = "DROIDBUILD_FAKE_LOG"

// fakeJavacVersionEnv sets what the fake javac reports for -version.
const fakeJavacVersionEnv = "DROIDBUILD_FAKE_JAVAC_VERSION"

// fakeJavac writes one class per source into -d and fails on sources
// containing the BROKEN marker, like a compile error. Version queries
// answer with $DROIDBUILD_FAKE_JAVAC_VERSION and are not logged.
const fakeJavac = `#!/bin/sh
if [ "$1" = "-version" ]; then echo "javac ${DROIDBUILD_FAKE_JAVAC_VERSION:-17.0.2}"; exit 0; fi
printf '%s\n' "javac $*" >> "$DROIDBUILD_FAKE_LOG"
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-d" ]; then out="$a"; fi
  prev="$a"
done
status=0
for a in "$@"; do
  case "$a" in
    *.java)
      if grep -q BROKEN "$a"; then
        echo "$a:6: error: incompatible types" >&2
        status=1
        continue
      fi
      n=$(basename "$a" .java)
      printf 'class' > "$out/$n.class"
      ;;
  esac
done
exit $status
`

// fakeJava stands in for the launcher; run as d8 it writes classes.dex
// into --output.
const fakeJava = `#!/bin/sh
printf '%s\n' "java $*" >> "$DROIDBUILD_FAKE_LOG"
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--output" ]; then out="$a"; fi
  prev="$a"
done
if [ -n "$out" ]; then printf 'dex' > "$out/classes.dex"; fi
exit 0
`

// fixture is a temp root holding a fake SDK, a fake JDK and a project copy.
type fixture struct {
	root    string
	project string
	log     string
}

// newFixture lays out $ROOT/sdk, $ROOT/jdk and $ROOT/project and points the
// environment at them.
func newFixture(t *testing.T, projectSrc string) *fixture {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		root:    root,
		project: filepath.Join(root, "project"),
		log:     filepath.Join(root, "tools.log"),
	}
	writeFile(t, filepath.Join(root, "sdk", "platforms", "android-34", "android.jar"), "", 0o644)
	writeFile(t, filepath.Join(root, "sdk", "build-tools", "34.0.0", "lib", "d8.jar"), "", 0o644)
	writeFile(t, filepath.Join(root, "jdk", "bin", "javac"), fakeJavac, 0o755)
	writeFile(t, filepath.Join(root, "jdk", "bin", "java"), fakeJava, 0o755)
	require.NoError(t, copyDir(projectSrc, f.project))

	t.Setenv("ANDROID_HOME", filepath.Join(root, "sdk"))
	t.Setenv("JAVA_HOME", filepath.Join(root, "jdk"))
	t.Setenv(fakeLogEnv, f.log)
	t.Setenv(fakeJavacVersionEnv, "17.0.2")
	for _, k := range []string{
		"ANDROID_SDK_ROOT", "ANDROID_PLATFORM", "ANDROID_API_LEVEL", "ANDROID_SDK_VERSION",
		"ANDROID_SDK_EXTENSION", "ANDROID_BUILD_TOOLS_VERSION", "ANDROID_JAR", "ANDROID_D8_JAR",
		"JAVA_SOURCE_VERSION", "JAVA_TARGET_VERSION",
	} {
		t.Setenv(k, "")
	}
	return f
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

// copyDir recursively copies a directory tree.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	// #nosec G304 -- test utility copying testdata
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Invocation is one recorded tool command line.
type Invocation struct {
	Tool string   `yaml:"tool"`
	Args []string `yaml:"args"`
}

// BuildRecord is what golden files capture about a build.
type BuildRecord struct {
	Status      string       `yaml:"status"`
	Invocations []Invocation `yaml:"invocations"`
	Outputs     []string     `yaml:"outputs"`
}

// invocations reads the fake tool log with $ROOT in place of the fixture root.
func (f *fixture) invocations(t *testing.T) []Invocation {
	t.Helper()
	// #nosec G304 -- log written by the fake tools
	file, err := os.Open(f.log)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	var out []Invocation
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		fields := strings.Fields(strings.ReplaceAll(sc.Text(), f.root, "$ROOT"))
		if len(fields) == 0 {
			continue
		}
		out = append(out, Invocation{Tool: fields[0], Args: fields[1:]})
	}
	require.NoError(t, sc.Err())
	return out
}

// outputs lists files under project/build, slash-separated and sorted.
func (f *fixture) outputs(t *testing.T) []string {
	t.Helper()
	var out []string
	buildDir := filepath.Join(f.project, "build")
	if _, err := os.Stat(buildDir); os.IsNotExist(err) {
		return nil
	}
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(f.project, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

// verifyGolden compares rec against goldenPath, or rewrites it with -update-golden.
func verifyGolden(t *testing.T, rec BuildRecord, goldenPath string, updateGolden bool) {
	t.Helper()

	if updateGolden {
		data, err := yaml.Marshal(rec)
		require.NoError(t, err, "failed to marshal golden record")
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750))
		require.NoError(t, os.WriteFile(goldenPath, data, 0o600), "failed to write golden file")
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- test utility reading golden file from testdata
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)
	var expected BuildRecord
	require.NoError(t, yaml.Unmarshal(data, &expected), "failed to parse golden file")
	require.Equal(t, expected, rec, "build record mismatch")
}
