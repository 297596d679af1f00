package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, []string{"src"}, cfg.Java.Sources)
	require.True(t, cfg.Dex.IsEnabled())
	require.Equal(t, "build/dex", cfg.Dex.OutDir)
	require.Equal(t, LogLevelInfo, cfg.Log.Level)
	require.Equal(t, LogFormatText, cfg.Log.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DROIDBUILD_TEST_SDK", "/opt/android-sdk")
	p := writeFile(t, dir, "droidbuild.yaml", `
toolchain:
  android_home: ${DROIDBUILD_TEST_SDK}
  platform: "33"
  sdk_extension: ext4
java:
  sources: [app/src, lib/src]
  release: "17"
  annotation_params:
    room.schemaLocation: schemas
dex:
  enabled: false
  min_api: 24
log:
  level: DEBUG
  format: json
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "/opt/android-sdk", cfg.Toolchain.AndroidHome)
	require.Equal(t, "33", cfg.Toolchain.Platform)
	require.Equal(t, "ext4", cfg.Toolchain.SDKExtension)
	require.Equal(t, []string{filepath.Join(dir, "app/src"), filepath.Join(dir, "lib/src")}, cfg.Java.Sources)
	require.Equal(t, "schemas", cfg.Java.AnnotationParams["room.schemaLocation"])
	require.False(t, cfg.Dex.IsEnabled())
	require.Equal(t, filepath.Join(dir, "build/dex"), cfg.Dex.OutDir)
	require.Equal(t, 24, cfg.Dex.MinAPI)
	require.Equal(t, LogLevelDebug, cfg.Log.Level)
	require.Equal(t, LogFormatJSON, cfg.Log.Format)
	require.Equal(t, p, cfg.Path())
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "droidbuild.toml", `
[toolchain]
build_tools_version = "34.0.0"

[java]
sources = ["src/main/java"]
class_paths = ["/abs/lib.jar"]

[dex]
out_dir = "out/dex"
no_desugaring = true
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "34.0.0", cfg.Toolchain.BuildToolsVersion)
	require.Equal(t, []string{"/abs/lib.jar"}, cfg.Java.ClassPaths)
	require.Equal(t, filepath.Join(dir, "out/dex"), cfg.Dex.OutDir)
	require.True(t, cfg.Dex.NoDesugaring)
	require.True(t, cfg.Dex.IsEnabled())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "a.yaml", "java:\n  sourcez: [src]\n"))
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))

	_, err = Load(writeFile(t, dir, "b.toml", "[java]\nsourcez = [\"src\"]\n"))
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))
	require.Contains(t, err.Error(), "java.sourcez")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))

	_, err = Load(writeFile(t, dir, "droidbuild.json", "{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, dir, "bad.yaml", "dex:\n  min_api: -1\nlog:\n  level: loud\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "dex.min_api")
	require.Contains(t, err.Error(), "log.level")
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, t.TempDir(), "droidbuild.yaml", ""))
	require.NoError(t, err)
	require.Len(t, cfg.Java.Sources, 1)
}

func TestValidateReleaseConflicts(t *testing.T) {
	cfg := Default()
	cfg.Java.Release = "11"
	cfg.Java.SourceVersion = "8"
	require.ErrorContains(t, cfg.Validate(), "java.release")

	cfg = Default()
	cfg.Java.Release = "-3"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Java.SourceVersion = "1.8"
	cfg.Java.TargetVersion = "1.8"
	require.NoError(t, cfg.Validate())
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	require.Empty(t, Find(dir))
	p := writeFile(t, dir, "droidbuild.toml", "")
	require.Equal(t, p, Find(dir))
	y := writeFile(t, dir, "droidbuild.yaml", "")
	require.Equal(t, y, Find(dir))
}

func TestInitRoundTrip(t *testing.T) {
	for _, name := range []string{"droidbuild.yaml", "droidbuild.toml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			require.NoError(t, Init(p, false))

			cfg, err := Load(p)
			require.NoError(t, err)
			require.Equal(t, "34", cfg.Toolchain.Platform)
			require.Equal(t, 26, cfg.Dex.MinAPI)

			err = Init(p, false)
			require.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))
			require.NoError(t, Init(p, true))
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	local := writeFile(t, dir, ".env.local", "DROIDBUILD_TEST_A=local\n")
	base := writeFile(t, dir, ".env", "DROIDBUILD_TEST_A=base\nDROIDBUILD_TEST_B=base\nDROIDBUILD_TEST_C=file\n")
	t.Setenv("DROIDBUILD_TEST_C", "process")
	t.Cleanup(func() {
		_ = os.Unsetenv("DROIDBUILD_TEST_A")
		_ = os.Unsetenv("DROIDBUILD_TEST_B")
	})

	require.NoError(t, LoadEnvFiles(local, base, filepath.Join(dir, "missing.env")))
	require.Equal(t, "local", os.Getenv("DROIDBUILD_TEST_A"))
	require.Equal(t, "base", os.Getenv("DROIDBUILD_TEST_B"))
	require.Equal(t, "process", os.Getenv("DROIDBUILD_TEST_C"))
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("Warning")
	require.NoError(t, err)
	require.Equal(t, LogLevelWarn, lvl)

	_, err = ParseLogLevel("verbose")
	require.Error(t, err)
}
