package build

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/metrics"
)

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(filepath.Base(p)), 0o755))
	return p
}

// fakeToolchain lays out a minimal SDK and JDK and returns overrides for them.
func fakeToolchain(t *testing.T) envpaths.Overrides {
	t.Helper()
	sdk := t.TempDir()
	touch(t, sdk, "platforms", "android-34", "android.jar")
	touch(t, sdk, "build-tools", "34.0.0", "lib", "d8.jar")
	jdk := t.TempDir()
	touch(t, jdk, "bin", "java")
	touch(t, jdk, "bin", "javac")
	return envpaths.Overrides{AndroidHome: sdk, JavaHome: jdk}
}

func isolatedLocator(o envpaths.Overrides) *envpaths.Locator {
	return &envpaths.Locator{
		Overrides: o,
		GOOS:      "linux",
		LookupEnv: func(string) (string, bool) { return "", false },
		HomeDir:   func() (string, error) { return "", errors.New("no home") },
		LookPath:  func(string) (string, error) { return "", errors.New("not found") },
	}
}

// fakeRunner pretends to be javac and d8: javac writes one class per
// source into -d, d8 writes classes.dex into --output.
type fakeRunner struct {
	calls   []string
	failOn  string
	failErr error
}

func argAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func (f *fakeRunner) Run(_ context.Context, cmd *exec.Cmd) error {
	tool := javatool.ToolName(cmd)
	f.calls = append(f.calls, tool)
	if tool == f.failOn {
		return f.failErr
	}
	switch tool {
	case "javac":
		out := argAfter(cmd.Args, "-d")
		for _, a := range cmd.Args {
			if strings.HasSuffix(a, ".java") {
				name := strings.TrimSuffix(filepath.Base(a), ".java") + ".class"
				if err := os.WriteFile(filepath.Join(out, name), []byte("cafebabe"), 0o644); err != nil {
					return err
				}
			}
		}
	case "d8":
		out := argAfter(cmd.Args, "--output")
		return os.WriteFile(filepath.Join(out, "classes.dex"), []byte("dex"), 0o644)
	}
	return nil
}

type outcomeRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.BuildOutcomeLabel
}

func (r *outcomeRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.outcomes = append(r.outcomes, o)
}

func newProject(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	touch(t, root, "src", "com", "example", "Main.java")
	touch(t, root, "src", "com", "example", "Util.java")

	cfg := config.Default()
	cfg.Java.Sources = []string{filepath.Join(root, "src")}
	cfg.Dex.OutDir = filepath.Join(root, "build", "dex")
	cfg.Workspace.Dir = filepath.Join(root, "build", "tmp")
	return cfg
}

func newTestService(r javatool.Runner, rec metrics.Recorder) *DefaultBuildService {
	return NewBuildService().
		WithLocatorFactory(isolatedLocator).
		WithRunner(r).
		WithRecorder(rec).
		WithIDGenerator(func() string { return "test-build" })
}

func TestRunCompilesAndDexes(t *testing.T) {
	cfg := newProject(t)
	runner := &fakeRunner{}
	rec := &outcomeRecorder{}

	res, err := newTestService(runner, rec).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, res.Status)
	require.Equal(t, "test-build", res.BuildID)
	require.Equal(t, []string{"javac", "d8"}, runner.calls)
	require.Equal(t, 2, res.SourceFiles)
	require.Equal(t, 2, res.ClassFiles)
	require.Equal(t, []string{filepath.Join(cfg.Dex.OutDir, "classes.dex")}, res.DexFiles)
	require.Contains(t, res.Stages, StageResolve)
	require.Contains(t, res.Stages, StageCompile)
	require.Contains(t, res.Stages, StageDex)
	require.Equal(t, "android-34", res.Toolchain.Platform)
	require.Empty(t, res.ClassesDir, "ephemeral workspace is reported as gone")
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)

	entries, err := os.ReadDir(cfg.Workspace.Dir)
	require.NoError(t, err)
	require.Empty(t, entries, "ephemeral workspace removed")
}

func TestRunNoDexStopsAfterCompile(t *testing.T) {
	cfg := newProject(t)
	runner := &fakeRunner{}

	res, err := newTestService(runner, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
		Options:   BuildOptions{NoDex: true},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"javac"}, runner.calls)
	require.NotContains(t, res.Stages, StageDex)
	require.Empty(t, res.DexFiles)
}

func TestRunPersistentClassesDir(t *testing.T) {
	cfg := newProject(t)
	classes := filepath.Join(t.TempDir(), "classes")
	stale := touch(t, classes, "Old.class")
	cfg.Java.ClassesDir = classes
	disabled := false
	cfg.Dex.Enabled = &disabled

	res, err := newTestService(&fakeRunner{}, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.NoError(t, err)
	require.Equal(t, classes, res.ClassesDir)
	require.NoFileExists(t, stale)
	require.FileExists(t, filepath.Join(classes, "Main.class"))
}

func TestRunSkipIfUnchanged(t *testing.T) {
	cfg := newProject(t)
	tc := fakeToolchain(t)
	runner := &fakeRunner{}
	svc := newTestService(runner, nil)
	req := BuildRequest{Config: cfg, Overrides: tc, Options: BuildOptions{SkipIfUnchanged: true}}

	first, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, first.Status)

	second, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, BuildStatusSkipped, second.Status)
	require.True(t, second.Skipped)
	require.Equal(t, first.DexFiles, second.DexFiles)
	require.Equal(t, []string{"javac", "d8"}, runner.calls)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Java.Sources[0], "com", "example", "Main.java"), []byte("changed"), 0o644))
	third, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, third.Status)
	require.Len(t, runner.calls, 4)
}

func TestRunSkipNeedsDexOutput(t *testing.T) {
	cfg := newProject(t)
	req := BuildRequest{Config: cfg, Overrides: fakeToolchain(t), Options: BuildOptions{SkipIfUnchanged: true}}
	runner := &fakeRunner{}
	svc := newTestService(runner, nil)

	_, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(cfg.Dex.OutDir, "classes.dex")))

	res, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, res.Status)
	require.Len(t, runner.calls, 4)
}

func TestRunNilConfig(t *testing.T) {
	rec := &outcomeRecorder{}
	res, err := newTestService(&fakeRunner{}, rec).Run(context.Background(), BuildRequest{})
	require.Error(t, err)
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeFailed}, rec.outcomes)
}

func TestRunNoSources(t *testing.T) {
	cfg := config.Default()
	cfg.Java.Sources = []string{t.TempDir()}
	cfg.Dex.OutDir = filepath.Join(t.TempDir(), "dex")

	runner := &fakeRunner{}
	res, err := newTestService(runner, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.ErrorIs(t, err, ErrNoSources)
	require.True(t, dberrors.HasCategory(err, dberrors.CategoryValidation))
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Empty(t, runner.calls)
}

func TestRunMissingToolchain(t *testing.T) {
	cfg := newProject(t)
	o := fakeToolchain(t)
	o.JavaHome = ""

	res, err := newTestService(&fakeRunner{}, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: o,
	})
	require.Error(t, err)
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Contains(t, res.Stages, StageResolve)
	require.NotEmpty(t, res.Toolchain.AndroidJar)
}

func TestRunJarOverridesWithoutSDK(t *testing.T) {
	cfg := newProject(t)
	jars := t.TempDir()
	jdk := t.TempDir()
	touch(t, jdk, "bin", "java")
	touch(t, jdk, "bin", "javac")
	o := envpaths.Overrides{
		AndroidJar: touch(t, jars, "android.jar"),
		D8Jar:      touch(t, jars, "d8.jar"),
		JavaHome:   jdk,
	}
	runner := &fakeRunner{}

	res, err := newTestService(runner, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: o,
	})
	require.NoError(t, err)
	require.Equal(t, BuildStatusSuccess, res.Status)
	require.Empty(t, res.Toolchain.SDKRoot)
	require.Equal(t, o.AndroidJar, res.Toolchain.AndroidJar)
	require.Equal(t, o.D8Jar, res.Toolchain.D8Jar)
	require.Equal(t, []string{"javac", "d8"}, runner.calls)
}

func TestRunCompileFailure(t *testing.T) {
	cfg := newProject(t)
	boom := dberrors.ToolError("javac failed").WithCause(&javatool.ExitError{Tool: "javac", Code: 1}).Build()
	runner := &fakeRunner{failOn: "javac", failErr: boom}

	res, err := newTestService(runner, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.ErrorIs(t, err, javatool.ErrToolFailed)
	require.Equal(t, BuildStatusFailed, res.Status)
	require.Equal(t, []string{"javac"}, runner.calls)
	require.NoDirExists(t, cfg.Dex.OutDir)
}

func TestRunCancelled(t *testing.T) {
	cfg := newProject(t)
	runner := &fakeRunner{failOn: "d8", failErr: context.Canceled}
	rec := &outcomeRecorder{}

	res, err := newTestService(runner, rec).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, BuildStatusCancelled, res.Status)
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeCanceled}, rec.outcomes)
}

func TestRunRemovesStaleDex(t *testing.T) {
	cfg := newProject(t)
	stale := touch(t, cfg.Dex.OutDir, "classes2.dex")

	res, err := newTestService(&fakeRunner{}, nil).Run(context.Background(), BuildRequest{
		Config:    cfg,
		Overrides: fakeToolchain(t),
	})
	require.NoError(t, err)
	require.NoFileExists(t, stale)
	require.Len(t, res.DexFiles, 1)
}

func TestBuildStatus(t *testing.T) {
	require.True(t, BuildStatusSkipped.IsSuccess())
	require.False(t, BuildStatusCancelled.IsSuccess())
	require.True(t, BuildStatusCancelled.IsTerminal())
	require.False(t, BuildStatus("running").IsTerminal())
}
