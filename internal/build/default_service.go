package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/droidbuild/internal/build/validation"
	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
	"git.home.luguber.info/inful/droidbuild/internal/metrics"
	"git.home.luguber.info/inful/droidbuild/internal/observability"
	"git.home.luguber.info/inful/droidbuild/internal/version"
	"git.home.luguber.info/inful/droidbuild/internal/workspace"
)

// LocatorFactory builds the toolchain locator for one build.
type LocatorFactory func(o envpaths.Overrides) *envpaths.Locator

// WorkspaceFactory picks the workspace for compiled classes.
type WorkspaceFactory func(cfg *config.Config) *workspace.Manager

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	locatorFactory   LocatorFactory
	workspaceFactory WorkspaceFactory
	runner           javatool.Runner
	recorder         metrics.Recorder
	newID            func() string
}

// NewBuildService creates a DefaultBuildService bound to the host toolchain.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		locatorFactory: func(o envpaths.Overrides) *envpaths.Locator {
			return envpaths.NewLocator().WithOverrides(o)
		},
		workspaceFactory: DefaultWorkspace,
		runner:           javatool.NewExecRunner(),
		recorder:         metrics.NoopRecorder{},
		newID:            uuid.NewString,
	}
}

// DefaultWorkspace uses java.classes_dir when set, a persistent
// workspace.dir/classes when requested, and an ephemeral directory otherwise.
func DefaultWorkspace(cfg *config.Config) *workspace.Manager {
	if dir := cfg.Java.ClassesDir; dir != "" {
		return workspace.NewPersistentManager(filepath.Dir(dir), filepath.Base(dir))
	}
	if cfg.Workspace.Persistent {
		return workspace.NewPersistentManager(cfg.Workspace.Dir, workspace.DefaultPersistentSubdir)
	}
	return workspace.NewManager(cfg.Workspace.Dir)
}

// WithLocatorFactory allows injecting toolchain discovery (for testing).
func (s *DefaultBuildService) WithLocatorFactory(f LocatorFactory) *DefaultBuildService {
	s.locatorFactory = f
	return s
}

// WithWorkspaceFactory allows injecting a custom workspace factory (for testing).
func (s *DefaultBuildService) WithWorkspaceFactory(f WorkspaceFactory) *DefaultBuildService {
	s.workspaceFactory = f
	return s
}

// WithRunner sets the runner that executes javac and d8.
func (s *DefaultBuildService) WithRunner(r javatool.Runner) *DefaultBuildService {
	if r != nil {
		s.runner = r
	}
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithIDGenerator overrides build id generation (for testing).
func (s *DefaultBuildService) WithIDGenerator(f func() string) *DefaultBuildService {
	if f != nil {
		s.newID = f
	}
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		BuildID:   s.newID(),
		StartTime: startTime,
		Stages:    make(map[Stage]time.Duration),
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	finish := func(status BuildStatus, err error) (*BuildResult, error) {
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			status = BuildStatusCancelled
		}
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		s.recorder.ObserveBuildDuration(result.Duration)
		switch status {
		case BuildStatusSuccess, BuildStatusSkipped:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		case BuildStatusCancelled:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
			observability.WarnContext(ctx, "Build cancelled")
		default:
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		return result, err
	}

	cfg := req.Config
	if cfg == nil {
		return finish(BuildStatusFailed, dberrors.ConfigError("config required").Build())
	}
	dexEnabled := cfg.Dex.IsEnabled() && !req.Options.NoDex

	// Stage 1: resolve the toolchain
	stageStart := time.Now()
	ctx = observability.WithStage(ctx, string(StageResolve))
	locator := s.locatorFactory(req.Overrides.Merge(cfg.Toolchain))
	tc, err := resolveToolchain(ctx, locator, dexEnabled)
	result.Toolchain = tc
	s.observeStage(result, StageResolve, stageStart)
	if err != nil {
		return finish(BuildStatusFailed, err)
	}
	observability.InfoContext(ctx, "Resolved toolchain",
		logfields.SDKRoot(tc.SDKRoot),
		logfields.Platform(tc.Platform),
		logfields.JavaHome(tc.JavaHome))

	compile := javatool.NewJavaBuild().WithLocator(locator).WithRunner(s.runner)
	for _, dir := range cfg.Java.Sources {
		if err := compile.CollectSources(dir); err != nil {
			return finish(BuildStatusFailed, err)
		}
	}
	result.SourceFiles = len(compile.Files)
	if result.SourceFiles == 0 {
		return finish(BuildStatusFailed, dberrors.ValidationError("no Java sources found").
			WithCause(ErrNoSources).
			WithContext("sources", cfg.Java.Sources).
			Build())
	}

	// Stage 0: skip evaluation (optional)
	stateDir := stateDirFor(cfg, dexEnabled)
	var fp string
	if stateDir != "" {
		fp, err = fingerprint(fingerprintInputs{
			Toolchain:    tc,
			JavacVersion: javacVersion(ctx, tc.Javac),
			Java:         cfg.Java,
			Dex:          cfg.Dex,
			NoDex:        !dexEnabled,
			Env: map[string]string{
				envpaths.JavaSourceVersionEnv: locator.JavaSourceVersion(),
				envpaths.JavaTargetVersionEnv: locator.JavaTargetVersion(),
			},
		}, compile.Files, cfg.Java.ClassPaths, cfg.Dex.ClassPaths, cfg.Dex.ExtraInputs)
		if err != nil {
			observability.WarnContext(ctx, "Failed to fingerprint inputs", logfields.Error(err))
			fp = ""
		}
	}
	if req.Options.SkipIfUnchanged && fp != "" {
		if prev, ok := validation.NewSkipEvaluator(stateDir).Evaluate(fp, dexEnabled); ok {
			observability.InfoContext(ctx, "Build skipped - no changes detected")
			result.Skipped = true
			result.SkipReason = "no_changes"
			result.ClassFiles = prev.ClassFiles
			if dexEnabled {
				result.DexOutDir = stateDir
				result.DexFiles = absolute(stateDir, prev.DexFiles)
			}
			return finish(BuildStatusSkipped, nil)
		}
	}

	// Stage 2: compile
	stageStart = time.Now()
	ctx = observability.WithStage(ctx, string(StageCompile))
	ws := s.workspaceFactory(cfg)
	if err := ws.Create(result.BuildID); err != nil {
		return finish(BuildStatusFailed, err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			observability.WarnContext(ctx, "Failed to clean up workspace", logfields.Error(err))
		}
		if !ws.Persistent() {
			result.ClassesDir = ""
		}
	}()
	if ws.Persistent() {
		if err := ws.Reset(); err != nil {
			return finish(BuildStatusFailed, err)
		}
	}
	result.ClassesDir = ws.Path()

	configureCompile(compile, cfg, tc, ws.Path())
	observability.InfoContext(ctx, "Compiling Java sources", logfields.Count(result.SourceFiles))
	err = compile.Compile(ctx)
	s.observeStage(result, StageCompile, stageStart)
	if err != nil {
		return finish(BuildStatusFailed, err)
	}

	dexer := javatool.NewDexer().WithLocator(locator).WithRunner(s.runner)
	if err := dexer.CollectClasses(ws.Path()); err != nil {
		return finish(BuildStatusFailed, err)
	}
	result.ClassFiles = len(dexer.Files)

	// Stage 3: dex
	if dexEnabled && result.ClassFiles > 0 {
		stageStart = time.Now()
		ctx = observability.WithStage(ctx, string(StageDex))
		dexFiles, err := s.dex(ctx, dexer, cfg, tc)
		s.observeStage(result, StageDex, stageStart)
		if err != nil {
			return finish(BuildStatusFailed, err)
		}
		result.DexOutDir = cfg.Dex.OutDir
		result.DexFiles = dexFiles
	} else if dexEnabled {
		observability.WarnContext(ctx, "No classes produced; skipping dex")
	}

	if fp != "" {
		st := &validation.BuildState{
			BuildID:     result.BuildID,
			ToolVersion: version.Version,
			Fingerprint: fp,
			SourceFiles: result.SourceFiles,
			ClassFiles:  result.ClassFiles,
			DexFiles:    relative(stateDir, result.DexFiles),
			FinishedAt:  time.Now().UTC(),
		}
		if err := st.Save(stateDir); err != nil {
			observability.WarnContext(ctx, "Failed to record build state", logfields.Error(err))
		}
	}

	observability.InfoContext(ctx, "Build finished",
		logfields.Count(result.ClassFiles),
		slog.Int("dex_files", len(result.DexFiles)))
	return finish(BuildStatusSuccess, nil)
}

func (s *DefaultBuildService) observeStage(result *BuildResult, stage Stage, start time.Time) {
	d := time.Since(start)
	result.Stages[stage] = d
	s.recorder.ObserveStageDuration(string(stage), d)
}

// resolveToolchain requires javac and android.jar, plus d8.jar when dexing.
// Other discovery failures are logged and ignored.
func resolveToolchain(ctx context.Context, l *envpaths.Locator, dexEnabled bool) (envpaths.Toolchain, error) {
	tc, err := l.Resolve(ctx)
	if err == nil {
		return tc, nil
	}
	missing := tc.Javac == "" || tc.AndroidJar == "" || (dexEnabled && tc.D8Jar == "")
	if missing {
		return tc, err
	}
	observability.DebugContext(ctx, "Ignoring unused toolchain component", logfields.Error(err))
	return tc, nil
}

// javacVersion probes the compiler so a JDK upgrade in place changes the
// fingerprint. Zero when the probe fails.
func javacVersion(ctx context.Context, javac string) int {
	v, err := javatool.DetectJavacVersion(ctx, javac)
	if err != nil {
		observability.DebugContext(ctx, "Could not detect javac version", logfields.Error(err))
		return 0
	}
	observability.DebugContext(ctx, "Detected javac version", logfields.JavacVersion(v))
	return v
}

func configureCompile(b *javatool.JavaBuild, cfg *config.Config, tc envpaths.Toolchain, classesDir string) {
	j := cfg.Java
	b.WithJavaHome(tc.JavaHome).
		WithClassPath(tc.AndroidJar).
		WithClassPath(j.ClassPaths...).
		WithSourcePath(j.SourcePaths...).
		WithClassesOutDir(classesDir).
		WithRelease(j.Release).
		WithSourceVersion(j.SourceVersion).
		WithTargetVersion(j.TargetVersion).
		WithEncoding(j.Encoding).
		WithAnnotationProcessor(j.AnnotationProcessors...)
	if j.Debug {
		b.WithDebugInfo(*javatool.FullDebugInfo())
	}
	b.WarningsAsErrors = j.Werror
	b.NoWarn = j.NoWarn

	keys := make([]string, 0, len(j.AnnotationParams))
	for k := range j.AnnotationParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WithAnnotationParameter(k, j.AnnotationParams[k])
	}
}

func (s *DefaultBuildService) dex(ctx context.Context, d *javatool.Dexer, cfg *config.Config, tc envpaths.Toolchain) ([]string, error) {
	out := cfg.Dex.OutDir
	if err := os.MkdirAll(out, 0o750); err != nil {
		return nil, dberrors.FileSystemError("failed to create dex output directory").
			WithCause(err).WithContext(logfields.KeyPath, out).Build()
	}
	if err := removeDexFiles(out); err != nil {
		return nil, err
	}

	d.WithJavaHome(tc.JavaHome).
		WithD8Jar(tc.D8Jar).
		WithAndroidJar(tc.AndroidJar).
		WithRelease(cfg.Dex.Release).
		WithMinAPI(cfg.Dex.MinAPI).
		WithNoDesugaring(cfg.Dex.NoDesugaring).
		WithClassPath(cfg.Java.ClassPaths...).
		WithClassPath(cfg.Dex.ClassPaths...).
		WithFile(cfg.Dex.ExtraInputs...).
		WithOutDir(out)

	observability.InfoContext(ctx, "Dexing classes", logfields.Count(len(d.Files)), logfields.Path(out))
	if err := d.Run(ctx); err != nil {
		return nil, err
	}
	return listDexFiles(out)
}

// removeDexFiles clears stale classesN.dex from a previous run.
func removeDexFiles(dir string) error {
	files, err := listDexFiles(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return dberrors.FileSystemError("failed to remove stale dex file").
				WithCause(err).WithContext(logfields.KeyPath, f).Build()
		}
	}
	return nil
}

func listDexFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.dex"))
	if err != nil {
		return nil, dberrors.InternalError("bad dex glob").WithCause(err).Build()
	}
	sort.Strings(matches)
	return matches, nil
}

// stateDirFor returns where the skip state lives: the dex output when
// dexing, or an explicit/persistent classes directory otherwise.
func stateDirFor(cfg *config.Config, dexEnabled bool) string {
	switch {
	case dexEnabled:
		return cfg.Dex.OutDir
	case cfg.Java.ClassesDir != "":
		return cfg.Java.ClassesDir
	default:
		return ""
	}
}

func relative(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if rel, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
		out = append(out, p)
	}
	return out
}

func absolute(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, p)
	}
	return out
}
