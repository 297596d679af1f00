package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// BuildService is the canonical interface for executing builds.
type BuildService interface {
	// Run executes resolve → compile → dex and reports the outcome.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded project configuration.
	Config *config.Config

	// Overrides take precedence over Config.Toolchain (command line flags).
	Overrides envpaths.Overrides

	Options BuildOptions
}

// BuildOptions provides optional configuration for build behavior.
type BuildOptions struct {
	// SkipIfUnchanged skips compile and dex when sources, configuration and
	// toolchain match the last successful build.
	SkipIfUnchanged bool

	// NoDex stops after compilation regardless of dex.enabled.
	NoDex bool
}

// Stage names a pipeline step.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageCompile Stage = "compile"
	StageDex     Stage = "dex"
)

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	BuildID string      `json:"build_id"`
	Status  BuildStatus `json:"status"`

	Toolchain envpaths.Toolchain `json:"toolchain"`

	// ClassesDir holds the compiled classes; empty once an ephemeral workspace is cleaned up.
	ClassesDir string `json:"classes_dir,omitempty"`
	// DexOutDir is where d8 wrote its output.
	DexOutDir string   `json:"dex_out_dir,omitempty"`
	DexFiles  []string `json:"dex_files,omitempty"`

	SourceFiles int `json:"source_files"`
	ClassFiles  int `json:"class_files"`

	Stages    map[Stage]time.Duration `json:"stages"`
	Duration  time.Duration           `json:"duration"`
	StartTime time.Time               `json:"start_time"`
	EndTime   time.Time               `json:"end_time"`

	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusSkipped   BuildStatus = "skipped"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed ||
		s == BuildStatusSkipped || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusSkipped
}
