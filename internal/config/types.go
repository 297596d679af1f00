package config

import (
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// Config is the droidbuild project file (droidbuild.yaml or droidbuild.toml).
type Config struct {
	Toolchain envpaths.Overrides `yaml:"toolchain" toml:"toolchain"`
	Java      JavaConfig         `yaml:"java" toml:"java"`
	Dex       DexConfig          `yaml:"dex" toml:"dex"`
	Workspace WorkspaceConfig    `yaml:"workspace" toml:"workspace"`
	Log       LogConfig          `yaml:"log" toml:"log"`
	Metrics   MetricsConfig      `yaml:"metrics" toml:"metrics"`

	// path is the file the config was loaded from; relative paths resolve against its directory.
	path string
}

// JavaConfig controls the javac stage.
type JavaConfig struct {
	Sources              []string          `yaml:"sources" toml:"sources"`                                                 // source roots scanned for *.java
	SourcePaths          []string          `yaml:"source_paths,omitempty" toml:"source_paths,omitempty"`                   // -sourcepath
	ClassPaths           []string          `yaml:"class_paths,omitempty" toml:"class_paths,omitempty"`                     // extra -cp entries
	ClassesDir           string            `yaml:"classes_dir,omitempty" toml:"classes_dir,omitempty"`                     // empty: ephemeral workspace
	Release              string            `yaml:"release,omitempty" toml:"release,omitempty"`                             // --release
	SourceVersion        string            `yaml:"source_version,omitempty" toml:"source_version,omitempty"`               // --source
	TargetVersion        string            `yaml:"target_version,omitempty" toml:"target_version,omitempty"`               // --target
	Encoding             string            `yaml:"encoding,omitempty" toml:"encoding,omitempty"`                           // -encoding
	Debug                bool              `yaml:"debug,omitempty" toml:"debug,omitempty"`                                 // -g:lines,vars,source
	Werror               bool              `yaml:"werror,omitempty" toml:"werror,omitempty"`                               // -Werror
	NoWarn               bool              `yaml:"nowarn,omitempty" toml:"nowarn,omitempty"`                               // -nowarn
	AnnotationProcessors []string          `yaml:"annotation_processors,omitempty" toml:"annotation_processors,omitempty"` // -processor
	AnnotationParams     map[string]string `yaml:"annotation_params,omitempty" toml:"annotation_params,omitempty"`         // -Akey=value
}

// DexConfig controls the d8 stage.
type DexConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	OutDir       string   `yaml:"out_dir" toml:"out_dir"`
	MinAPI       int      `yaml:"min_api,omitempty" toml:"min_api,omitempty"`
	Release      bool     `yaml:"release,omitempty" toml:"release,omitempty"`
	NoDesugaring bool     `yaml:"no_desugaring,omitempty" toml:"no_desugaring,omitempty"`
	ClassPaths   []string `yaml:"class_paths,omitempty" toml:"class_paths,omitempty"`
	ExtraInputs  []string `yaml:"extra_inputs,omitempty" toml:"extra_inputs,omitempty"` // jars or classes dexed alongside the compiled output
}

// IsEnabled reports whether the dex stage runs; it defaults to true.
func (d DexConfig) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// WorkspaceConfig selects where intermediate class files go when
// java.classes_dir is unset.
type WorkspaceConfig struct {
	Dir        string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Persistent bool   `yaml:"persistent,omitempty" toml:"persistent,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  LogLevel  `yaml:"level,omitempty" toml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty" toml:"format,omitempty"`
}

// MetricsConfig configures the Prometheus textfile written after each run.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" toml:"textfile,omitempty"`
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string { return c.path }
