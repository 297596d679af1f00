package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
	"git.home.luguber.info/inful/droidbuild/internal/metrics"
)

// Environment variables read by the CLI itself.
const (
	EnvLogLevel  = "DROIDBUILD_LOG_LEVEL"
	EnvLogFormat = "DROIDBUILD_LOG_FORMAT"
)

// Global is shared state bound into every command.
type Global struct {
	Context context.Context
	Logger  *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Registry *prometheus.Registry
	Recorder metrics.Recorder

	// Config is the configuration loaded by the running command, if any.
	Config *config.Config
}

// NewGlobal wires the process streams and a fresh metrics registry.
func NewGlobal(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) *Global {
	reg := prometheus.NewRegistry()
	return &Global{
		Context:  ctx,
		Logger:   slog.Default(),
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
	}
}

// CLI definition & global flags.
type CLI struct {
	Config        string           `short:"c" help:"Configuration file path (default: droidbuild.yaml, droidbuild.yml or droidbuild.toml in the working directory)" env:"DROIDBUILD_CONFIG" type:"path"`
	Verbose       bool             `short:"v" help:"Enable verbose logging"`
	Version       kong.VersionFlag `name:"version" help:"Show version and exit"`
	EnvFile       []string         `name:"env-file" help:"Load KEY=VALUE files before anything else (default: .env.local, .env)" type:"path"`
	MetricsFile   string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile on exit" type:"path"`
	PrintCommands bool             `short:"x" name:"print-commands" help:"Print every tool command line before running it"`

	AndroidHome string `name:"android-home" help:"Android SDK root (overrides ANDROID_HOME)" type:"path"`
	JavaHome    string `name:"java-home" help:"JDK root (overrides JAVA_HOME)" type:"path"`
	Platform    string `name:"platform" help:"Android platform, e.g. 34 or android-34"`
	BuildTools  string `name:"build-tools" help:"Build-tools version, e.g. 34.0.0"`

	Locate LocateCmd `cmd:"" help:"Print the resolved Android SDK and JDK locations"`
	Javac  JavacCmd  `cmd:"" help:"Compile Java sources against android.jar"`
	Dex    DexCmd    `cmd:"" help:"Convert class files and jars to dex with d8"`
	Java   JavaCmd   `cmd:"" help:"Run a main class or jar with the resolved JDK"`
	Build  BuildCmd  `cmd:"" help:"Compile and dex the project described by the configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Rebuild whenever Java sources change"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; load env files and set up logging once.
func (c *CLI) AfterApply(g *Global) error {
	if err := config.LoadEnvFiles(c.EnvFile...); err != nil {
		return err
	}
	c.setupLogging(g, config.LogConfig{})
	return nil
}

// setupLogging picks the level from --verbose, then DROIDBUILD_LOG_LEVEL,
// then the config file. The format comes from DROIDBUILD_LOG_FORMAT or the
// config file.
func (c *CLI) setupLogging(g *Global, fromConfig config.LogConfig) {
	level := fromConfig.Level
	if env := strings.TrimSpace(os.Getenv(EnvLogLevel)); env != "" {
		if l, err := config.ParseLogLevel(env); err == nil {
			level = l
		}
	}
	if c.Verbose {
		level = config.LogLevelDebug
	}
	format := fromConfig.Format
	if env := strings.TrimSpace(os.Getenv(EnvLogFormat)); env != "" {
		if f, err := config.ParseLogFormat(env); err == nil {
			format = f
		}
	}

	opts := &slog.HandlerOptions{Level: level.Slog()}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(g.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(g.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
}

// Overrides collects the toolchain flags.
func (c *CLI) Overrides() envpaths.Overrides {
	return envpaths.Overrides{
		AndroidHome:       c.AndroidHome,
		JavaHome:          c.JavaHome,
		Platform:          c.Platform,
		BuildToolsVersion: c.BuildTools,
	}
}

// LoadConfig loads --config (or the default file) and applies its log settings.
func (c *CLI) LoadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, err
	}
	g.Config = cfg
	c.setupLogging(g, cfg.Log)
	if p := cfg.Path(); p != "" {
		slog.Debug("Loaded configuration", logfields.Path(p))
	}
	return cfg, nil
}

// Locator resolves the toolchain with flags first, then the config file.
func (c *CLI) Locator(cfg *config.Config) *envpaths.Locator {
	o := c.Overrides()
	if cfg != nil {
		o = o.Merge(cfg.Toolchain)
	}
	return envpaths.NewLocator().WithOverrides(o)
}

// Runner returns the process runner for javac and d8.
func (c *CLI) Runner(g *Global) *javatool.ExecRunner {
	r := javatool.NewExecRunner().WithRecorder(g.Recorder)
	r.PrintCommands = c.PrintCommands
	r.CommandLog = g.Stderr
	return r
}

// MetricsPath is --metrics-file, or metrics.textfile from the loaded config.
func (c *CLI) MetricsPath(g *Global) string {
	if c.MetricsFile != "" {
		return c.MetricsFile
	}
	if g.Config != nil {
		return g.Config.Metrics.Textfile
	}
	return ""
}

// FlushMetrics writes the metrics textfile when one is configured.
func (c *CLI) FlushMetrics(g *Global) {
	path := c.MetricsPath(g)
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path, g.Registry); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}
