package config

import "path/filepath"

// Default values.
const (
	DefaultSourceDir = "src"
	DefaultDexOutDir = "build/dex"
)

// DefaultApplier applies defaults for one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type javaDefaults struct{}

func (javaDefaults) Domain() string { return "java" }

func (javaDefaults) ApplyDefaults(cfg *Config) {
	if len(cfg.Java.Sources) == 0 {
		cfg.Java.Sources = []string{DefaultSourceDir}
	}
}

type dexDefaults struct{}

func (dexDefaults) Domain() string { return "dex" }

func (dexDefaults) ApplyDefaults(cfg *Config) {
	if cfg.Dex.OutDir == "" {
		cfg.Dex.OutDir = DefaultDexOutDir
	}
}

type logDefaults struct{}

func (logDefaults) Domain() string { return "log" }

func (logDefaults) ApplyDefaults(cfg *Config) {
	// Unknown values are left for Validate to report.
	if lvl, err := ParseLogLevel(string(cfg.Log.Level)); err == nil {
		cfg.Log.Level = lvl
	}
	if f, err := ParseLogFormat(string(cfg.Log.Format)); err == nil {
		cfg.Log.Format = f
	}
}

var appliers = []DefaultApplier{javaDefaults{}, dexDefaults{}, logDefaults{}}

// ApplyDefaults fills every unset field that has a default.
func ApplyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

// Default returns a configuration with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// resolvePaths makes relative file locations absolute against base, the
// directory holding the config file.
func (c *Config) resolvePaths(base string) {
	abs := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	absAll := func(ps []string) {
		for i := range ps {
			abs(&ps[i])
		}
	}

	abs(&c.Toolchain.AndroidHome)
	abs(&c.Toolchain.AndroidJar)
	abs(&c.Toolchain.D8Jar)
	abs(&c.Toolchain.JavaHome)

	absAll(c.Java.Sources)
	absAll(c.Java.SourcePaths)
	absAll(c.Java.ClassPaths)
	abs(&c.Java.ClassesDir)

	abs(&c.Dex.OutDir)
	absAll(c.Dex.ClassPaths)
	absAll(c.Dex.ExtraInputs)

	abs(&c.Workspace.Dir)
	abs(&c.Metrics.Textfile)
}
