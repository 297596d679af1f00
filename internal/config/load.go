package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// DefaultFileNames are probed, in order, when no config path is given.
var DefaultFileNames = []string{"droidbuild.yaml", "droidbuild.yml", "droidbuild.toml"}

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Find returns the first default config file in dir, or "" when there is none.
func Find(dir string) string {
	for _, name := range DefaultFileNames {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
// With no arguments .env.local then .env are tried, so .env.local wins.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env.local", ".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return dberrors.ConfigError("failed to load env file " + p).WithCause(err).Build()
		}
		slog.Debug("Loaded environment file", logfields.Path(p))
	}
	return nil
}

// Load reads, expands, decodes, defaults and validates a config file.
// ${VAR} references are expanded from the environment before decoding.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dberrors.ConfigError("configuration file not found: " + path).WithCause(err).Build()
		}
		return nil, dberrors.ConfigError("failed to read configuration file").
			WithCause(err).WithContext(logfields.KeyPath, path).Build()
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	cfg := &Config{}
	if err := decode(path, expanded, cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	ApplyDefaults(cfg)
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or the default file in the working directory when
// path is empty, or returns Default() when neither exists.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = Find(".")
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return dberrors.ConfigError("failed to parse YAML configuration").
				WithCause(err).WithContext(logfields.KeyPath, path).Build()
		}
	case ".toml":
		meta, err := toml.Decode(string(data), cfg)
		if err != nil {
			return dberrors.ConfigError("failed to parse TOML configuration").
				WithCause(err).WithContext(logfields.KeyPath, path).Build()
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return dberrors.ConfigError("unknown keys in TOML configuration: " + strings.Join(keys, ", ")).
				WithContext(logfields.KeyPath, path).Build()
		}
	default:
		return dberrors.ConfigError(fmt.Sprintf("config file %s must end in .yaml, .yml or .toml", path)).
			WithCause(ErrUnsupportedFormat).Build()
	}
	return nil
}
