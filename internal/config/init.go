package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	enabled := true
	return &Config{
		Toolchain: envpaths.Overrides{
			Platform:          "34",
			BuildToolsVersion: "34.0.0",
		},
		Java: JavaConfig{
			Sources:  []string{DefaultSourceDir},
			Release:  "11",
			Encoding: "UTF-8",
			Debug:    true,
		},
		Dex: DexConfig{
			Enabled: &enabled,
			OutDir:  DefaultDexOutDir,
			MinAPI:  26,
		},
		Log: LogConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// Init writes an example configuration to path, as TOML when the path ends
// in .toml and YAML otherwise. An existing file is kept unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return dberrors.ConfigError("configuration file already exists: " + path + " (use --force to overwrite)").Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return dberrors.FileSystemError("failed to stat " + path).WithCause(err).Build()
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.NewEncoder(&buf).Encode(Example()); err != nil {
			return dberrors.InternalError("failed to encode example config").WithCause(err).Build()
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(Example()); err != nil {
			return dberrors.InternalError("failed to encode example config").WithCause(err).Build()
		}
		_ = enc.Close()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return dberrors.FileSystemError("failed to create " + dir).WithCause(err).Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return dberrors.FileSystemError("failed to write " + path).WithCause(err).Build()
	}
	return nil
}
