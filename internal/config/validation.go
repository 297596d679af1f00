package config

import (
	"strconv"

	"git.home.luguber.info/inful/droidbuild/internal/foundation"
)

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	return configValidators.Validate(c).ToError()
}

var configValidators = foundation.NewValidatorChain[*Config](
	validateJava,
	validateDex,
	validateLog,
)

func validateJava(c *Config) foundation.ValidationResult {
	res := foundation.Ok()
	if len(c.Java.Sources) == 0 {
		res = res.Combine(foundation.Fail("java.sources", "required", "at least one source directory is required", nil))
	}
	for i, s := range c.Java.Sources {
		if s == "" {
			res = res.Combine(foundation.Fail("java.sources["+strconv.Itoa(i)+"]", "required", "must not be empty", s))
		}
	}
	res = res.Combine(positiveVersion("java.release", c.Java.Release))
	res = res.Combine(positiveVersion("java.source_version", c.Java.SourceVersion))
	res = res.Combine(positiveVersion("java.target_version", c.Java.TargetVersion))
	if c.Java.Release != "" && (c.Java.SourceVersion != "" || c.Java.TargetVersion != "") {
		res = res.Combine(foundation.Fail("java.release", "conflict",
			"cannot be combined with source_version or target_version", c.Java.Release))
	}
	return res
}

// positiveVersion accepts "" or a positive integer; "1.8" style legacy
// versions are accepted too.
func positiveVersion(field, v string) foundation.ValidationResult {
	if v == "" {
		return foundation.Ok()
	}
	major := v
	if len(v) > 2 && v[:2] == "1." {
		major = v[2:]
	}
	if n, err := strconv.Atoi(major); err != nil || n < 1 {
		return foundation.Fail(field, "positive", "must be a positive Java version", v)
	}
	return foundation.Ok()
}

func validateDex(c *Config) foundation.ValidationResult {
	res := foundation.Ok()
	if c.Dex.MinAPI < 0 {
		res = res.Combine(foundation.Fail("dex.min_api", "positive", "must be at least 1", c.Dex.MinAPI))
	}
	if c.Dex.IsEnabled() && c.Dex.OutDir == "" {
		res = res.Combine(foundation.Fail("dex.out_dir", "required", "is required when dex is enabled", nil))
	}
	return res
}

func validateLog(c *Config) foundation.ValidationResult {
	res := foundation.Ok()
	if _, err := ParseLogLevel(string(c.Log.Level)); err != nil {
		res = res.Combine(foundation.Fail("log.level", "one_of", err.Error(), c.Log.Level))
	}
	return res.Combine(foundation.OneOf("log.format", []LogFormat{LogFormatText, LogFormatJSON})(c.Log.Format))
}
