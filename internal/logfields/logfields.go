package logfields

import (
	"log/slog"
	"strings"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyTool       = "tool"
	KeyPath       = "path"
	KeySDKRoot    = "sdk_root"
	KeyJavaHome   = "java_home"
	KeyPlatform   = "platform"
	KeyBuildTools = "build_tools"
	KeyJavacVer   = "javac_version"
	KeySource     = "source"
	KeyArgs       = "args"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func SDKRoot(p string) slog.Attr      { return slog.String(KeySDKRoot, p) }
func JavaHome(p string) slog.Attr     { return slog.String(KeyJavaHome, p) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func BuildTools(p string) slog.Attr   { return slog.String(KeyBuildTools, p) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func JavacVersion(v int) slog.Attr    { return slog.Int(KeyJavacVer, v) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Args(args []string) slog.Attr    { return slog.String(KeyArgs, strings.Join(args, " ")) }
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
