package envpaths

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Overrides are explicit locations that take precedence over the environment.
// Empty fields are ignored.
type Overrides struct {
	AndroidHome       string `yaml:"android_home,omitempty" toml:"android_home,omitempty" json:"android_home,omitempty"`
	AndroidJar        string `yaml:"android_jar,omitempty" toml:"android_jar,omitempty" json:"android_jar,omitempty"`
	D8Jar             string `yaml:"d8_jar,omitempty" toml:"d8_jar,omitempty" json:"d8_jar,omitempty"`
	BuildToolsVersion string `yaml:"build_tools_version,omitempty" toml:"build_tools_version,omitempty" json:"build_tools_version,omitempty"`
	Platform          string `yaml:"platform,omitempty" toml:"platform,omitempty" json:"platform,omitempty"`
	SDKExtension      string `yaml:"sdk_extension,omitempty" toml:"sdk_extension,omitempty" json:"sdk_extension,omitempty"`
	JavaHome          string `yaml:"java_home,omitempty" toml:"java_home,omitempty" json:"java_home,omitempty"`
}

// Merge returns o with every empty field filled from fallback.
func (o Overrides) Merge(fallback Overrides) Overrides {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Overrides{
		AndroidHome:       pick(o.AndroidHome, fallback.AndroidHome),
		AndroidJar:        pick(o.AndroidJar, fallback.AndroidJar),
		D8Jar:             pick(o.D8Jar, fallback.D8Jar),
		BuildToolsVersion: pick(o.BuildToolsVersion, fallback.BuildToolsVersion),
		Platform:          pick(o.Platform, fallback.Platform),
		SDKExtension:      pick(o.SDKExtension, fallback.SDKExtension),
		JavaHome:          pick(o.JavaHome, fallback.JavaHome),
	}
}

// Locator resolves toolchain paths. The function fields are the host
// boundary; NewLocator wires them to the real process and tests replace them.
type Locator struct {
	Overrides Overrides

	// GOOS selects the default install locations and executable suffix.
	GOOS string
	// LookupEnv reads an environment variable.
	LookupEnv func(key string) (string, bool)
	// HomeDir returns the current user's home directory.
	HomeDir func() (string, error)
	// LookPath searches PATH for an executable.
	LookPath func(file string) (string, error)
	// RegistrySDKPaths returns SDK locations recorded by the Windows SDK installer.
	RegistrySDKPaths func() []string
	// MacJavaHome runs /usr/libexec/java_home.
	MacJavaHome func(ctx context.Context) (string, error)
}

// NewLocator returns a Locator bound to the current process.
func NewLocator() *Locator {
	return &Locator{
		GOOS:             runtime.GOOS,
		LookupEnv:        os.LookupEnv,
		HomeDir:          userHomeDir,
		LookPath:         exec.LookPath,
		RegistrySDKPaths: registrySDKPaths,
		MacJavaHome:      macJavaHome,
	}
}

// WithOverrides returns l after setting its explicit overrides.
func (l *Locator) WithOverrides(o Overrides) *Locator {
	l.Overrides = o
	return l
}

// Getenv returns the trimmed value of key, or "" when unset.
func (l *Locator) Getenv(key string) string {
	if l.LookupEnv == nil {
		return ""
	}
	v, ok := l.LookupEnv(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// ExeSuffix is ".exe" on Windows hosts.
func (l *Locator) ExeSuffix() string {
	if l.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

func (l *Locator) home() string {
	if l.HomeDir == nil {
		return ""
	}
	h, err := l.HomeDir()
	if err != nil {
		return ""
	}
	return h
}

// pathExists reports whether p is non-empty and present on disk.
func pathExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

func isDir(p string) bool {
	if p == "" {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func macJavaHome(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "/usr/libexec/java_home").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
