package envpaths

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

const platformPrefix = "android-"

// Platform identifies an SDK platform directory such as android-34 or
// android-33-ext4. Preview platforms carry a Codename instead of a level.
type Platform struct {
	APILevel  int
	Extension int
	Codename  string
}

// String renders the directory name under <sdk>/platforms.
func (p Platform) String() string {
	if p.Codename != "" {
		return platformPrefix + p.Codename
	}
	if p.Extension > 0 {
		return fmt.Sprintf("%s%d-ext%d", platformPrefix, p.APILevel, p.Extension)
	}
	return fmt.Sprintf("%s%d", platformPrefix, p.APILevel)
}

// IsZero reports whether no platform was specified.
func (p Platform) IsZero() bool {
	return p == Platform{}
}

// Less orders numbered platforms by API level, then extension.
func (p Platform) Less(o Platform) bool {
	if p.APILevel != o.APILevel {
		return p.APILevel < o.APILevel
	}
	return p.Extension < o.Extension
}

// ParsePlatform parses a platform string ("34", "android-34",
// "android-33-ext4") and an optional SDK extension ("-ext4", "ext4", "4").
// The extension argument is ignored when raw already carries one.
func ParsePlatform(raw, extension string) (Platform, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, platformPrefix)
	if s == "" {
		return Platform{}, invalidVersion("platform", raw, fmt.Errorf("empty"))
	}

	level, ext, hasExt := strings.Cut(s, "-ext")
	n, err := strconv.Atoi(level)
	if err != nil {
		if hasExt || !isCodename(s) {
			return Platform{}, invalidVersion("platform", raw, err)
		}
		return Platform{Codename: s}, nil
	}
	if n <= 0 {
		return Platform{}, invalidVersion("platform", raw, fmt.Errorf("API level must be positive"))
	}
	p := Platform{APILevel: n}

	if !hasExt {
		ext = extension
	}
	if ext = normalizeExtension(ext); ext != "" {
		e, err := strconv.Atoi(ext)
		if err != nil || e <= 0 {
			return Platform{}, invalidVersion("SDK extension", ext, err)
		}
		p.Extension = e
	}
	return p, nil
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, "-")
	ext = strings.TrimPrefix(ext, "ext")
	return ext
}

func isCodename(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return s != ""
}

// LatestPlatform scans <sdk>/platforms and returns the numbered platform with
// the highest API level (then extension) that contains android.jar.
// Preview codename directories are skipped.
func LatestPlatform(sdk string) (Platform, string, error) {
	root := filepath.Join(sdk, "platforms")
	entries, err := os.ReadDir(root)
	if err != nil {
		return Platform{}, "", notFound(ErrJarNotFound, "no platforms installed in the Android SDK",
			[]candidate{{source: "platforms", path: root, note: "unreadable"}})
	}

	var best Platform
	var bestDir string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), platformPrefix) {
			continue
		}
		p, err := ParsePlatform(e.Name(), "")
		if err != nil || p.Codename != "" {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if !pathExists(filepath.Join(dir, "android.jar")) {
			continue
		}
		if bestDir == "" || best.Less(p) {
			best, bestDir = p, dir
		}
	}
	if bestDir == "" {
		return Platform{}, "", notFound(ErrJarNotFound, "no platforms with android.jar found in the Android SDK",
			[]candidate{{source: "platforms", path: root, note: "empty"}})
	}
	return best, bestDir, nil
}

// configuredPlatform returns the explicitly requested platform, if any.
func (l *Locator) configuredPlatform(arg string) (Platform, string, error) {
	raw, source := arg, "argument"
	if raw == "" && l.Overrides.Platform != "" {
		raw, source = l.Overrides.Platform, "override"
	}
	if raw == "" {
		for _, key := range platformEnvVars {
			if v := l.Getenv(key); v != "" {
				raw, source = v, key
				break
			}
		}
	}
	if raw == "" {
		return Platform{}, "", nil
	}
	ext := l.Overrides.SDKExtension
	if ext == "" {
		ext = l.Getenv(AndroidSDKExtension)
	}
	p, err := ParsePlatform(raw, ext)
	return p, source, err
}

// AndroidJar returns the platform android.jar and the platform it belongs to.
//
// Precedence: Overrides.AndroidJar, ANDROID_JAR, then
// <sdk>/platforms/<platform>/android.jar where platform is the argument,
// Overrides.Platform, or the first of ANDROID_PLATFORM, ANDROID_API_LEVEL,
// ANDROID_SDK_VERSION (combined with ANDROID_SDK_EXTENSION). With no platform
// configured the highest installed one is used.
func (l *Locator) AndroidJar(platform string) (string, Platform, error) {
	var tried []candidate

	if o := l.Overrides.AndroidJar; o != "" {
		if pathExists(o) {
			return o, platformOfJar(o), nil
		}
		tried = append(tried, candidate{source: "override", path: o, note: "missing"})
		return "", Platform{}, notFound(ErrJarNotFound, "configured android_jar does not exist", tried)
	}

	if v := l.Getenv(AndroidJarEnv); v != "" {
		if pathExists(v) {
			slog.Debug("Using android.jar from environment", logfields.Path(v))
			return v, platformOfJar(v), nil
		}
		tried = append(tried, candidate{source: AndroidJarEnv, path: v, note: "missing"})
	}

	sdk, err := l.AndroidSDK()
	if err != nil {
		return "", Platform{}, withSearched(err, tried)
	}

	want, source, err := l.configuredPlatform(platform)
	if err != nil {
		return "", Platform{}, err
	}
	if !want.IsZero() {
		jar := filepath.Join(sdk, "platforms", want.String(), "android.jar")
		if pathExists(jar) {
			slog.Debug("Resolved android.jar", logfields.Platform(want.String()), logfields.Source(source))
			return jar, want, nil
		}
		tried = append(tried, candidate{source: source, path: jar, note: "missing"})
		return "", Platform{}, notFound(ErrJarNotFound,
			fmt.Sprintf("platform %s is not installed", want), tried)
	}

	p, dir, err := LatestPlatform(sdk)
	if err != nil {
		return "", Platform{}, err
	}
	slog.Debug("Resolved latest platform", logfields.Platform(p.String()))
	return filepath.Join(dir, "android.jar"), p, nil
}

// platformOfJar recovers the platform from .../platforms/android-N/android.jar
// when the jar sits in a standard SDK layout.
func platformOfJar(jar string) Platform {
	p, err := ParsePlatform(filepath.Base(filepath.Dir(jar)), "")
	if err != nil || !strings.HasPrefix(filepath.Base(filepath.Dir(jar)), platformPrefix) {
		return Platform{}
	}
	return p
}
