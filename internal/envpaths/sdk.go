package envpaths

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// AndroidSDK returns the Android SDK root.
//
// Precedence: Overrides.AndroidHome, ANDROID_HOME, ANDROID_SDK_ROOT, then the
// default install location for l.GOOS:
//   - macOS: ~/Library/Android/sdk
//   - Linux: ~/Android/Sdk
//   - Windows: %LOCALAPPDATA%\Android\Sdk, <profile>\AppData\Local\Android\Sdk,
//     then the SDK installer's registry entry
func (l *Locator) AndroidSDK() (string, error) {
	p, _, err := l.androidSDK()
	return p, err
}

func (l *Locator) androidSDK() (string, string, error) {
	var tried []candidate

	if o := l.Overrides.AndroidHome; o != "" {
		if isDir(o) {
			return l.foundSDK(o, "override")
		}
		tried = append(tried, candidate{source: "override", path: o, note: "missing"})
		return "", "", notFound(ErrSDKNotFound, "configured android_home does not exist", tried)
	}

	for _, key := range []string{AndroidHome, AndroidSDKRoot} {
		v := l.Getenv(key)
		if v == "" {
			tried = append(tried, candidate{source: key, note: "unset"})
			continue
		}
		if isDir(v) {
			return l.foundSDK(v, key)
		}
		tried = append(tried, candidate{source: key, path: v, note: "missing"})
	}

	for _, c := range l.defaultSDKCandidates() {
		if isDir(c.path) {
			return l.foundSDK(c.path, c.source)
		}
		c.note = "missing"
		tried = append(tried, c)
	}

	return "", "", notFound(ErrSDKNotFound,
		"android SDK not found; set ANDROID_HOME to the SDK root", tried)
}

func (l *Locator) foundSDK(p, source string) (string, string, error) {
	slog.Debug("Resolved Android SDK", logfields.SDKRoot(p), logfields.Source(source))
	return p, source, nil
}

// defaultSDKCandidates lists the per-OS install locations in lookup order.
func (l *Locator) defaultSDKCandidates() []candidate {
	home := l.home()
	var out []candidate
	switch l.GOOS {
	case "darwin", "ios":
		if home != "" {
			out = append(out, candidate{source: "default", path: filepath.Join(home, "Library", "Android", "sdk")})
		}
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "illumos", "solaris":
		if home != "" {
			out = append(out, candidate{source: "default", path: filepath.Join(home, "Android", "Sdk")})
		}
	case "windows":
		if lad := l.Getenv(LocalAppData); lad != "" {
			out = append(out, candidate{source: LocalAppData, path: filepath.Join(lad, "Android", "Sdk")})
		}
		if home != "" {
			out = append(out, candidate{source: "default", path: filepath.Join(home, "AppData", "Local", "Android", "Sdk")})
		}
		if l.RegistrySDKPaths != nil {
			for _, p := range l.RegistrySDKPaths() {
				out = append(out, candidate{source: "registry", path: p})
			}
		}
	}
	// Android hosts and anything unknown have no conventional location.
	return out
}
