package envpaths

import (
	"context"
	"errors"
)

// Toolchain is a fully resolved set of SDK and JDK locations.
type Toolchain struct {
	SDKRoot    string `json:"sdk_root" yaml:"sdk_root"`
	Platform   string `json:"platform" yaml:"platform"`
	AndroidJar string `json:"android_jar" yaml:"android_jar"`
	BuildTools string `json:"build_tools" yaml:"build_tools"`
	D8Jar      string `json:"d8_jar" yaml:"d8_jar"`
	JavaHome   string `json:"java_home" yaml:"java_home"`
	Java       string `json:"java" yaml:"java"`
	Javac      string `json:"javac" yaml:"javac"`
}

// Resolve discovers the whole toolchain. The JDK and the Android SDK are
// resolved independently, so a failure of one does not hide the other;
// the returned Toolchain carries every location that was found.
func (l *Locator) Resolve(ctx context.Context) (Toolchain, error) {
	var tc Toolchain
	var jdkErr, sdkErr error

	if home, err := l.JavaHome(ctx); err != nil {
		jdkErr = err
	} else {
		tc.JavaHome = home
		tc.Java, jdkErr = l.ToolIn(home, "java")
		if javac, err := l.ToolIn(home, "javac"); err != nil {
			jdkErr = errors.Join(jdkErr, err)
		} else {
			tc.Javac = javac
		}
	}

	sdkErr = l.resolveSDK(&tc)
	return tc, errors.Join(jdkErr, sdkErr)
}

// resolveSDK fills the Android half. android.jar and d8.jar are looked up
// on their own so explicit jar overrides work without an SDK root; a
// missing SDK is reported only when something still needed it.
func (l *Locator) resolveSDK(tc *Toolchain) error {
	sdk, sdkErr := l.AndroidSDK()
	if sdkErr == nil {
		tc.SDKRoot = sdk
	}

	var errs []error
	var missingSDK error
	note := func(err error) {
		if sdkErr != nil && errors.Is(err, ErrSDKNotFound) {
			// Keep the variant that also lists rejected jar overrides.
			if missingSDK == nil || len(searched(err)) > len(searched(missingSDK)) {
				missingSDK = err
			}
			return
		}
		errs = append(errs, err)
	}

	if jar, p, err := l.AndroidJar(""); err != nil {
		note(err)
	} else {
		tc.AndroidJar = jar
		if !p.IsZero() {
			tc.Platform = p.String()
		}
	}

	if d8, err := l.D8Jar(""); err != nil {
		note(err)
	} else {
		tc.D8Jar = d8
	}

	if sdkErr == nil {
		if bt, _, err := l.BuildTools(""); err == nil {
			tc.BuildTools = bt
		}
	}

	if missingSDK != nil {
		errs = append([]error{missingSDK}, errs...)
	}
	return errors.Join(errs...)
}

var defaultLocator = NewLocator()

// AndroidSDK resolves the SDK root from the process environment.
func AndroidSDK() (string, error) { return defaultLocator.AndroidSDK() }

// AndroidJar resolves android.jar from the process environment.
func AndroidJar(platform string) (string, Platform, error) {
	return defaultLocator.AndroidJar(platform)
}

// BuildTools resolves the build-tools directory from the process environment.
func BuildTools(version string) (string, BuildToolsVersion, error) {
	return defaultLocator.BuildTools(version)
}

// D8Jar resolves d8.jar from the process environment.
func D8Jar(version string) (string, error) { return defaultLocator.D8Jar(version) }

// JavaHome resolves the JDK root from the process environment.
func JavaHome(ctx context.Context) (string, error) { return defaultLocator.JavaHome(ctx) }

// Java resolves the java launcher from the process environment.
func Java(ctx context.Context) (string, error) { return defaultLocator.Java(ctx) }

// Javac resolves javac from the process environment.
func Javac(ctx context.Context) (string, error) { return defaultLocator.Javac(ctx) }

// Resolve discovers the whole toolchain from the process environment.
func Resolve(ctx context.Context) (Toolchain, error) { return defaultLocator.Resolve(ctx) }
