package envpaths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

func TestParseBuildToolsVersion(t *testing.T) {
	v, err := ParseBuildToolsVersion("34.0.0-rc2")
	require.NoError(t, err)
	require.Equal(t, BuildToolsVersion{Major: 34, RC: 2}, v)
	require.Equal(t, "34.0.0-rc2", v.String())

	v, err = ParseBuildToolsVersion("33.0.1")
	require.NoError(t, err)
	require.Equal(t, "33.0.1", v.String())

	for _, bad := range []string{"", "33", "33.0", "33.0.x", "33.0.1-rc", "33.0.1-rcX", "33.0.1.2"} {
		_, err := ParseBuildToolsVersion(bad)
		require.ErrorIs(t, err, ErrInvalidVersion, bad)
	}
}

func TestBuildToolsVersionCompare(t *testing.T) {
	parse := func(s string) BuildToolsVersion {
		v, err := ParseBuildToolsVersion(s)
		require.NoError(t, err)
		return v
	}
	require.Equal(t, 1, parse("34.0.0").Compare(parse("34.0.0-rc3")))
	require.Equal(t, 1, parse("34.0.0-rc10").Compare(parse("34.0.0-rc2")))
	require.Equal(t, -1, parse("9.0.0").Compare(parse("10.0.0")))
	require.Equal(t, -1, parse("33.0.9").Compare(parse("33.0.10")))
	require.Equal(t, 0, parse("30.0.3").Compare(parse("30.0.3")))
}

func TestLatestBuildTools(t *testing.T) {
	sdk := fakeSDK(t, nil, []string{"9.0.0", "30.0.3", "34.0.0-rc3", "33.0.10", "33.0.9"})
	touch(t, sdk, "build-tools", "README")

	v, dir, err := LatestBuildTools(sdk)
	require.NoError(t, err)
	require.Equal(t, "34.0.0-rc3", v.String())
	require.Equal(t, filepath.Join(sdk, "build-tools", "34.0.0-rc3"), dir)

	touch(t, sdk, "build-tools", "34.0.0", "lib", "d8.jar")
	v, _, err = LatestBuildTools(sdk)
	require.NoError(t, err)
	require.Equal(t, "34.0.0", v.String())

	_, _, err = LatestBuildTools(t.TempDir())
	require.ErrorIs(t, err, ErrBuildToolsNotFound)
}

func TestBuildToolsAndD8Jar(t *testing.T) {
	sdk := fakeSDK(t, nil, []string{"33.0.1", "34.0.0"})

	t.Run("env version", func(t *testing.T) {
		l := testLocator(t, map[string]string{AndroidHome: sdk, AndroidBuildToolsVersion: "33.0.1"})
		dir, v, err := l.BuildTools("")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(sdk, "build-tools", "33.0.1"), dir)
		require.Equal(t, "33.0.1", v.String())

		jar, err := l.D8Jar("")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(sdk, "build-tools", "33.0.1", "lib", "d8.jar"), jar)
	})

	t.Run("override beats env", func(t *testing.T) {
		l := testLocator(t, map[string]string{AndroidHome: sdk, AndroidBuildToolsVersion: "33.0.1"}).
			WithOverrides(Overrides{BuildToolsVersion: "34.0.0"})
		_, v, err := l.BuildTools("")
		require.NoError(t, err)
		require.Equal(t, "34.0.0", v.String())
	})

	t.Run("ANDROID_SDK_VERSION does not select build-tools", func(t *testing.T) {
		l := testLocator(t, map[string]string{AndroidHome: sdk, AndroidSDKVersion: "33.0.1"})
		_, v, err := l.BuildTools("")
		require.NoError(t, err)
		require.Equal(t, "34.0.0", v.String())
	})

	t.Run("missing version", func(t *testing.T) {
		l := testLocator(t, map[string]string{AndroidHome: sdk})
		_, _, err := l.BuildTools("35.0.0")
		require.ErrorIs(t, err, ErrBuildToolsNotFound)
	})

	t.Run("ANDROID_D8_JAR", func(t *testing.T) {
		custom := touch(t, t.TempDir(), "d8.jar")
		l := testLocator(t, map[string]string{AndroidD8Jar: custom})
		jar, err := l.D8Jar("")
		require.NoError(t, err)
		require.Equal(t, custom, jar)
	})

	t.Run("build-tools without d8.jar", func(t *testing.T) {
		bare := t.TempDir()
		require.NoError(t, mkdirAll(filepath.Join(bare, "build-tools", "34.0.0")))
		l := testLocator(t, map[string]string{AndroidHome: bare})
		_, err := l.D8Jar("")
		require.ErrorIs(t, err, ErrJarNotFound)
	})
}

func TestD8Jar_MissingOverrideStaysInSearched(t *testing.T) {
	sdk := fakeSDK(t, []string{"android-34"}, nil)
	l := testLocator(t, map[string]string{AndroidHome: sdk, AndroidD8Jar: "/gone/d8.jar"})

	_, err := l.D8Jar("")
	require.ErrorIs(t, err, ErrBuildToolsNotFound)

	ce, ok := dberrors.AsClassified(err)
	require.True(t, ok)
	list, ok := ce.Context()["searched"].([]string)
	require.True(t, ok)
	require.Equal(t, "ANDROID_D8_JAR: /gone/d8.jar (missing)", list[0])
	require.Contains(t, list, "build-tools: "+filepath.Join(sdk, "build-tools")+" (unreadable)")
}
