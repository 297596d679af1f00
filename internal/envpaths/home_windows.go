//go:build windows

package envpaths

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// userHomeDir asks the shell for the profile folder, which stays correct when
// USERPROFILE has been redirected or unset.
func userHomeDir() (string, error) {
	if p, err := windows.KnownFolderPath(windows.FOLDERID_Profile, 0); err == nil && p != "" {
		return p, nil
	}
	return os.UserHomeDir()
}

// sdkInstallerKey is where the standalone "Android SDK Tools" installer
// recorded its install directory.
const sdkInstallerKey = `SOFTWARE\Android SDK Tools`

func registrySDKPaths() []string {
	var paths []string
	for _, root := range []registry.Key{registry.CURRENT_USER, registry.LOCAL_MACHINE} {
		k, err := registry.OpenKey(root, sdkInstallerKey, registry.QUERY_VALUE|registry.WOW64_32KEY)
		if err != nil {
			continue
		}
		if p, _, err := k.GetStringValue("Path"); err == nil && p != "" {
			paths = append(paths, p)
		}
		_ = k.Close()
	}
	return paths
}
