//go:build !windows

package envpaths

import "os"

func userHomeDir() (string, error) {
	return os.UserHomeDir()
}

func registrySDKPaths() []string {
	return nil
}
