package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// fingerprintInputs is everything besides file contents that changes the output.
type fingerprintInputs struct {
	Toolchain    envpaths.Toolchain `json:"toolchain"`
	JavacVersion int                `json:"javac_version"`
	Java         config.JavaConfig  `json:"java"`
	Dex          config.DexConfig   `json:"dex"`
	NoDex        bool               `json:"no_dex"`
	Env          map[string]string  `json:"env"`
}

// fingerprint hashes the build inputs: resolved toolchain, java/dex settings,
// and the content of every source, classpath entry and extra dex input.
// Directories are walked; missing paths hash as absent.
func fingerprint(in fingerprintInputs, files ...[]string) (string, error) {
	h := sha256.New()
	meta, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	h.Write(meta)

	var all []string
	for _, group := range files {
		for _, p := range group {
			expanded, err := expandPath(p)
			if err != nil {
				return "", err
			}
			all = append(all, expanded...)
		}
	}
	sort.Strings(all)

	for _, p := range all {
		sum, err := hashFile(p)
		if err != nil {
			return "", err
		}
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func expandPath(p string) ([]string, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return []string{p}, nil
	}
	if !fi.IsDir() {
		return []string{p}, nil
	}
	var out []string
	err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func hashFile(p string) ([]byte, error) {
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return []byte("absent"), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
