package commands

import (
	"os"
	"sort"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// addInputs routes directories to collect and everything else to add.
func addInputs(inputs []string, collect func(dir string) error, add func(file string)) error {
	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil {
			return dberrors.NotFoundError("input not found").
				WithCause(err).WithContext(logfields.KeyPath, in).Build()
		}
		if fi.IsDir() {
			if err := collect(in); err != nil {
				return err
			}
			continue
		}
		add(in)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
