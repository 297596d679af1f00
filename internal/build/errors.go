package build

import "errors"

// ErrNoSources is the cause of the validation error returned when the
// configured source directories hold no .java files.
var ErrNoSources = errors.New("no Java sources found")
