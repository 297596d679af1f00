package envpaths

import (
	"errors"
	"fmt"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// Sentinel causes carried by discovery errors.
var (
	ErrSDKNotFound        = errors.New("android SDK not found")
	ErrJarNotFound        = errors.New("jar not found")
	ErrBuildToolsNotFound = errors.New("android build-tools not found")
	ErrJavaNotFound       = errors.New("java home not found")
	ErrToolNotFound       = errors.New("tool not found")
	ErrInvalidVersion     = errors.New("invalid version string")
)

// candidate is one place discovery looked.
type candidate struct {
	source string // env var name, "override", "default", "registry", ...
	path   string
	note   string // why it was rejected
}

func (c candidate) String() string {
	if c.path == "" {
		return fmt.Sprintf("%s: %s", c.source, c.note)
	}
	return fmt.Sprintf("%s: %s (%s)", c.source, c.path, c.note)
}

func describe(cands []candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.String())
	}
	return out
}

func notFound(cause error, message string, cands []candidate) error {
	b := dberrors.NotFoundError(message).WithCause(cause)
	if len(cands) > 0 {
		b = b.WithContext("searched", describe(cands))
	}
	return b.Build()
}

// withSearched prepends earlier candidates to a not-found error's
// "searched" context. Other errors are returned unchanged.
func withSearched(err error, tried []candidate) error {
	if len(tried) == 0 {
		return err
	}
	ce, ok := dberrors.AsClassified(err)
	if !ok || !ce.IsCategory(dberrors.CategoryNotFound) {
		return err
	}
	return ce.WithContext("searched", append(describe(tried), searched(ce)...))
}

// searched returns the candidates recorded on a not-found error.
func searched(err error) []string {
	ce, ok := dberrors.AsClassified(err)
	if !ok {
		return nil
	}
	list, _ := ce.Context()["searched"].([]string)
	return list
}

func invalidVersion(kind, raw string, err error) error {
	b := dberrors.ValidationError(fmt.Sprintf("invalid %s %q", kind, raw)).
		WithCause(ErrInvalidVersion).
		WithContext("value", raw)
	if err != nil {
		b = b.WithContext("reason", err.Error())
	}
	return b.Build()
}
