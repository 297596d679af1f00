package javatool

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

var javacVersionRe = regexp.MustCompile(`javac\s+(\d+)(?:\.(\d+))?`)

// ParseJavacVersion extracts the major version from `javac -version` output.
// Legacy 1.x versions map to x.
func ParseJavacVersion(out string) (int, error) {
	m := javacVersionRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("unrecognised javac version output %q", out)
	}
	major, _ := strconv.Atoi(m[1])
	if major == 1 && m[2] != "" {
		major, _ = strconv.Atoi(m[2])
	}
	return major, nil
}

// DetectJavacVersion runs `javac -version` and returns the major version.
func DetectJavacVersion(ctx context.Context, javac string) (int, error) {
	out, err := exec.CommandContext(ctx, javac, "-version").CombinedOutput()
	if err != nil {
		return 0, dberrors.ToolchainError("failed to query javac version").
			WithCause(err).
			WithContext("path", javac).
			Build()
	}
	v, err := ParseJavacVersion(string(out))
	if err != nil {
		return 0, dberrors.ToolchainError("failed to parse javac version").WithCause(err).Build()
	}
	return v, nil
}
