package validation

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/droidbuild/internal/version"
)

// PreviousStateRule requires a recorded previous build.
type PreviousStateRule struct{}

func (PreviousStateRule) Name() string { return "previous_state" }

func (PreviousStateRule) Validate(vctx Context) Result {
	if vctx.Previous == nil {
		return Failure("no previous build state")
	}
	if vctx.Previous.SchemaVersion != stateSchemaVersion {
		return Failure("build state schema changed")
	}
	return Success()
}

// ToolVersionRule rebuilds after droidbuild itself was upgraded.
type ToolVersionRule struct{}

func (ToolVersionRule) Name() string { return "tool_version" }

func (ToolVersionRule) Validate(vctx Context) Result {
	if vctx.Previous.ToolVersion != version.Version {
		return Failure("droidbuild version changed")
	}
	return Success()
}

// FingerprintRule compares the input fingerprint.
type FingerprintRule struct{}

func (FingerprintRule) Name() string { return "fingerprint" }

func (FingerprintRule) Validate(vctx Context) Result {
	if vctx.Fingerprint == "" {
		return Failure("no fingerprint")
	}
	if vctx.Fingerprint != vctx.Previous.Fingerprint {
		return Failure("inputs changed")
	}
	return Success()
}

// OutputsPresentRule requires every recorded dex file to still exist.
type OutputsPresentRule struct{}

func (OutputsPresentRule) Name() string { return "outputs_present" }

func (OutputsPresentRule) Validate(vctx Context) Result {
	if vctx.DexEnabled && vctx.Previous.ClassFiles > 0 && len(vctx.Previous.DexFiles) == 0 {
		return Failure("previous build produced no dex output")
	}
	for _, f := range vctx.Previous.DexFiles {
		if _, err := os.Stat(filepath.Join(vctx.OutDir, f)); err != nil {
			return Failure("dex output missing: " + f)
		}
	}
	return Success()
}
