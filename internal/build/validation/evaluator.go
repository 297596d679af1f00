package validation

import (
	"log/slog"
)

// SkipEvaluator decides whether a build can be skipped because nothing it
// consumes changed since the last successful build into outDir.
type SkipEvaluator struct {
	outDir string
	rules  *RuleChain
}

// NewSkipEvaluator constructs an evaluator with the standard rules.
func NewSkipEvaluator(outDir string) *SkipEvaluator {
	return &SkipEvaluator{
		outDir: outDir,
		rules: NewRuleChain(
			PreviousStateRule{},
			ToolVersionRule{},
			FingerprintRule{},
			OutputsPresentRule{},
		),
	}
}

// Evaluate returns the previous state and true when the build can be skipped.
// Unreadable state never fails the build; it only disables the skip.
func (se *SkipEvaluator) Evaluate(fingerprint string, dexEnabled bool) (*BuildState, bool) {
	prev, err := LoadState(se.outDir)
	if err != nil {
		slog.Warn("Ignoring unreadable build state", slog.String("error", err.Error()))
		prev = nil
	}
	res := se.rules.Validate(Context{
		OutDir:      se.outDir,
		Fingerprint: fingerprint,
		DexEnabled:  dexEnabled,
		Previous:    prev,
		Logger:      slog.Default(),
	})
	if !res.Passed {
		return nil, false
	}
	return prev, true
}
