package validation

import (
	"log/slog"
)

// Context contains the data skip rules look at.
type Context struct {
	OutDir      string
	Fingerprint string
	DexEnabled  bool
	Previous    *BuildState
	Logger      *slog.Logger
}

// Result indicates whether a rule allows skipping.
type Result struct {
	Passed bool
	Reason string
}

func Success() Result { return Result{Passed: true} }

func Failure(reason string) Result { return Result{Reason: reason} }

// SkipValidationRule is one condition for skipping an unchanged build.
type SkipValidationRule interface {
	Name() string
	Validate(vctx Context) Result
}

// RuleChain executes rules in order and stops at the first failure.
type RuleChain struct {
	rules []SkipValidationRule
}

func NewRuleChain(rules ...SkipValidationRule) *RuleChain {
	return &RuleChain{rules: rules}
}

func (rc *RuleChain) Validate(vctx Context) Result {
	for _, rule := range rc.rules {
		result := rule.Validate(vctx)
		if !result.Passed {
			if vctx.Logger != nil {
				vctx.Logger.Debug("Build not skipped",
					slog.String("rule", rule.Name()),
					slog.String("reason", result.Reason))
			}
			return result
		}
	}
	return Success()
}
