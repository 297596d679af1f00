package foundation

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// Validator checks one aspect of a value.
type Validator[T any] func(T) ValidationResult

// ValidationResult collects field-level failures.
type ValidationResult struct {
	Errors []FieldError
}

// FieldError is a single validation failure, addressed by a dotted field path
// such as "dex.min_api".
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid reports whether no failures were collected.
func (vr ValidationResult) Valid() bool {
	return len(vr.Errors) == 0
}

// Ok is the empty result.
func Ok() ValidationResult {
	return ValidationResult{}
}

// Fail builds a result holding one failure.
func Fail(field, code, message string, value any) ValidationResult {
	return ValidationResult{Errors: []FieldError{{Field: field, Code: code, Message: message, Value: value}}}
}

// Combine merges two results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if other.Valid() {
		return vr
	}
	out := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	out = append(out, vr.Errors...)
	out = append(out, other.Errors...)
	return ValidationResult{Errors: out}
}

// ToError returns nil for a valid result, otherwise a config error listing
// every failure.
func (vr ValidationResult) ToError() error {
	if vr.Valid() {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	fields := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		messages = append(messages, fe.Error())
		fields = append(fields, fe.Field)
	}
	return errors.ConfigError("invalid configuration: "+strings.Join(messages, "; ")).
		WithContext("fields", fields).
		Build()
}

// ValidatorChain runs validators in order and collects every failure.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

func (vc *ValidatorChain[T]) Add(v Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, v)
	return vc
}

func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Ok()
	for _, v := range vc.validators {
		result = result.Combine(v(value))
	}
	return result
}

// OneOf accepts only the listed values.
func OneOf[T comparable](field string, allowed []T) Validator[T] {
	set := make(map[T]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(value T) ValidationResult {
		if _, ok := set[value]; !ok {
			return Fail(field, "one_of", fmt.Sprintf("must be one of %v", allowed), value)
		}
		return Ok()
	}
}
