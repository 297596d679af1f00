// Package errors provides the classified error type used across droidbuild.
//
// Every failure the toolchain helpers surface falls into a small set of
// categories: a path that could not be found, a toolchain that is incomplete,
// a process that could not be spawned, an external tool that exited non-zero,
// or a configuration problem. A ClassifiedError carries that category together
// with a severity, a retry hint and a free-form context map, and keeps the
// underlying sentinel as its cause so callers can still use errors.Is.
//
// Example usage:
//
//	err := errors.NotFoundError("android SDK not found").
//		WithContext("candidates", searched).
//		WithCause(envpaths.ErrSDKNotFound).
//		Build()
package errors
