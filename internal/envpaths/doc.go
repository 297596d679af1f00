// Package envpaths locates the Android SDK and the Java toolchain on the
// build host.
//
// Every lookup is a short precedence list. An explicit override (a CLI flag or
// a config file value) wins and must exist. Then the documented environment
// variables are consulted; a variable that is unset, empty, or points at a
// path that does not exist is skipped. Finally a per-OS default install
// location is tried. When a versioned directory is needed (a platform or a
// build-tools release) and none is configured, the highest version found on
// disk is chosen.
//
// Failures are *errors.ClassifiedError values in the not_found category whose
// cause is one of the sentinels in this package and whose context lists every
// candidate that was checked.
package envpaths
