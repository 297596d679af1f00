// Package workspace manages the scratch directory a build compiles into,
// supporting both ephemeral (per-build) and persistent (fixed-path) modes.
//
// Ephemeral mode creates droidbuild-<build id> under the base directory and
// removes it on Cleanup. Persistent mode reuses baseDir/<subdir> so the
// compiled classes stay around for inspection; Reset empties it before each
// compile so classes from deleted sources are not dexed.
package workspace
