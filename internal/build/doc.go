// Package build runs the droidbuild pipeline: resolve the toolchain, compile
// Java sources with javac, then convert the classes to dex with d8.
//
// All execution paths (the build and watch commands, tests) route through
// BuildService. Toolchain discovery, process execution, workspace creation
// and metrics are injected so tests can run the pipeline without a JDK.
package build
