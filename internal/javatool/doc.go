// Package javatool builds and runs command lines for the JDK and Android
// build tools: javac (JavaBuild), java (JavaRun) and d8 (Dexer).
//
// Builders are plain structs with With* helpers. Command returns the
// *exec.Cmd for inspection; Compile/Run execute it through a Runner, which
// captures output and turns failures into classified errors.
package javatool
