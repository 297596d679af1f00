package javatool

import (
	"context"
	"os"
	"os/exec"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// JavaRun describes a java launcher invocation. Exactly one of MainClass and
// JarFile may be set; with neither, only Args are passed.
type JavaRun struct {
	JavaHome      string
	ClassPaths    []string
	MainClass     string
	JarFile       string
	Args          []string
	EnablePreview bool
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the inherited environment.
	Env []string

	locator *envpaths.Locator
	runner  Runner
}

// NewJavaRun returns an empty java invocation.
func NewJavaRun() *JavaRun {
	return &JavaRun{}
}

func (r *JavaRun) WithLocator(l *envpaths.Locator) *JavaRun {
	r.locator = l
	return r
}

func (r *JavaRun) WithRunner(rn Runner) *JavaRun {
	r.runner = rn
	return r
}

func (r *JavaRun) WithJavaHome(p string) *JavaRun {
	r.JavaHome = p
	return r
}

func (r *JavaRun) WithClassPath(paths ...string) *JavaRun {
	r.ClassPaths = appendUnique(r.ClassPaths, paths...)
	return r
}

func (r *JavaRun) WithMainClass(name string) *JavaRun {
	r.MainClass = name
	return r
}

func (r *JavaRun) WithJarFile(p string) *JavaRun {
	r.JarFile = p
	return r
}

// WithArg appends program arguments. Duplicates are kept.
func (r *JavaRun) WithArg(args ...string) *JavaRun {
	r.Args = append(r.Args, args...)
	return r
}

// LauncherArgs renders the java arguments, without the executable.
func (r *JavaRun) LauncherArgs() ([]string, error) {
	if r.MainClass != "" && r.JarFile != "" {
		return nil, invalid(ErrMainClassAndJar, "cannot run both a main class and a jar file")
	}
	var args []string
	if r.EnablePreview {
		args = append(args, "--enable-preview")
	}
	if len(r.ClassPaths) > 0 {
		args = append(args, "-cp", joinPathList(r.ClassPaths))
	}
	switch {
	case r.MainClass != "":
		args = append(args, r.MainClass)
	case r.JarFile != "":
		args = append(args, "-jar", r.JarFile)
	}
	return append(args, r.Args...), nil
}

// Command resolves java and returns the prepared command.
func (r *JavaRun) Command(ctx context.Context) (*exec.Cmd, error) {
	args, err := r.LauncherArgs()
	if err != nil {
		return nil, err
	}
	java, err := jdkTool(ctx, locatorOrDefault(r.locator), r.JavaHome, "java")
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, java, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	return cmd, nil
}

// Run executes the java launcher.
func (r *JavaRun) Run(ctx context.Context) error {
	cmd, err := r.Command(ctx)
	if err != nil {
		return err
	}
	return runnerOrDefault(r.runner).Run(ctx, cmd)
}
