package javatool

import (
	"context"
	"os/exec"
	"strconv"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// D8MainClass is the entry point inside d8.jar.
const D8MainClass = "com.android.tools.r8.D8"

// Dexer describes a d8 invocation run through the java launcher.
type Dexer struct {
	JavaHome string
	// D8Jar and AndroidJar are discovered through the locator when empty.
	D8Jar      string
	AndroidJar string

	Release bool
	// MinAPI is passed as --min-api when positive.
	MinAPI int
	// NoDesugaring skips --lib and --classpath.
	NoDesugaring bool

	ClassPaths []string
	OutDir     string
	Files      []string

	locator *envpaths.Locator
	runner  Runner
}

// NewDexer returns an empty d8 invocation.
func NewDexer() *Dexer {
	return &Dexer{}
}

func (d *Dexer) WithLocator(l *envpaths.Locator) *Dexer {
	d.locator = l
	return d
}

func (d *Dexer) WithRunner(r Runner) *Dexer {
	d.runner = r
	return d
}

func (d *Dexer) WithJavaHome(p string) *Dexer {
	d.JavaHome = p
	return d
}

func (d *Dexer) WithD8Jar(p string) *Dexer {
	d.D8Jar = p
	return d
}

func (d *Dexer) WithAndroidJar(p string) *Dexer {
	d.AndroidJar = p
	return d
}

func (d *Dexer) WithRelease(on bool) *Dexer {
	d.Release = on
	return d
}

func (d *Dexer) WithMinAPI(level int) *Dexer {
	d.MinAPI = level
	return d
}

func (d *Dexer) WithNoDesugaring(on bool) *Dexer {
	d.NoDesugaring = on
	return d
}

func (d *Dexer) WithClassPath(paths ...string) *Dexer {
	d.ClassPaths = appendUnique(d.ClassPaths, paths...)
	return d
}

func (d *Dexer) WithOutDir(dir string) *Dexer {
	d.OutDir = dir
	return d
}

func (d *Dexer) WithFile(files ...string) *Dexer {
	d.Files = appendUnique(d.Files, files...)
	return d
}

// CollectClasses adds every *.class file under dir.
func (d *Dexer) CollectClasses(dir string) error {
	files, err := collectFiles(dir, ".class")
	if err != nil {
		return err
	}
	d.WithFile(files...)
	return nil
}

// D8Args renders the arguments passed to the D8 main class.
// androidJar is ignored when desugaring is off.
func (d *Dexer) D8Args(androidJar string) []string {
	var args []string
	if d.Release {
		args = append(args, "--release")
	}
	if d.MinAPI > 0 {
		args = append(args, "--min-api", strconv.Itoa(d.MinAPI))
	}
	if d.NoDesugaring {
		args = append(args, "--no-desugaring")
	} else {
		args = append(args, "--lib", androidJar)
		// d8 takes one resource per --classpath.
		for _, cp := range d.ClassPaths {
			args = append(args, "--classpath", cp)
		}
	}
	if d.OutDir != "" {
		args = append(args, "--output", d.OutDir)
	}
	return append(args, d.Files...)
}

// JavaRun returns the launcher invocation for this dex run, resolving d8.jar
// and android.jar when they were not given.
func (d *Dexer) JavaRun() (*JavaRun, error) {
	if len(d.Files) == 0 {
		return nil, invalid(ErrNoInputs, "d8 needs at least one class file or archive")
	}
	l := locatorOrDefault(d.locator)

	d8 := d.D8Jar
	if d8 == "" {
		p, err := l.D8Jar("")
		if err != nil {
			return nil, err
		}
		d8 = p
	}

	androidJar := d.AndroidJar
	if !d.NoDesugaring && androidJar == "" {
		p, _, err := l.AndroidJar("")
		if err != nil {
			return nil, err
		}
		androidJar = p
	}

	run := NewJavaRun().
		WithLocator(l).
		WithRunner(d.runner).
		WithJavaHome(d.JavaHome).
		WithClassPath(d8).
		WithMainClass(D8MainClass).
		WithArg(d.D8Args(androidJar)...)
	return run, nil
}

// Command returns the prepared java command running D8.
func (d *Dexer) Command(ctx context.Context) (*exec.Cmd, error) {
	run, err := d.JavaRun()
	if err != nil {
		return nil, err
	}
	return run.Command(ctx)
}

// Run executes d8.
func (d *Dexer) Run(ctx context.Context) error {
	run, err := d.JavaRun()
	if err != nil {
		return err
	}
	return run.Run(ctx)
}
