package commands

import (
	"os"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// JavacCmd implements the 'javac' command.
type JavacCmd struct {
	Sources []string `arg:"" name:"files" help:"Java files, or directories searched for *.java" type:"path"`
	Out     string   `short:"d" name:"out" help:"Directory for generated class files" required:"" type:"path"`

	ClassPath      []string          `name:"cp" help:"Additional classpath entries" type:"path"`
	SourcePath     []string          `name:"sourcepath" help:"Source path entries" type:"path"`
	Release        string            `name:"release" help:"Compile for the given Java release"`
	SourceVersion  string            `name:"source" help:"Source version (default: JAVA_SOURCE_VERSION)"`
	TargetVersion  string            `name:"target" help:"Target version (default: JAVA_TARGET_VERSION)"`
	Encoding       string            `name:"encoding" help:"Source file encoding"`
	Debug          bool              `short:"g" help:"Emit all debugging information"`
	Werror         bool              `name:"werror" help:"Terminate compilation if warnings occur"`
	NoWarn         bool              `name:"nowarn" help:"Disable warnings"`
	EnablePreview  bool              `name:"enable-preview" help:"Enable preview language features"`
	Processors     []string          `name:"processor" help:"Annotation processors to run"`
	ProcessorPath  []string          `name:"processorpath" help:"Where to find annotation processors" type:"path"`
	ProcessorParam map[string]string `short:"A" name:"processor-param" help:"Annotation processor option key=value"`
	NoAndroidJar   bool              `name:"no-android-jar" help:"Do not put android.jar on the classpath"`
}

func (j *JavacCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	loc := root.Locator(cfg)

	b := javatool.NewJavaBuild().WithLocator(loc).WithRunner(root.Runner(g))
	if err := addInputs(j.Sources, b.CollectSources, func(p string) { b.WithFile(p) }); err != nil {
		return err
	}
	if !j.NoAndroidJar {
		jar, _, err := loc.AndroidJar("")
		if err != nil {
			return err
		}
		b.WithClassPath(jar)
	}
	b.WithClassPath(j.ClassPath...).
		WithSourcePath(j.SourcePath...).
		WithAnnotationProcessor(j.Processors...).
		WithAnnotationProcessorPath(j.ProcessorPath...).
		WithClassesOutDir(j.Out).
		WithRelease(j.Release).
		WithSourceVersion(j.SourceVersion).
		WithTargetVersion(j.TargetVersion).
		WithEncoding(j.Encoding)
	for _, k := range sortedKeys(j.ProcessorParam) {
		b.WithAnnotationParameter(k, j.ProcessorParam[k])
	}
	if j.Debug {
		b.WithDebugInfo(*javatool.FullDebugInfo())
	}
	b.WarningsAsErrors = j.Werror
	b.NoWarn = j.NoWarn
	b.EnablePreview = j.EnablePreview

	if err := os.MkdirAll(j.Out, 0o750); err != nil {
		return dberrors.FileSystemError("failed to create output directory").
			WithCause(err).WithContext(logfields.KeyPath, j.Out).Build()
	}
	return b.Compile(g.Context)
}
