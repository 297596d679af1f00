package javatool

import (
	"context"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
)

// DebugInfo selects the -g:* flags. All false emits -g:none.
type DebugInfo struct {
	Lines  bool
	Vars   bool
	Source bool
}

// FullDebugInfo enables every kind of debug information.
func FullDebugInfo() *DebugInfo {
	return &DebugInfo{Lines: true, Vars: true, Source: true}
}

func (d DebugInfo) args() []string {
	var out []string
	if d.Lines {
		out = append(out, "-g:lines")
	}
	if d.Vars {
		out = append(out, "-g:vars")
	}
	if d.Source {
		out = append(out, "-g:source")
	}
	if len(out) == 0 {
		out = append(out, "-g:none")
	}
	return out
}

// AnnotationParam is one -Akey=value pair.
type AnnotationParam struct {
	Key   string
	Value string
}

// JavaBuild describes a javac invocation.
type JavaBuild struct {
	JavaHome  string
	DebugInfo *DebugInfo

	NoWarn                  bool
	Verbose                 bool
	Deprecation             bool
	EnablePreview           bool
	MethodParameterMetadata bool
	WarningsAsErrors        bool

	ClassPaths               []string
	SourcePaths              []string
	BootClassPaths           []string
	ExtensionDirs            []string
	AnnotationProcessors     []string
	AnnotationProcessorPaths []string
	AnnotationParameters     []AnnotationParam

	ClassesOutDir string
	SourcesOutDir string
	HeadersOutDir string

	Release       string
	SourceVersion string
	TargetVersion string
	Encoding      string

	Files []string

	locator *envpaths.Locator
	runner  Runner
}

// NewJavaBuild returns an empty javac invocation.
func NewJavaBuild() *JavaBuild {
	return &JavaBuild{}
}

// WithLocator sets the locator used to discover the JDK and version defaults.
func (b *JavaBuild) WithLocator(l *envpaths.Locator) *JavaBuild {
	b.locator = l
	return b
}

// WithRunner sets the runner used by Compile.
func (b *JavaBuild) WithRunner(r Runner) *JavaBuild {
	b.runner = r
	return b
}

func (b *JavaBuild) WithJavaHome(p string) *JavaBuild {
	b.JavaHome = p
	return b
}

func (b *JavaBuild) WithDebugInfo(d DebugInfo) *JavaBuild {
	b.DebugInfo = &d
	return b
}

func (b *JavaBuild) WithClassPath(paths ...string) *JavaBuild {
	b.ClassPaths = appendUnique(b.ClassPaths, paths...)
	return b
}

func (b *JavaBuild) WithSourcePath(paths ...string) *JavaBuild {
	b.SourcePaths = appendUnique(b.SourcePaths, paths...)
	return b
}

func (b *JavaBuild) WithBootClassPath(paths ...string) *JavaBuild {
	b.BootClassPaths = appendUnique(b.BootClassPaths, paths...)
	return b
}

func (b *JavaBuild) WithExtensionDir(dirs ...string) *JavaBuild {
	b.ExtensionDirs = appendUnique(b.ExtensionDirs, dirs...)
	return b
}

func (b *JavaBuild) WithAnnotationProcessor(names ...string) *JavaBuild {
	b.AnnotationProcessors = appendUnique(b.AnnotationProcessors, names...)
	return b
}

func (b *JavaBuild) WithAnnotationProcessorPath(paths ...string) *JavaBuild {
	b.AnnotationProcessorPaths = appendUnique(b.AnnotationProcessorPaths, paths...)
	return b
}

// WithAnnotationParameter adds -Akey=value; a repeated key replaces its value.
func (b *JavaBuild) WithAnnotationParameter(key, value string) *JavaBuild {
	for i := range b.AnnotationParameters {
		if b.AnnotationParameters[i].Key == key {
			b.AnnotationParameters[i].Value = value
			return b
		}
	}
	b.AnnotationParameters = append(b.AnnotationParameters, AnnotationParam{Key: key, Value: value})
	return b
}

func (b *JavaBuild) WithClassesOutDir(dir string) *JavaBuild {
	b.ClassesOutDir = dir
	return b
}

func (b *JavaBuild) WithSourcesOutDir(dir string) *JavaBuild {
	b.SourcesOutDir = dir
	return b
}

func (b *JavaBuild) WithHeadersOutDir(dir string) *JavaBuild {
	b.HeadersOutDir = dir
	return b
}

func (b *JavaBuild) WithRelease(v string) *JavaBuild {
	b.Release = v
	return b
}

func (b *JavaBuild) WithSourceVersion(v string) *JavaBuild {
	b.SourceVersion = v
	return b
}

func (b *JavaBuild) WithTargetVersion(v string) *JavaBuild {
	b.TargetVersion = v
	return b
}

func (b *JavaBuild) WithEncoding(enc string) *JavaBuild {
	b.Encoding = enc
	return b
}

func (b *JavaBuild) WithFile(files ...string) *JavaBuild {
	b.Files = appendUnique(b.Files, files...)
	return b
}

// CollectSources adds every *.java file under dir.
func (b *JavaBuild) CollectSources(dir string) error {
	files, err := collectFiles(dir, ".java")
	if err != nil {
		return err
	}
	b.WithFile(files...)
	return nil
}

// Args renders the javac arguments, without the executable.
func (b *JavaBuild) Args() []string {
	l := locatorOrDefault(b.locator)
	var args []string

	if b.DebugInfo != nil {
		args = append(args, b.DebugInfo.args()...)
	}

	if b.Release != "" {
		args = append(args, "--release", b.Release)
	} else {
		src, tgt := b.SourceVersion, b.TargetVersion
		if src == "" {
			src = l.JavaSourceVersion()
		}
		if tgt == "" {
			tgt = l.JavaTargetVersion()
		}
		if src != "" {
			args = append(args, "--source", src)
		}
		if tgt != "" {
			args = append(args, "--target", tgt)
		}
	}
	if b.Encoding != "" {
		args = append(args, "-encoding", b.Encoding)
	}

	for _, pl := range []struct {
		flag  string
		paths []string
	}{
		{"-cp", b.ClassPaths},
		{"-sourcepath", b.SourcePaths},
		{"-bootclasspath", b.BootClassPaths},
		{"-extdirs", b.ExtensionDirs},
	} {
		if len(pl.paths) > 0 {
			args = append(args, pl.flag, joinPathList(pl.paths))
		}
	}
	if len(b.AnnotationProcessors) > 0 {
		args = append(args, "-processor", strings.Join(b.AnnotationProcessors, ","))
	}
	if len(b.AnnotationProcessorPaths) > 0 {
		args = append(args, "-processorpath", joinPathList(b.AnnotationProcessorPaths))
	}

	for _, d := range []struct{ flag, dir string }{
		{"-d", b.ClassesOutDir},
		{"-s", b.SourcesOutDir},
		{"-h", b.HeadersOutDir},
	} {
		if d.dir != "" {
			args = append(args, d.flag, d.dir)
		}
	}

	for _, f := range []struct {
		flag string
		on   bool
	}{
		{"-nowarn", b.NoWarn},
		{"-verbose", b.Verbose},
		{"-deprecation", b.Deprecation},
		{"-parameters", b.MethodParameterMetadata},
		{"-Werror", b.WarningsAsErrors},
		{"--enable-preview", b.EnablePreview},
	} {
		if f.on {
			args = append(args, f.flag)
		}
	}

	for _, p := range b.AnnotationParameters {
		args = append(args, "-A"+p.Key+"="+p.Value)
	}
	return append(args, b.Files...)
}

// Command resolves javac and returns the prepared command.
func (b *JavaBuild) Command(ctx context.Context) (*exec.Cmd, error) {
	if len(b.Files) == 0 {
		return nil, invalid(ErrNoInputs, "javac needs at least one source file")
	}
	javac, err := jdkTool(ctx, locatorOrDefault(b.locator), b.JavaHome, "javac")
	if err != nil {
		return nil, err
	}
	return exec.CommandContext(ctx, javac, b.Args()...), nil
}

// Compile runs javac.
func (b *JavaBuild) Compile(ctx context.Context) error {
	cmd, err := b.Command(ctx)
	if err != nil {
		return err
	}
	return runnerOrDefault(b.runner).Run(ctx, cmd)
}
