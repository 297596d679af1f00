package commands

import (
	"os"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// DexCmd implements the 'dex' command.
type DexCmd struct {
	Inputs []string `arg:"" name:"input" help:"Class files, jars, or directories searched for *.class" type:"path"`
	Out    string   `short:"o" name:"out" help:"Output directory for classes.dex" required:"" type:"path"`

	ClassPath    []string `name:"cp" help:"Classpath entries used for desugaring" type:"path"`
	MinAPI       int      `name:"min-api" help:"Minimum Android API level"`
	Release      bool     `name:"release" help:"Compile without debugging information"`
	NoDesugaring bool     `name:"no-desugaring" help:"Skip desugaring (no --lib or --classpath)"`
	D8Jar        string   `name:"d8-jar" help:"d8.jar to use instead of the build-tools copy" type:"path"`
}

func (d *DexCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}

	dx := javatool.NewDexer().WithLocator(root.Locator(cfg)).WithRunner(root.Runner(g))
	if err := addInputs(d.Inputs, dx.CollectClasses, func(p string) { dx.WithFile(p) }); err != nil {
		return err
	}
	dx.WithClassPath(d.ClassPath...).
		WithMinAPI(d.MinAPI).
		WithRelease(d.Release).
		WithNoDesugaring(d.NoDesugaring).
		WithD8Jar(d.D8Jar).
		WithOutDir(d.Out)
	if len(dx.Files) == 0 {
		return dberrors.ValidationError("no class files to dex").
			WithCause(javatool.ErrNoInputs).WithContext("inputs", d.Inputs).Build()
	}

	if err := os.MkdirAll(d.Out, 0o750); err != nil {
		return dberrors.FileSystemError("failed to create output directory").
			WithCause(err).WithContext(logfields.KeyPath, d.Out).Build()
	}
	return dx.Run(g.Context)
}
