package commands

import (
	"strings"

	"git.home.luguber.info/inful/droidbuild/internal/javatool"
)

// JavaCmd implements the 'java' command.
type JavaCmd struct {
	Target string   `arg:"" help:"Main class to run, or a .jar file"`
	Args   []string `arg:"" optional:"" passthrough:"" help:"Arguments passed to the program"`

	ClassPath     []string `name:"cp" help:"Classpath entries" type:"path"`
	EnablePreview bool     `name:"enable-preview" help:"Enable preview language features"`
	Dir           string   `name:"dir" help:"Working directory for the program" type:"path"`
}

func (j *JavaCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}

	r := javatool.NewJavaRun().
		WithLocator(root.Locator(cfg)).
		WithClassPath(j.ClassPath...).
		WithArg(j.Args...)
	if strings.HasSuffix(strings.ToLower(j.Target), ".jar") {
		r.WithJarFile(j.Target)
	} else {
		r.WithMainClass(j.Target)
	}
	r.EnablePreview = j.EnablePreview
	r.Dir = j.Dir

	cmd, err := r.Command(g.Context)
	if err != nil {
		return err
	}
	cmd.Stdin = g.Stdin
	runner := root.Runner(g).WithOutput(g.Stdout, g.Stderr)
	return runner.Run(g.Context, cmd)
}
