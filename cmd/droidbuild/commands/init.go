package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/droidbuild/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Format string `name:"format" help:"File format when --config is not given" enum:"yaml,toml" default:"yaml"`
	Output string `short:"o" name:"output" help:"Directory for the generated config file" type:"path"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if path == "" || i.Output != "" {
		name := "droidbuild.yaml"
		if i.Format == "toml" {
			name = "droidbuild.toml"
		}
		path = filepath.Join(i.Output, name)
	}

	_, _ = fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		_, _ = fmt.Fprintln(g.Stdout, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, "Initialized successfully")
	return nil
}
