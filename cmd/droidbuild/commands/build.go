package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"git.home.luguber.info/inful/droidbuild/internal/build"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SkipIfUnchanged bool `name:"skip-if-unchanged" help:"Do nothing when sources, configuration and toolchain are unchanged since the last build"`
	NoDex           bool `name:"no-dex" help:"Stop after compiling"`
	JSON            bool `name:"json" help:"Print the build result as JSON"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}

	svc := build.NewBuildService().
		WithRunner(root.Runner(g)).
		WithRecorder(g.Recorder)
	res, err := svc.Run(g.Context, build.BuildRequest{
		Config:    cfg,
		Overrides: root.Overrides(),
		Options: build.BuildOptions{
			SkipIfUnchanged: b.SkipIfUnchanged,
			NoDex:           b.NoDex,
		},
	})
	if res != nil {
		if printErr := printResult(g.Stdout, res, b.JSON); printErr != nil && err == nil {
			err = printErr
		}
	}
	return err
}

func printResult(w io.Writer, res *build.BuildResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return dberrors.InternalError("failed to encode build result").WithCause(err).Build()
		}
		return nil
	}
	switch res.Status {
	case build.BuildStatusSkipped:
		_, _ = fmt.Fprintf(w, "Build skipped: %s\n", res.SkipReason)
	case build.BuildStatusSuccess:
		_, _ = fmt.Fprintf(w, "Build succeeded in %s: %d sources, %d classes, %d dex files\n",
			res.Duration.Round(time.Millisecond), res.SourceFiles, res.ClassFiles, len(res.DexFiles))
		for _, f := range res.DexFiles {
			_, _ = fmt.Fprintf(w, "  %s\n", f)
		}
	default:
		_, _ = fmt.Fprintf(w, "Build %s after %s\n", res.Status, res.Duration.Round(time.Millisecond))
	}
	return nil
}
