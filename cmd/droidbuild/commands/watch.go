package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/droidbuild/internal/build"
	"git.home.luguber.info/inful/droidbuild/internal/config"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
	"git.home.luguber.info/inful/droidbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	QuietWindow time.Duration `name:"quiet-window" help:"How long sources must be unchanged before rebuilding" default:"300ms"`
	NoDex       bool          `name:"no-dex" help:"Stop after compiling"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	usePersistentWorkspace(cfg)

	svc := build.NewBuildService().
		WithRunner(root.Runner(g)).
		WithRecorder(g.Recorder)
	req := build.BuildRequest{
		Config:    cfg,
		Overrides: root.Overrides(),
		Options:   build.BuildOptions{SkipIfUnchanged: true, NoDex: w.NoDex},
	}

	dirs := append(append([]string{}, cfg.Java.Sources...), cfg.Java.SourcePaths...)
	watcher, err := watch.New(watch.Config{
		Dirs:         dirs,
		Exclude:      []string{cfg.Dex.OutDir, cfg.Java.ClassesDir, cfg.Workspace.Dir},
		QuietWindow:  w.QuietWindow,
		BuildOnStart: true,
	}, func(ctx context.Context) error {
		res, err := svc.Run(ctx, req)
		if res != nil {
			_ = printResult(g.Stdout, res, false)
		}
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("Watching for changes", slog.Any("dirs", dirs))
	return watcher.Run(g.Context)
}

// usePersistentWorkspace keeps compiled classes between rebuilds.
func usePersistentWorkspace(cfg *config.Config) {
	if cfg.Java.ClassesDir != "" {
		return
	}
	cfg.Workspace.Persistent = true
	if cfg.Workspace.Dir == "" {
		base := "."
		if p := cfg.Path(); p != "" {
			base = filepath.Dir(p)
		}
		cfg.Workspace.Dir = filepath.Join(base, "build")
	}
	slog.Debug("Using persistent workspace for watch", logfields.Path(cfg.Workspace.Dir))
}
