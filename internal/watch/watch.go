// Package watch rebuilds when Java sources change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// DefaultQuietWindow is how long the tree must be quiet before a rebuild.
const DefaultQuietWindow = 300 * time.Millisecond

// RebuildFunc runs one build. Its error is logged and watching continues.
type RebuildFunc func(ctx context.Context) error

// Config controls a Watcher.
type Config struct {
	// Dirs are watched recursively.
	Dirs []string
	// Exclude lists directories that are never watched, typically build outputs.
	Exclude []string
	// Extensions that trigger a rebuild; defaults to .java.
	Extensions []string
	// QuietWindow debounces bursts of events.
	QuietWindow time.Duration
	// BuildOnStart runs one build before the first event.
	BuildOnStart bool
}

// Watcher coalesces file events into rebuilds. A change during a running
// build queues exactly one follow-up build.
type Watcher struct {
	cfg     Config
	rebuild RebuildFunc
	fsw     *fsnotify.Watcher
}

// New creates a Watcher. Call Run to start watching.
func New(cfg Config, rebuild RebuildFunc) (*Watcher, error) {
	if rebuild == nil {
		return nil, dberrors.ValidationError("rebuild function is required").Build()
	}
	if len(cfg.Dirs) == 0 {
		return nil, dberrors.ValidationError("at least one directory to watch is required").Build()
	}
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = DefaultQuietWindow
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".java"}
	}
	exclude := make([]string, 0, len(cfg.Exclude))
	for _, d := range cfg.Exclude {
		if d == "" {
			continue
		}
		if abs, err := filepath.Abs(d); err == nil {
			d = abs
		}
		exclude = append(exclude, d)
	}
	cfg.Exclude = exclude

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, dberrors.RuntimeError("failed to create file watcher").WithCause(err).Build()
	}
	w := &Watcher{cfg: cfg, rebuild: rebuild, fsw: fsw}
	for _, d := range cfg.Dirs {
		if err := w.addTree(d); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return dberrors.FileSystemError("failed to watch directory").
				WithCause(err).WithContext(logfields.KeyPath, p).Build()
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.skipDir(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return dberrors.FileSystemError("failed to watch directory").
				WithCause(err).WithContext(logfields.KeyPath, p).Build()
		}
		slog.Debug("Watching directory", logfields.Path(p))
		return nil
	})
}

func (w *Watcher) skipDir(p string) bool {
	if strings.HasPrefix(filepath.Base(p), ".") {
		return true
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	return slices.Contains(w.cfg.Exclude, abs)
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return slices.Contains(w.cfg.Extensions, filepath.Ext(ev.Name))
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	var (
		timer    *time.Timer
		timerC   <-chan time.Time
		running  bool
		followUp bool
		done     = make(chan error, 1)
	)
	start := func() {
		running = true
		go func() { done <- w.rebuild(ctx) }()
	}
	if w.cfg.BuildOnStart {
		start()
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			if running {
				<-done
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !w.skipDir(ev.Name) {
					if err := w.addTree(ev.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Error(err))
					}
				}
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("Source change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.cfg.QuietWindow)
			timerC = timer.C

		case <-timerC:
			timer, timerC = nil, nil
			if running {
				followUp = true
				continue
			}
			start()

		case err := <-done:
			running = false
			if err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
			if followUp {
				followUp = false
				start()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}
