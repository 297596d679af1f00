package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, cfg Config, rebuild RebuildFunc) context.CancelFunc {
	t.Helper()
	w, err := New(cfg, rebuild)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	return cancel
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Dirs: []string{t.TempDir()}}, nil)
	require.Error(t, err)
	_, err = New(Config{}, func(context.Context) error { return nil })
	require.Error(t, err)
	_, err = New(Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestBuildOnStart(t *testing.T) {
	var builds atomic.Int32
	startWatcher(t, Config{Dirs: []string{t.TempDir()}, BuildOnStart: true}, func(context.Context) error {
		builds.Add(1)
		return nil
	})
	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	startWatcher(t, Config{Dirs: []string{dir}, QuietWindow: 200 * time.Millisecond}, func(context.Context) error {
		builds.Add(1)
		return nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte{byte(i)}, 0o644))
	}
	require.Eventually(t, func() bool { return builds.Load() == 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	require.Equal(t, int32(1), builds.Load())
}

func TestIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	startWatcher(t, Config{Dirs: []string{dir}, QuietWindow: 50 * time.Millisecond}, func(context.Context) error {
		builds.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.Zero(t, builds.Load())
}

func TestWatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	startWatcher(t, Config{Dirs: []string{dir}, QuietWindow: 50 * time.Millisecond}, func(context.Context) error {
		builds.Add(1)
		return nil
	})

	sub := filepath.Join(dir, "com", "example")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// Give the watcher time to register the new directories.
	time.Sleep(200 * time.Millisecond)
	builds.Store(0)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "B.java"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)
}

func TestExcludedDirectoriesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(out, 0o755))
	var builds atomic.Int32
	startWatcher(t, Config{Dirs: []string{dir}, Exclude: []string{out}, QuietWindow: 50 * time.Millisecond}, func(context.Context) error {
		builds.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(out, "Gen.java"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.Zero(t, builds.Load())
}

func TestChangeDuringBuildQueuesOneFollowUp(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	release := make(chan struct{})
	startWatcher(t, Config{Dirs: []string{dir}, QuietWindow: 30 * time.Millisecond}, func(ctx context.Context) error {
		if builds.Add(1) == 1 {
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte("1"), 0o644))
	require.Eventually(t, func() bool { return builds.Load() == 1 }, 3*time.Second, 10*time.Millisecond)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "A.java"), []byte{byte(i)}, 0o644))
		time.Sleep(60 * time.Millisecond)
	}
	close(release)

	require.Eventually(t, func() bool { return builds.Load() == 2 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(2), builds.Load())
}
