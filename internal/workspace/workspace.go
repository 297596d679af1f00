package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// DefaultPersistentSubdir is used when NewPersistentManager gets no subdir.
const DefaultPersistentSubdir = "classes"

// Manager handles workspace operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a workspace manager with ephemeral per-build directories.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a workspace manager that uses baseDir/subdir
// and never removes it.
func NewPersistentManager(baseDir, subdir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdir == "" {
		subdir = DefaultPersistentSubdir
	}
	return &Manager{
		baseDir:    baseDir,
		dir:        filepath.Join(baseDir, subdir),
		persistent: true,
	}
}

// Create makes the workspace directory. buildID names the ephemeral
// directory and is ignored in persistent mode.
func (m *Manager) Create(buildID string) error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fsError("failed to create persistent workspace", m.dir, err)
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fsError("failed to create workspace base", m.baseDir, err)
	}
	dir, err := os.MkdirTemp(m.baseDir, fmt.Sprintf("droidbuild-%s-", buildID))
	if err != nil {
		return fsError("failed to create workspace directory", m.baseDir, err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir), logfields.BuildID(buildID))
	return nil
}

// Path returns the workspace directory, or "" before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Reset removes everything inside the workspace but keeps the directory.
func (m *Manager) Reset() error {
	if m.dir == "" {
		return dberrors.InternalError("workspace not created").Build()
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fsError("failed to read workspace", m.dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(m.dir, e.Name())); err != nil {
			return fsError("failed to reset workspace", m.dir, err)
		}
	}
	return nil
}

// Cleanup removes an ephemeral workspace; persistent ones are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		slog.Debug("Keeping persistent workspace", logfields.Path(m.dir))
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fsError("failed to clean up workspace", m.dir, err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// CreateSubdir creates a subdirectory within the workspace.
func (m *Manager) CreateSubdir(name string) (string, error) {
	if m.dir == "" {
		return "", dberrors.InternalError("workspace not created").Build()
	}
	sub := filepath.Join(m.dir, name)
	if err := os.MkdirAll(sub, 0o750); err != nil {
		return "", fsError("failed to create workspace subdirectory", sub, err)
	}
	return sub, nil
}

func fsError(msg, path string, err error) error {
	return dberrors.FileSystemError(msg).WithCause(err).WithContext(logfields.KeyPath, path).Build()
}
