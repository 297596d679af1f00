package validation

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
)

// StateFileName is written next to the build outputs after a successful build.
const StateFileName = ".droidbuild-state.json"

const stateSchemaVersion = 1

// BuildState records what the last successful build consumed and produced.
type BuildState struct {
	SchemaVersion int       `json:"schema_version"`
	BuildID       string    `json:"build_id"`
	ToolVersion   string    `json:"tool_version"`
	Fingerprint   string    `json:"fingerprint"`
	SourceFiles   int       `json:"source_files"`
	ClassFiles    int       `json:"class_files"`
	DexFiles      []string  `json:"dex_files,omitempty"` // relative to the state directory
	FinishedAt    time.Time `json:"finished_at"`
}

// LoadState reads the state file in dir. A missing file yields (nil, nil).
func LoadState(dir string) (*BuildState, error) {
	data, err := os.ReadFile(filepath.Join(dir, StateFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, dberrors.FileSystemError("failed to read build state").WithCause(err).Build()
	}
	var st BuildState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, dberrors.FileSystemError("corrupt build state").WithCause(err).Build()
	}
	return &st, nil
}

// Save writes the state file into dir, replacing any previous one.
func (s *BuildState) Save(dir string) error {
	s.SchemaVersion = stateSchemaVersion
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return dberrors.InternalError("failed to encode build state").WithCause(err).Build()
	}
	tmp := filepath.Join(dir, StateFileName+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return dberrors.FileSystemError("failed to write build state").WithCause(err).Build()
	}
	if err := os.Rename(tmp, filepath.Join(dir, StateFileName)); err != nil {
		return dberrors.FileSystemError("failed to write build state").WithCause(err).Build()
	}
	return nil
}
