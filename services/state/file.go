package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Matheuslarroque/pesquisador-junior/logger"
	pkgerrors "github.com/Matheuslarroque/pesquisador-junior/pkg/errors"
)

// FileStore persists SelectionState as a whole-document JSON file.
type FileStore struct {
	path string
	log  *logger.Logger
}

// NewFileStore creates a file-backed state store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		log:  logger.ForState(),
	}
}

// Load reads the state file. A missing file is the true-first-run case and
// yields the zero state; anything else that prevents reading a valid
// document is fatal, since running against a guessed state would break the
// cross-run dedup guarantees.
func (f *FileStore) Load() (SelectionState, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		f.log.Warn().Str("path", f.path).Msg("state file not found, assuming first run")
		return SelectionState{}, nil
	}
	if err != nil {
		return SelectionState{}, pkgerrors.NewState(fmt.Sprintf("read state file %s", f.path), err)
	}

	var st SelectionState
	if err := json.Unmarshal(raw, &st); err != nil {
		return SelectionState{}, pkgerrors.NewState(fmt.Sprintf("state file %s is corrupt", f.path), err)
	}
	if st.DayIndex < 0 {
		return SelectionState{}, pkgerrors.NewState(fmt.Sprintf("state file %s has negative day_index", f.path), nil)
	}

	return st, nil
}

// Save writes the full document to a temp file in the same directory and
// renames it over the target, so a crashed run never leaves a half-written
// state behind.
func (f *FileStore) Save(st SelectionState) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return pkgerrors.NewState("marshal state", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return pkgerrors.NewState("create temp state file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pkgerrors.NewState("write temp state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewState("close temp state file", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return pkgerrors.NewState(fmt.Sprintf("replace state file %s", f.path), err)
	}

	f.log.Debug().Str("path", f.path).Int("day_index", st.DayIndex).Msg("state persisted")
	return nil
}
