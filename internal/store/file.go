package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spec-kit/support-desk/pkg/util"
)

// FileStore persists the snapshot as a single JSON document on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a store rooted at the given file path, creating the
// parent directory when necessary.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, util.NewInternalError(fmt.Errorf("create store directory: %w", err))
		}
	}
	return &FileStore{path: path}, nil
}

// Load reads the snapshot file, initializing empty collections when the file
// does not exist yet.
func (f *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, util.NewInternalError(fmt.Errorf("read snapshot: %w", err))
	}

	snapshot := &Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, util.NewInternalError(fmt.Errorf("decode snapshot: %w", err))
	}
	snapshot.normalize()
	return snapshot, nil
}

// Persist overwrites the snapshot file. The document is written to a temp
// file and renamed into place so the last successful write is never torn.
func (f *FileStore) Persist(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return util.NewInternalError(fmt.Errorf("encode snapshot: %w", err))
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return util.NewInternalError(fmt.Errorf("write snapshot: %w", err))
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return util.NewInternalError(fmt.Errorf("replace snapshot: %w", err))
	}
	return nil
}

// Ping verifies the store directory is reachable.
func (f *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(f.path)); err != nil {
		return err
	}
	return nil
}
