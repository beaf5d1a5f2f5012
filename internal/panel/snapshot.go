package panel

import (
	"fmt"
	"os"
	"path/filepath"
)

const snapshotFile = "panel.json"

// SnapshotStore keeps the last rendered message on disk so a restarted
// panel can repaint before the first recomputation. It is never read as
// the source of truth.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore stores snapshots in dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// DefaultSnapshotDir returns the jmbglens directory under the user cache dir.
func DefaultSnapshotDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "jmbglens"), nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return filepath.Join(s.dir, snapshotFile)
}

// Save replaces the snapshot with data.
func (s *SnapshotStore) Save(data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, snapshotFile+".*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load returns the saved snapshot, or nil if there is none.
func (s *SnapshotStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}
