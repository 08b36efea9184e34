package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
)

// FileStore implements file-based snapshot storage for CLI/desktop usage.
// Each scene's record is a file in a hash-distributed directory layout.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store rooted at dir.
// The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get retrieves a scene's record. A missing file is a miss, not an error.
func (s *FileStore) Get(ctx context.Context, sceneID string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(sceneID))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a scene's record.
func (s *FileStore) Set(ctx context.Context, sceneID string, data []byte) error {
	path := s.path(sceneID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Delete removes a scene's record. Missing files are ignored.
func (s *FileStore) Delete(ctx context.Context, sceneID string) error {
	err := os.Remove(s.path(sceneID))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path converts a scene ID to a file path. The first two hash characters
// become a subdirectory to avoid too many files in one dir.
func (s *FileStore) path(sceneID string) string {
	sum := sha256.Sum256([]byte(sceneID))
	h := hex.EncodeToString(sum[:])
	return filepath.Join(s.dir, h[:2], h[2:]+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
