package submission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ResultStore abstracts blob storage for archived assessment results.
type ResultStore interface {
	PutResult(ctx context.Context, userID, resultID string, data []byte) error
	GetResult(ctx context.Context, userID, resultID string) ([]byte, error)
}

// ErrBlobNotFound is returned by LocalStorage when no archive exists.
var ErrBlobNotFound = errors.New("result archive not found")

// LocalStorage implements ResultStore using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(userID, resultID string) string {
	return filepath.Join(s.BaseDir, userID, "results", resultID+".json")
}

// PutResult stores a result archive.
func (s *LocalStorage) PutResult(ctx context.Context, userID, resultID string, data []byte) error {
	path := s.path(userID, resultID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetResult retrieves a result archive.
func (s *LocalStorage) GetResult(ctx context.Context, userID, resultID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(userID, resultID))
	if os.IsNotExist(err) {
		return nil, ErrBlobNotFound
	}
	return data, err
}

// objectKey is the blob key shared by the object-store backends.
func objectKey(userID, resultID string) string {
	return "users/" + userID + "/results/" + resultID + ".json"
}
