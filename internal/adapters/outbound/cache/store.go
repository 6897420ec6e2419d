package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/autograder/internal/domain"
)

// Store is a file-based implementation of domain.BatchStore. It keeps the
// full result of the most recent batch graded in a directory.
type Store struct{}

// New creates a new file-based batch store.
func New() *Store {
	return &Store{}
}

// Load reads the last batch of dir. Returns (nil, nil) if none was saved.
func (s *Store) Load(dir string) (*domain.BatchResult, error) {
	data, err := os.ReadFile(resultPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var result domain.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Save replaces the stored batch of dir, creating directories as needed.
func (s *Store) Save(dir string, result *domain.BatchResult) error {
	if err := os.MkdirAll(storeDir(dir), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(resultPath(dir), data, 0644)
}

// Invalidate removes the stored batch of dir.
func (s *Store) Invalidate(dir string) error {
	if err := os.Remove(resultPath(dir)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func storeDir(dir string) string {
	return filepath.Join(dir, ".autograder", "cache")
}

func resultPath(dir string) string {
	return filepath.Join(storeDir(dir), "last_batch.json")
}
