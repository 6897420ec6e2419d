package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/autograder/internal/domain"
)

const historyFile = ".autograder/history/batches.json"

// FileHistory implements domain.BatchHistory as a JSON array stored next
// to the graded submissions.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

// Save appends entry to the history of dir.
func (h *FileHistory) Save(dir string, entry domain.BatchEntry) error {
	entries, err := h.Load(dir)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	fp := filepath.Join(dir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return os.Rename(tmp, fp)
}

// Load returns every recorded batch for dir, oldest first. A missing
// history is empty, not an error.
func (h *FileHistory) Load(dir string) ([]domain.BatchEntry, error) {
	data, err := os.ReadFile(filepath.Join(dir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.BatchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}
	return entries, nil
}
