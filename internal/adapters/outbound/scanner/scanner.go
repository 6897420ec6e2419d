package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/autograder/internal/domain"
)

const reasonNotFound = "File or directory not found."

// FileScanner implements domain.SourceDiscoverer by listing one directory.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// ResolveDir returns the directory graded for path: path itself when it is
// a directory, otherwise its parent.
func ResolveDir(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return absPath, nil
	}
	return filepath.Dir(absPath), nil
}

// Discover lists every regular file in the graded directory whose name ends
// with extension. Subdirectories are not descended into. Units come back
// sorted by file name.
func (s *FileScanner) Discover(path, extension string) ([]domain.SourceUnit, error) {
	dir, err := ResolveDir(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &domain.DiscoveryError{Path: path, Reason: reasonNotFound}
		}
		return nil, &domain.DiscoveryError{Path: path, Reason: "Cannot access path.", Err: err}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.DiscoveryError{Path: dir, Reason: "Cannot read directory.", Err: err}
	}

	var units []domain.SourceUnit
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		if !e.Type().IsRegular() && e.Type()&os.ModeSymlink == 0 {
			continue
		}
		units = append(units, domain.SourceUnit{
			Path: filepath.Join(dir, e.Name()),
			Dir:  dir,
			File: e.Name(),
			Name: strings.TrimSuffix(e.Name(), extension),
		})
	}

	if len(units) == 0 {
		return nil, &domain.DiscoveryError{
			Path:   dir,
			Reason: fmt.Sprintf("No %s files found to compile.", extension),
		}
	}

	return units, nil
}
