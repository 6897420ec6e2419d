package domain

import "context"

// ProcessRunner launches an external command and captures its merged output.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command, workDir string) (ProcessResult, error)
}

// SourceDiscoverer finds the units to grade for an input path.
type SourceDiscoverer interface {
	Discover(path, extension string) ([]SourceUnit, error)
}

// ConfigLoader loads grading configuration for a source directory.
type ConfigLoader interface {
	Load(dir string) (GradeConfig, error)
}

// BatchHistory persists a summary line per graded batch.
type BatchHistory interface {
	Save(dir string, entry BatchEntry) error
	Load(dir string) ([]BatchEntry, error)
}

// BatchStore keeps the most recent full batch result.
type BatchStore interface {
	Save(dir string, result *BatchResult) error
	Load(dir string) (*BatchResult, error)
	Invalidate(dir string) error
}

// GitInfo provides version-control metadata for a directory.
type GitInfo interface {
	CommitHash(dir string) (string, error)
}
