package application

import (
	"errors"
	"time"

	"github.com/openkraft/autograder/internal/domain"
)

// RecordService persists finished batches: a summary line in history and
// the full result as the directory's last batch.
type RecordService struct {
	history domain.BatchHistory
	store   domain.BatchStore
	git     domain.GitInfo
	now     func() time.Time
}

func NewRecordService(history domain.BatchHistory, store domain.BatchStore, git domain.GitInfo) *RecordService {
	return &RecordService{history: history, store: store, git: git, now: time.Now}
}

// Record saves result under its root directory. A directory outside a git
// repository is recorded without a commit hash.
func (s *RecordService) Record(result *domain.BatchResult) (domain.BatchEntry, error) {
	entry := domain.BatchEntry{
		Timestamp: s.now().UTC().Format(time.RFC3339),
		BatchID:   result.ID,
		Summary:   result.Summary(),
	}
	if result.Root == "" {
		return entry, errors.New("batch has no root directory")
	}

	if hash, err := s.git.CommitHash(result.Root); err == nil {
		entry.CommitHash = hash
	}

	return entry, errors.Join(
		s.history.Save(result.Root, entry),
		s.store.Save(result.Root, result),
	)
}

// Forget drops the stored last batch of dir.
func (s *RecordService) Forget(dir string) error {
	return s.store.Invalidate(dir)
}

// History returns every recorded batch of dir, oldest first.
func (s *RecordService) History(dir string) ([]domain.BatchEntry, error) {
	return s.history.Load(dir)
}

// LastBatch returns the stored last batch of dir, or nil.
func (s *RecordService) LastBatch(dir string) (*domain.BatchResult, error) {
	return s.store.Load(dir)
}
