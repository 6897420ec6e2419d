package application_test

import (
	"errors"
	"testing"

	"github.com/openkraft/autograder/internal/adapters/outbound/cache"
	"github.com/openkraft/autograder/internal/adapters/outbound/history"
	"github.com/openkraft/autograder/internal/application"
	"github.com/openkraft/autograder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	hash string
	err  error
}

func (g fakeGit) CommitHash(string) (string, error) { return g.hash, g.err }

type brokenHistory struct{}

func (brokenHistory) Save(string, domain.BatchEntry) error     { return errors.New("disk full") }
func (brokenHistory) Load(string) ([]domain.BatchEntry, error) { return nil, nil }

func sampleResult(dir string) *domain.BatchResult {
	return &domain.BatchResult{
		ID:   "batch-1",
		Root: dir,
		Reports: []domain.GradeReport{
			{Unit: domain.SourceUnit{File: "A.java"}, Status: domain.StatusGraded, Rubric: &domain.RubricScore{Correctness: 20, CodeStyle: 20}},
			{Unit: domain.SourceUnit{File: "B.java"}, Status: domain.StatusCompileFailed},
		},
	}
}

func TestRecordService_RecordAndRead(t *testing.T) {
	dir := t.TempDir()
	svc := application.NewRecordService(history.New(), cache.New(), fakeGit{hash: "abc1234"})

	entry, err := svc.Record(sampleResult(dir))
	require.NoError(t, err)
	assert.Equal(t, "batch-1", entry.BatchID)
	assert.Equal(t, "abc1234", entry.CommitHash)
	assert.Equal(t, 1, entry.Summary.Graded)
	assert.Equal(t, 1, entry.Summary.CompileFailed)
	assert.Equal(t, 40.0, entry.Summary.AverageTotal)

	entries, err := svc.History(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	last, err := svc.LastBatch(dir)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(dir), last)

	require.NoError(t, svc.Forget(dir))
	last, err = svc.LastBatch(dir)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRecordService_NoGitRepo(t *testing.T) {
	dir := t.TempDir()
	svc := application.NewRecordService(history.New(), cache.New(), fakeGit{err: errors.New("not a repo")})

	entry, err := svc.Record(sampleResult(dir))
	require.NoError(t, err)
	assert.Empty(t, entry.CommitHash)
}

func TestRecordService_HistoryFailureStillStoresBatch(t *testing.T) {
	dir := t.TempDir()
	store := cache.New()
	svc := application.NewRecordService(brokenHistory{}, store, fakeGit{})

	_, err := svc.Record(sampleResult(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	last, err := store.Load(dir)
	require.NoError(t, err)
	assert.NotNil(t, last)
}

func TestRecordService_RequiresRoot(t *testing.T) {
	svc := application.NewRecordService(history.New(), cache.New(), fakeGit{})
	_, err := svc.Record(&domain.BatchResult{ID: "x"})
	assert.Error(t, err)
}
