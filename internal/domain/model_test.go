package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/openkraft/autograder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubricScore_TotalIsSum(t *testing.T) {
	tests := []struct {
		score domain.RubricScore
		total int
	}{
		{domain.RubricScore{}, 0},
		{domain.RubricScore{Correctness: 20}, 20},
		{domain.RubricScore{CodeStyle: 20, LogicDesign: 20}, 40},
		{domain.RubricScore{Correctness: 20, CodeStyle: 20, Documentation: 20, FileHandling: 20, LogicDesign: 20}, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.total, tt.score.Total(), "%+v", tt.score)
	}
}

func TestRubricScore_JSONIncludesTotal(t *testing.T) {
	data, err := json.Marshal(domain.RubricScore{CodeStyle: 20, FileHandling: 20})
	require.NoError(t, err)

	var out map[string]int
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 20, out["code_style"])
	assert.Equal(t, 0, out["correctness"])
	assert.Equal(t, 40, out["total"])
}

func TestProcessResult_Succeeded(t *testing.T) {
	assert.True(t, domain.ProcessResult{ExitCode: 0}.Succeeded())
	assert.False(t, domain.ProcessResult{ExitCode: 1}.Succeeded())
	assert.False(t, domain.ProcessResult{ExitCode: 0, TimedOut: true}.Succeeded())
}

func TestCommand_String(t *testing.T) {
	cmd := domain.Command{Name: "java", Args: []string{"-cp", "/tmp/src", "Main"}}
	assert.Equal(t, "java -cp /tmp/src Main", cmd.String())
	assert.Equal(t, "javac", domain.Command{Name: "javac"}.String())
}

func TestBatchResult_Summary(t *testing.T) {
	batch := &domain.BatchResult{
		Reports: []domain.GradeReport{
			{Status: domain.StatusGraded, Rubric: &domain.RubricScore{CodeStyle: 20, LogicDesign: 20}},
			{Status: domain.StatusGraded, Rubric: &domain.RubricScore{Correctness: 20, CodeStyle: 20, Documentation: 20, FileHandling: 20, LogicDesign: 20}},
			{Status: domain.StatusCompileFailed},
			{Status: domain.StatusExecuteFailed},
			{Status: domain.StatusToolError},
		},
	}

	s := batch.Summary()
	assert.Equal(t, 5, s.Units)
	assert.Equal(t, 2, s.Graded)
	assert.Equal(t, 1, s.CompileFailed)
	assert.Equal(t, 1, s.ExecuteFailed)
	assert.Equal(t, 1, s.ToolErrors)
	assert.InDelta(t, 70.0, s.AverageTotal, 0.001)
}

func TestBatchResult_SummaryEmpty(t *testing.T) {
	s := (&domain.BatchResult{}).Summary()
	assert.Equal(t, domain.BatchSummary{}, s)
}

func TestGradeReport_TotalWithoutRubric(t *testing.T) {
	assert.Equal(t, 0, domain.GradeReport{Status: domain.StatusCompileFailed}.Total())
}
