package domain_test

import (
	"errors"
	"testing"

	"github.com/openkraft/autograder/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransition_HappyPath(t *testing.T) {
	path := []domain.UnitState{
		domain.StatePending,
		domain.StateCompiling,
		domain.StateExecuting,
		domain.StateEvaluating,
		domain.StateGraded,
	}
	for i := 1; i < len(path); i++ {
		assert.NoError(t, domain.Transition(path[i-1], path[i]), "%s -> %s", path[i-1], path[i])
	}
}

func TestTransition_FailureBranches(t *testing.T) {
	assert.NoError(t, domain.Transition(domain.StateCompiling, domain.StateCompileFailed))
	assert.NoError(t, domain.Transition(domain.StateExecuting, domain.StateExecuteFailed))
}

func TestTransition_ToolErrorFromAnyActiveState(t *testing.T) {
	for _, s := range []domain.UnitState{
		domain.StatePending, domain.StateCompiling, domain.StateExecuting, domain.StateEvaluating,
	} {
		assert.NoError(t, domain.Transition(s, domain.StateToolError), s.String())
	}
}

func TestTransition_Rejected(t *testing.T) {
	tests := []struct {
		from, to domain.UnitState
	}{
		{domain.StatePending, domain.StateExecuting},
		{domain.StateCompiling, domain.StateGraded},
		{domain.StateExecuting, domain.StateCompileFailed},
		{domain.StateEvaluating, domain.StateExecuteFailed},
		{domain.StateGraded, domain.StateCompiling},
		{domain.StateCompileFailed, domain.StateToolError},
	}
	for _, tt := range tests {
		assert.Error(t, domain.Transition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestUnitState_Status(t *testing.T) {
	assert.Equal(t, domain.StatusCompileFailed, domain.StateCompileFailed.Status())
	assert.Equal(t, domain.StatusExecuteFailed, domain.StateExecuteFailed.Status())
	assert.Equal(t, domain.StatusGraded, domain.StateGraded.Status())
	assert.Equal(t, domain.StatusToolError, domain.StateToolError.Status())
	assert.Empty(t, domain.StateExecuting.Status())
	assert.False(t, domain.StateEvaluating.IsTerminal())
}

func TestErrors_Sentinels(t *testing.T) {
	var err error = &domain.LaunchError{Command: "javac A.java", Err: errors.New("not found")}
	assert.ErrorIs(t, err, domain.ErrLaunch)
	assert.NotErrorIs(t, err, domain.ErrDiscovery)
	assert.Contains(t, err.Error(), "javac A.java")

	err = &domain.DiscoveryError{Path: "/nope", Reason: "File or directory not found."}
	assert.ErrorIs(t, err, domain.ErrDiscovery)

	var de *domain.DiscoveryError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, "/nope", de.Path)
}
