package domain

import "fmt"

// UnitState is a step of the per-unit grading state machine.
type UnitState int

const (
	StatePending UnitState = iota
	StateCompiling
	StateExecuting
	StateEvaluating
	StateCompileFailed
	StateExecuteFailed
	StateGraded
	StateToolError
)

var stateNames = map[UnitState]string{
	StatePending:       "pending",
	StateCompiling:     "compiling",
	StateExecuting:     "executing",
	StateEvaluating:    "evaluating",
	StateCompileFailed: "compile_failed",
	StateExecuteFailed: "execute_failed",
	StateGraded:        "graded",
	StateToolError:     "tool_error",
}

func (s UnitState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// IsTerminal reports whether no further stage runs after s.
func (s UnitState) IsTerminal() bool {
	switch s {
	case StateCompileFailed, StateExecuteFailed, StateGraded, StateToolError:
		return true
	default:
		return false
	}
}

// Status maps a terminal state to its report status. Non-terminal states
// have no status.
func (s UnitState) Status() Status {
	switch s {
	case StateCompileFailed:
		return StatusCompileFailed
	case StateExecuteFailed:
		return StatusExecuteFailed
	case StateGraded:
		return StatusGraded
	case StateToolError:
		return StatusToolError
	default:
		return ""
	}
}

// Transition validates a move between two states.
func Transition(from, to UnitState) error {
	if from.IsTerminal() {
		return fmt.Errorf("unit already finished in state %s", from)
	}
	if to == StateToolError {
		return nil
	}
	if !isAllowedTransition(from, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", from, to)
	}
	return nil
}

func isAllowedTransition(from, to UnitState) bool {
	switch from {
	case StatePending:
		return to == StateCompiling
	case StateCompiling:
		return to == StateCompileFailed || to == StateExecuting
	case StateExecuting:
		return to == StateExecuteFailed || to == StateEvaluating
	case StateEvaluating:
		return to == StateGraded
	default:
		return false
	}
}
