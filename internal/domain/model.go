package domain

import (
	"encoding/json"
	"math"
	"strings"
)

// SourceUnit identifies one source file discovered for grading.
type SourceUnit struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
	File string `json:"file"`
	Name string `json:"name"`
}

// Command is an external program invocation.
type Command struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ProcessResult is the outcome of one external invocation. Output holds
// stdout and stderr merged in arrival order.
type ProcessResult struct {
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

func (r ProcessResult) Succeeded() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// StageOutcome is what the compile and execute stages report.
type StageOutcome struct {
	Succeeded bool          `json:"succeeded"`
	Message   string        `json:"message"`
	Result    ProcessResult `json:"result"`
}

// Status is the terminal status of a graded unit.
type Status string

const (
	StatusCompileFailed Status = "compile_failed"
	StatusExecuteFailed Status = "execute_failed"
	StatusGraded        Status = "graded"
	StatusToolError     Status = "tool_error"
)

// CriterionPoints is the score awarded when a rubric criterion is met.
const CriterionPoints = 20

// MaxTotal is the highest possible rubric total.
const MaxTotal = 5 * CriterionPoints

// RubricScore holds the five binary rubric criteria. The total is always
// derived from them.
type RubricScore struct {
	Correctness   int `json:"correctness"`
	CodeStyle     int `json:"code_style"`
	Documentation int `json:"documentation"`
	FileHandling  int `json:"file_handling"`
	LogicDesign   int `json:"logic_design"`
}

func (s RubricScore) Total() int {
	return s.Correctness + s.CodeStyle + s.Documentation + s.FileHandling + s.LogicDesign
}

func (s RubricScore) MarshalJSON() ([]byte, error) {
	type plain RubricScore
	return json.Marshal(struct {
		plain
		Total int `json:"total"`
	}{plain(s), s.Total()})
}

// GradeReport is the record of one unit's trip through the pipeline.
// Compile and Execute are nil when the stage was never reached; Rubric is
// set only for graded units.
type GradeReport struct {
	Unit    SourceUnit    `json:"unit"`
	Status  Status        `json:"status"`
	Compile *StageOutcome `json:"compile,omitempty"`
	Execute *StageOutcome `json:"execute,omitempty"`
	Rubric  *RubricScore  `json:"rubric,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Total returns the rubric total, or 0 for ungraded units.
func (r GradeReport) Total() int {
	if r.Rubric == nil {
		return 0
	}
	return r.Rubric.Total()
}

// BatchResult holds one report per discovered unit, in discovery order.
type BatchResult struct {
	ID      string        `json:"id"`
	Root    string        `json:"root,omitempty"`
	Reports []GradeReport `json:"reports"`
}

// BatchSummary aggregates a batch by terminal status.
type BatchSummary struct {
	Units         int     `json:"units"`
	Graded        int     `json:"graded"`
	CompileFailed int     `json:"compile_failed"`
	ExecuteFailed int     `json:"execute_failed"`
	ToolErrors    int     `json:"tool_errors"`
	AverageTotal  float64 `json:"average_total"`
}

func (b *BatchResult) Summary() BatchSummary {
	s := BatchSummary{Units: len(b.Reports)}
	sum := 0
	for _, r := range b.Reports {
		switch r.Status {
		case StatusGraded:
			s.Graded++
			sum += r.Total()
		case StatusCompileFailed:
			s.CompileFailed++
		case StatusExecuteFailed:
			s.ExecuteFailed++
		case StatusToolError:
			s.ToolErrors++
		}
	}
	if s.Graded > 0 {
		s.AverageTotal = math.Round(float64(sum)/float64(s.Graded)*10) / 10
	}
	return s
}

// BatchEntry is one line of grading history.
type BatchEntry struct {
	Timestamp  string       `json:"timestamp"`
	BatchID    string       `json:"batch_id"`
	CommitHash string       `json:"commit_hash,omitempty"`
	Summary    BatchSummary `json:"summary"`
}
