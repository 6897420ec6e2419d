// Package rubric scores a unit against the fixed five-criterion rubric.
// It is pure domain logic: it receives source text and captured output and
// returns a score with no I/O.
package rubric

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/openkraft/autograder/internal/domain"
)

// Criterion describes one rubric line.
type Criterion struct {
	Key  string
	Name string
}

// Label is the human-readable name used in reports, e.g. "Code Style".
func (c Criterion) Label() string {
	return strings.Join(camelcase.Split(c.Name), " ")
}

// Criteria lists the rubric in report order.
var Criteria = []Criterion{
	{Key: domain.CriterionCorrectness, Name: "Correctness"},
	{Key: domain.CriterionCodeStyle, Name: "CodeStyle"},
	{Key: domain.CriterionDocumentation, Name: "Documentation"},
	{Key: domain.CriterionFileHandling, Name: "FileHandling"},
	{Key: domain.CriterionLogicDesign, Name: "LogicDesign"},
}

// Markers maps a text criterion to the literals that satisfy it.
type Markers map[string][]string

// DefaultMarkers returns the stock marker set.
func DefaultMarkers() Markers {
	return Markers{
		domain.CriterionCodeStyle:     {";"},
		domain.CriterionDocumentation: {"/**"},
		domain.CriterionFileHandling:  {"File", "BufferedReader"},
		domain.CriterionLogicDesign:   {"if", "while"},
	}
}

// WithOverrides returns a copy of m where each overridden criterion's
// markers are replaced entirely.
func (m Markers) WithOverrides(overrides map[string][]string) Markers {
	out := make(Markers, len(m))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		if len(v) > 0 {
			out[k] = v
		}
	}
	return out
}

// Evaluate scores source and output. Every criterion is independent and
// binary.
func Evaluate(source, output, expected string, markers Markers) domain.RubricScore {
	lines := splitLines(source)
	return domain.RubricScore{
		Correctness:   scoreCorrectness(output, expected),
		CodeStyle:     scoreMarkers(lines, markers[domain.CriterionCodeStyle]),
		Documentation: scoreMarkers(lines, markers[domain.CriterionDocumentation]),
		FileHandling:  scoreMarkers(lines, markers[domain.CriterionFileHandling]),
		LogicDesign:   scoreMarkers(lines, markers[domain.CriterionLogicDesign]),
	}
}

// Value returns the score of the criterion identified by key.
func Value(s domain.RubricScore, key string) int {
	switch key {
	case domain.CriterionCorrectness:
		return s.Correctness
	case domain.CriterionCodeStyle:
		return s.CodeStyle
	case domain.CriterionDocumentation:
		return s.Documentation
	case domain.CriterionFileHandling:
		return s.FileHandling
	case domain.CriterionLogicDesign:
		return s.LogicDesign
	default:
		return 0
	}
}

// FormatBlock renders the rubric block reported for one file.
func FormatBlock(file string, s domain.RubricScore) []string {
	lines := make([]string, 0, len(Criteria)+2)
	lines = append(lines, fmt.Sprintf("Rubric Results for %s:", file))
	for _, c := range Criteria {
		lines = append(lines, fmt.Sprintf("%s: %d/%d", c.Label(), Value(s, c.Key), domain.CriterionPoints))
	}
	lines = append(lines, fmt.Sprintf("Total Score: %d/%d", s.Total(), domain.MaxTotal))
	return lines
}

func scoreCorrectness(output, expected string) int {
	if strings.TrimSpace(output) == strings.TrimSpace(expected) {
		return domain.CriterionPoints
	}
	return 0
}

// scoreMarkers awards full points on the first line containing any marker.
func scoreMarkers(lines, markers []string) int {
	for _, line := range lines {
		for _, m := range markers {
			if strings.Contains(line, m) {
				return domain.CriterionPoints
			}
		}
	}
	return 0
}

func splitLines(source string) []string {
	return strings.FieldsFunc(source, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}
