package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultExpectedOutput is the correctness reference used when no
// assignment supplies one.
const DefaultExpectedOutput = "Expected Output Here"

const (
	DefaultExtension       = ".java"
	DefaultCompileTemplate = "javac {source}"
	DefaultRunTemplate     = "java -cp {dir} {name}"
)

// Criterion keys used in configuration and JSON output.
const (
	CriterionCorrectness   = "correctness"
	CriterionCodeStyle     = "code_style"
	CriterionDocumentation = "documentation"
	CriterionFileHandling  = "file_handling"
	CriterionLogicDesign   = "logic_design"
)

// ValidCriteria enumerates all rubric criteria in report order.
var ValidCriteria = []string{
	CriterionCorrectness,
	CriterionCodeStyle,
	CriterionDocumentation,
	CriterionFileHandling,
	CriterionLogicDesign,
}

// GradeConfig holds grading configuration loaded from .autograder.yaml.
type GradeConfig struct {
	Extension       string            `yaml:"extension"        json:"extension,omitempty"`
	Toolchain       Toolchain         `yaml:"toolchain"        json:"toolchain"`
	Timeout         time.Duration     `yaml:"timeout"          json:"timeout,omitempty"`
	ExpectedOutput  string            `yaml:"expected_output"  json:"expected_output,omitempty"`
	ExpectedFile    string            `yaml:"expected_file"    json:"expected_file,omitempty"`
	ExpectedOutputs map[string]string `yaml:"expected_outputs" json:"expected_outputs,omitempty"`
	Rubric          RubricConfig      `yaml:"rubric"           json:"rubric,omitempty"`
	MinTotal        int               `yaml:"min_total"        json:"min_total,omitempty"`
}

// Toolchain holds the compile and run command templates. Templates may use
// {source}, {dir}, {name} and {file}.
type Toolchain struct {
	Compile string `yaml:"compile" json:"compile,omitempty"`
	Run     string `yaml:"run"     json:"run,omitempty"`
}

// RubricConfig overrides the literal markers of the text criteria.
type RubricConfig struct {
	Markers map[string][]string `yaml:"markers" json:"markers,omitempty"`
}

// DefaultConfig returns the stock Java toolchain with the placeholder
// expected output.
func DefaultConfig() GradeConfig {
	return GradeConfig{
		Extension: DefaultExtension,
		Toolchain: Toolchain{
			Compile: DefaultCompileTemplate,
			Run:     DefaultRunTemplate,
		},
	}
}

// WithDefaults fills every unset field from DefaultConfig.
func (c GradeConfig) WithDefaults() GradeConfig {
	d := DefaultConfig()
	if c.Extension == "" {
		c.Extension = d.Extension
	}
	if c.Toolchain.Compile == "" {
		c.Toolchain.Compile = d.Toolchain.Compile
	}
	if c.Toolchain.Run == "" {
		c.Toolchain.Run = d.Toolchain.Run
	}
	return c
}

// ExpectedFor returns the correctness reference for a unit name.
// An empty reference counts as unset.
func (c GradeConfig) ExpectedFor(unitName string) string {
	if v, ok := c.ExpectedOutputs[unitName]; ok && v != "" {
		return v
	}
	if c.ExpectedOutput != "" {
		return c.ExpectedOutput
	}
	return DefaultExpectedOutput
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c GradeConfig) Validate() error {
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", c.Extension)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout %s must not be negative", c.Timeout)
	}

	if c.MinTotal < 0 || c.MinTotal > MaxTotal {
		return fmt.Errorf("min_total = %d (must be between 0 and %d)", c.MinTotal, MaxTotal)
	}

	for k, markers := range c.Rubric.Markers {
		if !isValidCriterion(k) {
			return fmt.Errorf("unknown criterion %q in rubric.markers", k)
		}
		if k == CriterionCorrectness {
			return fmt.Errorf("criterion %q compares output and takes no markers", k)
		}
		if len(markers) == 0 {
			return fmt.Errorf("rubric.markers[%q] must list at least one marker", k)
		}
		for _, m := range markers {
			if m == "" {
				return fmt.Errorf("rubric.markers[%q] contains an empty marker", k)
			}
		}
	}

	return nil
}

func isValidCriterion(name string) bool {
	for _, c := range ValidCriteria {
		if c == name {
			return true
		}
	}
	return false
}
