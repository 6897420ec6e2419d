package application_test

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/openkraft/autograder/internal/domain"
)

const fixtureDir = "../../testdata/submissions"

// fakeRunner answers toolchain invocations from a script keyed on the
// program name ("javac" or "java") and the unit name.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []domain.Command
	script func(program, unit string) (domain.ProcessResult, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd domain.Command, workDir string) (domain.ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.ProcessResult{}, err
	}
	return f.script(cmd.Name, unitOf(cmd))
}

func (f *fakeRunner) Calls() []domain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Command(nil), f.calls...)
}

// unitOf extracts the unit name from "javac <path>" or "java -cp <dir> <name>".
func unitOf(cmd domain.Command) string {
	if len(cmd.Args) == 0 {
		return ""
	}
	last := cmd.Args[len(cmd.Args)-1]
	base := filepath.Base(last)
	return base[:len(base)-len(filepath.Ext(base))]
}

func ok(output string) (domain.ProcessResult, error) {
	return domain.ProcessResult{ExitCode: 0, Output: output}, nil
}

func fail(code int, output string) (domain.ProcessResult, error) {
	return domain.ProcessResult{ExitCode: code, Output: output}, nil
}

// alwaysPasses compiles everything and prints the default expected output.
func alwaysPasses(program, _ string) (domain.ProcessResult, error) {
	if program == "java" {
		return ok(domain.DefaultExpectedOutput + "\n")
	}
	return ok("")
}

// staticDiscoverer returns fixed units.
type staticDiscoverer struct {
	units []domain.SourceUnit
	err   error
}

func (d staticDiscoverer) Discover(string, string) ([]domain.SourceUnit, error) {
	return d.units, d.err
}
