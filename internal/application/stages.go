package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/openkraft/autograder/internal/domain"
)

// Template placeholders substituted per argument.
const (
	placeholderSource = "{source}"
	placeholderDir    = "{dir}"
	placeholderName   = "{name}"
	placeholderFile   = "{file}"
)

// CommandTemplate is a tokenized toolchain command.
type CommandTemplate []string

// ParseTemplate splits a command template with shell quoting rules.
// Splitting happens before substitution, so paths containing spaces stay
// single arguments.
func ParseTemplate(tmpl string) (CommandTemplate, error) {
	fields, err := shlex.Split(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing command template %q: %w", tmpl, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("command template %q is empty", tmpl)
	}
	return CommandTemplate(fields), nil
}

// Expand substitutes the unit's placeholders into every argument.
func (t CommandTemplate) Expand(unit domain.SourceUnit) domain.Command {
	r := strings.NewReplacer(
		placeholderSource, unit.Path,
		placeholderDir, unit.Dir,
		placeholderName, unit.Name,
		placeholderFile, unit.File,
	)
	args := make([]string, 0, len(t)-1)
	for _, a := range t[1:] {
		args = append(args, r.Replace(a))
	}
	return domain.Command{Name: r.Replace(t[0]), Args: args}
}

// Compiler runs the platform compiler on one unit.
type Compiler struct {
	runner   domain.ProcessRunner
	template CommandTemplate
}

func NewCompiler(runner domain.ProcessRunner, template CommandTemplate) *Compiler {
	return &Compiler{runner: runner, template: template}
}

// Compile never fails for a normal compile error; only a tool that cannot
// start returns an error.
func (c *Compiler) Compile(ctx context.Context, unit domain.SourceUnit) (domain.StageOutcome, error) {
	res, err := c.runner.Run(ctx, c.template.Expand(unit), unit.Dir)
	if err != nil {
		return domain.StageOutcome{}, err
	}
	if res.Succeeded() {
		return domain.StageOutcome{Succeeded: true, Message: "Compilation succeeded.", Result: res}, nil
	}
	return domain.StageOutcome{Message: "Compilation Failed:\n" + res.Output, Result: res}, nil
}

// Executor runs a compiled unit. Runtime exceptions are ordinary non-zero
// exits.
type Executor struct {
	runner   domain.ProcessRunner
	template CommandTemplate
}

func NewExecutor(runner domain.ProcessRunner, template CommandTemplate) *Executor {
	return &Executor{runner: runner, template: template}
}

func (e *Executor) Execute(ctx context.Context, unit domain.SourceUnit) (domain.StageOutcome, error) {
	res, err := e.runner.Run(ctx, e.template.Expand(unit), unit.Dir)
	if err != nil {
		return domain.StageOutcome{}, err
	}
	if res.Succeeded() {
		return domain.StageOutcome{Succeeded: true, Message: "Execution succeeded:\n" + res.Output, Result: res}, nil
	}
	return domain.StageOutcome{Message: "Execution Failed:\n" + res.Output, Result: res}, nil
}
