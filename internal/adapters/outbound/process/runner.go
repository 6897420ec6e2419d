package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/openkraft/autograder/internal/domain"
)

// waitDelay bounds how long Wait keeps draining pipes after the process is
// killed, so a background child holding stdout cannot stall cancellation.
const waitDelay = 2 * time.Second

// ExecRunner implements domain.ProcessRunner with os/exec.
// A zero timeout waits for the process indefinitely.
type ExecRunner struct {
	timeout time.Duration
}

func New(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run starts cmd in workDir and blocks until it exits. Stdout and stderr
// share one buffer, so the captured text keeps the order bytes arrived in.
func (r *ExecRunner) Run(ctx context.Context, cmd domain.Command, workDir string) (domain.ProcessResult, error) {
	if cmd.Name == "" {
		return domain.ProcessResult{}, &domain.LaunchError{Command: cmd.String(), Err: errors.New("empty command")}
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	c.Dir = workDir
	var out bytes.Buffer
	c.Stdout = &out
	c.Stderr = &out
	c.WaitDelay = waitDelay

	if err := c.Start(); err != nil {
		return domain.ProcessResult{}, &domain.LaunchError{Command: cmd.String(), Err: err}
	}

	err := c.Wait()
	result := domain.ProcessResult{Output: out.String()}
	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		result.TimedOut = true
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return result, fmt.Errorf("waiting for %s: %w", cmd.Name, err)
}
