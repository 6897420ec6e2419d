package process_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openkraft/autograder/internal/adapters/outbound/process"
	"github.com/openkraft/autograder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sh(script string) domain.Command {
	return domain.Command{Name: "sh", Args: []string{"-c", script}}
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	r := process.New(0)

	res, err := r.Run(context.Background(), sh("echo hello"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "hello\n", res.Output)
}

func TestExecRunner_MergesStdoutAndStderrInOrder(t *testing.T) {
	r := process.New(0)

	res, err := r.Run(context.Background(), sh("echo one; echo two 1>&2; echo three"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", res.Output)
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	r := process.New(0)

	res, err := r.Run(context.Background(), sh("echo boom 1>&2; exit 3"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Succeeded())
	assert.Equal(t, "boom\n", res.Output)
}

func TestExecRunner_UsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("here"), 0644))
	r := process.New(0)

	res, err := r.Run(context.Background(), domain.Command{Name: "cat", Args: []string{"marker.txt"}}, dir)
	require.NoError(t, err)
	assert.Equal(t, "here", res.Output)
}

func TestExecRunner_DrainsLargeOutput(t *testing.T) {
	r := process.New(0)

	res, err := r.Run(context.Background(), sh("i=0; while [ $i -lt 20000 ]; do echo line$i; i=$((i+1)); done"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 20000, strings.Count(res.Output, "\n"))
	assert.True(t, strings.HasSuffix(res.Output, "line19999\n"))
}

func TestExecRunner_MissingExecutableIsLaunchError(t *testing.T) {
	r := process.New(0)

	_, err := r.Run(context.Background(), domain.Command{Name: "definitely-not-a-real-tool-xyz"}, t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLaunch)

	var le *domain.LaunchError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "definitely-not-a-real-tool-xyz", le.Command)
}

func TestExecRunner_MissingWorkDirIsLaunchError(t *testing.T) {
	r := process.New(0)

	_, err := r.Run(context.Background(), sh("true"), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrLaunch)
}

func TestExecRunner_EmptyCommandIsLaunchError(t *testing.T) {
	r := process.New(0)

	_, err := r.Run(context.Background(), domain.Command{}, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrLaunch)
}

func TestExecRunner_Timeout(t *testing.T) {
	r := process.New(100 * time.Millisecond)

	start := time.Now()
	res, err := r.Run(context.Background(), sh("echo started; sleep 10"), t.TempDir())
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.False(t, res.Succeeded())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunner_ParentCancellation(t *testing.T) {
	r := process.New(0)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, domain.Command{Name: "sleep", Args: []string{"10"}}, t.TempDir())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunner_CancellationWithBackgroundChild(t *testing.T) {
	r := process.New(0)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)

	start := time.Now()
	_, err := r.Run(ctx, sh("sleep 5 & wait"), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 4*time.Second, "a child holding stdout must not stall cancellation")
}
