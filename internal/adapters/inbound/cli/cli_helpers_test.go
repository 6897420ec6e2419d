package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/autograder/internal/adapters/inbound/cli"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../../../testdata/submissions"

// submissionsDir copies the fixture submissions into a temp dir so grading
// output (history, last batch) never lands in testdata.
func submissionsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"HelloWorld.java", "Plain.java", "notes.txt"} {
		data, err := os.ReadFile(filepath.Join(fixtureDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}
	return dir
}

// fakeToolchain swaps javac/java for commands every test machine has.
func fakeToolchain(t *testing.T, compile string) {
	t.Helper()
	t.Setenv("AUTOGRADER_COMPILE", compile)
	t.Setenv("AUTOGRADER_RUN", "echo Expected Output Here")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
