package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/autograder/internal/adapters/outbound/scanner"
	"github.com/openkraft/autograder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../../../testdata/submissions"

func TestFileScanner_Discover(t *testing.T) {
	s := scanner.New()
	units, err := s.Discover(fixtureDir, ".java")
	require.NoError(t, err)

	require.Len(t, units, 2, "nested directories and other extensions are ignored")
	assert.Equal(t, "HelloWorld.java", units[0].File)
	assert.Equal(t, "HelloWorld", units[0].Name)
	assert.Equal(t, "Plain.java", units[1].File)
	assert.Equal(t, "Plain", units[1].Name)

	absDir, _ := filepath.Abs(fixtureDir)
	for _, u := range units {
		assert.Equal(t, absDir, u.Dir)
		assert.Equal(t, filepath.Join(absDir, u.File), u.Path)
		assert.True(t, filepath.IsAbs(u.Path))
	}
}

func TestFileScanner_FilePathUsesParentDirectory(t *testing.T) {
	s := scanner.New()
	units, err := s.Discover(filepath.Join(fixtureDir, "Plain.java"), ".java")
	require.NoError(t, err)
	assert.Len(t, units, 2, "every sibling source file is graded")
}

func TestFileScanner_SortedDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Zeta.java", "Alpha.java", "Mid.java"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("class X {}"), 0644))
	}

	units, err := scanner.New().Discover(dir, ".java")
	require.NoError(t, err)

	var names []string
	for _, u := range units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)
}

func TestFileScanner_IgnoresDirectoriesWithSourceSuffix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Fake.java"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Real.java"), []byte("class Real {}"), 0644))

	units, err := scanner.New().Discover(dir, ".java")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Real", units[0].Name)
}

func TestFileScanner_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print(1)"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.java"), []byte("class Main {}"), 0644))

	units, err := scanner.New().Discover(dir, ".py")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "main", units[0].Name)
}

func TestFileScanner_MissingPath(t *testing.T) {
	_, err := scanner.New().Discover("/nonexistent/path", ".java")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDiscovery)

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "File or directory not found.", de.Reason)
}

func TestFileScanner_NoSourceFiles(t *testing.T) {
	_, err := scanner.New().Discover("../../../../testdata/empty", ".java")

	var de *domain.DiscoveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "No .java files found to compile.", de.Reason)
}

func TestResolveDir(t *testing.T) {
	absDir, _ := filepath.Abs(fixtureDir)

	dir, err := scanner.ResolveDir(fixtureDir)
	require.NoError(t, err)
	assert.Equal(t, absDir, dir)

	dir, err = scanner.ResolveDir(filepath.Join(fixtureDir, "HelloWorld.java"))
	require.NoError(t, err)
	assert.Equal(t, absDir, dir)

	_, err = scanner.ResolveDir("/nonexistent/path")
	assert.Error(t, err)
}
