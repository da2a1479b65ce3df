package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out := bytes.NewBufferString("")
	cmd := newRootCmd(dir)
	cmd.SetOut(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	require.NoError(t, err)
	return out.String()
}

func TestEndToEndInitAddCommitStatusLog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	out := runCmd(t, dir, "init")
	assert.Contains(t, out, "Initialized empty lumen repository")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	runCmd(t, dir, "add", "README.md")

	summary := runCmd(t, dir, "commit", "-m", "initial commit")
	assert.Contains(t, summary, "root commit")

	status := runCmd(t, dir, "status", "--porcelain")
	assert.Empty(t, status)

	log := runCmd(t, dir, "log", "--oneline")
	assert.Contains(t, log, "initial commit")
}

func TestEndToEndDiffAndRestore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runCmd(t, dir, "init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("old\n"), 0o644))
	runCmd(t, dir, "add", "a.txt")
	runCmd(t, dir, "commit", "-m", "first")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("new\n"), 0o644))

	diffOut := runCmd(t, dir, "diff")
	assert.Contains(t, diffOut, "-old")
	assert.Contains(t, diffOut, "+new")

	runCmd(t, dir, "restore", "a.txt")
	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(content))
}

func TestEndToEndBranchAndRevParse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runCmd(t, dir, "init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	runCmd(t, dir, "add", "a.txt")
	runCmd(t, dir, "commit", "-m", "first")

	runCmd(t, dir, "branch", "feature")

	head := runCmd(t, dir, "rev-parse", "HEAD")
	feature := runCmd(t, dir, "rev-parse", "feature")
	assert.Equal(t, head, feature)
}

func TestEndToEndSwitchPlan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runCmd(t, dir, "init")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	runCmd(t, dir, "add", "a.txt")
	runCmd(t, dir, "commit", "-m", "first")
	runCmd(t, dir, "branch", "feature")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0o644))
	runCmd(t, dir, "add", "b.txt")
	runCmd(t, dir, "commit", "-m", "second")

	plan := runCmd(t, dir, "switch", "--plan", "feature")
	assert.Contains(t, plan, "delete b.txt")
}
