package refs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/refs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGitDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "refs", "heads"), 0o755))
	return dir
}

func someOid(t *testing.T, content string) plumbing.Oid {
	t.Helper()
	return plumbing.FromContent([]byte(content))
}

func TestReadHeadSymbolic(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	require.NoError(t, refs.WriteHeadSymbolic(gitDir, "main"))

	head, err := refs.ReadHead(gitDir)
	require.NoError(t, err)
	assert.False(t, head.Detached)
	assert.Equal(t, "main", head.Branch)
}

func TestReadHeadDetached(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	oid := someOid(t, "detached")
	require.NoError(t, refs.WriteHeadDetached(gitDir, oid))

	head, err := refs.ReadHead(gitDir)
	require.NoError(t, err)
	assert.True(t, head.Detached)
	assert.Equal(t, oid, head.OID)
}

func TestCreateRefThenDeref(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	oid := someOid(t, "branch-tip")
	require.NoError(t, refs.CreateRef(gitDir, "feature", oid))

	got, err := refs.Deref(gitDir, "feature")
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	// accepts the "refs/heads/" prefixed form too
	got, err = refs.Deref(gitDir, "refs/heads/feature")
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestCreateRefRejectsDuplicate(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	require.NoError(t, refs.CreateRef(gitDir, "dup", someOid(t, "a")))

	err := refs.CreateRef(gitDir, "dup", someOid(t, "b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, refs.ErrRefExists)
}

func TestCreateRefRejectsInvalidName(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	err := refs.CreateRef(gitDir, "../../etc/passwd", someOid(t, "a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, refs.ErrInvalidRefName)

	_, statErr := os.Stat(filepath.Join(gitDir, "refs", "heads", "../../etc/passwd"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteRefOverwrites(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	require.NoError(t, refs.WriteRef(gitDir, "main", someOid(t, "first")))
	require.NoError(t, refs.WriteRef(gitDir, "main", someOid(t, "second")))

	got, err := refs.Deref(gitDir, "main")
	require.NoError(t, err)
	assert.Equal(t, someOid(t, "second"), got)
}

func TestDerefHeadFollowsBranch(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	oid := someOid(t, "tip")
	require.NoError(t, refs.CreateRef(gitDir, "main", oid))
	require.NoError(t, refs.WriteHeadSymbolic(gitDir, "main"))

	got, err := refs.Deref(gitDir, refs.HeadName)
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestDerefHexIsParsedDirectly(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	oid := someOid(t, "anything")
	got, err := refs.Deref(gitDir, oid.String())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestDerefUnknownNameFails(t *testing.T) {
	t.Parallel()

	gitDir := newGitDir(t)
	_, err := refs.Deref(gitDir, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, refs.ErrRefNotFound)
}

func TestIsValidName(t *testing.T) {
	t.Parallel()

	valid := []string{"main", "feature/login", "release-1.0"}
	invalid := []string{
		"", ".hidden", "a/.hidden", "a..b", "/abs", "trailing/",
		"name.lock", "weird@{1}", "a b", "a*b", "a:b", "a?b",
		"a[b", "a\\b", "a^b", "a~b",
	}

	for _, name := range valid {
		assert.True(t, refs.IsValidName(name), "expected %q to be valid", name)
	}
	for _, name := range invalid {
		assert.False(t, refs.IsValidName(name), "expected %q to be invalid", name)
	}
}
