package index_test

import (
	"testing"
	"time"

	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOid(t *testing.T, content string) plumbing.Oid {
	t.Helper()
	return plumbing.FromContent([]byte(content))
}

func newEntry(t *testing.T, path, content string) index.Entry {
	t.Helper()
	now := time.Unix(1700000000, 500000000).UTC()
	return index.Entry{
		CTime: now,
		MTime: now,
		Mode:  index.ModeFile,
		Size:  uint32(len(content)),
		ID:    testOid(t, content),
		Path:  path,
	}
}

func TestAddEntryFileThenNestedPath(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.AddEntry(newEntry(t, "file.txt", "top-level"))
	idx.AddEntry(newEntry(t, "file.txt/nested.txt", "nested"))

	require.Equal(t, 1, idx.Len())
	assert.True(t, idx.HasEntry("file.txt/nested.txt"))
	assert.False(t, idx.HasEntry("file.txt"))
}

func TestAddEntryNestedPathThenFile(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.AddEntry(newEntry(t, "file.txt/nested.txt", "nested"))
	idx.AddEntry(newEntry(t, "file.txt", "top-level"))

	require.Equal(t, 1, idx.Len())
	assert.True(t, idx.HasEntry("file.txt"))
	assert.False(t, idx.HasEntry("file.txt/nested.txt"))
	assert.False(t, idx.IsTrackedDirectory("file.txt"))
}

func TestRemoveClearsAncestorBookkeeping(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.AddEntry(newEntry(t, "a/b/c.txt", "content"))
	require.True(t, idx.IsTrackedDirectory("a"))
	require.True(t, idx.IsTrackedDirectory("a/b"))

	idx.Remove("a/b/c.txt")
	assert.False(t, idx.HasEntry("a/b/c.txt"))
	assert.False(t, idx.IsTrackedDirectory("a/b"))
	assert.False(t, idx.IsTrackedDirectory("a"))
}

func TestEntriesAreSortedByPath(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.AddEntry(newEntry(t, "z.txt", "z"))
	idx.AddEntry(newEntry(t, "a.txt", "a"))
	idx.AddEntry(newEntry(t, "m.txt", "m"))

	entries := idx.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"a.txt", "m.txt", "z.txt"}, []string{
		entries[0].Path, entries[1].Path, entries[2].Path,
	})
}

func TestRemoveUnknownPathIsNoOp(t *testing.T) {
	t.Parallel()

	idx := index.New()
	idx.AddEntry(newEntry(t, "a.txt", "a"))
	idx.Remove("does-not-exist.txt")
	assert.Equal(t, 1, idx.Len())
}
