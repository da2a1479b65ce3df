package lumen

import (
	"testing"
	"time"

	"github.com/lumenvcs/lumen/index"
	"github.com/lumenvcs/lumen/odb"
	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *odb.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/objects", 0o755))
	return odb.NewStore(fs, "/repo/objects")
}

func stagedEntry(t *testing.T, store *odb.Store, path, content string) index.Entry {
	t.Helper()
	blob := object.NewBlob([]byte(content))
	oid, err := store.WriteObject(blob.ToObject())
	require.NoError(t, err)
	return index.Entry{
		CTime: time.Unix(1700000000, 0).UTC(),
		MTime: time.Unix(1700000000, 0).UTC(),
		Mode:  index.ModeFile,
		Size:  uint32(len(content)),
		ID:    oid,
		Path:  path,
	}
}

func TestBuildTreesFlatFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	idx := index.New()
	idx.AddEntry(stagedEntry(t, store, "a.txt", "a"))
	idx.AddEntry(stagedEntry(t, store, "b.txt", "b"))

	rootOid, err := buildTrees(store, idx.Entries())
	require.NoError(t, err)

	tree, err := store.LoadTree(rootOid)
	require.NoError(t, err)
	assert.Len(t, tree.Entries(), 2)
}

func TestBuildTreesNestedDirectories(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	idx := index.New()
	idx.AddEntry(stagedEntry(t, store, "src/main.go", "package main"))
	idx.AddEntry(stagedEntry(t, store, "src/util/helper.go", "package util"))
	idx.AddEntry(stagedEntry(t, store, "README.md", "hello"))

	rootOid, err := buildTrees(store, idx.Entries())
	require.NoError(t, err)

	root, err := store.LoadTree(rootOid)
	require.NoError(t, err)
	require.Len(t, root.Entries(), 2) // README.md, src

	var srcOid plumbing.Oid
	for _, e := range root.Entries() {
		if e.Path == "src" {
			assert.Equal(t, object.ModeDirectory, e.Mode)
			srcOid = e.ID
		}
	}
	require.False(t, srcOid.IsZero())

	src, err := store.LoadTree(srcOid)
	require.NoError(t, err)
	assert.Len(t, src.Entries(), 2) // main.go, util
}

func TestBuildTreesIsDeterministic(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	idx := index.New()
	idx.AddEntry(stagedEntry(t, store, "z.txt", "z"))
	idx.AddEntry(stagedEntry(t, store, "a/b.txt", "b"))
	idx.AddEntry(stagedEntry(t, store, "a/a.txt", "a"))

	first, err := buildTrees(store, idx.Entries())
	require.NoError(t, err)
	second, err := buildTrees(store, idx.Entries())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
