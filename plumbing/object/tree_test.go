package object_test

import (
	"testing"

	"github.com/lumenvcs/lumen/plumbing"
	"github.com/lumenvcs/lumen/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTreeEntriesAreImmutable(t *testing.T) {
	t.Parallel()

	blobID, err := plumbing.FromHex("0343d67ca3d80a531d0d163f0078a81c95c9085a")
	require.NoError(t, err)

	tree := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeFile, ID: blobID, Path: "blob"},
	})

	entries := tree.Entries()
	entries[0].Path = "nope"
	assert.Equal(t, "blob", tree.Entries()[0].Path, "should not mutate the tree's own entries")
}

func TestModeObjectType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode     object.Mode
		expected object.Type
	}{
		{mode: object.ModeFile, expected: object.TypeBlob},
		{mode: object.ModeExecutable, expected: object.TypeBlob},
		{mode: object.ModeSymlink, expected: object.TypeBlob},
		{mode: object.ModeDirectory, expected: object.TypeTree},
		{mode: object.ModeGitlink, expected: object.TypeCommit},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.mode.ObjectType())
	}
}

func TestModeIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, object.ModeFile.IsValid())
	assert.False(t, object.Mode(0o100664).IsValid())
}

func TestTreeToObjectSortedEntriesAreDeterministic(t *testing.T) {
	t.Parallel()

	blobID, err := plumbing.FromHex("0343d67ca3d80a531d0d163f0078a81c95c9085a")
	require.NoError(t, err)

	a := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeFile, ID: blobID, Path: "a.txt"},
		{Mode: object.ModeFile, ID: blobID, Path: "b.txt"},
	})
	b := object.NewTree([]object.TreeEntry{
		{Mode: object.ModeFile, ID: blobID, Path: "a.txt"},
		{Mode: object.ModeFile, ID: blobID, Path: "b.txt"},
	})

	assert.Equal(t, a.ID(), b.ID())
}
