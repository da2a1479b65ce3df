package diff_test

import (
	"strings"
	"testing"

	"github.com/lumenvcs/lumen/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(s, "")
}

func TestEditScriptMatchesReferenceTrace(t *testing.T) {
	t.Parallel()

	a := lines("ABCABBA")
	b := lines("CBABAC")

	got := diff.EditScript(a, b)

	want := []diff.Edit{
		{Content: "A", APos: 0, BPos: -1, Kind: diff.Deletion},
		{Content: "B", APos: 1, BPos: -1, Kind: diff.Deletion},
		{Content: "C", APos: 2, BPos: 0, Kind: diff.Equal},
		{Content: "B", APos: -1, BPos: 1, Kind: diff.Addition},
		{Content: "A", APos: 3, BPos: 2, Kind: diff.Equal},
		{Content: "B", APos: 4, BPos: 3, Kind: diff.Equal},
		{Content: "B", APos: 5, BPos: -1, Kind: diff.Deletion},
		{Content: "A", APos: 6, BPos: 4, Kind: diff.Equal},
		{Content: "C", APos: -1, BPos: 5, Kind: diff.Addition},
	}

	assert.Equal(t, want, got)
}

func countKind(edits []diff.Edit, k diff.EditKind) int {
	n := 0
	for _, e := range edits {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestEditScriptAppliesCleanly(t *testing.T) {
	t.Parallel()

	a := []string{"one", "two", "three", "four"}
	b := []string{"zero", "two", "three", "five"}

	script := diff.EditScript(a, b)

	var rebuilt []string
	for _, e := range script {
		switch e.Kind {
		case diff.Equal, diff.Addition:
			rebuilt = append(rebuilt, e.Content)
		}
	}
	assert.Equal(t, b, rebuilt)
}

func TestEditScriptIdenticalSequencesAreAllEqual(t *testing.T) {
	t.Parallel()

	a := []string{"x", "y", "z"}
	script := diff.EditScript(a, append([]string(nil), a...))

	require.Len(t, script, 3)
	for _, e := range script {
		assert.Equal(t, diff.Equal, e.Kind)
	}
}

func TestEditScriptEmptyToNonEmptyIsAllAdditions(t *testing.T) {
	t.Parallel()

	script := diff.EditScript(nil, []string{"a", "b"})
	require.Len(t, script, 2)
	assert.Equal(t, 2, countKind(script, diff.Addition))
}

func TestEditScriptNonEmptyToEmptyIsAllDeletions(t *testing.T) {
	t.Parallel()

	script := diff.EditScript([]string{"a", "b"}, nil)
	require.Len(t, script, 2)
	assert.Equal(t, 2, countKind(script, diff.Deletion))
}
