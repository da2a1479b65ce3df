package diff

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderUnified renders a git-style unified diff body (hunk headers and
// +/-/space prefixed lines) for script, with no "diff --git"/"index"
// preamble — callers that need the preamble (CompareTrees, a worktree
// diff) prepend it themselves since it needs information (paths, blob
// ids) this package doesn't have.
func RenderUnified(script []Edit) string {
	var b strings.Builder
	for _, h := range Hunks(script) {
		writeHunkHeader(&b, h)
		for _, e := range h.Edits {
			switch e.Kind {
			case Equal:
				fmt.Fprintf(&b, " %s\n", e.Content)
			case Deletion:
				fmt.Fprintf(&b, "-%s\n", e.Content)
			case Addition:
				fmt.Fprintf(&b, "+%s\n", e.Content)
			}
		}
	}
	return b.String()
}

func writeHunkHeader(b *strings.Builder, h Hunk) {
	b.WriteString("@@ -")
	b.WriteString(rangeSpec(h.AStart, h.ALen))
	b.WriteString(" +")
	b.WriteString(rangeSpec(h.BStart, h.BLen))
	b.WriteString(" @@\n")
}

func rangeSpec(start, length int) string {
	if length == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(length)
}

// splitLines splits content into its constituent lines the way a text
// editor would: a trailing newline produces no extra empty final line.
func splitLines(content []byte) []string {
	s := string(content)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
