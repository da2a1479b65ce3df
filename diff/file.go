package diff

import (
	"fmt"

	"github.com/lumenvcs/lumen/plumbing"
)

// nullShort is the short id git prints for the missing side of an
// added/deleted file.
const nullShort = "0000000"

// FileDiff renders a complete "diff --git" blob-to-blob comparison.
// Either aID or bID (but not both) may be the zero Oid to represent a
// missing side (file added or deleted); aContent/bContent must be nil in
// that case.
func FileDiff(path string, aID, bID plumbing.Oid, aContent, bContent []byte) string {
	var b []byte
	b = append(b, fmt.Sprintf("diff --git a/%s b/%s\n", path, path)...)
	b = append(b, fmt.Sprintf("index %s..%s\n", shortOrNull(aID), shortOrNull(bID))...)
	b = append(b, aHeaderLine(path, aID.IsZero())...)
	b = append(b, bHeaderLine(path, bID.IsZero())...)
	b = append(b, RenderUnified(EditScript(splitLines(aContent), splitLines(bContent)))...)
	return string(b)
}

func shortOrNull(id plumbing.Oid) string {
	if id.IsZero() {
		return nullShort
	}
	return id.Short()
}

func aHeaderLine(path string, missing bool) string {
	if missing {
		return "--- /dev/null\n"
	}
	return fmt.Sprintf("--- a/%s\n", path)
}

func bHeaderLine(path string, missing bool) string {
	if missing {
		return "+++ /dev/null\n"
	}
	return fmt.Sprintf("+++ b/%s\n", path)
}
