package status

import (
	"fmt"
	"sort"
	"strings"
)

// ColorWriter lets a caller plug in any ANSI colorizer for the
// human-readable renderer without this package importing one itself.
type ColorWriter interface {
	Green(s string) string
	Red(s string) string
}

type plainColorWriter struct{}

func (plainColorWriter) Green(s string) string { return s }
func (plainColorWriter) Red(s string) string   { return s }

// PlainColorWriter performs no coloring; it's the default a caller gets
// if it has no colorizer to plug in.
var PlainColorWriter ColorWriter = plainColorWriter{}

func statusChar(t ChangeType) byte {
	switch t {
	case Created:
		return 'A'
	case Deleted:
		return 'D'
	default:
		return 'M'
	}
}

// Porcelain renders r as the stable "XY path" machine format: X is the
// staged status character (or space), Y the unstaged one, "??" for
// untracked paths.
func Porcelain(r Result) string {
	type cell struct{ x, y byte }
	cells := map[string]cell{}

	for _, c := range r.Changes {
		entry := cells[c.Path]
		if entry.x == 0 {
			entry.x, entry.y = ' ', ' '
		}
		if c.Location == IndexLocation {
			entry.x = statusChar(c.Type)
		} else {
			entry.y = statusChar(c.Type)
		}
		cells[c.Path] = entry
	}

	paths := make([]string, 0, len(cells))
	for p := range cells {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		c := cells[p]
		fmt.Fprintf(&b, "%c%c %s\n", c.x, c.y, p)
	}
	for _, p := range r.Untracked {
		fmt.Fprintf(&b, "?? %s\n", p)
	}
	return b.String()
}

// Human renders r as the grouped, colorized sections git status prints
// by default: staged changes, unstaged changes, then untracked files,
// each section separated by a blank line and omitted entirely when
// empty.
func Human(r Result, cw ColorWriter) string {
	if cw == nil {
		cw = PlainColorWriter
	}

	var sections []string

	if lines := groupLines(r.Changes, IndexLocation, cw.Green); len(lines) > 0 {
		sections = append(sections, "Changes to be committed:\n"+strings.Join(lines, "\n")+"\n")
	}
	if lines := groupLines(r.Changes, WorktreeLocation, cw.Red); len(lines) > 0 {
		sections = append(sections, "Changes not staged for commit:\n"+strings.Join(lines, "\n")+"\n")
	}
	if len(r.Untracked) > 0 {
		lines := make([]string, 0, len(r.Untracked))
		for _, p := range r.Untracked {
			lines = append(lines, "\t"+cw.Red(p))
		}
		sections = append(sections, "Untracked files:\n"+strings.Join(lines, "\n")+"\n")
	}

	return strings.Join(sections, "\n")
}

func groupLines(changes []Change, loc Location, color func(string) string) []string {
	var lines []string
	for _, c := range changes {
		if c.Location != loc {
			continue
		}
		lines = append(lines, "\t"+color(changeVerb(c.Type)+":\t"+c.Path))
	}
	return lines
}

func changeVerb(t ChangeType) string {
	switch t {
	case Created:
		return "new file"
	case Deleted:
		return "deleted"
	default:
		return "modified"
	}
}
