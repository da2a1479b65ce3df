// Package diff implements Myers' shortest-edit-script algorithm over line
// sequences, chunks the resulting script into unified-diff hunks, and
// renders them, plus a structural tree-vs-tree comparison used for
// diffing two commits.
package diff

// EditKind identifies what an Edit does to get from A to B.
type EditKind int

const (
	Equal EditKind = iota
	Deletion
	Addition
)

// Edit is one step of an edit script. APos/BPos are the zero-based
// index of Content in A/B; the side that doesn't apply is -1.
type Edit struct {
	Content string
	APos    int
	BPos    int
	Kind    EditKind
}

func equalEdit(content string, aPos, bPos int) Edit {
	return Edit{Content: content, APos: aPos, BPos: bPos, Kind: Equal}
}

func deletionEdit(content string, aPos int) Edit {
	return Edit{Content: content, APos: aPos, BPos: -1, Kind: Deletion}
}

func additionEdit(content string, bPos int) Edit {
	return Edit{Content: content, APos: -1, BPos: bPos, Kind: Addition}
}

// EditScript computes the shortest sequence of Edits that turns a into b,
// using Myers' O((|a|+|b|)*D) algorithm. Among equal-length scripts it
// always returns the one Myers' recurrence yields for d minimized and k
// ascending within each d; where V[k-1] equals V[k+1] it extends the path
// from k-1 (deletion, moving right) rather than from k+1 (addition, moving
// down) — this makes the output deterministic and byte-identical across
// runs for the same inputs.
func EditScript(a, b []string) []Edit {
	finalK, trace := editPathGraph(a, b)
	points := traceEditPoints(finalK, trace)
	return buildEditScript(a, b, points)
}

// v is a slice-backed array supporting the negative-to-positive index
// range [-maxDepth, maxDepth] that Myers' algorithm indexes by k.
type v struct {
	data []int
}

func newV(maxDepth int) v {
	return v{data: make([]int, 2*maxDepth+1)}
}

func (vv v) get(k int) int {
	return vv.data[vv.adjust(k)]
}

func (vv v) set(k, x int) {
	vv.data[vv.adjust(k)] = x
}

func (vv v) adjust(k int) int {
	if k < 0 {
		return len(vv.data) + k
	}
	return k
}

func (vv v) clone() v {
	cp := make([]int, len(vv.data))
	copy(cp, vv.data)
	return v{data: cp}
}

// editPathGraph runs Myers' forward pass, returning the k at which the
// bottom-right corner of the edit graph was reached and the per-depth
// snapshots of the V array needed to trace the path back.
func editPathGraph(a, b []string) (int, []v) {
	maxDepth := len(a) + len(b)
	vv := newV(maxDepth)
	var trace []v

	for d := 0; d <= maxDepth; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && vv.get(k-1) < vv.get(k+1)) {
				x = vv.get(k + 1)
			} else {
				x = vv.get(k-1) + 1
			}
			y := x - k

			for x < len(a) && y < len(b) && a[x] == b[y] {
				x++
				y++
			}

			vv.set(k, x)

			if x >= len(a) && y >= len(b) {
				trace = append(trace, vv.clone())
				return k, trace
			}
		}
		trace = append(trace, vv.clone())
	}

	panic("diff: no shortest edit path found")
}

// traceEditPoints walks the recorded V-array snapshots backward from the
// final (x, y) to (0, 0), returning the sequence of edit-graph points the
// shortest path passes through, in reverse (end-to-start) order.
func traceEditPoints(finalK int, trace []v) [][2]int {
	finalV := trace[len(trace)-1]
	k := finalK
	x := finalV.get(k)
	y := x - k

	points := make([][2]int, 0, len(trace))
	points = append(points, [2]int{x, y})

	for d := len(trace) - 2; d >= 0; d-- {
		vv := trace[d]
		k = previousK(k, d, vv)
		x = vv.get(k)
		y = x - k
		points = append(points, [2]int{x, y})
	}

	return points
}

func previousK(k, d int, vv v) int {
	switch {
	case k == -d:
		return k + 1
	case k == d:
		return k - 1
	case vv.get(k-1) < vv.get(k+1):
		return k + 1
	default:
		return k - 1
	}
}

// buildEditScript walks the traced points from (0, 0) to the end,
// emitting Equal edits for the diagonal run preceding each point and a
// single Deletion or Addition for the step that reached it.
func buildEditScript(a, b []string, reversedPoints [][2]int) []Edit {
	x, y := reversedPoints[0][0], reversedPoints[0][1]

	var edits []Edit
	for _, p := range reversedPoints[1:] {
		prevX, prevY := p[0], p[1]

		for x > prevX && y > prevY {
			x--
			y--
			edits = append(edits, equalEdit(a[x], x, y))
		}

		if x > prevX {
			x--
			edits = append(edits, deletionEdit(a[x], x))
		} else {
			y--
			edits = append(edits, additionEdit(b[y], y))
		}
	}

	for x > 0 && y > 0 {
		x--
		y--
		edits = append(edits, equalEdit(a[x], x, y))
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}

	return edits
}
