// Package merge computes line diffs for dry runs and merges generated
// configuration into files the user already has.
package merge

import (
	"fmt"
	"strings"
)

// Op is the kind of a line in an edit script.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Line is one entry of an edit script. Old and New are 0-based indices into
// the before and after slices, -1 where the line does not exist.
type Line struct {
	Op   Op
	Text string
	Old  int
	New  int
}

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// Lines returns the full edit script turning a into b, in order, based on a
// longest common subsequence.
func Lines(a, b []string) []Line {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]Line, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			script = append(script, Line{Op: OpEqual, Text: a[i], Old: i, New: j})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			script = append(script, Line{Op: OpDelete, Text: a[i], Old: i, New: -1})
			i++
		default:
			script = append(script, Line{Op: OpInsert, Text: b[j], Old: -1, New: j})
			j++
		}
	}
	return script
}

// UnifiedDiff renders the change from before to after as a unified diff
// with three lines of context. A nil before is shown as a new file. Returns
// "" when the contents are equal.
func UnifiedDiff(name string, before, after []byte) string {
	script := Lines(splitLines(string(before)), splitLines(string(after)))

	var changes []int
	for i, l := range script {
		if l.Op != OpEqual {
			changes = append(changes, i)
		}
	}
	if len(changes) == 0 {
		return ""
	}

	var sb strings.Builder
	if before == nil {
		sb.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(&sb, "--- a/%s\n", name)
	}
	fmt.Fprintf(&sb, "+++ b/%s\n", name)

	for _, h := range hunks(changes, len(script)) {
		writeHunk(&sb, script, h[0], h[1])
	}
	return sb.String()
}

// hunks groups change indices whose context windows touch into [start, end)
// ranges over a script of length n.
func hunks(changes []int, n int) [][2]int {
	var out [][2]int
	start, last := changes[0], changes[0]
	for _, c := range changes[1:] {
		if c-last > 2*contextLines {
			out = append(out, [2]int{max(start-contextLines, 0), min(last+contextLines+1, n)})
			start = c
		}
		last = c
	}
	return append(out, [2]int{max(start-contextLines, 0), min(last+contextLines+1, n)})
}

func writeHunk(sb *strings.Builder, script []Line, start, end int) {
	oldBefore, newBefore := 0, 0
	for _, l := range script[:start] {
		if l.Op != OpInsert {
			oldBefore++
		}
		if l.Op != OpDelete {
			newBefore++
		}
	}
	oldCount, newCount := 0, 0
	for _, l := range script[start:end] {
		if l.Op != OpInsert {
			oldCount++
		}
		if l.Op != OpDelete {
			newCount++
		}
	}

	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(oldBefore, oldCount), hunkRange(newBefore, newCount))
	for _, l := range script[start:end] {
		switch l.Op {
		case OpEqual:
			sb.WriteString(" ")
		case OpInsert:
			sb.WriteString("+")
		case OpDelete:
			sb.WriteString("-")
		}
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
}

// hunkRange formats "start,count"; an empty range starts at the line before.
func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}

// splitLines splits s into lines, dropping the empty element a final
// newline would produce.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
