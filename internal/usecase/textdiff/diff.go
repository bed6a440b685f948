// Package textdiff produces word-level diffs between an original transcript
// and its corrected text. Tokens carry their trailing whitespace, so the
// unchanged+removed segments concatenate back to the original byte for byte,
// and unchanged+added segments concatenate to the corrected text.
package textdiff

import (
	"strings"
	"unicode"
)

// Op classifies a diff segment.
type Op string

const (
	OpUnchanged Op = "unchanged"
	OpRemoved   Op = "removed"
	OpAdded     Op = "added"
)

// Segment is a contiguous run of tokens sharing one operation.
type Segment struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

type editKind int

const (
	editEqual editKind = iota
	editDelete
	editInsert
)

type edit struct {
	kind  editKind
	token string
}

// Diff compares the original and corrected texts and returns merged
// segments. At any position, removed text always precedes added text.
func Diff(original, corrected string) []Segment {
	edits := myersDiff(tokenize(original), tokenize(corrected))

	var (
		segs                  []Segment
		equal, removed, added strings.Builder
	)

	flushPending := func() {
		if removed.Len() > 0 {
			segs = append(segs, Segment{Op: OpRemoved, Text: removed.String()})
			removed.Reset()
		}
		if added.Len() > 0 {
			segs = append(segs, Segment{Op: OpAdded, Text: added.String()})
			added.Reset()
		}
	}
	flushEqual := func() {
		if equal.Len() > 0 {
			segs = append(segs, Segment{Op: OpUnchanged, Text: equal.String()})
			equal.Reset()
		}
	}

	for _, e := range edits {
		switch e.kind {
		case editEqual:
			flushPending()
			equal.WriteString(e.token)
		case editDelete:
			flushEqual()
			removed.WriteString(e.token)
		case editInsert:
			flushEqual()
			added.WriteString(e.token)
		}
	}
	flushEqual()
	flushPending()

	return segs
}

// Reconstruct rebuilds one side of the diff: the original text when side is
// OpRemoved, the corrected text when side is OpAdded.
func Reconstruct(segs []Segment, side Op) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Op == OpUnchanged || s.Op == side {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// tokenize splits text into word tokens, each including its trailing
// whitespace. Leading whitespace becomes its own token. Concatenating the
// tokens reproduces the input exactly.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	start := 0
	prevSpace := false
	for i, r := range s {
		if i > 0 && prevSpace && !unicode.IsSpace(r) {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevSpace = unicode.IsSpace(r)
	}
	return append(tokens, s[start:])
}

// myersDiff computes a shortest edit script between token slices using the
// greedy Myers algorithm. Corrected transcripts stay close to their source,
// so the edit distance and therefore the trace stay small in practice.
func myersDiff(a, b []string) []edit {
	n, m := len(a), len(b)
	bound := n + m
	v := make([]int, 2*bound+3)
	offset := bound + 1
	var trace [][]int

outer:
	for d := 0; d <= bound; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break outer
			}
		}
	}

	var edits []edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0 && (x > 0 || y > 0); d-- {
		prev := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && prev[offset+k-1] < prev[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := prev[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			edits = append(edits, edit{editEqual, a[x-1]})
			x--
			y--
		}
		if d > 0 {
			if prevK == k+1 {
				edits = append(edits, edit{editInsert, b[prevY]})
			} else {
				edits = append(edits, edit{editDelete, a[prevX]})
			}
			x, y = prevX, prevY
		}
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}
