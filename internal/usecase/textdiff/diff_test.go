package textdiff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_SimpleCorrections(t *testing.T) {
	original := "I sent teh letter to the wrong adress"
	corrected := "I sent the letter to the wrong address"

	segs := Diff(original, corrected)

	assert.Equal(t, []Segment{
		{Op: OpUnchanged, Text: "I sent "},
		{Op: OpRemoved, Text: "teh "},
		{Op: OpAdded, Text: "the "},
		{Op: OpUnchanged, Text: "letter to the wrong "},
		{Op: OpRemoved, Text: "adress"},
		{Op: OpAdded, Text: "address"},
	}, segs)
}

func TestDiff_Reconstruct(t *testing.T) {
	cases := []struct {
		name      string
		original  string
		corrected string
	}{
		{"identical", "nothing changed here", "nothing changed here"},
		{"replacement", "teh quick brown fox", "the quick brown fox"},
		{"insertion", "quick fox", "quick brown fox"},
		{"deletion", "the very quick fox", "the quick fox"},
		{"rewrite", "um so basically we shipped it", "We shipped the release."},
		{"whitespace", "spaced\tout   text\n\nwith gaps", "spaced out text with gaps"},
		{"empty original", "", "now there is text"},
		{"empty corrected", "all of this goes away", ""},
		{"multibyte", "これはテストです。 次の文。", "これは本番です。 次の文。"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			segs := Diff(tc.original, tc.corrected)
			assert.Equal(t, tc.original, Reconstruct(segs, OpRemoved))
			assert.Equal(t, tc.corrected, Reconstruct(segs, OpAdded))
		})
	}
}

func TestDiff_RemovedPrecedesAdded(t *testing.T) {
	segs := Diff("one teh three", "one the three")

	for i := 1; i < len(segs); i++ {
		if segs[i].Op == OpRemoved {
			assert.NotEqual(t, OpAdded, segs[i-1].Op, "removed segment after added at %d", i)
		}
	}
}

func TestDiff_MergesAdjacentSegments(t *testing.T) {
	segs := Diff("aa bb cc dd", "aa bb cc dd")

	require.Len(t, segs, 1)
	assert.Equal(t, OpUnchanged, segs[0].Op)
	assert.Equal(t, "aa bb cc dd", segs[0].Text)

	for i := 1; i < len(segs); i++ {
		assert.NotEqual(t, segs[i-1].Op, segs[i].Op)
	}
}

func TestDiff_BothEmpty(t *testing.T) {
	assert.Empty(t, Diff("", ""))
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"word", []string{"word"}},
		{"two words", []string{"two ", "words"}},
		{"  leading", []string{"  ", "leading"}},
		{"trailing  ", []string{"trailing  "}},
		{"a\tb\nc", []string{"a\t", "b\n", "c"}},
	}

	for _, tc := range cases {
		got := tokenize(tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Equal(t, tc.input, strings.Join(got, ""))
	}
}
