package correction

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/proofline/proofline/internal/domain/entities"
)

// Chunk is one contiguous slice of the transcript sent to the model in a
// single request. Concatenating all chunks in index order reproduces the
// transcript exactly.
type Chunk struct {
	Index  int
	Text   string
	Tokens int
}

// Chunker splits transcripts into chunks whose estimated token count stays
// within a fixed budget.
type Chunker struct {
	budget int
}

func NewChunker(budget int) *Chunker {
	return &Chunker{budget: budget}
}

// speakerLabel matches the start of a speaker turn, e.g. "Tanaka: hello".
var speakerLabel = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 .'-]{0,39}:[ \t]`)

// Split cuts text into chunks. Preferred boundaries are paragraph breaks and
// speaker turns; a unit that alone exceeds the budget is split at sentence
// ends, and a single oversized sentence is cut at the largest prefix that
// still fits.
func (c *Chunker) Split(text string) ([]Chunk, error) {
	if c.budget <= 0 {
		return nil, fmt.Errorf("chunk token budget must be positive, got %d", c.budget)
	}
	if text == "" {
		return nil, nil
	}

	var pieces []string
	for _, unit := range splitUnits(text) {
		if estimateText(unit) <= c.budget {
			pieces = append(pieces, unit)
			continue
		}
		for _, sentence := range splitSentences(unit) {
			if estimateText(sentence) <= c.budget {
				pieces = append(pieces, sentence)
				continue
			}
			pieces = append(pieces, hardSplit(sentence, c.budget)...)
		}
	}

	var (
		chunks []Chunk
		cur    chunkBuilder
	)
	flush := func() {
		if cur.sb.Len() == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Text:   cur.sb.String(),
			Tokens: entities.EstimateTokens(cur.runes, cur.words),
		})
		cur = chunkBuilder{}
	}

	for _, piece := range pieces {
		stat := statOf(piece)
		if cur.sb.Len() > 0 {
			runes, words := cur.joined(stat)
			if entities.EstimateTokens(runes, words) > c.budget {
				flush()
			}
		}
		cur.add(piece, stat)
	}
	flush()

	return chunks, nil
}

// chunkBuilder accumulates pieces while tracking rune and word counts
// incrementally, so packing stays linear in the transcript length.
type chunkBuilder struct {
	sb        strings.Builder
	runes     int
	words     int
	endsSpace bool
}

type pieceStat struct {
	runes      int
	words      int
	startSpace bool
	endSpace   bool
}

func statOf(s string) pieceStat {
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return pieceStat{
		runes:      utf8.RuneCountInString(s),
		words:      len(strings.Fields(s)),
		startSpace: unicode.IsSpace(first),
		endSpace:   unicode.IsSpace(last),
	}
}

// joined reports the rune and word counts the chunk would have after
// appending a piece. Two words merge when the seam has no whitespace.
func (cb *chunkBuilder) joined(stat pieceStat) (int, int) {
	runes := cb.runes + stat.runes
	words := cb.words + stat.words
	if cb.sb.Len() > 0 && !cb.endsSpace && stat.runes > 0 && !stat.startSpace {
		words--
	}
	return runes, words
}

func (cb *chunkBuilder) add(s string, stat pieceStat) {
	cb.runes, cb.words = cb.joined(stat)
	cb.sb.WriteString(s)
	if stat.runes > 0 {
		cb.endsSpace = stat.endSpace
	}
}

func estimateText(s string) int {
	return entities.EstimateTokens(utf8.RuneCountInString(s), len(strings.Fields(s)))
}

// splitUnits cuts text after blank-line runs and before speaker turns. Every
// unit is a contiguous substring of the input, so the units concatenate back
// to the input unchanged.
func splitUnits(text string) []string {
	var units []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}

		// extend over any blank lines following this newline
		end := i + 1
		blank := false
		for {
			k := end
			for k < len(text) && (text[k] == ' ' || text[k] == '\t' || text[k] == '\r') {
				k++
			}
			if k < len(text) && text[k] == '\n' {
				blank = true
				end = k + 1
				continue
			}
			break
		}
		if blank {
			units = append(units, text[start:end])
			start = end
			i = end
			continue
		}

		// single newline: cut before a new speaker turn
		next := i + 1
		if next < len(text) && speakerLabel.MatchString(text[next:]) {
			units = append(units, text[start:next])
			start = next
		}
		i = next
	}
	if start < len(text) {
		units = append(units, text[start:])
	}
	return units
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '?', '!', '。', '？', '！':
		return true
	}
	return false
}

// splitSentences cuts after a sentence-ending rune and any whitespace that
// follows it.
func splitSentences(s string) []string {
	var out []string
	start := 0
	afterEnd := false
	for i, r := range s {
		if afterEnd && !unicode.IsSpace(r) {
			out = append(out, s[start:i])
			start = i
			afterEnd = false
		}
		if isSentenceEnd(r) {
			afterEnd = true
		} else if !unicode.IsSpace(r) {
			afterEnd = false
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// hardSplit cuts s into pieces at the largest rune-boundary prefix whose
// estimate fits the budget. Estimates grow monotonically with the prefix, so
// the first overflowing rune marks the cut.
func hardSplit(s string, budget int) []string {
	var pieces []string
	for s != "" {
		runes, words := 0, 0
		prevSpace := true
		cut := len(s)
		for i, r := range s {
			runes++
			if !unicode.IsSpace(r) && prevSpace {
				words++
			}
			prevSpace = unicode.IsSpace(r)
			if entities.EstimateTokens(runes, words) > budget {
				cut = i
				break
			}
		}
		if cut == 0 {
			_, size := utf8.DecodeRuneInString(s)
			cut = size
		}
		pieces = append(pieces, s[:cut])
		s = s[cut:]
	}
	return pieces
}
