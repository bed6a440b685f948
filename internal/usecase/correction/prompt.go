package correction

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

const (
	proofreadingPrompt = "You are an AI specialized in typo and spelling correction. " +
		"Do NOT summarize, add, delete, rephrase, reformat, change tone, modify content, " +
		"merge/split paragraphs, change word order, or perform any other edits. " +
		"Only correct typos and spelling mistakes based on the provided correction list. " +
		"Do not modify any parts not listed in the correction list. " +
		"Human final review and correction is mandatory."

	grammarPromptHead = "You are an AI that corrects Japanese text to be natural and grammatically correct.\n" +
		"Follow these instructions to modify the provided text:\n" +
		"1. Fix grammatical errors.\n" +
		"2. Correct unnatural expressions to more natural Japanese.\n" +
		"3. Fix typos and spelling mistakes."

	grammarPromptTail = "\n4. Preserve the original meaning and main information, " +
		"do not add or delete content arbitrarily.\n" +
		"5. Match the writing style of the original text."

	summarizePrompt = "You are an AI that summarizes provided Japanese text.\n" +
		"Follow these instructions to summarize the text:\n" +
		"1. Understand the main topics and conclusions of the entire text.\n" +
		"2. Extract important information and omit redundant parts and details.\n" +
		"3. Create a summary that accurately reflects the intent of the original text."

	customPromptHead = "You are a text processing AI. Follow the user's instructions."
)

// Prompt is the assembled system instruction for one job, plus the glossary
// terms that actually made it into the instruction.
type Prompt struct {
	Instruction string
	Terms       []entities.WordPair
	Truncated   bool
}

// PromptAssembler renders the per-mode system instruction. When a word list
// carries more terms than fit, the most recently used ones are kept.
type PromptAssembler struct {
	maxTerms int
}

func NewPromptAssembler(maxTerms int) *PromptAssembler {
	return &PromptAssembler{maxTerms: maxTerms}
}

// Assemble builds the instruction for mode. lastUsed maps an incorrect term
// to the last time it was included in a prompt; it drives truncation order
// and may be nil. Unknown modes are a configuration error, never a silent
// fallback.
func (p *PromptAssembler) Assemble(mode entities.ProcessingMode, customPrompt string, terms []entities.WordPair, lastUsed map[string]time.Time) (Prompt, error) {
	included, truncated := p.selectTerms(terms, lastUsed)

	var b strings.Builder
	switch mode {
	case entities.ModeProofreading:
		b.WriteString(proofreadingPrompt)
		if len(included) > 0 {
			b.WriteString("\n\nApply the following typo corrections with priority:\n")
			writeTerms(&b, included)
		}
		if customPrompt != "" {
			b.WriteString("\n\nUser note: ")
			b.WriteString(customPrompt)
		}

	case entities.ModeGrammar:
		b.WriteString(grammarPromptHead)
		if len(included) > 0 {
			b.WriteString("\nEspecially, prioritize correcting words from this list:\n")
			writeTerms(&b, included)
		}
		b.WriteString(grammarPromptTail)
		if customPrompt != "" {
			b.WriteString("\n\nUser note: ")
			b.WriteString(customPrompt)
		}

	case entities.ModeSummarize:
		b.WriteString(summarizePrompt)
		if customPrompt != "" {
			b.WriteString("\n\nSpecific user instructions: ")
			b.WriteString(customPrompt)
		}
		// summaries ignore the glossary
		included = nil

	case entities.ModeCustom:
		b.WriteString(customPromptHead)
		if customPrompt != "" {
			b.WriteString("\n\nUser instructions: ")
			b.WriteString(customPrompt)
		}
		included = nil

	default:
		return Prompt{}, apperrors.ErrInvalidConfiguration(fmt.Sprintf("unknown processing mode %q", mode))
	}

	return Prompt{
		Instruction: strings.TrimSpace(b.String()),
		Terms:       included,
		Truncated:   truncated,
	}, nil
}

func writeTerms(b *strings.Builder, terms []entities.WordPair) {
	for _, t := range terms {
		fmt.Fprintf(b, "'%s' → '%s'\n", t.Incorrect, t.Correct)
	}
}

// selectTerms keeps at most maxTerms entries. Terms used in a prompt more
// recently win; never-used terms keep their list order and fill the rest.
func (p *PromptAssembler) selectTerms(terms []entities.WordPair, lastUsed map[string]time.Time) ([]entities.WordPair, bool) {
	if p.maxTerms <= 0 || len(terms) <= p.maxTerms {
		return terms, false
	}

	type candidate struct {
		pair entities.WordPair
		used time.Time
		pos  int
	}
	candidates := make([]candidate, len(terms))
	for i, t := range terms {
		candidates[i] = candidate{pair: t, used: lastUsed[t.Incorrect], pos: i}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].used.Equal(candidates[j].used) {
			return candidates[i].used.After(candidates[j].used)
		}
		return candidates[i].pos < candidates[j].pos
	})
	candidates = candidates[:p.maxTerms]

	// render in the word list's own order
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].pos < candidates[j].pos })

	included := make([]entities.WordPair, len(candidates))
	for i, c := range candidates {
		included[i] = c.pair
	}
	return included, true
}
