package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/proofline/proofline/internal/domain/entities"
)

// ParseTermsCSV reads (incorrect, correct) pairs from CSV text. Expected
// shape is two columns per record; an optional "incorrect,correct" header
// row is skipped. Blank lines are ignored, duplicate incorrect terms are
// rejected.
func ParseTermsCSV(r io.Reader) ([]entities.WordPair, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var (
		pairs []entities.WordPair
		seen  = make(map[string]struct{})
		row   int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row+1, err)
		}
		row++

		incorrect := strings.TrimSpace(record[0])
		correct := strings.TrimSpace(record[1])

		if row == 1 && strings.EqualFold(incorrect, "incorrect") && strings.EqualFold(correct, "correct") {
			continue
		}
		if incorrect == "" {
			return nil, fmt.Errorf("csv row %d: empty incorrect term", row)
		}
		if _, dup := seen[incorrect]; dup {
			return nil, fmt.Errorf("csv row %d: duplicate incorrect term %q", row, incorrect)
		}
		seen[incorrect] = struct{}{}

		pairs = append(pairs, entities.WordPair{Incorrect: incorrect, Correct: correct})
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("csv contains no term pairs")
	}
	return pairs, nil
}
