package wordlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofline/proofline/internal/domain/entities"
)

func TestParseTermsCSV(t *testing.T) {
	input := "teh,the\nadress,address\n"

	pairs, err := ParseTermsCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []entities.WordPair{
		{Incorrect: "teh", Correct: "the"},
		{Incorrect: "adress", Correct: "address"},
	}, pairs)
}

func TestParseTermsCSV_SkipsHeader(t *testing.T) {
	input := "incorrect,correct\nteh,the\n"

	pairs, err := ParseTermsCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "teh", pairs[0].Incorrect)
}

func TestParseTermsCSV_RejectsDuplicates(t *testing.T) {
	input := "teh,the\nteh,they\n"

	_, err := ParseTermsCSV(strings.NewReader(input))
	assert.ErrorContains(t, err, "duplicate incorrect term")
}

func TestParseTermsCSV_RejectsEmptyIncorrect(t *testing.T) {
	_, err := ParseTermsCSV(strings.NewReader(" ,the\n"))
	assert.ErrorContains(t, err, "empty incorrect term")
}

func TestParseTermsCSV_RejectsWrongColumnCount(t *testing.T) {
	_, err := ParseTermsCSV(strings.NewReader("teh,the,extra\n"))
	assert.Error(t, err)
}

func TestParseTermsCSV_RejectsEmptyInput(t *testing.T) {
	_, err := ParseTermsCSV(strings.NewReader(""))
	assert.ErrorContains(t, err, "no term pairs")
}
