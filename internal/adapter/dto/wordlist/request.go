package wordlist

import (
	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// TermPair is one (incorrect, correct) substitution.
type TermPair struct {
	Incorrect string `json:"incorrect" validate:"required"`
	Correct   string `json:"correct" validate:"required"`
}

// CreateWordListRequest creates a list; Terms, when present, become
// version 1.
type CreateWordListRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=1000"`
	Terms       []TermPair `json:"terms" validate:"omitempty,dive"`
}

// UpdateTermsRequest replaces the full term set by appending a new version.
type UpdateTermsRequest struct {
	Terms []TermPair `json:"terms" validate:"required,min=1,dive"`
}

// ShareRequest toggles read-sharing of a list.
type ShareRequest struct {
	Shared bool `json:"shared"`
}

// ShareGrantRequest grants one user read access to a list.
type ShareGrantRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// ToWordPairs converts API pairs to domain pairs.
func ToWordPairs(pairs []TermPair) []entities.WordPair {
	out := make([]entities.WordPair, len(pairs))
	for i, p := range pairs {
		out[i] = entities.WordPair{Incorrect: p.Incorrect, Correct: p.Correct}
	}
	return out
}
