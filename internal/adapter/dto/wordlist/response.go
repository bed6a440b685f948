package wordlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// WordListResponse is the API view of a list.
type WordListResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	IsShared         bool       `json:"is_shared"`
	CurrentVersionID *uuid.UUID `json:"current_version_id,omitempty"`
	UsageCount       int        `json:"usage_count"`
	LastUsedAt       *time.Time `json:"last_used_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// FromEntity maps a word list to its API shape.
func FromEntity(l *entities.WordList) WordListResponse {
	return WordListResponse{
		ID:               l.ID,
		Name:             l.Name,
		Description:      l.Description,
		IsShared:         l.IsShared,
		CurrentVersionID: l.CurrentVersionID,
		UsageCount:       l.UsageCount,
		LastUsedAt:       l.LastUsedAt,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

// FromEntities maps a list of word lists.
func FromEntities(lists []entities.WordList) []WordListResponse {
	out := make([]WordListResponse, len(lists))
	for i := range lists {
		out[i] = FromEntity(&lists[i])
	}
	return out
}

// VersionResponse is the API view of one immutable version.
type VersionResponse struct {
	ID         uuid.UUID  `json:"id"`
	WordListID uuid.UUID  `json:"wordlist_id"`
	Version    int        `json:"version"`
	TermCount  int        `json:"term_count"`
	Terms      []TermPair `json:"terms,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VersionFromEntity maps a version; terms are included only on
// single-resource reads.
func VersionFromEntity(v *entities.WordListVersion, includeTerms bool) VersionResponse {
	resp := VersionResponse{
		ID:         v.ID,
		WordListID: v.WordListID,
		Version:    v.Version,
		TermCount:  v.TermCount,
		CreatedAt:  v.CreatedAt,
	}
	if includeTerms {
		for _, pair := range v.Terms.Data() {
			resp.Terms = append(resp.Terms, TermPair{Incorrect: pair.Incorrect, Correct: pair.Correct})
		}
	}
	return resp
}

// ShareGrantResponse is the API view of a per-user read grant.
type ShareGrantResponse struct {
	WordListID uuid.UUID `json:"wordlist_id"`
	UserID     uuid.UUID `json:"user_id"`
	SharedAt   time.Time `json:"shared_at"`
}

// ShareGrantFromEntity maps a grant to its API shape.
func ShareGrantFromEntity(s *entities.SharedWordList) ShareGrantResponse {
	return ShareGrantResponse{
		WordListID: s.WordListID,
		UserID:     s.UserID,
		SharedAt:   s.SharedAt,
	}
}

// VersionsFromEntities maps a version list without term bodies.
func VersionsFromEntities(versions []entities.WordListVersion) []VersionResponse {
	out := make([]VersionResponse, len(versions))
	for i := range versions {
		out[i] = VersionFromEntity(&versions[i], false)
	}
	return out
}
