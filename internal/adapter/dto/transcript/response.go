package transcript

import (
	"time"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// TranscriptResponse is the API view of a transcript. Content is included
// only on single-resource reads.
type TranscriptResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	Content          string    `json:"content,omitempty"`
	FileSize         int       `json:"file_size"`
	CharacterCount   int       `json:"character_count"`
	WordCount        int       `json:"word_count"`
	EstimatedTokens  int       `json:"estimated_tokens"`
	IsProcessed      bool      `json:"is_processed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FromEntity maps a transcript to its API shape.
func FromEntity(t *entities.Transcript, includeContent bool) TranscriptResponse {
	resp := TranscriptResponse{
		ID:               t.ID,
		Title:            t.Title,
		OriginalFilename: t.OriginalFilename,
		FileSize:         t.FileSize,
		CharacterCount:   t.CharacterCount,
		WordCount:        t.WordCount,
		EstimatedTokens:  t.EstimatedTokens(),
		IsProcessed:      t.IsProcessed,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if includeContent {
		resp.Content = t.Content
	}
	return resp
}

// FromEntities maps a transcript list without content bodies.
func FromEntities(ts []entities.Transcript) []TranscriptResponse {
	out := make([]TranscriptResponse, len(ts))
	for i := range ts {
		out[i] = FromEntity(&ts[i], false)
	}
	return out
}

// RevisionResponse is the API view of one ledger entry.
type RevisionResponse struct {
	ID              uuid.UUID `json:"id"`
	TranscriptID    uuid.UUID `json:"transcript_id"`
	CorrectionJobID uuid.UUID `json:"correction_job_id"`
	Content         string    `json:"content,omitempty"`
	IsFinal         bool      `json:"is_final"`
	CreatedAt       time.Time `json:"created_at"`
}

// RevisionFromEntity maps a revision to its API shape.
func RevisionFromEntity(r *entities.TranscriptRevision, includeContent bool) RevisionResponse {
	resp := RevisionResponse{
		ID:              r.ID,
		TranscriptID:    r.TranscriptID,
		CorrectionJobID: r.CorrectionJobID,
		IsFinal:         r.IsFinal,
		CreatedAt:       r.CreatedAt,
	}
	if includeContent {
		resp.Content = r.Content
	}
	return resp
}

// RevisionsFromEntities maps a revision list without content bodies.
func RevisionsFromEntities(revs []entities.TranscriptRevision) []RevisionResponse {
	out := make([]RevisionResponse, len(revs))
	for i := range revs {
		out[i] = RevisionFromEntity(&revs[i], false)
	}
	return out
}
