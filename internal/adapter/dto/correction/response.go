package correction

import (
	"time"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/usecase/textdiff"
)

// JobResponse is the API view of a correction job. Corrected text is never
// returned here; clients read results through the diff endpoint.
type JobResponse struct {
	ID           uuid.UUID `json:"id"`
	TranscriptID uuid.UUID `json:"transcript_id"`

	Mode              string     `json:"mode"`
	Model             string     `json:"model"`
	WordListVersionID *uuid.UUID `json:"wordlist_version_id,omitempty"`

	Status           string   `json:"status"`
	ChunkCount       int      `json:"chunk_count"`
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
	Cost             float64  `json:"cost"`
	RetryCount       int      `json:"retry_count"`
	Warnings         []string `json:"warnings,omitempty"`
	ErrorDetail      *string  `json:"error_detail,omitempty"`
	ErrorKind        *string  `json:"error_kind,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobFromEntity maps a job to its API shape.
func JobFromEntity(j *entities.CorrectionJob) JobResponse {
	return JobResponse{
		ID:                j.ID,
		TranscriptID:      j.TranscriptID,
		Mode:              string(j.Mode),
		Model:             j.Model,
		WordListVersionID: j.WordListVersionID,
		Status:            string(j.Status),
		ChunkCount:        j.ChunkCount,
		PromptTokens:      j.PromptTokens,
		CompletionTokens:  j.CompletionTokens,
		Cost:              j.Cost,
		RetryCount:        j.RetryCount,
		Warnings:          j.Warnings,
		ErrorDetail:       j.ErrorDetail,
		ErrorKind:         j.ErrorKind,
		CreatedAt:         j.CreatedAt,
		StartedAt:         j.StartedAt,
		CompletedAt:       j.CompletedAt,
	}
}

// JobsFromEntities maps a job list.
func JobsFromEntities(jobs []entities.CorrectionJob) []JobResponse {
	out := make([]JobResponse, len(jobs))
	for i := range jobs {
		out[i] = JobFromEntity(&jobs[i])
	}
	return out
}

// DiffResponse carries the original/corrected diff for a completed job.
type DiffResponse struct {
	JobID    uuid.UUID          `json:"job_id"`
	Segments []textdiff.Segment `json:"segments"`
}
