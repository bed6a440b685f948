package entities

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a correction job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"    // Created, not yet executing
	JobStatusProcessing JobStatus = "processing" // Chunk execution in progress
	JobStatusCompleted  JobStatus = "completed"  // All chunks corrected
	JobStatusFailed     JobStatus = "failed"     // A chunk failed after retries, or the host was interrupted
)

// ProcessingMode selects the preset instruction sent to the model.
type ProcessingMode string

const (
	ModeProofreading ProcessingMode = "proofreading" // Typo/spelling fixes only
	ModeGrammar      ProcessingMode = "grammar"      // Grammar and phrasing fixes
	ModeSummarize    ProcessingMode = "summarize"    // Summary generation
	ModeCustom       ProcessingMode = "custom"       // Caller-supplied instructions only
)

// IsValid reports whether the mode is one of the known presets.
func (m ProcessingMode) IsValid() bool {
	switch m {
	case ModeProofreading, ModeGrammar, ModeSummarize, ModeCustom:
		return true
	}
	return false
}

// ErrKindInterrupted marks jobs whose hosting process died mid-run. Set by
// the startup sweep, never by the engine itself.
const ErrKindInterrupted = "interrupted"

// CorrectionJob is one correction attempt against a transcript. Terminal
// jobs are immutable: a re-run is always a new row, so cost and output stay
// auditable per attempt.
type CorrectionJob struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	TranscriptID uuid.UUID `json:"transcript_id" gorm:"type:uuid;not null;index"`

	// Job configuration, frozen at creation.
	Mode              ProcessingMode `json:"mode" gorm:"type:varchar(20);not null"`
	CustomPrompt      string         `json:"custom_prompt,omitempty" gorm:"type:text"`
	Model             string         `json:"model" gorm:"type:varchar(50);not null"`
	WordListVersionID *uuid.UUID     `json:"wordlist_version_id,omitempty" gorm:"column:wordlist_version_id;type:uuid;index"`

	// Status and results.
	Status           JobStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	CorrectedContent *string   `json:"corrected_content,omitempty" gorm:"type:text"`

	// Token accounting. Counts come from provider-reported usage, summed
	// across chunks; cost is prompt_tokens*price_in + completion_tokens*
	// price_out. Preserved on failure for audit.
	PromptTokens     int     `json:"prompt_tokens" gorm:"type:integer;default:0;not null"`
	CompletionTokens int     `json:"completion_tokens" gorm:"type:integer;default:0;not null"`
	Cost             float64 `json:"cost" gorm:"type:numeric(10,6);default:0;not null"`

	ChunkCount int      `json:"chunk_count" gorm:"type:integer;default:0;not null"`
	Warnings   []string `json:"warnings,omitempty" gorm:"type:jsonb;serializer:json"`

	// Error handling.
	RetryCount  int     `json:"retry_count" gorm:"type:integer;default:0;not null"`
	ErrorDetail *string `json:"error_detail,omitempty" gorm:"type:text"`
	ErrorKind   *string `json:"error_kind,omitempty" gorm:"type:varchar(50)"`

	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewCorrectionJob creates a job in the pending state.
func NewCorrectionJob(userID, transcriptID uuid.UUID, mode ProcessingMode, model string) *CorrectionJob {
	return &CorrectionJob{
		ID:           uuid.New(),
		UserID:       userID,
		TranscriptID: transcriptID,
		Mode:         mode,
		Model:        model,
		Status:       JobStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// IsTerminal reports whether the job has reached a frozen final state.
func (j *CorrectionJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkAsProcessing records the single pending → processing transition.
func (j *CorrectionJob) MarkAsProcessing() {
	j.Status = JobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted freezes output and accounting on the job.
func (j *CorrectionJob) MarkAsCompleted(corrected string) {
	j.Status = JobStatusCompleted
	j.CorrectedContent = &corrected
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed freezes the error detail. Token counts and cost accumulated
// before the failure stay on the row.
func (j *CorrectionJob) MarkAsFailed(detail string) {
	j.Status = JobStatusFailed
	j.ErrorDetail = &detail
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// TotalTokens returns the combined token count.
func (j *CorrectionJob) TotalTokens() int {
	return j.PromptTokens + j.CompletionTokens
}

// TableName specifies the table name for GORM
func (CorrectionJob) TableName() string {
	return "correction_jobs"
}
