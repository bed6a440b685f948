package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptRevision is an immutable snapshot emitted when a user finalizes
// a completed correction. Rows are append-only and ordered by creation time;
// there is no update or delete path.
type TranscriptRevision struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TranscriptID    uuid.UUID `json:"transcript_id" gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	CorrectionJobID uuid.UUID `json:"correction_job_id" gorm:"type:uuid;not null;index"`

	Content string `json:"content" gorm:"type:text;not null"`
	IsFinal bool   `json:"is_final" gorm:"default:true;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewTranscriptRevision snapshots the finalized text of a correction job.
func NewTranscriptRevision(transcriptID, userID, jobID uuid.UUID, content string) *TranscriptRevision {
	return &TranscriptRevision{
		ID:              uuid.New(),
		TranscriptID:    transcriptID,
		UserID:          userID,
		CorrectionJobID: jobID,
		Content:         content,
		IsFinal:         true,
		CreatedAt:       time.Now(),
	}
}

// TableName specifies the table name for GORM
func (TranscriptRevision) TableName() string {
	return "transcript_revisions"
}
