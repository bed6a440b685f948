package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// CorrectionJobRepository defines correction job persistence. Terminal rows
// are never rewritten; re-runs create new rows.
type CorrectionJobRepository interface {
	Create(ctx context.Context, job *entities.CorrectionJob) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.CorrectionJob, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.CorrectionJob, error)
	ListByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]entities.CorrectionJob, error)
	MarkProcessing(ctx context.Context, job *entities.CorrectionJob) error
	MarkCompleted(ctx context.Context, job *entities.CorrectionJob) error
	MarkFailed(ctx context.Context, job *entities.CorrectionJob) error
	UpdateRetryCount(ctx context.Context, jobID uuid.UUID, retryCount int) error
	// CountCompletedByWordList reports completed jobs referencing any version
	// of the given word list; used to guard word-list deletion.
	CountCompletedByWordList(ctx context.Context, wordListID uuid.UUID) (int64, error)
	// FailInterrupted marks jobs stuck in processing since before cutoff as
	// failed with the interrupted error kind.
	FailInterrupted(ctx context.Context, cutoff time.Time) (int64, error)
}
