// Package revision keeps the append-only history of finalized corrections.
package revision

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/domain/repositories"
)

// Ledger records finalized correction results as immutable revisions. There
// is deliberately no update or delete operation.
type Ledger struct {
	revisionRepo repositories.RevisionRepository
	logger       *zap.Logger
}

func NewLedger(revisionRepo repositories.RevisionRepository, logger *zap.Logger) *Ledger {
	return &Ledger{revisionRepo: revisionRepo, logger: logger}
}

// Record snapshots the corrected text of a completed job. Jobs in any other
// state are rejected and no row is written.
func (l *Ledger) Record(ctx context.Context, job *entities.CorrectionJob) (*entities.TranscriptRevision, error) {
	if job.Status != entities.JobStatusCompleted {
		return nil, apperrors.ErrInvalidState("finalize", string(job.Status), string(entities.JobStatusCompleted))
	}
	if job.CorrectedContent == nil {
		return nil, apperrors.ErrInternal(nil).WithDetail("reason", "completed job has no corrected content")
	}

	rev := entities.NewTranscriptRevision(job.TranscriptID, job.UserID, job.ID, *job.CorrectedContent)
	if err := l.revisionRepo.Append(ctx, rev); err != nil {
		return nil, err
	}

	l.logger.Info("revision recorded",
		zap.String("revision_id", rev.ID.String()),
		zap.String("transcript_id", rev.TranscriptID.String()),
		zap.String("job_id", job.ID.String()),
	)
	return rev, nil
}

// List returns a transcript's revisions ordered oldest to newest.
func (l *Ledger) List(ctx context.Context, transcriptID uuid.UUID) ([]entities.TranscriptRevision, error) {
	return l.revisionRepo.ListByTranscript(ctx, transcriptID)
}

// Get returns one revision by ID.
func (l *Ledger) Get(ctx context.Context, id uuid.UUID) (*entities.TranscriptRevision, error) {
	return l.revisionRepo.FindByID(ctx, id)
}
