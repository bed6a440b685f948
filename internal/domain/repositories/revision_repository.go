package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// RevisionRepository is the append-only revision ledger. There is no update
// or delete operation by design.
type RevisionRepository interface {
	Append(ctx context.Context, revision *entities.TranscriptRevision) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptRevision, error)
	// ListByTranscript returns revisions ordered oldest to newest.
	ListByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]entities.TranscriptRevision, error)
}
