package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofline/proofline/internal/domain/entities"
)

// TranscriptRepository defines transcript persistence operations. Content is
// write-once; only the title may be updated after creation.
type TranscriptRepository interface {
	Create(ctx context.Context, transcript *entities.Transcript) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.Transcript, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}
