package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

// RevisionRepository persists the append-only revision ledger. Deliberately
// exposes no update or delete operation.
type RevisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(db *gorm.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) Append(ctx context.Context, revision *entities.TranscriptRevision) error {
	if revision == nil {
		return errors.New("revision cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(revision).Error; err != nil {
		return apperrors.ErrDBQueryFailed("append revision", err)
	}
	return nil
}

func (r *RevisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptRevision, error) {
	var revision entities.TranscriptRevision
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&revision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("revision")
		}
		return nil, apperrors.ErrDBQueryFailed("find revision", err)
	}
	return &revision, nil
}

// ListByTranscript returns revisions oldest first, matching the order they
// were recorded.
func (r *RevisionRepository) ListByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]entities.TranscriptRevision, error) {
	var revisions []entities.TranscriptRevision
	if err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Order("created_at ASC").
		Find(&revisions).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list revisions", err)
	}
	return revisions, nil
}
