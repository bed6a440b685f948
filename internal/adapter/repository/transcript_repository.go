package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

// TranscriptRepository handles transcript persistence
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if transcript == nil {
		return errors.New("transcript cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return apperrors.ErrDBQueryFailed("create transcript", err)
	}
	return nil
}

func (r *TranscriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("transcript")
		}
		return nil, apperrors.ErrDBQueryFailed("find transcript", err)
	}
	return &transcript, nil
}

func (r *TranscriptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.Transcript, error) {
	var transcripts []entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transcripts).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list transcripts", err)
	}
	return transcripts, nil
}

// UpdateTitle is the only mutation allowed on a stored transcript; content
// is write-once.
func (r *TranscriptRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).Model(&entities.Transcript{}).
		Where("id = ?", id).
		Update("title", title)
	if result.Error != nil {
		return apperrors.ErrDBQueryFailed("update transcript title", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("transcript")
	}
	return nil
}

func (r *TranscriptRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Model(&entities.Transcript{}).
		Where("id = ?", id).
		Update("is_processed", true).Error; err != nil {
		return apperrors.ErrDBQueryFailed("mark transcript processed", err)
	}
	return nil
}
