package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

// CorrectionJobRepository handles correction job persistence
type CorrectionJobRepository struct {
	db *gorm.DB
}

// NewCorrectionJobRepository creates a new correction job repository
func NewCorrectionJobRepository(db *gorm.DB) *CorrectionJobRepository {
	return &CorrectionJobRepository{db: db}
}

func (r *CorrectionJobRepository) Create(ctx context.Context, job *entities.CorrectionJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return apperrors.ErrDBQueryFailed("create correction job", err)
	}
	return nil
}

func (r *CorrectionJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.CorrectionJob, error) {
	var job entities.CorrectionJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("correction job")
		}
		return nil, apperrors.ErrDBQueryFailed("find correction job", err)
	}
	return &job, nil
}

func (r *CorrectionJobRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.CorrectionJob, error) {
	var jobs []entities.CorrectionJob
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list correction jobs", err)
	}
	return jobs, nil
}

func (r *CorrectionJobRepository) ListByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]entities.CorrectionJob, error) {
	var jobs []entities.CorrectionJob
	if err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list correction jobs", err)
	}
	return jobs, nil
}

// MarkProcessing persists the pending → processing transition. The status
// guard in the WHERE clause keeps the transition one-way.
func (r *CorrectionJobRepository) MarkProcessing(ctx context.Context, job *entities.CorrectionJob) error {
	result := r.db.WithContext(ctx).Model(&entities.CorrectionJob{}).
		Where("id = ? AND status = ?", job.ID, entities.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.JobStatusProcessing,
			"started_at": job.StartedAt,
			"updated_at": job.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.ErrDBQueryFailed("mark job processing", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvalidState("start job", "not pending", string(entities.JobStatusPending))
	}
	return nil
}

func (r *CorrectionJobRepository) MarkCompleted(ctx context.Context, job *entities.CorrectionJob) error {
	return r.finish(ctx, job,
		"status", "corrected_content", "prompt_tokens", "completion_tokens",
		"cost", "chunk_count", "warnings", "retry_count", "completed_at", "updated_at")
}

func (r *CorrectionJobRepository) MarkFailed(ctx context.Context, job *entities.CorrectionJob) error {
	return r.finish(ctx, job,
		"status", "prompt_tokens", "completion_tokens", "cost", "chunk_count",
		"warnings", "retry_count", "error_detail", "error_kind", "completed_at", "updated_at")
}

// finish writes a terminal state. Rows already terminal are never touched,
// preserving immutability of finished jobs.
func (r *CorrectionJobRepository) finish(ctx context.Context, job *entities.CorrectionJob, fields ...string) error {
	result := r.db.WithContext(ctx).Model(&entities.CorrectionJob{}).
		Where("id = ? AND status NOT IN ?", job.ID,
			[]entities.JobStatus{entities.JobStatusCompleted, entities.JobStatusFailed}).
		Select(fields).
		Updates(job)
	if result.Error != nil {
		return apperrors.ErrDBQueryFailed("finish correction job", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrInvalidState("finish job", "terminal", "processing")
	}
	return nil
}

func (r *CorrectionJobRepository) UpdateRetryCount(ctx context.Context, jobID uuid.UUID, retryCount int) error {
	if err := r.db.WithContext(ctx).Model(&entities.CorrectionJob{}).
		Where("id = ?", jobID).
		Update("retry_count", retryCount).Error; err != nil {
		return apperrors.ErrDBQueryFailed("update retry count", err)
	}
	return nil
}

func (r *CorrectionJobRepository) CountCompletedByWordList(ctx context.Context, wordListID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.CorrectionJob{}).
		Where("status = ?", entities.JobStatusCompleted).
		Where("wordlist_version_id IN (?)",
			r.db.Model(&entities.WordListVersion{}).Select("id").Where("word_list_id = ?", wordListID)).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.ErrDBQueryFailed("count jobs by word list", err)
	}
	return count, nil
}

// FailInterrupted sweeps jobs a dead process left in processing. Called once
// at startup before the server accepts traffic.
func (r *CorrectionJobRepository) FailInterrupted(ctx context.Context, cutoff time.Time) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.CorrectionJob{}).
		Where("status = ? AND updated_at < ?", entities.JobStatusProcessing, cutoff).
		Updates(map[string]interface{}{
			"status":       entities.JobStatusFailed,
			"error_detail": "process interrupted before job finished",
			"error_kind":   entities.ErrKindInterrupted,
			"completed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return 0, apperrors.ErrDBQueryFailed("fail interrupted jobs", result.Error)
	}
	return result.RowsAffected, nil
}
