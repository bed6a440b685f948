package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

// UserRepository handles user persistence
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("user")
		}
		return nil, apperrors.ErrDBQueryFailed("find user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("api_key = ? AND is_active = ?", apiKey, true).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated()
		}
		return nil, apperrors.ErrDBQueryFailed("find user by api key", err)
	}
	return &user, nil
}

// AddAPICost adds cost to the user's running total atomically in SQL, so
// concurrent jobs never lose an update.
func (r *UserRepository) AddAPICost(ctx context.Context, userID uuid.UUID, cost float64) error {
	result := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Update("total_api_cost", gorm.Expr("total_api_cost + ?", cost))
	if result.Error != nil {
		return apperrors.ErrDBQueryFailed("add api cost", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound("user")
	}
	return nil
}
