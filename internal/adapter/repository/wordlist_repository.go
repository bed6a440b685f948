package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
)

// WordListRepository handles word list and version persistence
type WordListRepository struct {
	db *gorm.DB
}

// NewWordListRepository creates a new word list repository
func NewWordListRepository(db *gorm.DB) *WordListRepository {
	return &WordListRepository{db: db}
}

func (r *WordListRepository) Create(ctx context.Context, list *entities.WordList) error {
	if list == nil {
		return errors.New("word list cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return apperrors.ErrDBQueryFailed("create word list", err)
	}
	return nil
}

func (r *WordListRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.WordList, error) {
	var list entities.WordList
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("word list")
		}
		return nil, apperrors.ErrDBQueryFailed("find word list", err)
	}
	return &list, nil
}

func (r *WordListRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*entities.WordList, error) {
	var list entities.WordList
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("word list")
		}
		return nil, apperrors.ErrDBQueryFailed("find word list by name", err)
	}
	return &list, nil
}

func (r *WordListRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entities.WordList, error) {
	var lists []entities.WordList
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list word lists", err)
	}
	return lists, nil
}

// AppendVersion writes the new version row and advances the list's current
// pointer in one transaction, so readers never observe a dangling pointer.
func (r *WordListRepository) AppendVersion(ctx context.Context, list *entities.WordList, version *entities.WordListVersion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(version).Error; err != nil {
			return err
		}
		return tx.Model(&entities.WordList{}).
			Where("id = ?", list.ID).
			Update("current_version_id", version.ID).Error
	})
	if err != nil {
		return apperrors.ErrDBQueryFailed("append word list version", err)
	}
	list.CurrentVersionID = &version.ID
	return nil
}

func (r *WordListRepository) FindVersion(ctx context.Context, versionID uuid.UUID) (*entities.WordListVersion, error) {
	var version entities.WordListVersion
	if err := r.db.WithContext(ctx).Where("id = ?", versionID).First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound("word list version")
		}
		return nil, apperrors.ErrDBQueryFailed("find word list version", err)
	}
	return &version, nil
}

func (r *WordListRepository) ListVersions(ctx context.Context, wordListID uuid.UUID) ([]entities.WordListVersion, error) {
	var versions []entities.WordListVersion
	if err := r.db.WithContext(ctx).
		Where("word_list_id = ?", wordListID).
		Order("version ASC").
		Find(&versions).Error; err != nil {
		return nil, apperrors.ErrDBQueryFailed("list word list versions", err)
	}
	return versions, nil
}

func (r *WordListRepository) Update(ctx context.Context, list *entities.WordList) error {
	if err := r.db.WithContext(ctx).Model(&entities.WordList{}).
		Where("id = ?", list.ID).
		Select("name", "description", "is_shared", "updated_at").
		Updates(list).Error; err != nil {
		return apperrors.ErrDBQueryFailed("update word list", err)
	}
	return nil
}

func (r *WordListRepository) RecordUsage(ctx context.Context, list *entities.WordList) error {
	if err := r.db.WithContext(ctx).Model(&entities.WordList{}).
		Where("id = ?", list.ID).
		Select("usage_count", "last_used_at", "term_usage", "updated_at").
		Updates(list).Error; err != nil {
		return apperrors.ErrDBQueryFailed("record word list usage", err)
	}
	return nil
}

func (r *WordListRepository) Share(ctx context.Context, share *entities.SharedWordList) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wordlist_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(share).Error; err != nil {
		return apperrors.ErrDBQueryFailed("share word list", err)
	}
	return nil
}

func (r *WordListRepository) Unshare(ctx context.Context, wordListID, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("wordlist_id = ? AND user_id = ?", wordListID, userID).
		Delete(&entities.SharedWordList{}).Error; err != nil {
		return apperrors.ErrDBQueryFailed("unshare word list", err)
	}
	return nil
}

func (r *WordListRepository) HasShare(ctx context.Context, wordListID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.SharedWordList{}).
		Where("wordlist_id = ? AND user_id = ?", wordListID, userID).
		Count(&count).Error; err != nil {
		return false, apperrors.ErrDBQueryFailed("check word list share", err)
	}
	return count > 0, nil
}

// Delete removes the list, its versions and share records. The caller is
// responsible for the completed-job reference check.
func (r *WordListRepository) Delete(ctx context.Context, list *entities.WordList) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wordlist_id = ?", list.ID).Delete(&entities.SharedWordList{}).Error; err != nil {
			return err
		}
		// clear the pointer first so the version delete does not trip the FK
		if err := tx.Model(&entities.WordList{}).
			Where("id = ?", list.ID).
			Update("current_version_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("word_list_id = ?", list.ID).Delete(&entities.WordListVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.WordList{}, "id = ?", list.ID).Error
	})
	if err != nil {
		return apperrors.ErrDBQueryFailed("delete word list", err)
	}
	return nil
}
