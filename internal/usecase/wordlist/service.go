// Package wordlist manages user correction dictionaries. Edits never touch
// an existing version: every change appends a new WordListVersion and moves
// the list's current pointer forward.
package wordlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/domain/repositories"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, name, description string, terms []entities.WordPair) (*entities.WordList, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*entities.WordList, error)
	List(ctx context.Context, userID uuid.UUID) ([]entities.WordList, error)
	// UpdateTerms appends a new version holding the full replacement term
	// set and advances the current pointer.
	UpdateTerms(ctx context.Context, userID, listID uuid.UUID, terms []entities.WordPair) (*entities.WordListVersion, error)
	GetVersion(ctx context.Context, userID, versionID uuid.UUID) (*entities.WordListVersion, error)
	ListVersions(ctx context.Context, userID, listID uuid.UUID) ([]entities.WordListVersion, error)
	// Delete removes a list unless a completed correction job references any
	// of its versions.
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	SetShared(ctx context.Context, userID, listID uuid.UUID, shared bool) (*entities.WordList, error)
	// ShareWith grants read access on an owned list to one user; RevokeShare
	// withdraws it. Grants are independent of the list-wide IsShared flag.
	ShareWith(ctx context.Context, userID, listID, granteeID uuid.UUID) (*entities.SharedWordList, error)
	RevokeShare(ctx context.Context, userID, listID, granteeID uuid.UUID) error
}

type service struct {
	wordListRepo repositories.WordListRepository
	jobRepo      repositories.CorrectionJobRepository
	logger       *zap.Logger
}

func NewService(wordListRepo repositories.WordListRepository, jobRepo repositories.CorrectionJobRepository, logger *zap.Logger) Service {
	return &service{
		wordListRepo: wordListRepo,
		jobRepo:      jobRepo,
		logger:       logger,
	}
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, name, description string, terms []entities.WordPair) (*entities.WordList, error) {
	if name == "" {
		return nil, apperrors.ErrInvalidArgument("word list name is required")
	}
	if existing, err := s.wordListRepo.FindByName(ctx, userID, name); err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyExists("word list")
	}

	list := entities.NewWordList(userID, name, description)
	if err := s.wordListRepo.Create(ctx, list); err != nil {
		return nil, err
	}

	if len(terms) > 0 {
		version, err := entities.NewWordListVersion(list.ID, 1, terms)
		if err != nil {
			return nil, apperrors.ErrInvalidArgument(err.Error())
		}
		if err := s.wordListRepo.AppendVersion(ctx, list, version); err != nil {
			return nil, err
		}
	}

	s.logger.Info("word list created",
		zap.String("wordlist_id", list.ID.String()),
		zap.String("name", name),
		zap.Int("terms", len(terms)),
	)
	return list, nil
}

func (s *service) Get(ctx context.Context, userID, listID uuid.UUID) (*entities.WordList, error) {
	return s.authorized(ctx, userID, listID, false)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]entities.WordList, error) {
	return s.wordListRepo.ListByUser(ctx, userID)
}

func (s *service) UpdateTerms(ctx context.Context, userID, listID uuid.UUID, terms []entities.WordPair) (*entities.WordListVersion, error) {
	list, err := s.authorized(ctx, userID, listID, true)
	if err != nil {
		return nil, err
	}

	next := 1
	if list.CurrentVersionID != nil {
		current, err := s.wordListRepo.FindVersion(ctx, *list.CurrentVersionID)
		if err != nil {
			return nil, err
		}
		next = current.Version + 1
	}

	version, err := entities.NewWordListVersion(list.ID, next, terms)
	if err != nil {
		return nil, apperrors.ErrInvalidArgument(err.Error())
	}
	if err := s.wordListRepo.AppendVersion(ctx, list, version); err != nil {
		return nil, err
	}

	s.logger.Info("word list version appended",
		zap.String("wordlist_id", list.ID.String()),
		zap.Int("version", version.Version),
		zap.Int("terms", version.TermCount),
	)
	return version, nil
}

func (s *service) GetVersion(ctx context.Context, userID, versionID uuid.UUID) (*entities.WordListVersion, error) {
	version, err := s.wordListRepo.FindVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorized(ctx, userID, version.WordListID, false); err != nil {
		return nil, err
	}
	return version, nil
}

func (s *service) ListVersions(ctx context.Context, userID, listID uuid.UUID) ([]entities.WordListVersion, error) {
	if _, err := s.authorized(ctx, userID, listID, false); err != nil {
		return nil, err
	}
	return s.wordListRepo.ListVersions(ctx, listID)
}

func (s *service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	list, err := s.authorized(ctx, userID, listID, true)
	if err != nil {
		return err
	}

	referencing, err := s.jobRepo.CountCompletedByWordList(ctx, listID)
	if err != nil {
		return err
	}
	if referencing > 0 {
		return apperrors.ErrInvalidState("delete word list",
			fmt.Sprintf("referenced by %d completed jobs", referencing), "unreferenced")
	}

	return s.wordListRepo.Delete(ctx, list)
}

func (s *service) SetShared(ctx context.Context, userID, listID uuid.UUID, shared bool) (*entities.WordList, error) {
	list, err := s.authorized(ctx, userID, listID, true)
	if err != nil {
		return nil, err
	}
	list.IsShared = shared
	if err := s.wordListRepo.Update(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *service) ShareWith(ctx context.Context, userID, listID, granteeID uuid.UUID) (*entities.SharedWordList, error) {
	if granteeID == userID {
		return nil, apperrors.ErrInvalidArgument("cannot share a word list with its owner")
	}
	list, err := s.authorized(ctx, userID, listID, true)
	if err != nil {
		return nil, err
	}

	share := entities.NewSharedWordList(list.ID, granteeID)
	if err := s.wordListRepo.Share(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("word list shared",
		zap.String("wordlist_id", list.ID.String()),
		zap.String("grantee_id", granteeID.String()),
	)
	return share, nil
}

func (s *service) RevokeShare(ctx context.Context, userID, listID, granteeID uuid.UUID) error {
	list, err := s.authorized(ctx, userID, listID, true)
	if err != nil {
		return err
	}
	return s.wordListRepo.Unshare(ctx, list.ID, granteeID)
}

// authorized loads a list and checks access. Writes require ownership;
// reads also pass for shared lists and per-user grants.
func (s *service) authorized(ctx context.Context, userID, listID uuid.UUID, write bool) (*entities.WordList, error) {
	list, err := s.wordListRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		if write {
			return nil, apperrors.ErrPermissionDenied("access word list")
		}
		if !list.IsShared {
			granted, err := s.wordListRepo.HasShare(ctx, list.ID, userID)
			if err != nil {
				return nil, err
			}
			if !granted {
				return nil, apperrors.ErrPermissionDenied("access word list")
			}
		}
	}
	return list, nil
}
