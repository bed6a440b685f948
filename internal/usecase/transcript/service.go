// Package transcript manages uploaded transcript documents and their
// revision history.
package transcript

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/proofline/proofline/errors"
	"github.com/proofline/proofline/internal/domain/entities"
	"github.com/proofline/proofline/internal/domain/repositories"
	"github.com/proofline/proofline/internal/usecase/revision"
)

// maxContentBytes caps a single upload. Large meeting transcripts are a few
// hundred KB; this guards against accidental binary uploads.
const maxContentBytes = 10 << 20

type Service interface {
	Upload(ctx context.Context, userID uuid.UUID, title, filename, content string) (*entities.Transcript, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*entities.Transcript, error)
	List(ctx context.Context, userID uuid.UUID) ([]entities.Transcript, error)
	Rename(ctx context.Context, userID, id uuid.UUID, title string) (*entities.Transcript, error)
	Revisions(ctx context.Context, userID, id uuid.UUID) ([]entities.TranscriptRevision, error)
}

type service struct {
	transcriptRepo repositories.TranscriptRepository
	ledger         *revision.Ledger
	logger         *zap.Logger
}

func NewService(transcriptRepo repositories.TranscriptRepository, ledger *revision.Ledger, logger *zap.Logger) Service {
	return &service{
		transcriptRepo: transcriptRepo,
		ledger:         ledger,
		logger:         logger,
	}
}

func (s *service) Upload(ctx context.Context, userID uuid.UUID, title, filename, content string) (*entities.Transcript, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrInvalidArgument("transcript content is empty")
	}
	if len(content) > maxContentBytes {
		return nil, apperrors.ErrInvalidArgument("transcript content exceeds size limit")
	}
	if !utf8.ValidString(content) {
		return nil, apperrors.ErrInvalidArgument("transcript content is not valid UTF-8")
	}
	if title == "" {
		title = filename
	}
	if title == "" {
		return nil, apperrors.ErrInvalidArgument("transcript title is required")
	}

	t := entities.NewTranscript(userID, title, filename, content)
	if err := s.transcriptRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("transcript uploaded",
		zap.String("transcript_id", t.ID.String()),
		zap.Int("characters", t.CharacterCount),
		zap.Int("words", t.WordCount),
		zap.Int("estimated_tokens", t.EstimatedTokens()),
	)
	return t, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Transcript, error) {
	return s.owned(ctx, userID, id)
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]entities.Transcript, error) {
	return s.transcriptRepo.ListByUser(ctx, userID)
}

func (s *service) Rename(ctx context.Context, userID, id uuid.UUID, title string) (*entities.Transcript, error) {
	if title == "" {
		return nil, apperrors.ErrInvalidArgument("transcript title is required")
	}
	t, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transcriptRepo.UpdateTitle(ctx, id, title); err != nil {
		return nil, err
	}
	t.Title = title
	return t, nil
}

func (s *service) Revisions(ctx context.Context, userID, id uuid.UUID) ([]entities.TranscriptRevision, error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.ledger.List(ctx, id)
}

func (s *service) owned(ctx context.Context, userID, id uuid.UUID) (*entities.Transcript, error) {
	t, err := s.transcriptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, apperrors.ErrPermissionDenied("access transcript")
	}
	return t, nil
}
