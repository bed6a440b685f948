package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proofline/proofline/errors"
	correctiondto "github.com/proofline/proofline/internal/adapter/dto/correction"
	transcriptdto "github.com/proofline/proofline/internal/adapter/dto/transcript"
	"github.com/proofline/proofline/internal/infrastructure/http/middleware"
	correctionUsecase "github.com/proofline/proofline/internal/usecase/correction"
	transcriptUsecase "github.com/proofline/proofline/internal/usecase/transcript"
)

// Transcript handles transcript-related HTTP requests
type Transcript struct {
	transcriptService transcriptUsecase.Service
	correctionService correctionUsecase.Service
	logger            *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(transcriptService transcriptUsecase.Service, correctionService correctionUsecase.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		transcriptService: transcriptService,
		correctionService: correctionService,
		logger:            logger,
	}
}

// Upload handles POST /transcripts
func (h *Transcript) Upload(c echo.Context) error {
	var req transcriptdto.CreateTranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	t, err := h.transcriptService.Upload(c.Request().Context(), user.ID, req.Title, req.Filename, req.Content)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.FromEntity(t, false))
}

// Get handles GET /transcripts/:id
func (h *Transcript) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	t, err := h.transcriptService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.FromEntity(t, true))
}

// List handles GET /transcripts
func (h *Transcript) List(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	ts, err := h.transcriptService.List(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.FromEntities(ts))
}

// Rename handles PUT /transcripts/:id
func (h *Transcript) Rename(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req transcriptdto.UpdateTranscriptRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	t, err := h.transcriptService.Rename(c.Request().Context(), user.ID, id, req.Title)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.FromEntity(t, false))
}

// Revisions handles GET /transcripts/:id/revisions
func (h *Transcript) Revisions(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	revs, err := h.transcriptService.Revisions(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.RevisionsFromEntities(revs))
}

// Corrections handles GET /transcripts/:id/corrections
func (h *Transcript) Corrections(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	jobs, err := h.correctionService.ListByTranscript(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, correctiondto.JobsFromEntities(jobs))
}
