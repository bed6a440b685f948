package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proofline/proofline/errors"
	correctiondto "github.com/proofline/proofline/internal/adapter/dto/correction"
	transcriptdto "github.com/proofline/proofline/internal/adapter/dto/transcript"
	"github.com/proofline/proofline/internal/infrastructure/http/middleware"
	correctionUsecase "github.com/proofline/proofline/internal/usecase/correction"
)

// Correction handles correction job HTTP requests
type Correction struct {
	correctionService correctionUsecase.Service
	defaultModel      string
	logger            *zap.Logger
}

// NewCorrectionHandler creates a new correction handler
func NewCorrectionHandler(correctionService correctionUsecase.Service, defaultModel string, logger *zap.Logger) *Correction {
	return &Correction{
		correctionService: correctionService,
		defaultModel:      defaultModel,
		logger:            logger,
	}
}

// Submit handles POST /corrections. The job runs to a terminal state before
// the response is written; the returned body carries the final status, so a
// failed run still answers 200 with status "failed" and the error detail.
func (h *Correction) Submit(c echo.Context) error {
	var req correctiondto.SubmitCorrectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	job, err := h.correctionService.Submit(c.Request().Context(), user, req.ToInput(h.defaultModel))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, correctiondto.JobFromEntity(job))
}

// GetStatus handles GET /corrections/:id
func (h *Correction) GetStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	job, err := h.correctionService.GetStatus(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, correctiondto.JobFromEntity(job))
}

// GetDiff handles GET /corrections/:id/diff
func (h *Correction) GetDiff(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	segments, err := h.correctionService.GetDiff(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, correctiondto.DiffResponse{JobID: id, Segments: segments})
}

// Finalize handles POST /corrections/:id/finalize
func (h *Correction) Finalize(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	rev, err := h.correctionService.Finalize(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, transcriptdto.RevisionFromEntity(rev, false))
}
