package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/proofline/proofline/errors"
	wordlistdto "github.com/proofline/proofline/internal/adapter/dto/wordlist"
	"github.com/proofline/proofline/internal/infrastructure/http/middleware"
	wordlistUsecase "github.com/proofline/proofline/internal/usecase/wordlist"
)

// WordList handles word-list HTTP requests
type WordList struct {
	wordListService wordlistUsecase.Service
	logger          *zap.Logger
}

// NewWordListHandler creates a new word list handler
func NewWordListHandler(wordListService wordlistUsecase.Service, logger *zap.Logger) *WordList {
	return &WordList{
		wordListService: wordListService,
		logger:          logger,
	}
}

// Create handles POST /wordlists
func (h *WordList) Create(c echo.Context) error {
	var req wordlistdto.CreateWordListRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	list, err := h.wordListService.Create(c.Request().Context(), user.ID, req.Name, req.Description, wordlistdto.ToWordPairs(req.Terms))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.FromEntity(list))
}

// Import handles POST /wordlists/import. The body is multipart form data
// with a "file" part holding incorrect,correct CSV rows; the "name" field
// names the new list.
func (h *WordList) Import(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	name := c.FormValue("name")
	if name == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("name is required"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	defer file.Close()

	terms, err := wordlistUsecase.ParseTermsCSV(file)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	list, err := h.wordListService.Create(c.Request().Context(), user.ID, name, c.FormValue("description"), terms)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.FromEntity(list))
}

// Get handles GET /wordlists/:id
func (h *WordList) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	list, err := h.wordListService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.FromEntity(list))
}

// List handles GET /wordlists
func (h *WordList) List(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	lists, err := h.wordListService.List(c.Request().Context(), user.ID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.FromEntities(lists))
}

// UpdateTerms handles PUT /wordlists/:id/terms
func (h *WordList) UpdateTerms(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req wordlistdto.UpdateTermsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	version, err := h.wordListService.UpdateTerms(c.Request().Context(), user.ID, id, wordlistdto.ToWordPairs(req.Terms))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.VersionFromEntity(version, true))
}

// ListVersions handles GET /wordlists/:id/versions
func (h *WordList) ListVersions(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	versions, err := h.wordListService.ListVersions(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.VersionsFromEntities(versions))
}

// GetVersion handles GET /wordlists/versions/:versionId
func (h *WordList) GetVersion(c echo.Context) error {
	id, err := parseIDParam(c, "versionId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	version, err := h.wordListService.GetVersion(c.Request().Context(), user.ID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.VersionFromEntity(version, true))
}

// Share handles PUT /wordlists/:id/share
func (h *WordList) Share(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req wordlistdto.ShareRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	list, err := h.wordListService.SetShared(c.Request().Context(), user.ID, id, req.Shared)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.FromEntity(list))
}

// ShareWith handles POST /wordlists/:id/shares
func (h *WordList) ShareWith(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req wordlistdto.ShareGrantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	share, err := h.wordListService.ShareWith(c.Request().Context(), user.ID, id, req.UserID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, wordlistdto.ShareGrantFromEntity(share))
}

// RevokeShare handles DELETE /wordlists/:id/shares/:userId
func (h *WordList) RevokeShare(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	granteeID, err := parseIDParam(c, "userId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	if err := h.wordListService.RevokeShare(c.Request().Context(), user.ID, id, granteeID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Delete handles DELETE /wordlists/:id
func (h *WordList) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	user := middleware.CurrentUser(c)
	if user == nil {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	if err := h.wordListService.Delete(c.Request().Context(), user.ID, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
