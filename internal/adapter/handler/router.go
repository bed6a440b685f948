package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/proofline/proofline/internal/infrastructure/http/middleware"
	"github.com/proofline/proofline/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	auth              *middleware.AuthMiddleware
	transcriptHandler *Transcript
	wordListHandler   *WordList
	correctionHandler *Correction
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware, transcriptHandler *Transcript, wordListHandler *WordList, correctionHandler *Correction) *Router {
	return &Router{
		cfg:               cfg,
		auth:              auth,
		transcriptHandler: transcriptHandler,
		wordListHandler:   wordListHandler,
		correctionHandler: correctionHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group, authenticated
	v1 := e.Group("/v1", rt.auth.Authenticate)

	rt.setupTranscriptRoutes(v1)
	rt.setupWordListRoutes(v1)
	rt.setupCorrectionRoutes(v1)
}

// setupTranscriptRoutes configures transcript routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	transcripts := g.Group("/transcripts")

	transcripts.POST("", rt.transcriptHandler.Upload)
	transcripts.GET("", rt.transcriptHandler.List)
	transcripts.GET("/:id", rt.transcriptHandler.Get)
	transcripts.PUT("/:id", rt.transcriptHandler.Rename)
	transcripts.GET("/:id/revisions", rt.transcriptHandler.Revisions)
	transcripts.GET("/:id/corrections", rt.transcriptHandler.Corrections)
}

// setupWordListRoutes configures word list routes
func (rt *Router) setupWordListRoutes(g *echo.Group) {
	wordlists := g.Group("/wordlists")

	wordlists.POST("", rt.wordListHandler.Create)
	wordlists.POST("/import", rt.wordListHandler.Import)
	wordlists.GET("", rt.wordListHandler.List)
	wordlists.GET("/versions/:versionId", rt.wordListHandler.GetVersion)
	wordlists.GET("/:id", rt.wordListHandler.Get)
	wordlists.PUT("/:id/terms", rt.wordListHandler.UpdateTerms)
	wordlists.GET("/:id/versions", rt.wordListHandler.ListVersions)
	wordlists.PUT("/:id/share", rt.wordListHandler.Share)
	wordlists.POST("/:id/shares", rt.wordListHandler.ShareWith)
	wordlists.DELETE("/:id/shares/:userId", rt.wordListHandler.RevokeShare)
	wordlists.DELETE("/:id", rt.wordListHandler.Delete)
}

// setupCorrectionRoutes configures correction job routes
func (rt *Router) setupCorrectionRoutes(g *echo.Group) {
	corrections := g.Group("/corrections")

	corrections.POST("", rt.correctionHandler.Submit)
	corrections.GET("/:id", rt.correctionHandler.GetStatus)
	corrections.GET("/:id/diff", rt.correctionHandler.GetDiff)
	corrections.POST("/:id/finalize", rt.correctionHandler.Finalize)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
