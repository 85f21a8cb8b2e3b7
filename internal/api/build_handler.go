package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sfvdirectory/sitegen/internal/models"
	"github.com/sfvdirectory/sitegen/internal/service"
	"github.com/sfvdirectory/sitegen/internal/validation"
)

// BuildHandler handles build-trigger endpoints
type BuildHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBuildHandler creates a new BuildHandler
func NewBuildHandler(services *service.Services, log zerolog.Logger) *BuildHandler {
	return &BuildHandler{
		services: services,
		log:      log.With().Str("handler", "build").Logger(),
	}
}

// CreateBuild handles POST /v1/builds
// Accepts a JSON body or a kind query parameter
func (h *BuildHandler) CreateBuild(c *gin.Context) {
	var req models.BuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return
		}
	}
	if req.Kind == "" {
		req.Kind = models.BuildKind(c.Query("kind"))
	}
	if req.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required (businesses, categories, sitemap, all)"})
		return
	}

	run, err := h.services.Build.CreateBuild(c.Request.Context(), req.Kind)
	if errors.Is(err, service.ErrInvalidKind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(req.Kind)).Msg("Failed to create build")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create build"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"build_id": run.ID,
		"status":   run.Status,
		"kind":     run.Kind,
		"message":  "Build queued for processing",
	})
}

// GetBuild handles GET /v1/builds/:build_id
func (h *BuildHandler) GetBuild(c *gin.Context) {
	buildID := c.Param("build_id")
	if !validation.IsValidBuildID(buildID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "build not found"})
		return
	}

	run, err := h.services.Build.GetBuild(c.Request.Context(), buildID)
	if err != nil {
		h.log.Error().Err(err).Str("build_id", buildID).Msg("Failed to get build")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get build status"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "build not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetBuildFailures handles GET /v1/builds/:build_id/failures
func (h *BuildHandler) GetBuildFailures(c *gin.Context) {
	buildID := c.Param("build_id")
	if !validation.IsValidBuildID(buildID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "build not found"})
		return
	}

	failures, err := h.services.Build.GetBuildFailures(c.Request.Context(), buildID)
	if err != nil {
		h.log.Error().Err(err).Str("build_id", buildID).Msg("Failed to get build failures")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get failures"})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=failures_%s.csv", buildID))
		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"slug", "name", "stage", "error"})
		for _, f := range failures {
			writer.Write([]string{f.Slug, f.Name, string(f.Stage), f.Error})
		}
		writer.Flush()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"build_id":      buildID,
		"failure_count": len(failures),
		"failures":      failures,
	})
}
