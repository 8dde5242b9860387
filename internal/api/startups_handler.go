package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venturelens/diligence-api/internal/models"
	"github.com/venturelens/diligence-api/internal/repository"
	"github.com/venturelens/diligence-api/internal/services"
)

// StartupsHandler handles startup profile operations
type StartupsHandler struct {
	startups services.StartupService
}

// NewStartupsHandler creates a new startups handler
func NewStartupsHandler(startups services.StartupService) *StartupsHandler {
	return &StartupsHandler{startups: startups}
}

// SubmitMetrics stores a questionnaire payload for a startup
func (h *StartupsHandler) SubmitMetrics(c *gin.Context) {
	startupID := c.Param("id")

	var raw models.RawMetrics
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	profile, err := h.startups.SubmitMetrics(startupID, raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"startup":   profile,
		"timestamp": time.Now(),
	})
}

// GetStartup returns a stored startup profile
func (h *StartupsHandler) GetStartup(c *gin.Context) {
	profile, err := h.startups.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"startup":   profile,
		"timestamp": time.Now(),
	})
}

// ListStartups returns stored startups, optionally filtered by sector
func (h *StartupsHandler) ListStartups(c *gin.Context) {
	filters := repository.StartupFilters{
		Sector: c.Query("sector"),
		Limit:  100,
	}
	if limit := c.Query("limit"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			filters.Limit = parsed
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if parsed, err := strconv.Atoi(offset); err == nil && parsed > 0 {
			filters.Offset = parsed
		}
	}

	profiles, err := h.startups.GetAll(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"startups":  profiles,
		"count":     len(profiles),
		"timestamp": time.Now(),
	})
}

// GetScores returns the score history for a startup, newest first
func (h *StartupsHandler) GetScores(c *gin.Context) {
	startupID := c.Param("id")

	limit := 50
	if param := c.Query("limit"); param != "" {
		if parsed, err := strconv.Atoi(param); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	latest, err := h.startups.GetLatestScore(startupID)
	if err != nil {
		respondError(c, err)
		return
	}
	history, err := h.startups.GetScoreHistory(startupID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"startup_id": startupID,
		"latest":     latest,
		"history":    history,
		"timestamp":  time.Now(),
	})
}

// DeleteStartup removes a startup profile and its score history
func (h *StartupsHandler) DeleteStartup(c *gin.Context) {
	if err := h.startups.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Startup deleted",
		"timestamp": time.Now(),
	})
}
