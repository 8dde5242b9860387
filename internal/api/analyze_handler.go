package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venturelens/diligence-api/internal/services"
)

// AnalyzeHandler handles scoring and what-if analysis operations
type AnalyzeHandler struct {
	analysis services.AnalysisService
}

// NewAnalyzeHandler creates a new analysis handler
func NewAnalyzeHandler(analysis services.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis}
}

// Analyze scores a questionnaire payload or a stored startup
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var req services.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis":  result,
		"timestamp": time.Now(),
	})
}

// Counterfactual runs what-if scenarios and breakpoint search
func (h *AnalyzeHandler) Counterfactual(c *gin.Context) {
	var req services.CounterfactualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.analysis.Counterfactual(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counterfactual": result,
		"timestamp":      time.Now(),
	})
}

// StressTest applies a named stress preset to a stored startup
func (h *AnalyzeHandler) StressTest(c *gin.Context) {
	startupID := c.Param("id")

	var body struct {
		Preset string `json:"preset" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body: preset is required",
			"presets": services.StressPresets(),
		})
		return
	}

	result, err := h.analysis.StressTest(c.Request.Context(), startupID, body.Preset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stress_test": result,
		"timestamp":   time.Now(),
	})
}
