package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venturelens/diligence-api/internal/services"
)

// PipelineHandler handles rescoring pipeline management operations
type PipelineHandler struct {
	pipeline *services.RescorePipeline
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(db *sql.DB) *PipelineHandler {
	return &PipelineHandler{
		pipeline: services.NewRescorePipeline(db),
	}
}

// GetPipelineStatus returns the current status of the rescoring pipeline
func (h *PipelineHandler) GetPipelineStatus(c *gin.Context) {
	status, err := h.pipeline.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pipeline status: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pipeline_status": status,
		"timestamp":       time.Now(),
	})
}

// GetPipelineConfig returns the default pipeline configuration
func (h *PipelineHandler) GetPipelineConfig(c *gin.Context) {
	config := services.DefaultPipelineConfig()

	c.JSON(http.StatusOK, gin.H{
		"default_config": config,
		"description": map[string]string{
			"batch_size":               "Number of startups to rescore in each batch",
			"interval_minutes":         "How often to run rescoring cycles (in minutes)",
			"max_concurrent":           "Maximum number of concurrent batch workers",
			"rescore_older_than_hours": "Rescore startups whose latest score is older than X hours",
		},
		"timestamp": time.Now(),
	})
}

// StartPipeline starts the automated rescoring pipeline
func (h *PipelineHandler) StartPipeline(c *gin.Context) {
	// Parse configuration from request body or use defaults
	var config services.PipelineConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		config = services.DefaultPipelineConfig()
	}

	// Validate config
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.IntervalMinutes <= 0 {
		config.IntervalMinutes = 60
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	if config.RescoreOlderThanHours <= 0 {
		config.RescoreOlderThanHours = 24
	}

	if err := h.pipeline.Start(config); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to start pipeline: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescoring pipeline started successfully",
		"config":    config,
		"timestamp": time.Now(),
	})
}

// StopPipeline stops the automated rescoring pipeline
func (h *PipelineHandler) StopPipeline(c *gin.Context) {
	if err := h.pipeline.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to stop pipeline: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescoring pipeline stopped successfully",
		"timestamp": time.Now(),
	})
}

// RunPipelineOnce executes a single rescoring cycle manually
func (h *PipelineHandler) RunPipelineOnce(c *gin.Context) {
	// Parse configuration from query parameters or use defaults
	config := services.DefaultPipelineConfig()

	if batchSize := c.Query("batch_size"); batchSize != "" {
		if parsed, err := strconv.Atoi(batchSize); err == nil && parsed > 0 {
			config.BatchSize = parsed
		}
	}
	if maxConcurrent := c.Query("max_concurrent"); maxConcurrent != "" {
		if parsed, err := strconv.Atoi(maxConcurrent); err == nil && parsed > 0 {
			config.MaxConcurrent = parsed
		}
	}
	if olderThan := c.Query("rescore_older_than_hours"); olderThan != "" {
		if parsed, err := strconv.Atoi(olderThan); err == nil && parsed > 0 {
			config.RescoreOlderThanHours = parsed
		}
	}

	stats, err := h.pipeline.RunOnce(config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rescoring cycle failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Rescoring cycle completed",
		"stats":     stats,
		"timestamp": time.Now(),
	})
}
