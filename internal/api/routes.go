package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/venturelens/diligence-api/internal/database"
	"github.com/venturelens/diligence-api/internal/insights"
	"github.com/venturelens/diligence-api/internal/middleware"
	"github.com/venturelens/diligence-api/internal/services"
	"github.com/venturelens/diligence-api/pkg/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config) error {
	// Wrap sql.DB in our database wrapper for health checks
	dbWrapper := &database.DB{DB: db}

	// Narrative generator is optional; scoring works without it
	generator, err := insights.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("failed to create insights generator: %w", err)
	}

	// Create centralized services
	svcs := services.NewServices(db, cfg, generator)

	// Create handlers with service injection
	analyzeHandler := NewAnalyzeHandler(svcs.Analysis)
	startupsHandler := NewStartupsHandler(svcs.Startup)
	pipelineHandler := NewPipelineHandler(db)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			status := http.StatusOK
			dbStatus := "up"
			if err := dbWrapper.HealthCheck(); err != nil {
				status = http.StatusServiceUnavailable
				dbStatus = "down"
			}
			c.JSON(status, gin.H{
				"status":    dbStatus,
				"narrative": generator.Enabled(),
				"timestamp": time.Now(),
			})
		})
	}

	// Protected routes behind the API key perimeter
	protected := r.Group("/api/v1")
	protected.Use(middleware.APIKeyMiddleware(cfg))
	{
		// Startup profile endpoints
		protected.POST("/startups/:id/metrics", startupsHandler.SubmitMetrics)
		protected.GET("/startups", startupsHandler.ListStartups)
		protected.GET("/startups/:id", startupsHandler.GetStartup)
		protected.GET("/startups/:id/scores", startupsHandler.GetScores)
		protected.DELETE("/startups/:id", startupsHandler.DeleteStartup)

		// Analysis endpoints
		protected.POST("/analyze", analyzeHandler.Analyze)
		protected.POST("/counterfactual", analyzeHandler.Counterfactual)
		protected.POST("/startups/:id/stress", analyzeHandler.StressTest)

		// Automated rescoring pipeline endpoints
		protected.GET("/pipeline/status", pipelineHandler.GetPipelineStatus)
		protected.GET("/pipeline/config", pipelineHandler.GetPipelineConfig)
		protected.POST("/pipeline/start", pipelineHandler.StartPipeline)
		protected.POST("/pipeline/stop", pipelineHandler.StopPipeline)
		protected.POST("/pipeline/run-once", pipelineHandler.RunPipelineOnce)
	}

	return nil
}
