package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/venturelens/diligence-api/internal/database"
	"github.com/venturelens/diligence-api/internal/services"
	"github.com/venturelens/diligence-api/pkg/config"
)

func main() {
	fmt.Println("🎯 VentureLens Automated Rescoring Pipeline")
	fmt.Println("===========================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Create rescoring pipeline
	pipeline := services.NewRescorePipeline(db.DB)

	// Parse configuration from environment or use defaults
	pipelineConfig := services.DefaultPipelineConfig()
	if cfg.RescoreIntervalMinutes > 0 {
		pipelineConfig.IntervalMinutes = cfg.RescoreIntervalMinutes
	}
	if cfg.RescoreBatchSize > 0 {
		pipelineConfig.BatchSize = cfg.RescoreBatchSize
	}

	fmt.Printf("📋 Pipeline Configuration:\n")
	fmt.Printf("   • Batch Size: %d startups\n", pipelineConfig.BatchSize)
	fmt.Printf("   • Interval: %d minutes\n", pipelineConfig.IntervalMinutes)
	fmt.Printf("   • Max Concurrent: %d batches\n", pipelineConfig.MaxConcurrent)
	fmt.Printf("   • Rescore After: %d hours\n", pipelineConfig.RescoreOlderThanHours)

	// Check if this is a one-time run
	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("\n🔄 Running one-time rescoring cycle...")
		stats, err := pipeline.RunOnce(pipelineConfig)
		if err != nil {
			log.Fatalf("❌ One-time rescoring failed: %v", err)
		}

		fmt.Printf("\n✅ One-time rescoring completed!\n")
		fmt.Printf("   • Duration: %v\n", stats.Duration.Round(time.Second))
		fmt.Printf("   • Startups Found: %d\n", stats.StartupsFound)
		fmt.Printf("   • Startups Processed: %d\n", stats.StartupsProcessed)
		fmt.Printf("   • Startups Succeeded: %d\n", stats.StartupsSucceeded)
		fmt.Printf("   • Startups Failed: %d\n", stats.StartupsFailed)
		return
	}

	// Start the automated pipeline
	if err := pipeline.Start(pipelineConfig); err != nil {
		log.Fatalf("❌ Failed to start pipeline: %v", err)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("\n🚀 Automated rescoring pipeline is running...")
	fmt.Println("Press Ctrl+C to stop gracefully")

	// Wait for shutdown signal
	<-sigChan

	fmt.Println("\n🛑 Shutdown signal received, stopping pipeline...")
	if err := pipeline.Stop(); err != nil {
		log.Fatalf("❌ Failed to stop pipeline cleanly: %v", err)
	}
	fmt.Println("✅ Pipeline stopped")
}
