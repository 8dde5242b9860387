package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/venturelens/diligence-api/internal/repository"
)

// RescorePipeline periodically re-runs the scoring engine over stored
// startups so score history tracks curve and persona changes. Scores are
// derived data, so rescoring is always safe to repeat.
type RescorePipeline struct {
	db        *sql.DB
	analysis  AnalysisService
	isRunning bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
}

// GetDB returns the database connection for health checks
func (p *RescorePipeline) GetDB() *sql.DB {
	return p.db
}

// NewRescorePipeline creates a new automated rescoring pipeline
func NewRescorePipeline(db *sql.DB) *RescorePipeline {
	repos := repository.NewRepositories(db)
	return &RescorePipeline{
		db:       db,
		analysis: newAnalysisService(repos, nil),
		stopChan: make(chan struct{}),
	}
}

// PipelineConfig contains configuration for the rescoring pipeline
type PipelineConfig struct {
	BatchSize             int `json:"batch_size"`               // Number of startups to process at once
	IntervalMinutes       int `json:"interval_minutes"`         // How often to run rescoring (minutes)
	MaxConcurrent         int `json:"max_concurrent"`           // Max concurrent batches
	RescoreOlderThanHours int `json:"rescore_older_than_hours"` // Rescore startups last scored over X hours ago
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BatchSize:             50, // Process 50 startups at a time
		IntervalMinutes:       60, // Run every hour
		MaxConcurrent:         4,  // 4 concurrent batches
		RescoreOlderThanHours: 24, // Rescore startups older than a day
	}
}

// Start begins the automated rescoring pipeline
func (p *RescorePipeline) Start(config PipelineConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("pipeline is already running")
	}

	// A fresh channel per run: the previous Stop closed the old one, and a
	// restarted pipeline must not see that closed channel as a stop signal.
	p.stopChan = make(chan struct{})
	p.isRunning = true

	p.wg.Add(1)
	go p.runPipeline(config, p.stopChan)

	log.Printf("🎯 Rescoring pipeline started with config: batch_size=%d, interval=%dm, max_concurrent=%d",
		config.BatchSize, config.IntervalMinutes, config.MaxConcurrent)

	return nil
}

// Stop gracefully stops the rescoring pipeline
func (p *RescorePipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return fmt.Errorf("pipeline is not running")
	}

	close(p.stopChan)
	p.wg.Wait()
	p.isRunning = false

	log.Println("🛑 Rescoring pipeline stopped")
	return nil
}

// IsRunning returns whether the pipeline is currently running
func (p *RescorePipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// RunOnce executes a single rescoring cycle manually
func (p *RescorePipeline) RunOnce(config PipelineConfig) (*PipelineStats, error) {
	ctx := context.Background()
	return p.executeRescoreCycle(ctx, config)
}

// runPipeline is the main pipeline loop. The stop channel is passed in so a
// restarted pipeline never races with Start reassigning the field.
func (p *RescorePipeline) runPipeline(config PipelineConfig, stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(time.Duration(config.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	// Run immediately on start
	ctx := context.Background()
	if stats, err := p.executeRescoreCycle(ctx, config); err != nil {
		log.Printf("❌ Initial rescoring cycle failed: %v", err)
	} else {
		log.Printf("✅ Initial rescoring cycle completed: %s", stats.Summary())
	}

	for {
		select {
		case <-stop:
			log.Println("📋 Pipeline stop signal received")
			return
		case <-ticker.C:
			if stats, err := p.executeRescoreCycle(ctx, config); err != nil {
				log.Printf("❌ Rescoring cycle failed: %v", err)
			} else {
				log.Printf("✅ Rescoring cycle completed: %s", stats.Summary())
			}
		}
	}
}

// executeRescoreCycle performs one complete rescoring cycle
func (p *RescorePipeline) executeRescoreCycle(ctx context.Context, config PipelineConfig) (*PipelineStats, error) {
	startTime := time.Now()
	stats := &PipelineStats{
		StartTime: startTime,
		BatchSize: config.BatchSize,
	}

	log.Printf("🔄 Starting rescoring cycle (batch_size=%d, max_concurrent=%d)",
		config.BatchSize, config.MaxConcurrent)

	startupIDs, err := p.getStartupsForRescoring(config)
	if err != nil {
		return stats, fmt.Errorf("failed to get startups for rescoring: %w", err)
	}

	if len(startupIDs) == 0 {
		stats.EndTime = time.Now()
		log.Println("ℹ️  No startups need rescoring at this time")
		return stats, nil
	}

	log.Printf("📊 Found %d startups that need rescoring", len(startupIDs))
	stats.StartupsFound = len(startupIDs)

	// Process startups in batches with concurrency control
	semaphore := make(chan struct{}, config.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < len(startupIDs); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(startupIDs) {
			end = len(startupIDs)
		}

		batch := startupIDs[i:end]

		wg.Add(1)
		go func(ids []string) {
			defer wg.Done()

			// Acquire semaphore
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			batchStats := p.processBatch(ctx, ids)

			mu.Lock()
			stats.StartupsProcessed += batchStats.Processed
			stats.StartupsSucceeded += batchStats.Succeeded
			stats.StartupsFailed += batchStats.Failed
			mu.Unlock()
		}(batch)
	}

	wg.Wait()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	return stats, nil
}

// getStartupsForRescoring retrieves startups whose latest score is stale or
// missing, oldest first
func (p *RescorePipeline) getStartupsForRescoring(config PipelineConfig) ([]string, error) {
	rescoreDate := time.Now().Add(-time.Duration(config.RescoreOlderThanHours) * time.Hour)

	query := `
		WITH latest_scores AS (
			SELECT startup_id, MAX(scored_at) as last_scored
			FROM score_snapshots
			GROUP BY startup_id
		)
		SELECT s.startup_id
		FROM startups s
		LEFT JOIN latest_scores ls ON s.startup_id = ls.startup_id
		WHERE ls.startup_id IS NULL OR ls.last_scored < $1
		ORDER BY
			CASE WHEN ls.startup_id IS NULL THEN 0 ELSE 1 END,
			COALESCE(ls.last_scored, s.created_at) ASC
		LIMIT $2
	`

	rows, err := p.db.Query(query, rescoreDate, config.BatchSize*10)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// processBatch rescores a batch of startups
func (p *RescorePipeline) processBatch(ctx context.Context, startupIDs []string) BatchStats {
	stats := BatchStats{}

	for _, id := range startupIDs {
		stats.Processed++

		result, err := p.analysis.Analyze(ctx, &AnalyzeRequest{StartupID: id})
		if err != nil {
			log.Printf("❌ Failed to rescore startup %s: %v", id, err)
			stats.Failed++
			continue
		}

		log.Printf("✅ Rescored startup %s: score=%.1f, recommendation=%s",
			id, result.AggregateScore, result.Recommendation)
		stats.Succeeded++
	}

	return stats
}

// GetStats returns current pipeline statistics
func (p *RescorePipeline) GetStats() (PipelineStatus, error) {
	status := PipelineStatus{
		IsRunning: p.IsRunning(),
		Timestamp: time.Now(),
	}

	var totalStartups, scoredStartups int

	if err := p.db.QueryRow("SELECT COUNT(*) FROM startups").Scan(&totalStartups); err != nil {
		return status, err
	}

	if err := p.db.QueryRow("SELECT COUNT(DISTINCT startup_id) FROM score_snapshots").Scan(&scoredStartups); err != nil {
		return status, err
	}

	status.TotalStartups = totalStartups
	status.ScoredStartups = scoredStartups
	status.PendingStartups = totalStartups - scoredStartups

	return status, nil
}

// Data structures

type BatchStats struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type PipelineStats struct {
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	Duration          time.Duration `json:"duration"`
	BatchSize         int           `json:"batch_size"`
	StartupsFound     int           `json:"startups_found"`
	StartupsProcessed int           `json:"startups_processed"`
	StartupsSucceeded int           `json:"startups_succeeded"`
	StartupsFailed    int           `json:"startups_failed"`
}

func (s *PipelineStats) Summary() string {
	return fmt.Sprintf("processed=%d, succeeded=%d, failed=%d, duration=%v",
		s.StartupsProcessed, s.StartupsSucceeded, s.StartupsFailed, s.Duration.Round(time.Second))
}

type PipelineStatus struct {
	IsRunning       bool      `json:"is_running"`
	TotalStartups   int       `json:"total_startups"`
	ScoredStartups  int       `json:"scored_startups"`
	PendingStartups int       `json:"pending_startups"`
	Timestamp       time.Time `json:"timestamp"`
}
