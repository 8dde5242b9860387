package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/venturelens/diligence-api/internal/insights"
	"github.com/venturelens/diligence-api/internal/models"
	"github.com/venturelens/diligence-api/internal/repository"
	"github.com/venturelens/diligence-api/internal/scoring"
	"github.com/venturelens/diligence-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Analysis AnalysisService
	Startup  StartupService
}

// AnalysisService defines the interface for scoring business logic
type AnalysisService interface {
	// Analyze scores a questionnaire payload or a stored startup
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error)

	// Counterfactual runs what-if scenarios and breakpoint search
	Counterfactual(ctx context.Context, req *CounterfactualRequest) (*CounterfactualResponse, error)

	// StressTest applies a named stress preset to a stored startup
	StressTest(ctx context.Context, startupID, preset string) (*StressTestResponse, error)
}

// StartupService defines the interface for startup profile business logic
type StartupService interface {
	SubmitMetrics(startupID string, raw models.RawMetrics) (*models.StartupProfile, error)
	Get(startupID string) (*models.StartupProfile, error)
	GetAll(filters repository.StartupFilters) ([]models.StartupProfile, error)
	GetLatestScore(startupID string) (*models.ScoreSnapshot, error)
	GetScoreHistory(startupID string, limit int) ([]models.ScoreSnapshot, error)
	Delete(startupID string) error
}

// AnalyzeRequest carries either an inline questionnaire payload or a
// reference to a stored startup. Inline metrics win when both are present.
type AnalyzeRequest struct {
	StartupID        string            `json:"startup_id,omitempty"`
	Metrics          models.RawMetrics `json:"metrics,omitempty"`
	Persona          *scoring.Persona  `json:"persona,omitempty"`
	IncludeNarrative bool              `json:"include_narrative,omitempty"`
}

// AnalyzeResponse is the full scoring report for one startup
type AnalyzeResponse struct {
	StartupID        string             `json:"startup_id"`
	CompanyName      string             `json:"company_name"`
	SubScores        map[string]float64 `json:"sub_scores"`
	AggregateScore   float64            `json:"aggregate_score_100"`
	AggregateScore1  float64            `json:"aggregate_score_1"`
	Recommendation   string             `json:"recommendation"`
	VetoReasons      []string           `json:"veto_reasons,omitempty"`
	Risks            []scoring.Risk     `json:"risks"`
	ExecutiveSummary string             `json:"executive_summary,omitempty"`
	ScoredAt         time.Time          `json:"scored_at"`
}

// CounterfactualRequest carries the base record reference plus scenarios
type CounterfactualRequest struct {
	StartupID string             `json:"startup_id,omitempty"`
	Metrics   models.RawMetrics  `json:"metrics,omitempty"`
	Persona   *scoring.Persona   `json:"persona,omitempty"`
	Scenarios []scoring.Scenario `json:"scenarios"`
}

// CounterfactualResponse is the scenario report
type CounterfactualResponse struct {
	*scoring.CounterfactualResult
	CompanyName string    `json:"company_name"`
	AnalyzedAt  time.Time `json:"analyzed_at"`
}

// StressTestResponse compares a startup's score before and after a preset
// shock is applied to its metrics.
type StressTestResponse struct {
	StartupID              string             `json:"startup_id"`
	Preset                 string             `json:"preset"`
	Adjustments            map[string]float64 `json:"adjustments"`
	OriginalScore          float64            `json:"original_score"`
	StressedScore          float64            `json:"stressed_score"`
	ScoreDelta             float64            `json:"score_delta"`
	OriginalRecommendation string             `json:"original_recommendation"`
	StressedRecommendation string             `json:"stressed_recommendation"`
	SurvivesStress         bool               `json:"survives_stress"`
	AnalyzedAt             time.Time          `json:"analyzed_at"`
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, cfg *config.Config, generator insights.Generator) *Services {
	repos := repository.NewRepositories(db)

	return &Services{
		Analysis: newAnalysisService(repos, generator),
		Startup:  newStartupService(repos),
	}
}

// NewServicesWithRepos wires services onto existing repositories, mainly
// for tests that substitute in-memory implementations.
func NewServicesWithRepos(repos *repository.Repositories, generator insights.Generator) *Services {
	return &Services{
		Analysis: newAnalysisService(repos, generator),
		Startup:  newStartupService(repos),
	}
}
