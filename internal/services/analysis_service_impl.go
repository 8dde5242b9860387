package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/venturelens/diligence-api/internal/errors"
	"github.com/venturelens/diligence-api/internal/insights"
	"github.com/venturelens/diligence-api/internal/logger"
	"github.com/venturelens/diligence-api/internal/models"
	"github.com/venturelens/diligence-api/internal/repository"
	"github.com/venturelens/diligence-api/internal/scoring"
)

// analysisServiceImpl implements AnalysisService
type analysisServiceImpl struct {
	repos     *repository.Repositories
	engine    *scoring.Engine
	generator insights.Generator
	logger    logger.Logger
}

// newAnalysisService creates a new analysis service implementation
func newAnalysisService(repos *repository.Repositories, generator insights.Generator) AnalysisService {
	if generator == nil {
		generator = insights.NewDisabledGenerator()
	}
	return &analysisServiceImpl{
		repos:     repos,
		engine:    scoring.NewEngine(),
		generator: generator,
		logger:    logger.New("analysis"),
	}
}

// Analyze runs the full scoring pipeline for a questionnaire payload or a
// stored startup and persists the resulting snapshot.
func (s *analysisServiceImpl) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	record, err := s.resolveRecord(req.StartupID, req.Metrics)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Evaluate(record, req.Persona)
	if err != nil {
		return nil, err
	}

	// The snapshot is derived data; a storage failure degrades to a log
	// line rather than failing the analysis.
	if storeErr := s.storeSnapshot(record, result); storeErr != nil {
		s.logger.Warn("Failed to persist score snapshot", "startup_id", record.StartupID, "error", storeErr)
	}

	response := &AnalyzeResponse{
		StartupID:       result.StartupID,
		CompanyName:     record.CompanyName,
		SubScores:       result.SubScores,
		AggregateScore:  result.AggregateScore100,
		AggregateScore1: result.AggregateScore1,
		Recommendation:  string(result.Recommendation),
		VetoReasons:     result.VetoReasons,
		Risks:           result.Risks,
		ScoredAt:        result.ScoredAt,
	}

	if req.IncludeNarrative && s.generator.Enabled() {
		summary, genErr := s.generator.ExecutiveSummary(ctx, record, result)
		if genErr != nil {
			s.logger.Warn("Executive summary unavailable", "startup_id", record.StartupID, "error", genErr)
		} else {
			response.ExecutiveSummary = summary
		}
	}

	return response, nil
}

// Counterfactual runs what-if scenarios against a base record
func (s *analysisServiceImpl) Counterfactual(ctx context.Context, req *CounterfactualRequest) (*CounterfactualResponse, error) {
	record, err := s.resolveRecord(req.StartupID, req.Metrics)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Counterfactual(record, req.Persona, req.Scenarios)
	if err != nil {
		return nil, err
	}

	return &CounterfactualResponse{
		CounterfactualResult: result,
		CompanyName:          record.CompanyName,
		AnalyzedAt:           time.Now().UTC(),
	}, nil
}

// Stress presets: multiplicative or subtractive shocks applied together,
// unlike counterfactual scenarios which change one parameter at a time.
var stressPresets = map[string]func(*scoring.MetricsRecord) map[string]float64{
	// Revenue shock: lose 30% of ARR and half the growth momentum.
	"revenue_shock": func(m *scoring.MetricsRecord) map[string]float64 {
		m.ARR *= 0.7
		m.GrowthRatePct *= 0.5
		adjustments := map[string]float64{
			"arr":             m.ARR,
			"growth_rate_pct": m.GrowthRatePct,
		}
		if m.MRR != nil {
			*m.MRR *= 0.7
			adjustments["mrr"] = *m.MRR
		}
		return adjustments
	},
	// Funding delay: the next round slips six months.
	"funding_delay": func(m *scoring.MetricsRecord) map[string]float64 {
		if m.RunwayMonths == nil {
			return map[string]float64{}
		}
		remaining := *m.RunwayMonths - 6
		if remaining < 0 {
			remaining = 0
		}
		*m.RunwayMonths = remaining
		return map[string]float64{"runway_months": remaining}
	},
}

// StressPresets lists the supported preset names
func StressPresets() []string {
	return []string{"revenue_shock", "funding_delay"}
}

// StressTest applies a named preset to a stored startup's metrics and
// reports the score impact.
func (s *analysisServiceImpl) StressTest(ctx context.Context, startupID, preset string) (*StressTestResponse, error) {
	apply, ok := stressPresets[preset]
	if !ok {
		return nil, errors.ValidationError(
			fmt.Sprintf("unknown stress preset %q, allowed: revenue_shock, funding_delay", preset), nil,
		).WithField("preset")
	}

	record, err := s.resolveRecord(startupID, nil)
	if err != nil {
		return nil, err
	}

	original, err := s.engine.Evaluate(record, nil)
	if err != nil {
		return nil, err
	}

	stressedRecord := record.Clone()
	adjustments := apply(stressedRecord)

	stressed, err := s.engine.Evaluate(stressedRecord, nil)
	if err != nil {
		return nil, err
	}

	return &StressTestResponse{
		StartupID:              startupID,
		Preset:                 preset,
		Adjustments:            adjustments,
		OriginalScore:          original.AggregateScore100,
		StressedScore:          stressed.AggregateScore100,
		ScoreDelta:             stressed.AggregateScore100 - original.AggregateScore100,
		OriginalRecommendation: string(original.Recommendation),
		StressedRecommendation: string(stressed.Recommendation),
		SurvivesStress:         stressed.Recommendation != scoring.RecommendPass,
		AnalyzedAt:             time.Now().UTC(),
	}, nil
}

// resolveRecord normalizes inline metrics when given, otherwise loads and
// normalizes the stored questionnaire for the startup.
func (s *analysisServiceImpl) resolveRecord(startupID string, raw models.RawMetrics) (*scoring.MetricsRecord, error) {
	if raw != nil {
		return scoring.Normalize(raw)
	}
	if startupID == "" {
		return nil, errors.ValidationError("either metrics or startup_id is required", nil).WithField("startup_id")
	}

	profile, err := s.repos.Startup.GetByStartupID(startupID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound(fmt.Sprintf("startup %q not found", startupID), err)
		}
		return nil, errors.DatabaseError("failed to load startup", err).WithOperation("resolveRecord")
	}
	return scoring.Normalize(profile.RawMetrics)
}

// storeSnapshot persists one scoring run for score history
func (s *analysisServiceImpl) storeSnapshot(record *scoring.MetricsRecord, result *scoring.ScoreResult) error {
	subScores, err := json.Marshal(result.SubScores)
	if err != nil {
		return err
	}
	vetoes, err := json.Marshal(result.VetoReasons)
	if err != nil {
		return err
	}
	risks, err := json.Marshal(result.Risks)
	if err != nil {
		return err
	}

	return s.repos.Score.Store(&models.ScoreSnapshot{
		StartupID:      record.StartupID,
		SubScores:      models.JSONText(subScores),
		AggregateScore: result.AggregateScore100,
		Recommendation: string(result.Recommendation),
		VetoReasons:    models.JSONText(vetoes),
		Risks:          models.JSONText(risks),
		ScoredAt:       result.ScoredAt,
	})
}
