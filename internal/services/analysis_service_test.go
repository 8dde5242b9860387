package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/venturelens/diligence-api/internal/errors"
	"github.com/venturelens/diligence-api/internal/models"
	"github.com/venturelens/diligence-api/internal/repository"
	"github.com/venturelens/diligence-api/internal/scoring"
)

// In-memory repositories for service tests

type memStartupRepo struct {
	profiles map[string]*models.StartupProfile
}

func newMemStartupRepo() *memStartupRepo {
	return &memStartupRepo{profiles: make(map[string]*models.StartupProfile)}
}

func (r *memStartupRepo) GetByID(id uuid.UUID) (*models.StartupProfile, error) {
	for _, p := range r.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memStartupRepo) GetByStartupID(startupID string) (*models.StartupProfile, error) {
	if p, ok := r.profiles[startupID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memStartupRepo) Upsert(profile *models.StartupProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	r.profiles[profile.StartupID] = profile
	return nil
}

func (r *memStartupRepo) Delete(startupID string) error {
	if _, ok := r.profiles[startupID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, startupID)
	return nil
}

func (r *memStartupRepo) GetAll(filters repository.StartupFilters) ([]models.StartupProfile, error) {
	var out []models.StartupProfile
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memStartupRepo) GetAllStartupIDs() ([]string, error) {
	var ids []string
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids, nil
}

type memScoreRepo struct {
	snapshots []models.ScoreSnapshot
}

func (r *memScoreRepo) Store(snapshot *models.ScoreSnapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	r.snapshots = append(r.snapshots, *snapshot)
	return nil
}

func (r *memScoreRepo) GetLatestByStartup(startupID string) (*models.ScoreSnapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].StartupID == startupID {
			s := r.snapshots[i]
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memScoreRepo) GetHistoryByStartup(startupID string, limit int) ([]models.ScoreSnapshot, error) {
	var out []models.ScoreSnapshot
	for i := len(r.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		if r.snapshots[i].StartupID == startupID {
			out = append(out, r.snapshots[i])
		}
	}
	return out, nil
}

func (r *memScoreRepo) DeleteByStartup(startupID string) error {
	var kept []models.ScoreSnapshot
	for _, s := range r.snapshots {
		if s.StartupID != startupID {
			kept = append(kept, s)
		}
	}
	r.snapshots = kept
	return nil
}

// memTx runs the callback against the same in-memory repositories.
type memTx struct {
	repos *repository.Repositories
}

func (t *memTx) WithTransaction(fn func(repos *repository.Repositories) error) error {
	return fn(t.repos)
}

func newTestServices() (*Services, *memStartupRepo, *memScoreRepo) {
	startups := newMemStartupRepo()
	scores := &memScoreRepo{}
	repos := &repository.Repositories{Startup: startups, Score: scores}
	repos.Tx = &memTx{repos: repos}
	return NewServicesWithRepos(repos, nil), startups, scores
}

func referenceMetrics() models.RawMetrics {
	return models.RawMetrics{
		"startup_id":         "startup-001",
		"company_name":       "Acme Analytics",
		"arr":                12000000.0,
		"growth_rate_pct":    180.0,
		"team_size":          45.0,
		"gross_margin_pct":   80.0,
		"burn_rate_monthly":  500000.0,
		"runway_months":      24.0,
		"logo_retention_pct": 98.0,
		"nrr_pct":            130.0,
		"ltv":                6000.0,
		"cac":                1500.0,
		"churn_rate_pct":     2.0,
		"team_from_top_tech_pct": 40.0,
		"technical_team_pct": 60.0,
		"tam":                5000000000.0,
		"product_stage":      "scaling",
		"founders": []interface{}{
			map[string]interface{}{"name": "Dana Reyes", "role": "CEO", "prior_exit": true},
			map[string]interface{}{"name": "Lee Okafor", "role": "CTO"},
		},
	}
}

func TestAnalysisService_AnalyzeInlineMetrics(t *testing.T) {
	svcs, _, scores := newTestServices()

	resp, err := svcs.Analysis.Analyze(context.Background(), &AnalyzeRequest{
		Metrics: referenceMetrics(),
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if resp.Recommendation != "invest" {
		t.Errorf("Expected invest, got %s", resp.Recommendation)
	}
	if resp.AggregateScore < 82.4 || resp.AggregateScore > 82.6 {
		t.Errorf("Expected aggregate near 82.5, got %v", resp.AggregateScore)
	}
	if resp.ExecutiveSummary != "" {
		t.Error("Narrative must be empty when no generator is configured")
	}

	// Analysis persists a snapshot for score history
	if len(scores.snapshots) != 1 {
		t.Errorf("Expected 1 stored snapshot, got %d", len(scores.snapshots))
	}
}

func TestAnalysisService_AnalyzeStoredStartup(t *testing.T) {
	svcs, _, _ := newTestServices()

	if _, err := svcs.Startup.SubmitMetrics("startup-001", referenceMetrics()); err != nil {
		t.Fatalf("SubmitMetrics failed: %v", err)
	}

	resp, err := svcs.Analysis.Analyze(context.Background(), &AnalyzeRequest{
		StartupID: "startup-001",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if resp.CompanyName != "Acme Analytics" {
		t.Errorf("Expected stored company name, got %q", resp.CompanyName)
	}
}

func TestAnalysisService_AnalyzeUnknownStartup(t *testing.T) {
	svcs, _, _ := newTestServices()

	_, err := svcs.Analysis.Analyze(context.Background(), &AnalyzeRequest{StartupID: "ghost"})
	if err == nil {
		t.Fatal("Expected error for unknown startup")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestAnalysisService_AnalyzeRequiresInput(t *testing.T) {
	svcs, _, _ := newTestServices()

	_, err := svcs.Analysis.Analyze(context.Background(), &AnalyzeRequest{})
	if err == nil {
		t.Fatal("Expected error when neither metrics nor startup_id is given")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAnalysisService_Counterfactual(t *testing.T) {
	svcs, _, _ := newTestServices()

	resp, err := svcs.Analysis.Counterfactual(context.Background(), &CounterfactualRequest{
		Metrics: referenceMetrics(),
		Scenarios: []scoring.Scenario{
			{Parameter: "arr", Value: 20000000, Description: "ARR doubles"},
		},
	})
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}
	if len(resp.Scenarios) != 1 {
		t.Fatalf("Expected 1 scenario result, got %d", len(resp.Scenarios))
	}
	if resp.Scenarios[0].NewScore < 90.4 || resp.Scenarios[0].NewScore > 90.6 {
		t.Errorf("Expected new score near 90.5, got %v", resp.Scenarios[0].NewScore)
	}
}

func TestAnalysisService_StressTest(t *testing.T) {
	svcs, _, _ := newTestServices()

	if _, err := svcs.Startup.SubmitMetrics("startup-001", referenceMetrics()); err != nil {
		t.Fatalf("SubmitMetrics failed: %v", err)
	}

	resp, err := svcs.Analysis.StressTest(context.Background(), "startup-001", "revenue_shock")
	if err != nil {
		t.Fatalf("StressTest failed: %v", err)
	}
	if resp.StressedScore >= resp.OriginalScore {
		t.Errorf("Revenue shock must lower the score: %v >= %v", resp.StressedScore, resp.OriginalScore)
	}
	if resp.Adjustments["arr"] != 12000000*0.7 {
		t.Errorf("Expected 30%% ARR haircut, got %v", resp.Adjustments["arr"])
	}

	if _, err := svcs.Analysis.StressTest(context.Background(), "startup-001", "asteroid_strike"); err == nil {
		t.Error("Expected error for unknown preset")
	}
}

func TestStartupService_SubmitValidatesBeforeStoring(t *testing.T) {
	svcs, startups, _ := newTestServices()

	bad := models.RawMetrics{"company_name": "No Numbers Inc"}
	if _, err := svcs.Startup.SubmitMetrics("startup-002", bad); err == nil {
		t.Fatal("Expected validation error for incomplete metrics")
	}
	if len(startups.profiles) != 0 {
		t.Error("Invalid metrics must not be stored")
	}
}

func TestStartupService_DeleteUnknown(t *testing.T) {
	svcs, _, _ := newTestServices()

	err := svcs.Startup.Delete("ghost")
	if err == nil {
		t.Fatal("Expected error deleting unknown startup")
	}
	if !errors.IsNotFound(err) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}
