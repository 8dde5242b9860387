package scoring

import (
	"math"
	"testing"

	"github.com/venturelens/diligence-api/internal/errors"
)

func TestEngine_Counterfactual_ReferenceScenarios(t *testing.T) {
	engine := NewEngine()

	scenarios := []Scenario{
		{Parameter: "arr", Value: 20_000_000, Description: "ARR grows to $20M"},
		{Parameter: "burn_rate_monthly", Value: 300_000, Description: "Burn cut to $300k"},
	}

	result, err := engine.Counterfactual(investGradeRecord(), nil, scenarios)
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}

	if math.Abs(result.OriginalScore-82.5) > scoreTolerance {
		t.Errorf("Expected original score 82.5, got %v", result.OriginalScore)
	}
	if result.OriginalRecommendation != RecommendInvest {
		t.Errorf("Expected original recommendation invest, got %s", result.OriginalRecommendation)
	}
	if len(result.Scenarios) != 2 {
		t.Fatalf("Expected 2 scenario results, got %d", len(result.Scenarios))
	}

	arrResult := result.Scenarios[0]
	if arrResult.Parameter != "arr" {
		t.Errorf("Scenario results must preserve input order, got %q first", arrResult.Parameter)
	}
	if math.Abs(arrResult.NewScore-90.5) > scoreTolerance {
		t.Errorf("ARR scenario: expected new score 90.5, got %v", arrResult.NewScore)
	}
	if math.Abs(arrResult.ScoreDelta-8.0) > scoreTolerance {
		t.Errorf("ARR scenario: expected delta +8.0, got %v", arrResult.ScoreDelta)
	}
	if arrResult.RecommendationChanged {
		t.Error("ARR scenario keeps the invest recommendation, changed flag must be false")
	}

	burnResult := result.Scenarios[1]
	if math.Abs(burnResult.NewScore-86.5) > scoreTolerance {
		t.Errorf("Burn scenario: expected new score 86.5, got %v", burnResult.NewScore)
	}
	if math.Abs(burnResult.ScoreDelta-4.0) > scoreTolerance {
		t.Errorf("Burn scenario: expected delta +4.0, got %v", burnResult.ScoreDelta)
	}
}

func TestEngine_Counterfactual_ScenariosAreIndependent(t *testing.T) {
	engine := NewEngine()
	base := investGradeRecord()

	arrOnly, err := engine.Counterfactual(base, nil, []Scenario{
		{Parameter: "arr", Value: 20_000_000},
	})
	if err != nil {
		t.Fatalf("Single-scenario counterfactual failed: %v", err)
	}

	both, err := engine.Counterfactual(base, nil, []Scenario{
		{Parameter: "burn_rate_monthly", Value: 300_000},
		{Parameter: "arr", Value: 20_000_000},
	})
	if err != nil {
		t.Fatalf("Two-scenario counterfactual failed: %v", err)
	}

	// The arr scenario must score identically whether or not another
	// scenario runs alongside it: overrides never stack.
	if both.Scenarios[1].NewScore != arrOnly.Scenarios[0].NewScore {
		t.Errorf("Scenario result depends on sibling scenarios: %v vs %v",
			both.Scenarios[1].NewScore, arrOnly.Scenarios[0].NewScore)
	}
}

func TestEngine_Counterfactual_BaseRecordNotMutated(t *testing.T) {
	engine := NewEngine()
	base := investGradeRecord()
	originalBurn := *base.BurnRateMonthly

	_, err := engine.Counterfactual(base, nil, []Scenario{
		{Parameter: "burn_rate_monthly", Value: 1},
		{Parameter: "arr", Value: 99},
	})
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}

	if base.ARR != 12_000_000 {
		t.Errorf("Base record ARR was mutated: %v", base.ARR)
	}
	if *base.BurnRateMonthly != originalBurn {
		t.Errorf("Base record burn rate was mutated: %v", *base.BurnRateMonthly)
	}
}

func TestEngine_Counterfactual_RejectsUnknownParameter(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Counterfactual(investGradeRecord(), nil, []Scenario{
		{Parameter: "ebitda", Value: 1_000_000},
	})
	if err == nil {
		t.Fatal("Expected error for unknown scenario parameter")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
}

func TestEngine_Counterfactual_RejectsNegativeValue(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Counterfactual(investGradeRecord(), nil, []Scenario{
		{Parameter: "arr", Value: -5},
	})
	if err == nil {
		t.Fatal("Expected error for negative scenario value")
	}
	if !errors.IsValidation(err) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
}

// borderlineRecord sits in hold territory and crosses into invest as ARR or
// growth rises, so every searched parameter has a reachable breakpoint.
func borderlineRecord() *MetricsRecord {
	growing := StageGrowing
	return &MetricsRecord{
		StartupID:        "startup-borderline",
		CompanyName:      "Edge Metrics",
		ARR:              5_000_000,
		GrowthRatePct:    100,
		TeamSize:         20,
		GrossMarginPct:   Float64Ptr(60),
		RunwayMonths:     Float64Ptr(12),
		LogoRetentionPct: Float64Ptr(90),
		NRRPct:           Float64Ptr(120),
		LTV:              Float64Ptr(3_000),
		CAC:              Float64Ptr(1_000),
		ChurnRatePct:     Float64Ptr(4),
		TechnicalTeamPct: Float64Ptr(80),
		TAM:              Float64Ptr(5_000_000_000),
		ProductStage:     &growing,
		Founders: []Founder{
			{Name: "Sam Ito", Role: "CEO", YearsExperience: 8},
			{Name: "Ana Petrov", Role: "CTO", YearsExperience: 9},
		},
	}
}

func TestEngine_Counterfactual_FindsBreakpoints(t *testing.T) {
	engine := NewEngine()
	base := borderlineRecord()

	baseline, err := engine.Evaluate(base, nil)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if baseline.Recommendation != RecommendHold {
		t.Fatalf("Borderline record must start at hold, got %s", baseline.Recommendation)
	}

	result, err := engine.Counterfactual(base, nil, nil)
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}

	threshold, exists := result.Breakpoints["arr_threshold"]
	if !exists {
		t.Fatal("Expected an arr_threshold breakpoint for the borderline record")
	}

	// At the reported threshold the recommendation has flipped to invest;
	// comfortably below it the record still holds.
	atThreshold, err := applyOverride(base, "arr", threshold)
	if err != nil {
		t.Fatalf("applyOverride failed: %v", err)
	}
	scored, err := engine.Evaluate(atThreshold, nil)
	if err != nil {
		t.Fatalf("Evaluate failed at threshold: %v", err)
	}
	if scored.Recommendation != RecommendInvest {
		t.Errorf("Expected invest at arr threshold %v, got %s", threshold, scored.Recommendation)
	}

	below, err := applyOverride(base, "arr", threshold-100_000)
	if err != nil {
		t.Fatalf("applyOverride failed: %v", err)
	}
	scoredBelow, err := engine.Evaluate(below, nil)
	if err != nil {
		t.Fatalf("Evaluate failed below threshold: %v", err)
	}
	if scoredBelow.Recommendation != RecommendHold {
		t.Errorf("Expected hold below arr threshold, got %s", scoredBelow.Recommendation)
	}

	if _, exists := result.Breakpoints["growth_rate_pct_threshold"]; !exists {
		t.Error("Expected a growth_rate_pct_threshold breakpoint for the borderline record")
	}
}

func TestEngine_Counterfactual_OmitsUnreachableBreakpoints(t *testing.T) {
	engine := NewEngine()

	// The reference record stays invest across the entire search range of
	// every parameter, so no thresholds are reported.
	result, err := engine.Counterfactual(investGradeRecord(), nil, nil)
	if err != nil {
		t.Fatalf("Counterfactual failed: %v", err)
	}
	if len(result.Breakpoints) != 0 {
		t.Errorf("Expected no breakpoints for the reference record, got %v", result.Breakpoints)
	}
}
