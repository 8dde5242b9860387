package scoring

import (
	"math"
	"testing"
)

func TestGrowthRateScore(t *testing.T) {
	cases := []struct {
		pct      float64
		expected float64
	}{
		{-10, 0},
		{0, 0},
		{50, 35},
		{100, 70},
		{150, 90},
		{180, 96},
		{200, 100},
		{500, 100},
	}
	for _, c := range cases {
		if got := growthRateScore(c.pct); math.Abs(got-c.expected) > scoreTolerance {
			t.Errorf("growthRateScore(%v): expected %v, got %v", c.pct, c.expected, got)
		}
	}
}

func TestBurnEfficiencyScore(t *testing.T) {
	cases := []struct {
		burn, arr float64
		expected  float64
	}{
		{0, 12_000_000, 100},         // no burn
		{500_000, 0, 0},              // burning with no revenue
		{250_000, 12_000_000, 100},   // burn multiple 0.25
		{500_000, 12_000_000, 60},    // burn multiple 0.5
		{1_000_000, 12_000_000, 30},  // burn multiple 1.0
		{1_500_000, 12_000_000, 0},   // burn multiple 1.5
		{5_000_000, 12_000_000, 0},   // burn multiple 5.0
	}
	for _, c := range cases {
		if got := burnEfficiencyScore(c.burn, c.arr); math.Abs(got-c.expected) > scoreTolerance {
			t.Errorf("burnEfficiencyScore(%v, %v): expected %v, got %v", c.burn, c.arr, c.expected, got)
		}
	}
}

func TestArrScaleScore(t *testing.T) {
	cases := []struct {
		arr      float64
		expected float64
	}{
		{0, 0},
		{10_000_000, 0},
		{12_000_000, 20},
		{20_000_000, 100},
		{50_000_000, 100},
	}
	for _, c := range cases {
		if got := arrScaleScore(c.arr); got != c.expected {
			t.Errorf("arrScaleScore(%v): expected %v, got %v", c.arr, c.expected, got)
		}
	}
}

func TestFinancialHealthScore_AbsentFieldsUseMidpoint(t *testing.T) {
	record := &MetricsRecord{
		StartupID:     "s",
		CompanyName:   "c",
		ARR:           12_000_000,
		GrowthRatePct: 180,
	}

	// growth 96 doubled, margin/runway/burn at 50 (burn doubled), scale 20.
	expected := (2*96.0 + 50 + 50 + 2*50 + 20) / 7
	if got := FinancialHealthScore(record); math.Abs(got-expected) > scoreTolerance {
		t.Errorf("Expected %v with absent optionals, got %v", expected, got)
	}
}

func TestMarketOpportunityScore(t *testing.T) {
	scaling := StageScaling
	record := &MetricsRecord{
		TAM:          Float64Ptr(5_000_000_000),
		ProductStage: &scaling,
	}
	if got := MarketOpportunityScore(record); got != 90 {
		t.Errorf("Expected market score 90 for $5B TAM at scaling, got %v", got)
	}

	empty := &MetricsRecord{}
	if got := MarketOpportunityScore(empty); got != neutralMidpoint {
		t.Errorf("Expected neutral market score with no inputs, got %v", got)
	}
}

func TestTamBandScore(t *testing.T) {
	cases := []struct {
		tam      float64
		expected float64
	}{
		{50_000_000, 25},
		{500_000_000, 50},
		{5_000_000_000, 80},
		{50_000_000_000, 100},
	}
	for _, c := range cases {
		if got := tamBandScore(c.tam); got != c.expected {
			t.Errorf("tamBandScore(%v): expected %v, got %v", c.tam, c.expected, got)
		}
	}
}

func TestFounderScore(t *testing.T) {
	solo := []Founder{{Name: "A"}}
	if got := founderScore(solo); got != 40 {
		t.Errorf("Expected 40 for a solo founder, got %v", got)
	}

	pair := []Founder{{Name: "A"}, {Name: "B"}}
	if got := founderScore(pair); got != 70 {
		t.Errorf("Expected 70 for a two-founder team, got %v", got)
	}

	pairWithExit := []Founder{{Name: "A", PriorExit: true}, {Name: "B"}}
	if got := founderScore(pairWithExit); got != 100 {
		t.Errorf("Expected 100 for two founders with a prior exit, got %v", got)
	}

	crowd := []Founder{{}, {}, {}, {}, {}}
	if got := founderScore(crowd); got != 60 {
		t.Errorf("Expected 60 for a five-founder team, got %v", got)
	}

	// The exit bonus applies once, and the result is capped at 100.
	crowdAllExits := []Founder{{PriorExit: true}, {PriorExit: true}, {PriorExit: true}, {PriorExit: true}}
	if got := founderScore(crowdAllExits); got != 90 {
		t.Errorf("Expected 90 (60 + single exit bonus), got %v", got)
	}
}

func TestLtvCacScore(t *testing.T) {
	cases := []struct {
		ratio    float64
		expected float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 55},
		{3, 100},
		{10, 100},
	}
	for _, c := range cases {
		if got := ltvCacScore(c.ratio); math.Abs(got-c.expected) > scoreTolerance {
			t.Errorf("ltvCacScore(%v): expected %v, got %v", c.ratio, c.expected, got)
		}
	}
}

func TestTractionScore_PartialInputs(t *testing.T) {
	// Only churn provided; the other three components sit at the midpoint.
	record := &MetricsRecord{ChurnRatePct: Float64Ptr(2)}
	expected := (50.0 + 50 + 50 + 90) / 4
	if got := TractionScore(record); math.Abs(got-expected) > scoreTolerance {
		t.Errorf("Expected traction %v with only churn set, got %v", expected, got)
	}

	// LTV without CAC is not enough to score unit economics.
	ltvOnly := &MetricsRecord{LTV: Float64Ptr(6000)}
	if got := TractionScore(ltvOnly); got != neutralMidpoint {
		t.Errorf("Expected neutral traction with LTV but no CAC, got %v", got)
	}
}

func TestComputeSubScores_AllInRange(t *testing.T) {
	records := []*MetricsRecord{
		{},
		{ARR: 1e12, GrowthRatePct: 1e6, TeamSize: 1e4},
		investGradeRecord(),
	}
	for i, record := range records {
		sub := ComputeSubScores(record)
		for key, v := range sub.Map() {
			if v < 0 || v > 100 || math.IsNaN(v) {
				t.Errorf("Record %d: sub-score %q out of range: %v", i, key, v)
			}
		}
	}
}
