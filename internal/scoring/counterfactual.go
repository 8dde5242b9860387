package scoring

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/venturelens/diligence-api/internal/errors"
)

// Scenario proposes one metric override against a base record.
type Scenario struct {
	Parameter   string  `json:"parameter"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ScenarioResult reports the re-scored pipeline output for one scenario.
type ScenarioResult struct {
	Description           string             `json:"description"`
	Parameter             string             `json:"parameter"`
	Value                 float64            `json:"value"`
	SubScores             map[string]float64 `json:"sub_scores"`
	NewScore              float64            `json:"new_score"`
	ScoreDelta            float64            `json:"score_delta"`
	NewRecommendation     Recommendation     `json:"new_recommendation"`
	RecommendationChanged bool               `json:"recommendation_changed"`
}

// CounterfactualResult is the full what-if report for a base record.
type CounterfactualResult struct {
	StartupID              string             `json:"startup_id"`
	OriginalScore          float64            `json:"original_score"`
	OriginalRecommendation Recommendation     `json:"original_recommendation"`
	Scenarios              []ScenarioResult   `json:"scenarios"`
	Breakpoints            map[string]float64 `json:"breakpoints"`
}

// breakpointRange is the valid search interval per supported parameter.
type breakpointRange struct {
	lo, hi float64
}

// Parameters for which a recommendation breakpoint is searched.
var breakpointParams = map[string]breakpointRange{
	"arr":               {0, 1e10},
	"growth_rate_pct":   {0, 1000},
	"burn_rate_monthly": {0, 1e8},
}

// maxBreakpointIterations caps the binary search; the interval shrinks by
// half per step so 50 iterations resolve far below any meaningful precision.
const maxBreakpointIterations = 50

// Counterfactual evaluates each scenario against the base record: clone
// base, override exactly the named parameter, re-run the full scoring
// pipeline, diff against the original. Scenarios are independent and run in
// parallel; the result list preserves input order.
func (e *Engine) Counterfactual(base *MetricsRecord, persona *Persona, scenarios []Scenario) (*CounterfactualResult, error) {
	original, err := e.Evaluate(base, persona)
	if err != nil {
		return nil, err
	}

	// Validate all overrides up front so a bad scenario fails the request
	// before any work is spent.
	overridden := make([]*MetricsRecord, len(scenarios))
	for i, sc := range scenarios {
		rec, err := applyOverride(base, sc.Parameter, sc.Value)
		if err != nil {
			return nil, err
		}
		overridden[i] = rec
	}

	results := make([]ScenarioResult, len(scenarios))
	var g errgroup.Group
	for i := range scenarios {
		i := i
		g.Go(func() error {
			scored, err := e.Evaluate(overridden[i], persona)
			if err != nil {
				return err
			}
			results[i] = ScenarioResult{
				Description:           scenarios[i].Description,
				Parameter:             scenarios[i].Parameter,
				Value:                 scenarios[i].Value,
				SubScores:             scored.SubScores,
				NewScore:              scored.AggregateScore100,
				ScoreDelta:            scored.AggregateScore100 - original.AggregateScore100,
				NewRecommendation:     scored.Recommendation,
				RecommendationChanged: scored.Recommendation != original.Recommendation,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &CounterfactualResult{
		StartupID:              base.StartupID,
		OriginalScore:          original.AggregateScore100,
		OriginalRecommendation: original.Recommendation,
		Scenarios:              results,
		Breakpoints:            e.findBreakpoints(base, persona),
	}, nil
}

// applyOverride clones the base record and overwrites exactly one named
// parameter. Unknown parameter names and values failing range validation
// are rejected the same way the normalizer would reject them.
func applyOverride(base *MetricsRecord, parameter string, value float64) (*MetricsRecord, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.ValidationError("value is not finite", nil).WithField(parameter)
	}
	if value < 0 {
		return nil, errors.ValidationError("value must be non-negative", nil).WithField(parameter)
	}

	rec := base.Clone()
	switch parameter {
	case "arr":
		rec.ARR = value
	case "growth_rate_pct":
		rec.GrowthRatePct = value
	case "team_size":
		rec.TeamSize = value
	case "mrr":
		rec.MRR = &value
	case "gross_margin_pct":
		rec.GrossMarginPct = &value
	case "burn_rate_monthly":
		rec.BurnRateMonthly = &value
	case "runway_months":
		rec.RunwayMonths = &value
	case "total_customers":
		rec.TotalCustomers = &value
	case "fortune_500_customers":
		rec.Fortune500Customers = &value
	case "churn_rate_pct":
		rec.ChurnRatePct = &value
	case "logo_retention_pct":
		rec.LogoRetentionPct = &value
	case "nrr_pct":
		rec.NRRPct = &value
	case "cac":
		rec.CAC = &value
	case "ltv":
		rec.LTV = &value
	case "customer_concentration_pct":
		rec.CustomerConcentrationPct = &value
	case "team_from_top_tech_pct":
		rec.TeamFromTopTechPct = &value
	case "technical_team_pct":
		rec.TechnicalTeamPct = &value
	case "total_raised":
		rec.TotalRaised = &value
	case "last_valuation":
		rec.LastValuation = &value
	case "current_ask":
		rec.CurrentAsk = &value
	case "target_valuation":
		rec.TargetValuation = &value
	case "tam":
		rec.TAM = &value
	default:
		return nil, errors.ValidationError(
			fmt.Sprintf("unknown scenario parameter %q", parameter), nil,
		).WithField(parameter)
	}
	return rec, nil
}

// findBreakpoints locates, per supported scalar parameter, the value at
// which the recommendation tier flips, via monotonic binary search over the
// parameter's valid range. A parameter with no tier change in range simply
// produces no entry; that is a normal outcome, not an error.
func (e *Engine) findBreakpoints(base *MetricsRecord, persona *Persona) map[string]float64 {
	breakpoints := make(map[string]float64)
	for param, rng := range breakpointParams {
		if v, ok := e.findBreakpoint(base, persona, param, rng); ok {
			breakpoints[param+"_threshold"] = v
		}
	}
	return breakpoints
}

func (e *Engine) findBreakpoint(base *MetricsRecord, persona *Persona, param string, rng breakpointRange) (float64, bool) {
	tierAt := func(value float64) (int, bool) {
		rec, err := applyOverride(base, param, value)
		if err != nil {
			return 0, false
		}
		scored, err := e.Evaluate(rec, persona)
		if err != nil {
			return 0, false
		}
		return tierRank(scored.Recommendation), true
	}

	lo, hi := rng.lo, rng.hi
	loTier, ok := tierAt(lo)
	if !ok {
		return 0, false
	}
	hiTier, ok := tierAt(hi)
	if !ok || loTier == hiTier {
		// No tier change within the valid range.
		return 0, false
	}

	// Bisect on "still in the low-end tier". For a monotonic response the
	// boundary this converges to is the flip point; the iteration cap
	// bounds the work either way.
	for i := 0; i < maxBreakpointIterations && hi-lo > breakpointTolerance(rng); i++ {
		mid := lo + (hi-lo)/2
		midTier, ok := tierAt(mid)
		if !ok {
			return 0, false
		}
		if midTier == loTier {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, true
}

// breakpointTolerance scales convergence with the search interval so large
// dollar ranges stop at sensible precision.
func breakpointTolerance(rng breakpointRange) float64 {
	span := rng.hi - rng.lo
	if span <= 0 {
		return 1e-6
	}
	return span / 1e9
}
