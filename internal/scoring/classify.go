package scoring

// Recommendation is the discrete investment call.
type Recommendation string

const (
	RecommendInvest Recommendation = "invest"
	RecommendHold   Recommendation = "hold"
	RecommendPass   Recommendation = "pass"
)

// Score thresholds for the pure-score tier.
const (
	investThreshold = 70.0
	passThreshold   = 40.0
)

// Hard-veto limits. A veto downgrades the pure-score tier by exactly one
// step; it never upgrades.
const (
	vetoRunwayMonths = 3.0
	vetoScalingChurn = 15.0
)

// VetoReasons returns the hard-veto conditions triggered by the record.
// Conditions with absent inputs do not trigger.
func VetoReasons(m *MetricsRecord) []string {
	var reasons []string
	if m.RunwayMonths != nil && *m.RunwayMonths < vetoRunwayMonths {
		reasons = append(reasons, "runway below 3 months")
	}
	if m.ChurnRatePct != nil && m.ProductStage != nil &&
		*m.ProductStage == StageScaling && *m.ChurnRatePct > vetoScalingChurn {
		reasons = append(reasons, "churn above 15% at scaling stage")
	}
	return reasons
}

// Classify maps an aggregate score plus veto conditions to a recommendation.
// Pure function of its inputs: identical inputs always produce identical
// output.
func Classify(aggregateScore float64, vetoed bool) Recommendation {
	tier := scoreTier(aggregateScore)
	if vetoed {
		tier = downgrade(tier)
	}
	return tier
}

func scoreTier(score float64) Recommendation {
	switch {
	case score < passThreshold:
		return RecommendPass
	case score >= investThreshold:
		return RecommendInvest
	default:
		return RecommendHold
	}
}

func downgrade(r Recommendation) Recommendation {
	switch r {
	case RecommendInvest:
		return RecommendHold
	default:
		return RecommendPass
	}
}

// tierRank orders recommendations for breakpoint comparisons.
func tierRank(r Recommendation) int {
	switch r {
	case RecommendPass:
		return 0
	case RecommendHold:
		return 1
	case RecommendInvest:
		return 2
	default:
		return -1
	}
}
