package scoring

// Sub-score calculators. Each takes a validated MetricsRecord and returns a
// score in [0,100]. All four are pure functions: no I/O, no shared state.
//
// Degradation policy: a sub-component whose inputs are absent contributes the
// neutral midpoint instead of zero, so a sparse questionnaire does not drag
// the aggregate toward "pass".

const neutralMidpoint = 50.0

// All curves are piecewise linear and monotonic in every input.

// SubScores holds the four component scores.
type SubScores struct {
	Financial float64 `json:"financial"`
	Market    float64 `json:"market"`
	Team      float64 `json:"team"`
	Traction  float64 `json:"traction"`
}

// Map returns the sub-scores keyed the way the API reports them.
func (s SubScores) Map() map[string]float64 {
	return map[string]float64{
		"financial": s.Financial,
		"market":    s.Market,
		"team":      s.Team,
		"traction":  s.Traction,
	}
}

// ComputeSubScores runs all four calculators.
func ComputeSubScores(m *MetricsRecord) SubScores {
	return SubScores{
		Financial: FinancialHealthScore(m),
		Market:    MarketOpportunityScore(m),
		Team:      TeamQualityScore(m),
		Traction:  TractionScore(m),
	}
}

// FinancialHealthScore combines growth, gross margin, runway, burn
// efficiency and revenue scale. Growth and burn efficiency carry double
// weight; the divisor keeps the result in [0,100].
func FinancialHealthScore(m *MetricsRecord) float64 {
	growth := growthRateScore(m.GrowthRatePct)

	margin := neutralMidpoint
	if m.GrossMarginPct != nil {
		margin = clamp(*m.GrossMarginPct, 0, 100)
	}

	runway := neutralMidpoint
	if m.RunwayMonths != nil {
		runway = clamp(*m.RunwayMonths/24*100, 0, 100)
	}

	burn := neutralMidpoint
	if m.BurnRateMonthly != nil {
		burn = burnEfficiencyScore(*m.BurnRateMonthly, m.ARR)
	}

	scale := arrScaleScore(m.ARR)

	return clamp((2*growth+margin+runway+2*burn+scale)/7, 0, 100)
}

// growthRateScore saturates: 100% YoY growth is already strong (~70 pts)
// and returns diminish above 150%.
func growthRateScore(pct float64) float64 {
	switch {
	case pct <= 0:
		return 0
	case pct <= 100:
		return 0.7 * pct
	case pct <= 150:
		return 70 + 0.4*(pct-100)
	case pct <= 200:
		return 90 + 0.2*(pct-150)
	default:
		return 100
	}
}

// burnEfficiencyScore scores the burn multiple (annualized burn / ARR).
// Lower is better; the curve is steepest in the 0.3-0.5 band so that
// efficiency gains at healthy burn levels still move the score.
func burnEfficiencyScore(burnMonthly, arr float64) float64 {
	if burnMonthly <= 0 {
		return 100
	}
	if arr <= 0 {
		return 0
	}
	bm := burnMonthly * 12 / arr
	switch {
	case bm <= 0.3:
		return 100
	case bm <= 0.5:
		return 100 - 200*(bm-0.3)
	case bm <= 1.5:
		return 60 - 60*(bm-0.5)
	default:
		return 0
	}
}

// arrScaleScore rewards absolute revenue scale; $10M ARR is the floor of
// the band and $20M+ maxes it out.
func arrScaleScore(arr float64) float64 {
	return clamp((arr-10_000_000)/100_000, 0, 100)
}

// MarketOpportunityScore averages a log-scale TAM band with product
// maturity.
func MarketOpportunityScore(m *MetricsRecord) float64 {
	tam := neutralMidpoint
	if m.TAM != nil {
		tam = tamBandScore(*m.TAM)
	}
	stage := neutralMidpoint
	if m.ProductStage != nil {
		stage = productStageScore(*m.ProductStage)
	}
	return clamp((tam+stage)/2, 0, 100)
}

func tamBandScore(tam float64) float64 {
	switch {
	case tam < 100_000_000: // < $100M: low
		return 25
	case tam < 1_000_000_000: // $100M-$1B: medium
		return 50
	case tam < 10_000_000_000: // $1B-$10B: high
		return 80
	default: // > $10B: very high
		return 100
	}
}

func productStageScore(stage ProductStage) float64 {
	switch stage {
	case StageIdea:
		return 10
	case StageMVP:
		return 30
	case StageBeta:
		return 50
	case StageLaunched:
		return 70
	case StageGrowing:
		return 85
	case StageScaling:
		return 100
	default:
		return neutralMidpoint
	}
}

// TeamQualityScore averages founder composition, big-tech pedigree and
// technical density.
func TeamQualityScore(m *MetricsRecord) float64 {
	founder := neutralMidpoint
	if len(m.Founders) > 0 {
		founder = founderScore(m.Founders)
	}

	topTech := neutralMidpoint
	if m.TeamFromTopTechPct != nil {
		topTech = clamp(2*(*m.TeamFromTopTechPct), 0, 100)
	}

	technical := neutralMidpoint
	if m.TechnicalTeamPct != nil {
		technical = clamp(*m.TechnicalTeamPct, 0, 100)
	}

	return clamp((founder+topTech+technical)/3, 0, 100)
}

func founderScore(founders []Founder) float64 {
	var base float64
	switch {
	case len(founders) == 1:
		base = 40
	case len(founders) <= 3:
		base = 70
	default:
		base = 60 // very large founding teams tend to fragment
	}
	for _, f := range founders {
		if f.PriorExit {
			base += 30
			break
		}
	}
	return clamp(base, 0, 100)
}

// TractionScore averages logo retention, net revenue retention, LTV/CAC
// and churn.
func TractionScore(m *MetricsRecord) float64 {
	logo := neutralMidpoint
	if m.LogoRetentionPct != nil {
		logo = clamp(*m.LogoRetentionPct, 0, 100)
	}

	nrr := neutralMidpoint
	if m.NRRPct != nil {
		// 150%+ NRR caps out; contribution above that is not rewarded.
		nrr = clamp(*m.NRRPct-50, 0, 100)
	}

	unitEcon := neutralMidpoint
	if m.LTV != nil && m.CAC != nil && *m.CAC > 0 {
		unitEcon = ltvCacScore(*m.LTV / *m.CAC)
	}

	churn := neutralMidpoint
	if m.ChurnRatePct != nil {
		churn = clamp(100-5*(*m.ChurnRatePct), 0, 100)
	}

	return clamp((logo+nrr+unitEcon+churn)/4, 0, 100)
}

// ltvCacScore: a ratio below 1 means every customer is acquired at a loss;
// 3+ is the classic healthy benchmark.
func ltvCacScore(ratio float64) float64 {
	switch {
	case ratio <= 0:
		return 0
	case ratio < 1:
		return 10 * ratio
	case ratio < 3:
		return 10 + 45*(ratio-1)
	default:
		return 100
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
