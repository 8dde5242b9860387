package scoring

// FundingStage is the stage of the most recent funding round.
type FundingStage string

const (
	FundingPreSeed      FundingStage = "pre-seed"
	FundingSeed         FundingStage = "seed"
	FundingSeriesA      FundingStage = "series-a"
	FundingSeriesB      FundingStage = "series-b"
	FundingSeriesCPlus  FundingStage = "series-c+"
	FundingBootstrapped FundingStage = "bootstrapped"
)

// FundingStages is the fixed vocabulary for funding_stage.
var FundingStages = []FundingStage{
	FundingPreSeed, FundingSeed, FundingSeriesA,
	FundingSeriesB, FundingSeriesCPlus, FundingBootstrapped,
}

// ProductStage is the maturity of the product.
type ProductStage string

const (
	StageIdea     ProductStage = "idea"
	StageMVP      ProductStage = "mvp"
	StageBeta     ProductStage = "beta"
	StageLaunched ProductStage = "launched"
	StageGrowing  ProductStage = "growing"
	StageScaling  ProductStage = "scaling"
)

// ProductStages is the fixed vocabulary for product_stage.
var ProductStages = []ProductStage{
	StageIdea, StageMVP, StageBeta,
	StageLaunched, StageGrowing, StageScaling,
}

// Founder describes one founder from the questionnaire team section.
type Founder struct {
	Name            string  `json:"name"`
	Role            string  `json:"role"`
	YearsExperience float64 `json:"years_experience"`
	PriorExit       bool    `json:"prior_exit"`
}

// MetricsRecord is the canonical, validated view of a startup's
// questionnaire metrics. Required fields are plain values; optional
// numerics are pointers where nil means "not provided". A record is
// never mutated after construction; scenario evaluation works on clones.
type MetricsRecord struct {
	StartupID    string `json:"startup_id"`
	CompanyName  string `json:"company_name"`
	FoundingYear *int   `json:"founding_year,omitempty"`

	// Financial
	ARR             float64  `json:"arr"`
	MRR             *float64 `json:"mrr,omitempty"`
	GrowthRatePct   float64  `json:"growth_rate_pct"`
	GrossMarginPct  *float64 `json:"gross_margin_pct,omitempty"`
	BurnRateMonthly *float64 `json:"burn_rate_monthly,omitempty"`
	RunwayMonths    *float64 `json:"runway_months,omitempty"`

	// Customer
	TotalCustomers           *float64 `json:"total_customers,omitempty"`
	Fortune500Customers      *float64 `json:"fortune_500_customers,omitempty"`
	ChurnRatePct             *float64 `json:"churn_rate_pct,omitempty"`
	LogoRetentionPct         *float64 `json:"logo_retention_pct,omitempty"`
	NRRPct                   *float64 `json:"nrr_pct,omitempty"`
	CAC                      *float64 `json:"cac,omitempty"`
	LTV                      *float64 `json:"ltv,omitempty"`
	CustomerConcentrationPct *float64 `json:"customer_concentration_pct,omitempty"`

	// Team
	TeamSize           float64   `json:"team_size"`
	TeamFromTopTechPct *float64  `json:"team_from_top_tech_pct,omitempty"`
	TechnicalTeamPct   *float64  `json:"technical_team_pct,omitempty"`
	Founders           []Founder `json:"founders,omitempty"`

	// Funding
	FundingStage    *FundingStage `json:"funding_stage,omitempty"`
	TotalRaised     *float64      `json:"total_raised,omitempty"`
	LastValuation   *float64      `json:"last_valuation,omitempty"`
	CurrentAsk      *float64      `json:"current_ask,omitempty"`
	TargetValuation *float64      `json:"target_valuation,omitempty"`
	UseOfFunds      string        `json:"use_of_funds,omitempty"`

	// Market
	TAM                  *float64      `json:"tam,omitempty"`
	ProductStage         *ProductStage `json:"product_stage,omitempty"`
	CompetitiveAdvantage string        `json:"competitive_advantage,omitempty"`
	Sector               string        `json:"sector,omitempty"`
}

// Clone returns a deep copy of the record. Scenario evaluation always
// operates on a clone so the base record stays immutable.
func (m *MetricsRecord) Clone() *MetricsRecord {
	out := *m
	out.FoundingYear = clonePtr(m.FoundingYear)
	out.MRR = clonePtr(m.MRR)
	out.GrossMarginPct = clonePtr(m.GrossMarginPct)
	out.BurnRateMonthly = clonePtr(m.BurnRateMonthly)
	out.RunwayMonths = clonePtr(m.RunwayMonths)
	out.TotalCustomers = clonePtr(m.TotalCustomers)
	out.Fortune500Customers = clonePtr(m.Fortune500Customers)
	out.ChurnRatePct = clonePtr(m.ChurnRatePct)
	out.LogoRetentionPct = clonePtr(m.LogoRetentionPct)
	out.NRRPct = clonePtr(m.NRRPct)
	out.CAC = clonePtr(m.CAC)
	out.LTV = clonePtr(m.LTV)
	out.CustomerConcentrationPct = clonePtr(m.CustomerConcentrationPct)
	out.TeamFromTopTechPct = clonePtr(m.TeamFromTopTechPct)
	out.TechnicalTeamPct = clonePtr(m.TechnicalTeamPct)
	out.FundingStage = clonePtr(m.FundingStage)
	out.TotalRaised = clonePtr(m.TotalRaised)
	out.LastValuation = clonePtr(m.LastValuation)
	out.CurrentAsk = clonePtr(m.CurrentAsk)
	out.TargetValuation = clonePtr(m.TargetValuation)
	out.TAM = clonePtr(m.TAM)
	out.ProductStage = clonePtr(m.ProductStage)
	if m.Founders != nil {
		out.Founders = make([]Founder, len(m.Founders))
		copy(out.Founders, m.Founders)
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float64Ptr is a convenience for building records in callers and tests.
func Float64Ptr(v float64) *float64 { return &v }

func (s FundingStage) String() string { return string(s) }

func (s ProductStage) String() string { return string(s) }

func fundingStageVocab() []string {
	out := make([]string, len(FundingStages))
	for i, s := range FundingStages {
		out[i] = string(s)
	}
	return out
}

func productStageVocab() []string {
	out := make([]string, len(ProductStages))
	for i, s := range ProductStages {
		out[i] = string(s)
	}
	return out
}
