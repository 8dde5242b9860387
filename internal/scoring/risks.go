package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Risk is a single finding from the rule battery.
type Risk struct {
	Label      string `json:"label"`
	Severity   int    `json:"severity"` // 1 (minor) to 5 (deal-breaking)
	Mitigation string `json:"mitigation"`
}

// riskRule checks one condition. Returning nil means the rule did not fire;
// a rule whose required inputs are absent is skipped, never an error.
type riskRule struct {
	name  string
	check func(m *MetricsRecord) *Risk
}

// Stage-appropriate churn benchmarks (monthly logo churn, percent). Early
// products are allowed more churn than scaled ones.
var churnBenchmarks = map[ProductStage]float64{
	StageIdea:     20,
	StageMVP:      15,
	StageBeta:     12,
	StageLaunched: 10,
	StageGrowing:  7,
	StageScaling:  5,
}

// Sectors that carry regulatory exposure worth flagging in diligence.
var regulatedSectorKeywords = []string{
	"health", "medical", "pharma", "biotech", "fintech", "finance",
	"banking", "insurance", "lending", "crypto", "cannabis", "defense",
	"gambling", "education",
}

// riskRules is the fixed, ordered battery. Evaluation order is the
// tiebreaker for equal severities, so order changes are behavior changes.
var riskRules = []riskRule{
	{name: "short_runway", check: checkShortRunway},
	{name: "high_burn_multiple", check: checkHighBurnMultiple},
	{name: "customer_concentration", check: checkCustomerConcentration},
	{name: "churn_above_benchmark", check: checkChurnAboveBenchmark},
	{name: "unit_economics_underwater", check: checkUnitEconomics},
	{name: "single_founder_no_exit", check: checkSingleFounder},
	{name: "unexplained_funding_ask", check: checkFundingAsk},
	{name: "regulated_sector", check: checkRegulatedSector},
	{name: "thin_gross_margin", check: checkThinMargin},
}

// ExtractRisks runs the battery and returns findings sorted by severity,
// highest first. The sort is stable and the battery order fixed, so the
// output is deterministic for identical input.
func ExtractRisks(m *MetricsRecord) []Risk {
	risks := make([]Risk, 0, len(riskRules))
	for _, rule := range riskRules {
		if r := rule.check(m); r != nil {
			risks = append(risks, *r)
		}
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity > risks[j].Severity
	})
	return risks
}

func checkShortRunway(m *MetricsRecord) *Risk {
	if m.RunwayMonths == nil {
		return nil
	}
	months := *m.RunwayMonths
	if months >= 6 {
		return nil
	}
	severity := 4
	if months < 3 {
		severity = 5
	}
	return &Risk{
		Label:      fmt.Sprintf("Runway of %.1f months is below the 6-month diligence floor", months),
		Severity:   severity,
		Mitigation: "Close a bridge round or cut burn before term-sheet stage.",
	}
}

func checkHighBurnMultiple(m *MetricsRecord) *Risk {
	if m.BurnRateMonthly == nil || m.ARR <= 0 {
		return nil
	}
	bm := *m.BurnRateMonthly * 12 / m.ARR
	if bm <= 2 {
		return nil
	}
	severity := 3
	if bm > 3 {
		severity = 4
	}
	return &Risk{
		Label:      fmt.Sprintf("Burn multiple of %.1fx signals capital-inefficient growth", bm),
		Severity:   severity,
		Mitigation: "Request a path-to-efficiency plan; benchmark burn against cohort peers.",
	}
}

func checkCustomerConcentration(m *MetricsRecord) *Risk {
	if m.CustomerConcentrationPct == nil {
		return nil
	}
	pct := *m.CustomerConcentrationPct
	if pct <= 30 {
		return nil
	}
	severity := 3
	if pct > 50 {
		severity = 4
	}
	return &Risk{
		Label:      fmt.Sprintf("Top customers account for %.0f%% of revenue", pct),
		Severity:   severity,
		Mitigation: "Verify contract terms with anchor customers; model revenue under single-logo loss.",
	}
}

func checkChurnAboveBenchmark(m *MetricsRecord) *Risk {
	if m.ChurnRatePct == nil || m.ProductStage == nil {
		return nil
	}
	benchmark, ok := churnBenchmarks[*m.ProductStage]
	if !ok {
		return nil
	}
	churn := *m.ChurnRatePct
	if churn <= benchmark {
		return nil
	}
	severity := 3
	if churn > 2*benchmark {
		severity = 4
	}
	return &Risk{
		Label:      fmt.Sprintf("Churn of %.1f%% exceeds the %.0f%% benchmark for %s-stage products", churn, benchmark, *m.ProductStage),
		Severity:   severity,
		Mitigation: "Dig into cohort retention curves and the top three churn reasons.",
	}
}

func checkUnitEconomics(m *MetricsRecord) *Risk {
	if m.LTV == nil || m.CAC == nil || *m.CAC <= 0 {
		return nil
	}
	ratio := *m.LTV / *m.CAC
	if ratio >= 1 {
		return nil
	}
	return &Risk{
		Label:      fmt.Sprintf("LTV/CAC of %.2f means customers are acquired at a loss", ratio),
		Severity:   3,
		Mitigation: "Pressure-test CAC attribution and payback period assumptions.",
	}
}

func checkSingleFounder(m *MetricsRecord) *Risk {
	if len(m.Founders) != 1 {
		return nil
	}
	if m.Founders[0].PriorExit {
		return nil
	}
	return &Risk{
		Label:      "Single founder with no prior exit",
		Severity:   3,
		Mitigation: "Assess key-person risk and plans to round out the leadership team.",
	}
}

func checkFundingAsk(m *MetricsRecord) *Risk {
	if m.CurrentAsk == nil || *m.CurrentAsk <= 0 {
		return nil
	}
	if len(strings.TrimSpace(m.UseOfFunds)) >= 20 {
		return nil
	}
	return &Risk{
		Label:      "Funding ask is not backed by a use-of-funds breakdown",
		Severity:   2,
		Mitigation: "Request an allocation plan tying the raise to runway and hiring milestones.",
	}
}

func checkRegulatedSector(m *MetricsRecord) *Risk {
	sector := strings.ToLower(m.Sector)
	if sector == "" {
		return nil
	}
	for _, keyword := range regulatedSectorKeywords {
		if strings.Contains(sector, keyword) {
			return &Risk{
				Label:      fmt.Sprintf("Sector %q carries regulatory exposure", m.Sector),
				Severity:   3,
				Mitigation: "Scope compliance obligations and licensing timeline with counsel.",
			}
		}
	}
	return nil
}

func checkThinMargin(m *MetricsRecord) *Risk {
	if m.GrossMarginPct == nil {
		return nil
	}
	if *m.GrossMarginPct >= 20 {
		return nil
	}
	return &Risk{
		Label:      fmt.Sprintf("Gross margin of %.0f%% is below software norms", *m.GrossMarginPct),
		Severity:   3,
		Mitigation: "Understand COGS drivers and whether margin expands with scale.",
	}
}
