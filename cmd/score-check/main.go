package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/venturelens/diligence-api/internal/scoring"
)

func main() {
	fmt.Println("🎯 VentureLens Scoring Engine Check")
	fmt.Println("===================================")

	// Create scoring engine
	engine := scoring.NewEngine()

	// Simulated questionnaire for a strong series-B SaaS company
	rawMetrics := map[string]interface{}{
		"startup_id":      "demo-001",
		"company_name":    "Acme Analytics",
		"sector":          "Developer Tools",
		"arr":             "$12,000,000",
		"growth_rate_pct": "180%",
		"team_size":       45,

		// Financial detail
		"gross_margin_pct":  80,
		"burn_rate_monthly": "500k",
		"runway_months":     24,

		// Customer traction
		"logo_retention_pct": 98,
		"nrr_pct":            130,
		"ltv":                6000,
		"cac":                1500,
		"churn_rate_pct":     2,

		// Team and market
		"team_from_top_tech_pct": 40,
		"technical_team_pct":     60,
		"tam":                    "5b",
		"product_stage":          "scaling",
		"funding_stage":          "Series B",
		"founders": []interface{}{
			map[string]interface{}{"name": "Dana Reyes", "role": "CEO", "years_experience": 12, "prior_exit": true},
			map[string]interface{}{"name": "Lee Okafor", "role": "CTO", "years_experience": 10},
		},
	}

	fmt.Println("\n🔹 Normalizing questionnaire payload")
	record, err := scoring.Normalize(rawMetrics)
	if err != nil {
		log.Fatalf("❌ Normalization failed: %v", err)
	}
	fmt.Printf("   • Company: %s (ARR $%.0f, growth %.0f%%)\n",
		record.CompanyName, record.ARR, record.GrowthRatePct)

	fmt.Println("\n🔹 Running scoring pipeline")
	result, err := engine.Evaluate(record, nil)
	if err != nil {
		log.Fatalf("❌ Evaluation failed: %v", err)
	}
	printScoreResult(result)

	fmt.Println("\n🔸 Running counterfactual scenarios")
	counterfactual, err := engine.Counterfactual(record, nil, []scoring.Scenario{
		{Parameter: "arr", Value: 20_000_000, Description: "ARR grows to $20M"},
		{Parameter: "burn_rate_monthly", Value: 300_000, Description: "Burn cut to $300k/mo"},
	})
	if err != nil {
		log.Fatalf("❌ Counterfactual failed: %v", err)
	}

	for _, sc := range counterfactual.Scenarios {
		marker := "➖"
		if sc.ScoreDelta > 0 {
			marker = "➕"
		}
		fmt.Printf("   %s %s: %.1f (%+.1f), recommendation %s\n",
			marker, sc.Description, sc.NewScore, sc.ScoreDelta, sc.NewRecommendation)
	}
	if len(counterfactual.Breakpoints) == 0 {
		fmt.Println("   • No recommendation breakpoints within parameter ranges")
	}
	for param, threshold := range counterfactual.Breakpoints {
		fmt.Printf("   • Breakpoint %s: %.2f\n", param, threshold)
	}

	fmt.Println("\n✅ Scoring check completed")
}

func printScoreResult(result *scoring.ScoreResult) {
	pretty, _ := json.MarshalIndent(result.SubScores, "   ", "  ")
	fmt.Printf("   • Sub-scores: %s\n", string(pretty))
	fmt.Printf("   • Aggregate: %.1f/100 (%.3f)\n", result.AggregateScore100, result.AggregateScore1)
	fmt.Printf("   • Recommendation: %s\n", result.Recommendation)
	for _, reason := range result.VetoReasons {
		fmt.Printf("   • Veto: %s\n", reason)
	}
	for _, risk := range result.Risks {
		fmt.Printf("   • Risk (severity %d): %s\n", risk.Severity, risk.Label)
	}
}
