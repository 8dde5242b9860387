package scoring

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/venturelens/diligence-api/internal/errors"
)

// Required questionnaire fields. Absence of any of these fails normalization.
var requiredFields = []string{"startup_id", "company_name", "arr", "growth_rate_pct", "team_size"}

// Normalize converts a raw questionnaire key->value map into a validated
// MetricsRecord. Validation happens here and only here: once a record is
// returned, every downstream calculator is total over it.
//
// Parsing rules:
//   - numeric strings may carry currency symbols, commas, percent signs and
//     k/m/b magnitude suffixes ("$12,000,000", "180%", "1.2M")
//   - a required field that is missing or unparseable fails with a
//     VALIDATION_ERROR naming the field
//   - an optional field that is unparseable is marked absent, but a value
//     that parses to a negative number is rejected, never silently dropped
func Normalize(raw map[string]interface{}) (*MetricsRecord, error) {
	rec := &MetricsRecord{}

	var err error
	if rec.StartupID, err = requiredString(raw, "startup_id"); err != nil {
		return nil, err
	}
	if rec.CompanyName, err = requiredString(raw, "company_name"); err != nil {
		return nil, err
	}
	if rec.ARR, err = requiredNumber(raw, "arr"); err != nil {
		return nil, err
	}
	if rec.GrowthRatePct, err = requiredNumber(raw, "growth_rate_pct"); err != nil {
		return nil, err
	}
	if rec.TeamSize, err = requiredNumber(raw, "team_size"); err != nil {
		return nil, err
	}

	if rec.FoundingYear, err = optionalYear(raw, "founding_year"); err != nil {
		return nil, err
	}

	optional := []struct {
		field string
		dst   **float64
	}{
		{"mrr", &rec.MRR},
		{"gross_margin_pct", &rec.GrossMarginPct},
		{"burn_rate_monthly", &rec.BurnRateMonthly},
		{"runway_months", &rec.RunwayMonths},
		{"total_customers", &rec.TotalCustomers},
		{"fortune_500_customers", &rec.Fortune500Customers},
		{"churn_rate_pct", &rec.ChurnRatePct},
		{"logo_retention_pct", &rec.LogoRetentionPct},
		{"nrr_pct", &rec.NRRPct},
		{"cac", &rec.CAC},
		{"ltv", &rec.LTV},
		{"customer_concentration_pct", &rec.CustomerConcentrationPct},
		{"team_from_top_tech_pct", &rec.TeamFromTopTechPct},
		{"technical_team_pct", &rec.TechnicalTeamPct},
		{"total_raised", &rec.TotalRaised},
		{"last_valuation", &rec.LastValuation},
		{"current_ask", &rec.CurrentAsk},
		{"target_valuation", &rec.TargetValuation},
		{"tam", &rec.TAM},
	}
	for _, o := range optional {
		if *o.dst, err = optionalNumber(raw, o.field); err != nil {
			return nil, err
		}
	}

	if rec.FundingStage, err = parseFundingStage(raw); err != nil {
		return nil, err
	}
	if rec.ProductStage, err = parseProductStage(raw); err != nil {
		return nil, err
	}
	rec.Founders = parseFounders(raw["founders"])
	rec.CompetitiveAdvantage = optionalString(raw, "competitive_advantage")
	rec.Sector = optionalString(raw, "sector")
	rec.UseOfFunds = optionalString(raw, "use_of_funds")

	return rec, nil
}

// parseNumber converts a raw questionnaire value into a float64. String
// values are cleaned of currency symbols, commas and percent signs before
// parsing; trailing k/m/b suffixes scale the value.
func parseNumber(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("value is not finite")
		}
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return parseNumericString(n)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func parseNumericString(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(strings.ToLower(cleaned), "k"):
		multiplier = 1e3
		cleaned = cleaned[:len(cleaned)-1]
	case strings.HasSuffix(strings.ToLower(cleaned), "m"):
		multiplier = 1e6
		cleaned = cleaned[:len(cleaned)-1]
	case strings.HasSuffix(strings.ToLower(cleaned), "b"):
		multiplier = 1e9
		cleaned = cleaned[:len(cleaned)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable numeric value %q", s)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("value is not finite")
	}
	return value * multiplier, nil
}

func requiredString(raw map[string]interface{}, field string) (string, error) {
	v, exists := raw[field]
	if !exists || v == nil {
		return "", errors.ValidationError("required field is missing", nil).WithField(field)
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", errors.ValidationError("required field must be a non-empty string", nil).WithField(field)
	}
	return strings.TrimSpace(s), nil
}

func optionalString(raw map[string]interface{}, field string) string {
	if v, exists := raw[field]; exists && v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func requiredNumber(raw map[string]interface{}, field string) (float64, error) {
	v, exists := raw[field]
	if !exists || v == nil {
		return 0, errors.ValidationError("required field is missing", nil).WithField(field)
	}
	n, err := parseNumber(v)
	if err != nil {
		return 0, errors.ValidationError(err.Error(), nil).WithField(field)
	}
	if n < 0 {
		return 0, errors.ValidationError("value must be non-negative", nil).WithField(field)
	}
	return n, nil
}

// optionalNumber marks unparseable optional values absent, per the
// degradation policy, but still rejects parsed negative values outright.
func optionalNumber(raw map[string]interface{}, field string) (*float64, error) {
	v, exists := raw[field]
	if !exists || v == nil {
		return nil, nil
	}
	n, err := parseNumber(v)
	if err != nil {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.ValidationError("value must be non-negative", nil).WithField(field)
	}
	return &n, nil
}

func optionalYear(raw map[string]interface{}, field string) (*int, error) {
	v, exists := raw[field]
	if !exists || v == nil {
		return nil, nil
	}
	n, err := parseNumber(v)
	if err != nil {
		return nil, errors.ValidationError(err.Error(), nil).WithField(field)
	}
	year := int(n)
	if year < 1000 || year > 9999 {
		return nil, errors.ValidationError("must be a 4-digit year", nil).WithField(field)
	}
	if year > time.Now().Year() {
		return nil, errors.ValidationError("year is in the future", nil).WithField(field)
	}
	return &year, nil
}

func parseFundingStage(raw map[string]interface{}) (*FundingStage, error) {
	v, exists := raw["funding_stage"]
	if !exists || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.ValidationError("must be a string", nil).WithField("funding_stage")
	}
	canonical := canonicalEnum(s)
	for _, stage := range FundingStages {
		if canonical == string(stage) {
			matched := stage
			return &matched, nil
		}
	}
	msg := fmt.Sprintf("invalid value %q, allowed: %s", s, strings.Join(fundingStageVocab(), ", "))
	return nil, errors.ValidationError(msg, nil).WithField("funding_stage")
}

func parseProductStage(raw map[string]interface{}) (*ProductStage, error) {
	v, exists := raw["product_stage"]
	if !exists || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, errors.ValidationError("must be a string", nil).WithField("product_stage")
	}
	canonical := canonicalEnum(s)
	for _, stage := range ProductStages {
		if canonical == string(stage) {
			matched := stage
			return &matched, nil
		}
	}
	msg := fmt.Sprintf("invalid value %q, allowed: %s", s, strings.Join(productStageVocab(), ", "))
	return nil, errors.ValidationError(msg, nil).WithField("product_stage")
}

// canonicalEnum lowercases and normalizes separators so "Series A" and
// "series_a" both match "series-a".
func canonicalEnum(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = strings.ReplaceAll(out, "_", "-")
	out = strings.ReplaceAll(out, " ", "-")
	return out
}

// parseFounders extracts the founder list. The field is optional and
// tolerant: malformed entries are skipped rather than failing the record.
func parseFounders(v interface{}) []Founder {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var founders []Founder
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		f := Founder{}
		if name, ok := entry["name"].(string); ok {
			f.Name = strings.TrimSpace(name)
		}
		if role, ok := entry["role"].(string); ok {
			f.Role = strings.TrimSpace(role)
		}
		if years, err := parseNumber(entry["years_experience"]); err == nil && years >= 0 {
			f.YearsExperience = years
		}
		switch exit := entry["prior_exit"].(type) {
		case bool:
			f.PriorExit = exit
		case string:
			f.PriorExit = strings.EqualFold(strings.TrimSpace(exit), "true")
		}
		founders = append(founders, f)
	}
	return founders
}
