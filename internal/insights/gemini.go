package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/venturelens/diligence-api/internal/logger"
	"github.com/venturelens/diligence-api/internal/scoring"
)

// Generator produces the optional executive summary attached to analysis
// responses. Summaries are narrative garnish: a failure here never fails
// the scoring request.
type Generator interface {
	ExecutiveSummary(ctx context.Context, m *scoring.MetricsRecord, result *scoring.ScoreResult) (string, error)
	Enabled() bool
}

// GeminiGenerator generates summaries with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

// NewGeminiGenerator creates a generator, or a disabled one when no API key
// is configured.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return &disabledGenerator{}, nil
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		logger: logger.New("insights"),
	}, nil
}

// Enabled reports whether summaries will be generated
func (g *GeminiGenerator) Enabled() bool { return true }

// ExecutiveSummary asks the model for a short diligence memo paragraph
// grounded on the deterministic scoring output.
func (g *GeminiGenerator) ExecutiveSummary(ctx context.Context, m *scoring.MetricsRecord, result *scoring.ScoreResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	prompt := buildSummaryPrompt(m, result)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.3)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}, config)
	if err != nil {
		g.logger.Warn("Executive summary generation failed", "error", err)
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("summary generation returned empty response")
	}
	return text, nil
}

// buildSummaryPrompt renders the scoring output into the prompt. The model
// only narrates: every number it sees was computed deterministically.
func buildSummaryPrompt(m *scoring.MetricsRecord, result *scoring.ScoreResult) string {
	var b strings.Builder
	b.WriteString("You are an analyst at a venture fund writing the executive summary of a diligence memo.\n")
	b.WriteString("Summarize the assessment below in one paragraph of 3-5 sentences, plain prose, no headings.\n")
	b.WriteString("Do not invent numbers; only use the figures provided.\n\n")

	fmt.Fprintf(&b, "Company: %s\n", m.CompanyName)
	if m.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s\n", m.Sector)
	}
	fmt.Fprintf(&b, "ARR: $%.0f, growth rate: %.0f%%\n", m.ARR, m.GrowthRatePct)
	fmt.Fprintf(&b, "Aggregate score: %.1f/100, recommendation: %s\n",
		result.AggregateScore100, result.Recommendation)
	for key, v := range result.SubScores {
		fmt.Fprintf(&b, "Sub-score %s: %.1f\n", key, v)
	}
	for _, reason := range result.VetoReasons {
		fmt.Fprintf(&b, "Hard veto triggered: %s\n", reason)
	}
	for _, risk := range result.Risks {
		fmt.Fprintf(&b, "Risk (severity %d): %s\n", risk.Severity, risk.Label)
	}
	return b.String()
}

// disabledGenerator is the no-op used when Gemini is not configured.
type disabledGenerator struct{}

// NewDisabledGenerator returns a generator that never produces summaries
func NewDisabledGenerator() Generator {
	return &disabledGenerator{}
}

func (d *disabledGenerator) Enabled() bool { return false }

func (d *disabledGenerator) ExecutiveSummary(ctx context.Context, m *scoring.MetricsRecord, result *scoring.ScoreResult) (string, error) {
	return "", nil
}
