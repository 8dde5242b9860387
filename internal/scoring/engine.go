package scoring

import "time"

// Engine runs the investment scoring pipeline: sub-scores, weighted
// aggregation, recommendation, risk battery. It is stateless and safe for
// concurrent use.
type Engine struct{}

// NewEngine creates a new scoring engine instance
func NewEngine() *Engine {
	return &Engine{}
}

// ScoreResult is the derived output of one evaluation. It is recomputed on
// every call and never persisted as a source of truth.
type ScoreResult struct {
	StartupID         string             `json:"startup_id"`
	SubScores         map[string]float64 `json:"sub_scores"`
	AggregateScore100 float64            `json:"aggregate_score_100"`
	AggregateScore1   float64            `json:"aggregate_score_1"`
	Recommendation    Recommendation     `json:"recommendation"`
	VetoReasons       []string           `json:"veto_reasons,omitempty"`
	Risks             []Risk             `json:"risks"`
	ScoredAt          time.Time          `json:"scored_at"`
}

// Evaluate scores a record with the given persona. A nil persona uses the
// default weighting. The only error source is an invalid persona; a valid
// MetricsRecord can never fail evaluation.
func (e *Engine) Evaluate(m *MetricsRecord, persona *Persona) (*ScoreResult, error) {
	p := DefaultPersona()
	if persona != nil {
		p = *persona
	}

	sub := ComputeSubScores(m)
	aggregate, err := Aggregate(sub, p)
	if err != nil {
		return nil, err
	}

	vetoes := VetoReasons(m)
	recommendation := Classify(aggregate, len(vetoes) > 0)

	return &ScoreResult{
		StartupID:         m.StartupID,
		SubScores:         sub.Map(),
		AggregateScore100: aggregate,
		AggregateScore1:   aggregate / 100,
		Recommendation:    recommendation,
		VetoReasons:       vetoes,
		Risks:             ExtractRisks(m),
		ScoredAt:          time.Now().UTC(),
	}, nil
}
