package scoring

import (
	"fmt"
	"math"

	"github.com/venturelens/diligence-api/internal/errors"
)

// Persona is a caller-supplied weighting over the four sub-scores, modeling
// an investor's risk appetite. Weights must be non-negative and sum to 1.0
// within tolerance. There is no process-wide mutable default: callers either
// pass a persona per request or get DefaultPersona().
type Persona struct {
	Financial float64 `json:"financial"`
	Market    float64 `json:"market"`
	Team      float64 `json:"team"`
	Traction  float64 `json:"traction"`
}

// weightSumTolerance is the floating-point slack allowed on the sum-to-1 check.
const weightSumTolerance = 0.01

// DefaultPersona returns the house weighting.
func DefaultPersona() Persona {
	return Persona{
		Financial: 0.35,
		Market:    0.25,
		Team:      0.20,
		Traction:  0.20,
	}
}

// Sum returns the total of all weights.
func (p Persona) Sum() float64 {
	return p.Financial + p.Market + p.Team + p.Traction
}

// Validate checks that weights are non-negative and sum to 1.0.
func (p Persona) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"financial", p.Financial},
		{"market", p.Market},
		{"team", p.Team},
		{"traction", p.Traction},
	} {
		if w.value < 0 {
			return errors.ValidationError(
				fmt.Sprintf("persona weight must be non-negative, got %v", w.value), nil,
			).WithField("persona." + w.name)
		}
	}
	if sum := p.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return errors.ValidationError(
			fmt.Sprintf("persona weights must sum to 1.0, got %.4f", sum), nil,
		).WithField("persona")
	}
	return nil
}

// Aggregate combines the four sub-scores into a single 0-100 score using the
// persona weights. A pure weighted sum, clamped; monotonic non-decreasing in
// every sub-score by construction.
func Aggregate(sub SubScores, p Persona) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	score := sub.Financial*p.Financial +
		sub.Market*p.Market +
		sub.Team*p.Team +
		sub.Traction*p.Traction
	return clamp(score, 0, 100), nil
}
