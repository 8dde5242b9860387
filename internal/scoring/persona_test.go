package scoring

import (
	"math"
	"testing"
)

func TestPersona_Validate(t *testing.T) {
	if err := DefaultPersona().Validate(); err != nil {
		t.Errorf("Default persona must validate, got %v", err)
	}

	if err := (Persona{Financial: 0.25, Market: 0.25, Team: 0.25, Traction: 0.25}).Validate(); err != nil {
		t.Errorf("Equal weights must validate, got %v", err)
	}

	// Within tolerance of 1.0.
	if err := (Persona{Financial: 0.35, Market: 0.25, Team: 0.20, Traction: 0.205}).Validate(); err != nil {
		t.Errorf("Sum of 1.005 is within tolerance, got %v", err)
	}

	if err := (Persona{Financial: 0.5}).Validate(); err == nil {
		t.Error("Expected error for weights summing to 0.5")
	}

	if err := (Persona{Financial: -0.1, Market: 0.5, Team: 0.3, Traction: 0.3}).Validate(); err == nil {
		t.Error("Expected error for a negative weight")
	}
}

func TestAggregate_DefaultWeights(t *testing.T) {
	sub := SubScores{Financial: 512.0 / 7, Market: 90, Team: 80, Traction: 92}

	got, err := Aggregate(sub, DefaultPersona())
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if math.Abs(got-82.5) > scoreTolerance {
		t.Errorf("Expected 82.5 under default weights, got %v", got)
	}
}

func TestAggregate_EqualWeightsAreUnweightedMean(t *testing.T) {
	sub := SubScores{Financial: 40, Market: 60, Team: 80, Traction: 100}
	equal := Persona{Financial: 0.25, Market: 0.25, Team: 0.25, Traction: 0.25}

	got, err := Aggregate(sub, equal)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if math.Abs(got-70) > scoreTolerance {
		t.Errorf("Expected unweighted mean 70, got %v", got)
	}
}

func TestAggregate_RejectsInvalidPersona(t *testing.T) {
	sub := SubScores{Financial: 50, Market: 50, Team: 50, Traction: 50}
	if _, err := Aggregate(sub, Persona{Financial: 1.5}); err == nil {
		t.Error("Expected error for invalid persona")
	}
}
