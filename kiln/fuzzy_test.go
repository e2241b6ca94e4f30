package kiln_test

import (
	"testing"

	"github.com/neumaics/caminatus/kiln"
)

func TestFuzzyHoldsAtZeroError(t *testing.T) {
	f := kiln.NewFuzzy(5)
	if got := f.Compute(0); got != 0.5 {
		t.Errorf("Compute(0) = %v, want 0.5 (hold)", got)
	}
}

func TestFuzzyLeansHeatOnNegativeError(t *testing.T) {
	f := kiln.NewFuzzy(5)
	got := f.Compute(-20)
	if got >= 0.5 {
		t.Errorf("Compute(-20) = %v, want closer to heat (< 0.5)", got)
	}
}

func TestFuzzyLeansCoolOnPositiveError(t *testing.T) {
	f := kiln.NewFuzzy(5)
	got := f.Compute(20)
	if got <= 0.5 {
		t.Errorf("Compute(20) = %v, want closer to cool (> 0.5)", got)
	}
}

func TestFuzzyDegenerateStepSize(t *testing.T) {
	f := kiln.NewFuzzy(0)
	if got := f.Compute(123); got != 0.5 {
		t.Errorf("Compute with zero step size = %v, want 0.5", got)
	}
}
