package kiln_test

import (
	"testing"

	"github.com/neumaics/caminatus/kiln"
)

func TestPIDClampsOutput(t *testing.T) {
	p := kiln.NewPID(10, 0, 0)
	got := p.Compute(100, 0)
	if got != 1.0 {
		t.Errorf("Compute(100, 0) = %v, want 1.0 (clamped)", got)
	}
}

func TestPIDClampsNegativeOutput(t *testing.T) {
	p := kiln.NewPID(10, 0, 0)
	got := p.Compute(0, 100)
	if got != -1.0 {
		t.Errorf("Compute(0, 100) = %v, want -1.0 (clamped)", got)
	}
}

func TestPIDZeroErrorHolds(t *testing.T) {
	p := kiln.NewPID(1, 1, 1)
	got := p.Compute(50, 50)
	if got != 0 {
		t.Errorf("Compute(50, 50) = %v, want 0", got)
	}
}
