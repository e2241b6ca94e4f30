package kiln

// Fuzzy is a three-rule membership overlay on the PID error term: "down"
// (negative error, heat), "triangle" (near zero, hold), and "up" (positive
// error, cool). It is diagnostic only in this design - its output is
// logged by the control loop but never drives the heater, per spec.md
// section 4.4 and the "Fuzzy controller" design note (section 9). Ported
// from the original's Fuzzy::init/compute (device/kiln/controller.rs),
// which wraps the rsfuzzy crate; no equivalent fuzzy-logic library exists
// anywhere in the retrieval pack, so the three-rule centroid is
// reimplemented directly against stdlib math.
type Fuzzy struct {
	stepSize float64
}

// NewFuzzy returns a Fuzzy overlay whose input universe is scaled by
// stepSize, matching the "down"/"triangle"/"up" membership windows of the
// original engine (low_bound = -2*stepSize, high_bound = 2*stepSize).
func NewFuzzy(stepSize float64) *Fuzzy {
	return &Fuzzy{stepSize: stepSize}
}

// membership values for the three output rules: heat, hold, cool. Scaled
// to [0, 1] per spec.md section 4.4; the original engine's rsfuzzy output
// variable runs 0..100 (see DESIGN.md open question (d)).
const (
	ruleHeat = 0.0
	ruleHold = 0.5
	ruleCool = 1.0
)

// Compute returns a diagnostic value in [0, 1] for the given error term:
// close to ruleHeat when error is strongly negative (needs heat), close to
// ruleHold near zero, and close to ruleCool when strongly positive.
func (f *Fuzzy) Compute(err float64) float64 {
	if f.stepSize <= 0 {
		return ruleHold
	}

	high := 2 * f.stepSize
	low := -high

	down := triangleMembership(err, low, low, 0)
	hold := triangleMembership(err, -f.stepSize, 0, f.stepSize)
	up := triangleMembership(err, 0, high, high)

	weight := down + hold + up
	if weight == 0 {
		return ruleHold
	}
	return (down*ruleHeat + hold*ruleHold + up*ruleCool) / weight
}

// triangleMembership returns the degree (0..1) to which x belongs to the
// triangular fuzzy set (a, b, c), with a==b or b==c producing a
// left/right-shoulder ("down"/"up") set instead of a true triangle.
func triangleMembership(x, a, b, c float64) float64 {
	switch {
	case x <= a || x >= c:
		if a == b && x <= a {
			return 1
		}
		if b == c && x >= c {
			return 1
		}
		return 0
	case x == b:
		return 1
	case x < b:
		return (x - a) / (b - a)
	default:
		return (c - x) / (c - b)
	}
}
