// Package kiln implements the control-loop subsystem: a bounded PID
// controller, a diagnostic fuzzy overlay, the periodic KilnLoop state
// machine, and the Thermocouple/Heater capability interfaces it drives.
package kiln

import (
	"time"

	"github.com/neumaics/caminatus/internal/mathx"
)

var dutyLimits = mathx.Limiter{Min: -1.0, Max: 1.0}

// PID is a bounded PID controller: both the integrator and the output are
// clamped to [-1, 1], matching the duty-cycle range the control loop needs.
// Ported from the original's PID::compute (device/kiln/controller.rs),
// which clamps i_term immediately after accumulation and clamps the output
// again after combining terms - both clamps are kept per spec.md section 4.3.
type PID struct {
	kP, kI, kD float64

	lastTime  time.Time
	iTerm     float64
	lastError float64
}

// NewPID returns a PID controller seeded with the given gains. lastTime
// starts at the construction time, so the first call to Compute measures
// its delta from when the controller was created rather than from a zero
// time.
func NewPID(kP, kI, kD float64) *PID {
	return &PID{kP: kP, kI: kI, kD: kD, lastTime: time.Now()}
}

// Compute returns a duty in [-1, 1] driving the process variable isPoint
// toward setPoint. Delta time is measured in whole seconds since the
// previous call; a delta of zero (sub-second ticks) is treated as one
// second to avoid a divide-by-zero, per spec.md section 9(b).
func (p *PID) Compute(setPoint, isPoint float64) float64 {
	now := time.Now()
	delta := int64(now.Sub(p.lastTime).Seconds())
	if delta == 0 {
		delta = 1
	}

	err := setPoint - isPoint

	p.iTerm += err * float64(delta) * p.kI
	p.iTerm = dutyLimits.Clamp(p.iTerm)

	dError := (err - p.lastError) / float64(delta)

	output := p.kP*err + p.iTerm + p.kD*dError
	output = dutyLimits.Clamp(output)

	p.lastError = err
	p.lastTime = now
	return output
}
