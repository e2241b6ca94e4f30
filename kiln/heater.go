package kiln

import "log"

// Heater is the capability interface the control loop drives to actuate
// the kiln's solid-state relay. GPIO transport is out of scope for this
// module (spec.md section 6); SimulatedHeater stands in for the real,
// hardware-backed implementation in development and tests, mirroring the
// original's sensor::heater real/simulated split.
type Heater interface {
	On()
	Off()
}

// SimulatedHeater logs the on/off transitions a real GPIO-backed heater
// would perform, without touching any hardware. Ported from the
// original's sensor::heater::simulated::Heater.
type SimulatedHeater struct {
	pin uint8
	on  bool
}

// NewSimulatedHeater returns a Heater standing in for the relay on the
// given (logical, not physical) GPIO pin number.
func NewSimulatedHeater(pin uint8) *SimulatedHeater {
	return &SimulatedHeater{pin: pin}
}

func (h *SimulatedHeater) On() {
	h.on = true
	log.Printf("kiln: heater pin %d on", h.pin)
}

func (h *SimulatedHeater) Off() {
	h.on = false
	log.Printf("kiln: heater pin %d off", h.pin)
}

// IsOn reports the heater's last commanded state; useful for tests and
// telemetry, not part of the Heater capability interface itself.
func (h *SimulatedHeater) IsOn() bool {
	return h.on
}
