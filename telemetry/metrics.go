// Package telemetry registers and updates the prometheus gauges the
// /metrics endpoint serves: current temperature, set point, duty cycle,
// and run state. Grounded on spec.md's ambient-stack expansion (no
// metrics exist in original_source; this package exercises
// github.com/prometheus/client_golang, a direct dependency shared by
// GVCUTV-NRG-CHAMP and Oguri-Dev-omniapi-iot-platform).
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Gauges holds the kiln's live telemetry, registered against the default
// prometheus registry so promhttp.Handler() serves them unmodified.
type Gauges struct {
	Temperature prometheus.Gauge
	SetPoint    prometheus.Gauge
	Duty        prometheus.Gauge
	State       prometheus.Gauge
}

// NewGauges constructs and registers the kiln_* gauge family.
func NewGauges() *Gauges {
	g := &Gauges{
		Temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kiln_temperature_celsius",
			Help: "Most recently observed hot-junction temperature, in Celsius.",
		}),
		SetPoint: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kiln_set_point_celsius",
			Help: "Current schedule target temperature, in Celsius.",
		}),
		Duty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kiln_duty_ratio",
			Help: "Most recent PID output, in [-1, 1].",
		}),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "kiln_running",
			Help: "1 if a schedule is currently running, 0 if idle.",
		}),
	}

	prometheus.MustRegister(g.Temperature, g.SetPoint, g.Duty, g.State)
	return g
}

// Observe records one control-loop tick's telemetry.
func (g *Gauges) Observe(temperature, setPoint, duty float64, running bool) {
	g.Temperature.Set(temperature)
	g.SetPoint.Set(setPoint)
	g.Duty.Set(duty)
	if running {
		g.State.Set(1)
	} else {
		g.State.Set(0)
	}
}
