package kiln

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/neumaics/caminatus/internal/mathx"
	"github.com/neumaics/caminatus/schedule"
)

// KilnState is the run state of a KilnLoop.
type KilnState string

const (
	Idle    KilnState = "Idle"
	Running KilnState = "Running"
)

// KilnEvent is a message sent into a running KilnLoop's inbox. At most one
// event is drained per tick, mirroring the original's update_queue
// pop_front inside the control loop (device/kiln.rs).
type KilnEvent struct {
	Kind     KilnEventKind
	Schedule schedule.NormalizedSchedule
}

type KilnEventKind int

const (
	EventStart KilnEventKind = iota
	EventStop
	EventComplete
)

// KilnUpdate is the per-tick telemetry snapshot published to subscribers,
// matching the original's KilnUpdate (camelCase over the wire).
type KilnUpdate struct {
	Temperature float64   `json:"temperature"`
	State       KilnState `json:"state"`
	Runtime     uint32    `json:"runtime"`
	SetPoint    float64   `json:"setPoint"`
}

// Publisher is the one capability the control loop needs from the event
// hub: publish a telemetry payload on a named channel. Defined here
// rather than importing the hub package, so kiln has no dependency on
// hub's client/registry concerns.
type Publisher interface {
	Publish(channel string, payload []byte)
}

// RunContext holds all mutable control-loop state. It is owned exclusively
// by KilnLoop.Run's goroutine; nothing outside that goroutine may touch
// it, matching the actor-style ownership the original enforces by giving
// the updater task sole access to thermocouple/heater/pid/schedule.
type RunContext struct {
	state    KilnState
	runtime  uint32
	schedule *schedule.NormalizedSchedule
	pid      *PID
	fuzzy    *Fuzzy
	lastTemp float64
}

func (rc *RunContext) lastTemperature() float64 {
	return rc.lastTemp
}

func (rc *RunContext) setLastTemperature(t float64) {
	rc.lastTemp = t
}

// KilnLoop is the periodic control loop: read temperature, drain at most
// one pending event, compute a duty cycle when running, slice the tick
// interval into heater on/off time, and publish a KilnUpdate. Grounded on
// the original's Kiln::start (device/kiln.rs).
type KilnLoop struct {
	Thermocouple Thermocouple
	Heater       Heater
	Publisher    Publisher
	Channel      string

	// Telemetry, if set, observes every tick's temperature/set
	// point/duty/state for metrics export. Defined as a narrow interface
	// here so kiln has no import-time dependency on the telemetry
	// package.
	Telemetry TelemetryObserver

	// Interval is the tick period. Runtime advances by Interval once per
	// tick (truncated to whole seconds), per spec.md section 4.5.
	Interval time.Duration

	inbox chan KilnEvent
}

// TelemetryObserver receives one control-loop tick's readings.
type TelemetryObserver interface {
	Observe(temperature, setPoint, duty float64, running bool)
}

// NewKilnLoop wires a control loop around the given sensor/actuator pair,
// publishing telemetry on channel via publisher every interval. PID and
// fuzzy-overlay gains are supplied separately to Run.
func NewKilnLoop(thermocouple Thermocouple, heater Heater, publisher Publisher, channel string, interval time.Duration) *KilnLoop {
	return &KilnLoop{
		Thermocouple: thermocouple,
		Heater:       heater,
		Publisher:    publisher,
		Channel:      channel,
		Interval:     interval,
		inbox:        make(chan KilnEvent, 8),
	}
}

// Start enqueues a schedule to begin running on the next tick.
func (l *KilnLoop) Start(s schedule.NormalizedSchedule) {
	l.inbox <- KilnEvent{Kind: EventStart, Schedule: s}
}

// Stop enqueues a request to halt the current run.
func (l *KilnLoop) Stop() {
	l.inbox <- KilnEvent{Kind: EventStop}
}

// Run ticks the control loop until ctx is cancelled. It owns its
// RunContext exclusively: no other goroutine reads or writes it. Each
// tick paces itself (on_time+off_time while running, the full interval
// while idle), matching the original's single-loop Kiln::start updater -
// there is no separate ticker racing against the heater-actuation sleep.
func (l *KilnLoop) Run(ctx context.Context, kP, kI, kD, fuzzyStep float64) {
	rc := &RunContext{
		state: Idle,
		pid:   NewPID(kP, kI, kD),
		fuzzy: NewFuzzy(fuzzyStep),
	}

	for {
		if ctx.Err() != nil {
			l.Heater.Off()
			return
		}
		l.tick(ctx, rc)
	}
}

func (l *KilnLoop) tick(ctx context.Context, rc *RunContext) {
	temperature, err := l.Thermocouple.Read(ctx)
	readOK := err == nil
	if err != nil {
		// Keep the last good reading and skip heater actuation this
		// tick, per spec.md section 9(a).
		log.Printf("kiln: thermocouple read failed, holding last reading: %v", err)
		temperature = rc.lastTemperature()
	} else {
		rc.setLastTemperature(temperature)
	}

	select {
	case event := <-l.inbox:
		l.applyEvent(rc, event)
	default:
	}

	var setPoint, duty float64
	switch {
	case rc.state == Running && !readOK:
		l.Heater.Off()
		sleep(ctx, l.Interval)
	case rc.state == Running:
		setPoint = rc.schedule.TargetTemperature(rc.runtime)
		duty = rc.pid.Compute(setPoint, temperature)
		fuzzyOut := rc.fuzzy.Compute(setPoint - temperature)
		log.Printf("kiln: fuzzy overlay on channel %s: %.3f", l.Channel, fuzzyOut)

		intervalMs := float64(l.Interval.Milliseconds())
		onTimeMs := mathx.Clamp(math.Floor(intervalMs*duty), 0, intervalMs)
		offTimeMs := intervalMs - onTimeMs

		l.Heater.On()
		sleep(ctx, time.Duration(onTimeMs)*time.Millisecond)
		l.Heater.Off()
		sleep(ctx, time.Duration(offTimeMs)*time.Millisecond)

		rc.runtime += uint32(l.Interval.Seconds())

		if rc.runtime > rc.schedule.TotalDuration() {
			log.Printf("kiln: schedule complete on channel %s", l.Channel)
			select {
			case l.inbox <- KilnEvent{Kind: EventComplete}:
			default:
			}
		}
	case rc.state == Idle:
		sleep(ctx, l.Interval)
	}

	update := KilnUpdate{
		Temperature: temperature,
		State:       rc.state,
		Runtime:     rc.runtime,
		SetPoint:    setPoint,
	}
	payload, err := json.Marshal(update)
	if err != nil {
		log.Printf("kiln: unable to marshal update: %v", err)
		return
	}
	if l.Publisher != nil {
		l.Publisher.Publish(l.Channel, payload)
	}
	if l.Telemetry != nil {
		l.Telemetry.Observe(temperature, setPoint, duty, rc.state == Running)
	}
}

func (l *KilnLoop) applyEvent(rc *RunContext, event KilnEvent) {
	switch event.Kind {
	case EventStart:
		if rc.state == Running {
			log.Printf("kiln: ignoring start, a schedule is already running")
			return
		}
		s := event.Schedule
		rc.state = Running
		rc.runtime = 0
		rc.schedule = &s
	case EventStop, EventComplete:
		if rc.state == Idle {
			log.Printf("kiln: stop requested while already idle")
		}
		rc.state = Idle
		rc.runtime = 0
		rc.schedule = nil
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
