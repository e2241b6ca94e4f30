package kiln_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/neumaics/caminatus/kiln"
	"github.com/neumaics/caminatus/schedule"
)

type constantThermocouple struct {
	temp float64
}

func (c *constantThermocouple) Read(ctx context.Context) (float64, error)         { return c.temp, nil }
func (c *constantThermocouple) ReadInternal(ctx context.Context) (float64, error) { return c.temp, nil }

type recordingHeater struct {
	mu      sync.Mutex
	onCount int
}

func (h *recordingHeater) On() {
	h.mu.Lock()
	h.onCount++
	h.mu.Unlock()
}
func (h *recordingHeater) Off() {}

type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(channel string, payload []byte) {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.payloads)
}

func TestKilnLoopPublishesIdleUpdates(t *testing.T) {
	tc := &constantThermocouple{temp: 25}
	heater := &recordingHeater{}
	pub := &capturingPublisher{}

	loop := kiln.NewKilnLoop(tc, heater, pub, "kiln", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx, 1, 0, 0, 5)

	time.Sleep(55 * time.Millisecond)
	cancel()

	if pub.count() == 0 {
		t.Error("expected at least one published update while idle")
	}
}

func TestKilnLoopRunsScheduleAndActuatesHeater(t *testing.T) {
	tc := &constantThermocouple{temp: 0}
	heater := &recordingHeater{}
	pub := &capturingPublisher{}

	loop := kiln.NewKilnLoop(tc, heater, pub, "kiln", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx, 10, 0, 0, 5)

	s := schedule.Schedule{Name: "test", Scale: schedule.Celsius, Steps: []string{"100 to 1000 over 1 hour", "hold for 1 hour"}}
	n, err := schedule.Normalize(s)
	if err != nil {
		t.Fatalf("unexpected normalize error: %v", err)
	}
	loop.Start(n)

	time.Sleep(55 * time.Millisecond)
	cancel()

	heater.mu.Lock()
	onCount := heater.onCount
	heater.mu.Unlock()
	if onCount == 0 {
		t.Error("expected heater to be actuated on at least once while running a schedule demanding full duty")
	}
}
