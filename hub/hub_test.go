package hub_test

import (
	"testing"
	"time"

	"github.com/neumaics/caminatus/hub"
	"github.com/neumaics/caminatus/schedule"
)

type noopKiln struct {
	started []schedule.NormalizedSchedule
	stopped int
}

func (k *noopKiln) Start(s schedule.NormalizedSchedule) { k.started = append(k.started, s) }
func (k *noopKiln) Stop()                               { k.stopped++ }

func drainUserId(t *testing.T, sink hub.Sink) hub.ClientId {
	t.Helper()
	select {
	case msg := <-sink:
		if msg.Kind != hub.MessageUserId {
			t.Fatalf("expected first message to be MessageUserId, got %+v", msg)
		}
		return msg.Id
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for user id")
	}
	return hub.ClientId{}
}

func drainUpdate(t *testing.T, sink hub.Sink) hub.Message {
	t.Helper()
	select {
	case msg := <-sink:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
	return hub.Message{}
}

func TestSubscribeDeliversAckThenUpdateToBothClients(t *testing.T) {
	h := hub.NewEventHub(&noopKiln{})
	h.Register("kiln")

	id1, sink1 := h.ClientRegister()
	drainUserId(t, sink1)
	id2, sink2 := h.ClientRegister()
	drainUserId(t, sink2)

	h.Subscribe("kiln", id1)
	h.Subscribe("kiln", id2)

	ack1 := drainUpdate(t, sink1)
	if ack1.Channel != "system" || string(ack1.Data) != "success" {
		t.Errorf("expected system/success ack, got %+v", ack1)
	}
	ack2 := drainUpdate(t, sink2)
	if ack2.Channel != "system" || string(ack2.Data) != "success" {
		t.Errorf("expected system/success ack, got %+v", ack2)
	}

	h.Publish("kiln", []byte(`{"temperature":100}`))

	u1 := drainUpdate(t, sink1)
	u2 := drainUpdate(t, sink2)
	if u1.Channel != "kiln" || u2.Channel != "kiln" {
		t.Errorf("expected both clients to receive the kiln update, got %+v / %+v", u1, u2)
	}
}

func TestDeadSinkIsDroppedOnNextUpdate(t *testing.T) {
	h := hub.NewEventHub(&noopKiln{})
	h.Register("kiln")

	id1, sink1 := h.ClientRegister()
	drainUserId(t, sink1)
	id2, sink2 := h.ClientRegister()
	drainUserId(t, sink2)

	h.Subscribe("kiln", id1)
	h.Subscribe("kiln", id2)
	drainUpdate(t, sink1)
	drainUpdate(t, sink2)

	// Fill sink1's buffer so the next delivery attempt fails, simulating
	// a client that stopped reading.
	for i := 0; i < cap(sink1); i++ {
		sink1 <- hub.Message{}
	}

	h.Publish("kiln", []byte("first"))
	time.Sleep(50 * time.Millisecond)

	// sink2 still gets it.
	drainUpdate(t, sink2)

	h.Publish("kiln", []byte("second"))
	// sink2 should still receive, sink1 was dropped and receives nothing new beyond its filled buffer.
	drainUpdate(t, sink2)
}

func TestStartStopScheduleForwardsToKiln(t *testing.T) {
	k := &noopKiln{}
	h := hub.NewEventHub(k)

	s := schedule.Schedule{Name: "test", Scale: schedule.Celsius, Steps: []string{"0 to 100 over 1 hour", "hold for 1 minute"}}
	n, err := schedule.Normalize(s)
	if err != nil {
		t.Fatalf("unexpected normalize error: %v", err)
	}

	h.StartSchedule(n)
	h.StopSchedule()
	time.Sleep(50 * time.Millisecond)

	if len(k.started) != 1 {
		t.Errorf("expected one Start call, got %d", len(k.started))
	}
	if k.stopped != 1 {
		t.Errorf("expected one Stop call, got %d", k.stopped)
	}
}
