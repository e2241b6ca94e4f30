package httpapi

import (
	"github.com/neumaics/caminatus/hub"
	"github.com/neumaics/caminatus/schedule"
)

// API holds every dependency the HTTP boundary needs: the schedule
// store and the event hub (for start/stop/subscribe commands).
type API struct {
	Store *schedule.Store
	Hub   *EventPublisher
}

// EventPublisher wraps the subset of *hub.EventHub the HTTP boundary
// calls into. It is a concrete wrapper, not an interface: every call is
// forwarded to the wrapped hub.
type EventPublisher struct {
	h *hub.EventHub
}

// NewEventPublisher wraps h for use by the HTTP boundary.
func NewEventPublisher(h *hub.EventHub) *EventPublisher {
	return &EventPublisher{h: h}
}

func (p *EventPublisher) StartSchedule(s schedule.NormalizedSchedule) { p.h.StartSchedule(s) }
func (p *EventPublisher) StopSchedule()                               { p.h.StopSchedule() }
func (p *EventPublisher) Register(channel string)                    { p.h.Register(channel) }
func (p *EventPublisher) Subscribe(channel string, id hub.ClientId)   { p.h.Subscribe(channel, id) }
func (p *EventPublisher) ClientRegister() (hub.ClientId, hub.Sink)    { return p.h.ClientRegister() }

// NewAPI returns an API bound to store and hub.
func NewAPI(store *schedule.Store, h *hub.EventHub) *API {
	return &API{Store: store, Hub: NewEventPublisher(h)}
}
