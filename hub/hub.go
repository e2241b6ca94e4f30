// Package hub implements the event hub: a single actor fanning telemetry
// out to subscribed clients and relaying schedule start/stop commands
// into the kiln control loop. Grounded on
// original_source/src/server/command.rs (Command/Message enum shapes)
// and original_source/src/server/manager.rs's single-task command loop.
package hub

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/neumaics/caminatus/schedule"
)

// ClientId identifies one connected subscriber.
type ClientId = uuid.UUID

// Message is what a Sink receives: either the client's own id (sent once
// on connect, before anything else) or a channel update.
type Message struct {
	Kind    MessageKind
	Id      ClientId
	Channel string
	Data    []byte
}

type MessageKind int

const (
	MessageUserId MessageKind = iota
	MessageUpdate
)

// Sink is the per-client delivery channel. A send that would block
// (buffer full, i.e. the client stopped draining it) is treated as the
// client being gone and triggers removal from every registry the hub
// tracks. The hub never closes a sink.
type Sink chan Message

// KilnCommander is the capability the hub needs on the kiln control loop:
// start and stop a schedule run. Defined here instead of importing kiln's
// concrete loop type, so hub has no compile-time dependency on kiln.
type KilnCommander interface {
	Start(s schedule.NormalizedSchedule)
	Stop()
}

// command is an internal message processed FIFO by EventHub.run, one
// goroutine owning channels/clients exclusively.
type command struct {
	kind     commandKind
	channel  string
	id       ClientId
	sink     Sink
	data     []byte
	schedule schedule.NormalizedSchedule
}

type commandKind int

const (
	cmdRegister commandKind = iota
	cmdClientRegister
	cmdSubscribe
	cmdUnsubscribe
	cmdUpdate
	cmdPing
	cmdStartSchedule
	cmdStopSchedule
)

type subscriber struct {
	id   ClientId
	sink Sink
}

// EventHub is the single actor owning channel and client registries.
// Nothing outside EventHub.run touches channels/clients directly; every
// interaction is a command sent over cmds.
type EventHub struct {
	cmds chan command
	kiln KilnCommander

	channels map[string][]subscriber
	clients  map[ClientId]Sink
}

// NewEventHub returns a hub relaying StartSchedule/StopSchedule commands
// to kiln. Its command channel has capacity 32, per spec.md section 5.
func NewEventHub(kiln KilnCommander) *EventHub {
	h := &EventHub{
		cmds:     make(chan command, 32),
		kiln:     kiln,
		channels: make(map[string][]subscriber),
		clients:  make(map[ClientId]Sink),
	}
	go h.run()
	return h
}

func (h *EventHub) run() {
	for c := range h.cmds {
		switch c.kind {
		case cmdRegister:
			h.handleRegister(c.channel)
		case cmdClientRegister:
			h.handleClientRegister(c.id, c.sink)
		case cmdSubscribe:
			h.handleSubscribe(c.channel, c.id)
		case cmdUnsubscribe:
			h.handleUnsubscribe(c.channel, c.id)
		case cmdUpdate:
			h.handleUpdate(c.channel, c.data)
		case cmdPing:
			h.handlePing()
		case cmdStartSchedule:
			h.kiln.Start(c.schedule)
		case cmdStopSchedule:
			h.kiln.Stop()
		}
	}
}

// Register idempotently creates an empty subscriber list for channel.
func (h *EventHub) Register(channel string) {
	h.cmds <- command{kind: cmdRegister, channel: channel}
}

func (h *EventHub) handleRegister(channel string) {
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = nil
	}
}

// ClientRegister inserts a new client sink, returning its generated id.
// It also immediately delivers MessageUserId on sink, matching
// on_connect's tx.send(Message::UserId(id)) happening before the
// Command::ClientRegister send in the original.
func (h *EventHub) ClientRegister() (ClientId, Sink) {
	id := uuid.New()
	sink := make(Sink, 16)
	sink <- Message{Kind: MessageUserId, Id: id}
	h.cmds <- command{kind: cmdClientRegister, id: id, sink: sink}
	return id, sink
}

func (h *EventHub) handleClientRegister(id ClientId, sink Sink) {
	if _, exists := h.clients[id]; exists {
		log.Printf("hub: client %s already registered", id)
		return
	}
	h.clients[id] = sink
}

// Subscribe appends id's sink to channel's subscriber list and acks with
// a "system"/"success" update, per spec.md section 4.6 and section 5's
// happens-before guarantee.
func (h *EventHub) Subscribe(channel string, id ClientId) {
	h.cmds <- command{kind: cmdSubscribe, channel: channel, id: id}
}

func (h *EventHub) handleSubscribe(channel string, id ClientId) {
	sink, ok := h.clients[id]
	if !ok {
		log.Printf("hub: subscribe for unknown client %s", id)
		return
	}
	subs, ok := h.channels[channel]
	if !ok {
		log.Printf("hub: subscribe to unknown channel %q", channel)
		return
	}
	for _, s := range subs {
		if s.id == id {
			return
		}
	}
	h.channels[channel] = append(subs, subscriber{id: id, sink: sink})
	h.deliver(sink, id, channel, Message{Kind: MessageUpdate, Channel: "system", Data: []byte("success")})
}

// Unsubscribe removes id from channel's subscriber list.
func (h *EventHub) Unsubscribe(channel string, id ClientId) {
	h.cmds <- command{kind: cmdUnsubscribe, channel: channel, id: id}
}

func (h *EventHub) handleUnsubscribe(channel string, id ClientId) {
	subs, ok := h.channels[channel]
	if !ok {
		log.Printf("hub: unsubscribe from unknown channel %q", channel)
		return
	}
	out := subs[:0]
	found := false
	for _, s := range subs {
		if s.id == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		log.Printf("hub: unsubscribe for client %s not subscribed to %q", id, channel)
	}
	h.channels[channel] = out
}

// Publish implements kiln.Publisher: it is how the control loop feeds
// telemetry into the hub as an Update command.
func (h *EventHub) Publish(channel string, payload []byte) {
	h.cmds <- command{kind: cmdUpdate, channel: channel, data: payload}
}

func (h *EventHub) handleUpdate(channel string, data []byte) {
	subs, ok := h.channels[channel]
	if !ok {
		return
	}
	var alive []subscriber
	for _, s := range subs {
		if h.deliver(s.sink, s.id, channel, Message{Kind: MessageUpdate, Channel: channel, Data: data}) {
			alive = append(alive, s)
		} else {
			h.removeFromAllChannels(s.id)
		}
	}
	h.channels[channel] = alive
}

// Ping sends a "ping"/"ping" update to every registered client, dropping
// any whose sink has gone dead. This is how disconnected clients are
// garbage-collected (spec.md section 4.6).
func (h *EventHub) Ping() {
	h.cmds <- command{kind: cmdPing}
}

func (h *EventHub) handlePing() {
	for id, sink := range h.clients {
		if !h.deliver(sink, id, "ping", Message{Kind: MessageUpdate, Channel: "ping", Data: []byte("ping")}) {
			delete(h.clients, id)
			h.removeFromAllChannels(id)
		}
	}
}

func (h *EventHub) removeFromAllChannels(id ClientId) {
	for channel, subs := range h.channels {
		out := make([]subscriber, 0, len(subs))
		for _, s := range subs {
			if s.id != id {
				out = append(out, s)
			}
		}
		h.channels[channel] = out
	}
}

// deliver attempts a non-blocking send on sink; a full buffer (client not
// draining, i.e. gone) is treated as a dead sink and its entry is
// removed from both registries.
func (h *EventHub) deliver(sink Sink, id ClientId, channel string, msg Message) bool {
	select {
	case sink <- msg:
		return true
	default:
		log.Printf("hub: dropping dead client %s on channel %q", id, channel)
		delete(h.clients, id)
		h.removeFromAllChannels(id)
		return false
	}
}

// StartSchedule forwards a KilnEvent::Start-equivalent to the kiln loop.
func (h *EventHub) StartSchedule(s schedule.NormalizedSchedule) {
	h.cmds <- command{kind: cmdStartSchedule, schedule: s}
}

// StopSchedule forwards a KilnEvent::Stop-equivalent to the kiln loop.
func (h *EventHub) StopSchedule() {
	h.cmds <- command{kind: cmdStopSchedule}
}

// ParseClientId validates a path-parameter client id string.
func ParseClientId(raw string) (ClientId, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ClientId{}, fmt.Errorf("invalid client id %q: %w", raw, err)
	}
	return id, nil
}
