package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/neumaics/caminatus/hub"
)

// SSE returns the /connect and /subscribe route table. Grounded on
// server::web::sse.rs's connect/subscribe handlers: connect registers a
// client and streams its sink as server-sent events (id first, then
// channel updates); subscribe attaches a registered client to a channel.
func (api *API) SSE() RouteTable {
	return RouteTable{
		{Method: http.MethodGet, Path: "/connect"}:                      api.connect,
		{Method: http.MethodPost, Path: "/subscribe/{client_id}/{channel}"}: api.subscribe,
	}
}

func (api *API) connect(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, sink := api.Hub.ClientRegister()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sink:
			if !ok {
				return
			}
			switch msg.Kind {
			case hub.MessageUserId:
				fmt.Fprintf(w, "event: id\ndata: %s\n\n", id.String())
			case hub.MessageUpdate:
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Channel, msg.Data)
			}
			flusher.Flush()
		}
	}
}

func (api *API) subscribe(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	rawID := chi.URLParam(r, "client_id")

	id, err := hub.ParseClientId(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client id", err)
		return
	}

	api.Hub.Subscribe(channel, id)
	writeJSON(w, http.StatusOK, map[string]string{})
}
