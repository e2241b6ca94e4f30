// Package httpapi is the HTTP/SSE boundary: schedule CRUD, device
// start/stop, step-DSL parsing, and a client-facing SSE connect/subscribe
// pair in front of the event hub. Routing follows generichttp.go's
// MethodPath-keyed table, reconciled onto a single router backend
// (chi) rather than the pack's two inconsistent RouteTable/RouteTable2
// shapes (see DESIGN.md).
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// MethodPath is an HTTP method and chi-style path pattern, e.g.
// {Method: "GET", Path: "/schedules/{name}"}.
type MethodPath struct {
	Method string
	Path   string
}

// RouteTable maps a MethodPath to its handler, agnostic to the specific
// router backend - the same shape generichttp.go's RouteTable2 uses.
type RouteTable map[MethodPath]http.HandlerFunc

// Bind registers every entry in rt on r.
func (rt RouteTable) Bind(r chi.Router) {
	for mp, h := range rt {
		r.MethodFunc(mp.Method, mp.Path, h)
	}
}

// NewRouter assembles the full HTTP surface: schedules, device
// start/stop, step parsing, SSE connect/subscribe, and metrics, wired
// onto chi with the standard logger/recoverer middleware stack.
func NewRouter(api *API) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	api.Schedules().Bind(r)
	api.Device().Bind(r)
	api.Steps().Bind(r)
	api.SSE().Bind(r)
	api.Metrics().Bind(r)

	return r
}
