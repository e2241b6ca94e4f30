package httpapi

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/neumaics/caminatus/schedule"
)

// Steps returns the /step/parse route table: URL-decode one step-DSL
// expression and parse it in isolation (no previous step context), per
// spec.md section 6 and server::web::steps.rs's parse().
func (api *API) Steps() RouteTable {
	return RouteTable{
		{Method: http.MethodGet, Path: "/step/parse/{encoded}"}: api.parseStep,
	}
}

func (api *API) parseStep(w http.ResponseWriter, r *http.Request) {
	encoded := chi.URLParam(r, "encoded")

	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, "error parsing request", err)
		return
	}

	step, err := schedule.ParseStep(decoded, nil)
	if err != nil {
		writeError(w, http.StatusNotAcceptable, "unable to parse step", err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}
