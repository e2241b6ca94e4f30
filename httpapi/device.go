package httpapi

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/neumaics/caminatus/schedule"
)

// Device returns the /device/kiln route table: load-and-start a named
// schedule, or stop the current run. Grounded on
// server::web::device.rs's routes() (start/stop).
func (api *API) Device() RouteTable {
	return RouteTable{
		{Method: http.MethodGet, Path: "/device/kiln/{name}/start"}: api.startDevice,
		{Method: http.MethodGet, Path: "/device/kiln/stop"}:         api.stopDevice,
	}
}

func (api *API) startDevice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	s, err := api.Store.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unable to find schedule with name ["+name+"]", err)
		return
	}

	n, err := schedule.Normalize(s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error starting schedule with name ["+name+"]", err)
		return
	}

	api.Hub.StartSchedule(n)
	writeJSON(w, http.StatusOK, map[string]string{"message": "started"})
}

func (api *API) stopDevice(w http.ResponseWriter, r *http.Request) {
	api.Hub.StopSchedule()
	writeJSON(w, http.StatusOK, map[string]string{"message": "stopped"})
}
