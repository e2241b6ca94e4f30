package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/xeipuuv/gojsonschema"

	"github.com/neumaics/caminatus/schedule"
)

// statusForScheduleError maps a schedule.Error's Kind to the HTTP status
// it should surface as: InvalidStep/InvalidName are caller mistakes (400),
// IOError/InvalidYAML/InvalidJSON are store-side failures (500). notFound
// is returned instead for IOError when the caller asked this handler to
// treat a missing file as a 404, mirroring server::web::schedules.rs's
// by_name handler.
func statusForScheduleError(err error, notFound bool) int {
	var se *schedule.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError
	}
	switch se.Kind {
	case schedule.InvalidStep, schedule.InvalidName:
		return http.StatusBadRequest
	case schedule.IOError:
		if notFound {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// scheduleJSONSchema validates inbound Schedule bodies at the boundary,
// before they ever reach schedule.Validate - name and scale must be
// present and steps must be a non-empty array of strings. Grounded on
// server::web::schedules.rs's warp::body::json() typed-deserialize step,
// reimplemented with gojsonschema (Oguri-Dev-omniapi-iot-platform's
// direct dependency) since chi, unlike warp, does no body-shape
// validation itself.
var scheduleJSONSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["name", "scale", "steps"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"scale": {"type": "string", "enum": ["Celsius", "Fahrenheit", "Kelvin"]},
		"steps": {"type": "array", "items": {"type": "string"}, "minItems": 1}
	}
}`)

func decodeSchedule(body io.Reader) (schedule.Schedule, error) {
	raw, err := io.ReadAll(io.LimitReader(body, 32*1024))
	if err != nil {
		return schedule.Schedule{}, err
	}

	result, err := gojsonschema.Validate(scheduleJSONSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return schedule.Schedule{}, err
	}
	if !result.Valid() {
		return schedule.Schedule{}, &schemaError{result}
	}

	var s schedule.Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return schedule.Schedule{}, err
	}
	return s, nil
}

type schemaError struct {
	result *gojsonschema.Result
}

func (e *schemaError) Error() string {
	msg := "invalid schedule body"
	for _, r := range e.result.Errors() {
		msg += "; " + r.String()
	}
	return msg
}

// Schedules returns the /schedules CRUD route table, grounded on
// server::web::schedules.rs's routes() (list/by_name/new/update/delete).
func (api *API) Schedules() RouteTable {
	return RouteTable{
		{Method: http.MethodGet, Path: "/schedules"}:          api.listSchedules,
		{Method: http.MethodGet, Path: "/schedules/{name}"}:   api.getSchedule,
		{Method: http.MethodPost, Path: "/schedules"}:         api.createSchedule,
		{Method: http.MethodPut, Path: "/schedules/{name}"}:   api.updateSchedule,
		{Method: http.MethodDelete, Path: "/schedules/{name}"}: api.deleteSchedule,
	}
}

func (api *API) listSchedules(w http.ResponseWriter, r *http.Request) {
	names, err := api.Store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "unable to list schedules", err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (api *API) getSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	normalize, _ := strconv.ParseBool(r.URL.Query().Get("normalize"))

	s, err := api.Store.Get(name)
	if err != nil {
		writeError(w, statusForScheduleError(err, true), "cannot find schedule with name ["+name+"]", err)
		return
	}

	if normalize {
		n, err := schedule.Normalize(s)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "unable to normalize schedule", err)
			return
		}
		writeJSON(w, http.StatusOK, n)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (api *API) createSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := decodeSchedule(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "error parsing request", err)
		return
	}

	id, err := api.Store.Create(s)
	if err != nil {
		writeError(w, statusForScheduleError(err, false), "unable to create schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (api *API) updateSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, err := decodeSchedule(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "error parsing request", err)
		return
	}

	id, err := api.Store.Update(name, s)
	if err != nil {
		writeError(w, statusForScheduleError(err, false), "unable to update schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (api *API) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := api.Store.Delete(name); err != nil {
		writeError(w, statusForScheduleError(err, true), "unable to delete schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
