package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the HTTP error body shape the original's
// server::web::error::ErrorResponse produces: a human message plus the
// underlying error's detail.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	writeJSON(w, status, ErrorResponse{Message: message, Error: detail})
}
