package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every handled error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON sends data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteError sends {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, ErrorBody{Error: message})
}
