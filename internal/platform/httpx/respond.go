// Package httpx provides JSON response utilities shared by the admin API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape every admin API rejection uses.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Fail sends a {success:false, message} body with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// OK sends a bare {success:true} body.
func OK(w http.ResponseWriter) {
	JSON(w, http.StatusOK, Envelope{Success: true})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
