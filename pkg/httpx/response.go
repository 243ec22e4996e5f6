package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON envelope for every failed request. No stack
// traces or internal details ever ride along.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// DataResponse is the JSON envelope for successful requests.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. It sets
// Content-Type and no-store cache headers; auth responses must never be
// cached.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the success envelope.
func WriteData(w http.ResponseWriter, code int, v any) {
	WriteJSON(w, code, DataResponse{Success: true, Data: v})
}

// WriteError writes the failure envelope with the given message.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorResponse{Success: false, Error: msg})
}

// NoCache sets Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
