// Package handlers provides shared JSON response helpers for HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondRaw writes pre-encoded JSON bytes with the given status code.
func RespondRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// RespondError logs err and writes {"error": err.Error()} with the given status code.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "status", status, "error", err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// RespondErrorDetails logs err and writes {"error": err.Error(), "details": details}.
// Details is encoded as-is, so a json.RawMessage is embedded without re-quoting.
func RespondErrorDetails(w http.ResponseWriter, logger *slog.Logger, status int, err error, details any) {
	logger.Error("handler error", "status", status, "error", err)
	RespondJSON(w, status, map[string]any{
		"error":   err.Error(),
		"details": details,
	})
}
