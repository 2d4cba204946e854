package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/igoorcb/finance-control/internal/core"
	"github.com/igoorcb/finance-control/internal/log"
)

// errorEnvelope is the uniform error body for every failed API request.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

// writeError maps operational errors to their HTTP status and everything
// else to a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if opErr, ok := core.AsError(err); ok {
		status = opErr.StatusCode
		message = opErr.Message
	}

	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Message:    message,
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	}})
}

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads and decodes a request body into v.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Validation("request body is required")
		}
		return core.Validation("invalid request body")
	}
	return nil
}
