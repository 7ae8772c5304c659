// Package httputil centralizes JSON encoding and domain error translation
// for HTTP handlers so every endpoint emits the same envelopes.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "symposia/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorEnvelope is the wire shape for all error responses.
type errorEnvelope struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// WriteError translates a domain error into the standard JSON error
// envelope. Internal errors omit the description so storage details never
// leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	envelope := errorEnvelope{Error: string(code)}
	if code != dErrors.CodeInternal {
		envelope.Description = err.Error()
		var de *dErrors.Error
		if errors.As(err, &de) {
			envelope.Detail = de.Detail
		}
	}
	WriteJSON(w, status, envelope)
}

// DecodeAndPrepare decodes a JSON request body into T, writing a bad-request
// response and logging on failure. The boolean reports whether the handler
// should continue.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "malformed request body",
				"request_id", requestID,
				"path", r.URL.Path,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		var zero T
		return zero, false
	}
	return req, true
}
