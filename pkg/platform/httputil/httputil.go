// Package httputil centralizes JSON response writing so every handler uses
// the same envelope and the same domain-error translation.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "nammasev/pkg/domain-errors"
)

// errorResponse is the wire shape of every error the service returns.
// Internal errors omit the description so storage detail never leaks.
type errorResponse struct {
	Error       string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v with the given status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Validation and conflict errors carry enough detail to correct the request;
// anything internal presents a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code)}

	switch code {
	case dErrors.CodeInternal, dErrors.CodeUnavailable:
		// Detail stays server-side.
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.Description = de.Message
			resp.Fields = de.Fields
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
