// Package response provides the JSON envelopes written by the REST API.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	segerrors "seg-mcp-server/internal/errors"
)

// SuccessResponse wraps every successful REST payload
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

var errorHandler = segerrors.NewHandler()

// WriteJSON writes v as-is with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing more useful can be sent.
		return
	}
}

// WriteSuccess writes data inside the success envelope
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	WriteJSON(w, http.StatusOK, SuccessResponse{
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteError writes err as a StandardError body with the matching status
func WriteError(w http.ResponseWriter, err error) {
	errorHandler.HandleHTTPError(w, err)
}

// WriteNotFound writes a NOT_FOUND StandardError
func WriteNotFound(w http.ResponseWriter, kind, identifier string) {
	WriteError(w, segerrors.NewNotFoundError(kind, identifier))
}

// WriteBadRequest writes a VALIDATION_ERROR StandardError for field
func WriteBadRequest(w http.ResponseWriter, field, reason string, value interface{}) {
	WriteError(w, segerrors.NewValidationError(field, reason, value))
}
