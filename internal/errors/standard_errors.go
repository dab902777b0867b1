// Package errors defines the error taxonomy shared by the MCP and HTTP
// surfaces of the SEG server
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fredcamaral/gomcp-sdk/protocol"
)

// ErrorCode is the semantic code carried in every error body
type ErrorCode string

const (
	ErrorCodeValidationError ErrorCode = "VALIDATION_ERROR"
	ErrorCodeRequiredField   ErrorCode = "REQUIRED_FIELD"
	ErrorCodeInvalidValue    ErrorCode = "INVALID_VALUE"
	ErrorCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrorCodeInternalError   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeStorageError    ErrorCode = "STORAGE_ERROR"
)

// StandardError is the body returned for failed tool, resource, prompt and
// REST calls: {"error": {...}}
type StandardError struct {
	ErrorInfo ErrorDetails `json:"error"`
}

// ErrorDetails is the payload of a StandardError
type ErrorDetails struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Protocol string      `json:"protocol,omitempty"`
	TraceID  string      `json:"trace_id,omitempty"`
}

// ValidationDetail names the offending argument
type ValidationDetail struct {
	Field  string      `json:"field"`
	Reason string      `json:"reason"`
	Value  interface{} `json:"value,omitempty"`
}

// NotFoundDetail names the kind of identifier that failed to resolve
type NotFoundDetail struct {
	Kind       string `json:"kind"`
	Identifier string `json:"identifier"`
}

func newError(code ErrorCode, message string, details interface{}) *StandardError {
	return &StandardError{ErrorInfo: ErrorDetails{Code: code, Message: message, Details: details}}
}

func (e *StandardError) Error() string {
	return e.ErrorInfo.Message
}

// NewNotFoundError reports an unknown tool, resource URI, prompt, replicant
// or session as "Unknown <kind>: <identifier>"
func NewNotFoundError(kind, identifier string) *StandardError {
	return newError(ErrorCodeNotFound,
		fmt.Sprintf("Unknown %s: %s", kind, identifier),
		NotFoundDetail{Kind: kind, Identifier: identifier})
}

func NewValidationError(field, reason string, value interface{}) *StandardError {
	return newError(ErrorCodeValidationError,
		fmt.Sprintf("Validation failed for field '%s': %s", field, reason),
		ValidationDetail{Field: field, Reason: reason, Value: value})
}

// NewRequiredFieldError reports a required tool argument that was not sent
func NewRequiredFieldError(field string) *StandardError {
	return newError(ErrorCodeRequiredField,
		fmt.Sprintf("Required field '%s' is missing", field),
		ValidationDetail{Field: field, Reason: "missing_required_field"})
}

// NewInvalidValueError reports a value outside allowed, such as an unknown
// lens depth or framework format
func NewInvalidValueError(field string, value interface{}, allowed []string) *StandardError {
	return newError(ErrorCodeInvalidValue,
		fmt.Sprintf("Invalid value %v for field '%s'", value, field),
		map[string]interface{}{"field": field, "value": value, "allowed": allowed})
}

func NewInternalError(message string, cause error) *StandardError {
	details := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if cause != nil {
		details["original_error"] = cause.Error()
	}
	return newError(ErrorCodeInternalError, message, details)
}

// NewStorageError wraps a persona store failure, including a tripped
// breaker
func NewStorageError(operation string, cause error) *StandardError {
	details := map[string]interface{}{"operation": operation}
	if cause != nil {
		details["error"] = cause.Error()
	}
	return newError(ErrorCodeStorageError, "Storage operation failed: "+operation, details)
}

func (e *StandardError) WithTraceID(traceID string) *StandardError {
	e.ErrorInfo.TraceID = traceID
	return e
}

func (e *StandardError) WithProtocol(name string) *StandardError {
	e.ErrorInfo.Protocol = name
	return e
}

// ToJSONRPCError renders the error as a JSON-RPC response. Unknown names map
// to -32601, argument problems to -32602 and everything else to -32603.
func (e *StandardError) ToJSONRPCError(id interface{}) *protocol.JSONRPCResponse {
	code := protocol.InternalError
	switch e.ErrorInfo.Code {
	case ErrorCodeValidationError, ErrorCodeRequiredField, ErrorCodeInvalidValue:
		code = protocol.InvalidParams
	case ErrorCodeNotFound:
		code = protocol.MethodNotFound
	}
	return &protocol.JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &protocol.JSONRPCError{Code: code, Message: e.ErrorInfo.Message, Data: e},
	}
}

// ToHTTPStatus maps the code to a status; storage failures are 503 since
// the store may recover
func (e *StandardError) ToHTTPStatus() int {
	switch e.ErrorInfo.Code {
	case ErrorCodeValidationError, ErrorCodeRequiredField, ErrorCodeInvalidValue:
		return http.StatusBadRequest
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeStorageError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (e *StandardError) WriteHTTPError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if e.ErrorInfo.TraceID != "" {
		w.Header().Set("X-Trace-ID", e.ErrorInfo.TraceID)
	}
	w.WriteHeader(e.ToHTTPStatus())
	_ = json.NewEncoder(w).Encode(e)
}

// AsStandardError unwraps err into a StandardError when it carries one
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.ErrorInfo.Code == ErrorCodeNotFound
}
