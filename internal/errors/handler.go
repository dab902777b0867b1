package errors

import (
	"net/http"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/google/uuid"
)

// Handler stamps errors with a trace ID and the protocol they leave through
type Handler struct {
	traceIDGenerator func() string
}

func NewHandler() *Handler {
	return &Handler{
		traceIDGenerator: func() string { return uuid.New().String() },
	}
}

// HandleJSONRPCError converts err into a JSON-RPC error response. Errors
// that are not StandardErrors become INTERNAL_ERROR.
func (h *Handler) HandleJSONRPCError(err error, id interface{}) *protocol.JSONRPCResponse {
	if err == nil {
		return nil
	}
	return h.standardize(err, "Request processing failed").WithProtocol("json-rpc").ToJSONRPCError(id)
}

// HandleHTTPError writes err as a StandardError body
func (h *Handler) HandleHTTPError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	h.standardize(err, "HTTP request processing failed").WithProtocol("http").WriteHTTPError(w)
}

func (h *Handler) standardize(err error, fallback string) *StandardError {
	stdErr, ok := AsStandardError(err)
	if !ok {
		stdErr = NewInternalError(fallback, err)
	}
	return stdErr.WithTraceID(h.traceIDGenerator())
}

// ValidateRequiredParams reports the first required parameter that is
// absent or null. Empty strings are values and pass.
func (h *Handler) ValidateRequiredParams(params map[string]interface{}, required []string) *StandardError {
	for _, field := range required {
		if value, ok := params[field]; !ok || value == nil {
			return NewRequiredFieldError(field)
		}
	}
	return nil
}
