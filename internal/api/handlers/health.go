package handlers

import (
	"context"
	"net/http"
	"time"

	"seg-mcp-server/internal/api/response"
)

// Pinger is the part of the persona store the health check needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports server and persona store health
type HealthHandler struct {
	store     Pinger
	server    string
	version   string
	startTime time.Time
}

// HealthStatus is the /health payload
type HealthStatus struct {
	Status       string `json:"status"`
	Server       string `json:"server"`
	Version      string `json:"version"`
	PersonaStore string `json:"persona_store"`
	Uptime       string `json:"uptime"`
	Timestamp    string `json:"timestamp"`
}

// NewHealthHandler creates a health handler
func NewHealthHandler(store Pinger, server, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		server:    server,
		version:   version,
		startTime: time.Now(),
	}
}

// Handle processes health check requests. An unreachable store turns the
// status to degraded with a 503.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:       "healthy",
		Server:       h.server,
		Version:      h.version,
		PersonaStore: "ok",
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if h.store == nil {
		status.PersonaStore = "not configured"
	} else if err := h.store.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.PersonaStore = "unavailable: " + err.Error()
		code = http.StatusServiceUnavailable
	}

	response.WriteJSON(w, code, status)
}
