// Package handlers provides the HTTP handlers of the SEG API.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/gorilla/websocket"

	"seg-mcp-server/internal/logging"
)

// DefaultHeartbeatInterval spaces SSE heartbeats
const DefaultHeartbeatInterval = 30 * time.Second

const maxMessageSize = 1 << 20

// RequestHandler answers one JSON-RPC request. A nil response means the
// request was a notification.
type RequestHandler interface {
	HandleRequest(ctx context.Context, req *protocol.JSONRPCRequest) *protocol.JSONRPCResponse
}

// MCPHandler exposes JSON-RPC over plain HTTP, SSE and WebSocket
type MCPHandler struct {
	rpc       RequestHandler
	server    string
	logger    logging.Logger
	heartbeat time.Duration
	upgrader  websocket.Upgrader
}

// NewMCPHandler creates the MCP transport handlers
func NewMCPHandler(rpc RequestHandler, serverName string, logger logging.Logger) *MCPHandler {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &MCPHandler{
		rpc:       rpc,
		server:    serverName,
		logger:    logger,
		heartbeat: DefaultHeartbeatInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
	}
}

// SetHeartbeatInterval changes the SSE heartbeat period
func (h *MCPHandler) SetHeartbeatInterval(d time.Duration) {
	if d > 0 {
		h.heartbeat = d
	}
}

// HandleRPC answers a single JSON-RPC request posted as the body
func (h *MCPHandler) HandleRPC(w http.ResponseWriter, r *http.Request) {
	var req protocol.JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRPC(w, parseErrorResponse(err))
		return
	}

	resp := h.rpc.HandleRequest(r.Context(), &req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeRPC(w, resp)
}

// HandleSSEStream keeps an event stream open, sending a connected event
// and then periodic heartbeats until the client goes away
func (h *MCPHandler) HandleSSEStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.writeEvent(w, map[string]interface{}{
		"type":      "connected",
		"server":    h.server,
		"protocols": []string{"json-rpc", "sse"},
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case t := <-ticker.C:
			h.writeEvent(w, map[string]interface{}{
				"type":      "heartbeat",
				"timestamp": t.UTC().Format(time.RFC3339),
			})
			flusher.Flush()
		}
	}
}

func (h *MCPHandler) writeEvent(w http.ResponseWriter, event map[string]interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to encode SSE event", "error", err.Error())
		return
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

// HandleWebSocket upgrades the connection and answers every text frame
// as a JSON-RPC request. Notifications get no reply frame.
func (h *MCPHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("WebSocket upgrade failed", "error", err.Error())
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(maxMessageSize)

	ctx := r.Context()
	h.logger.InfoContext(ctx, "WebSocket client connected", "remote", r.RemoteAddr)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.WarnContext(ctx, "WebSocket read failed", "error", err.Error())
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var resp *protocol.JSONRPCResponse
		var req protocol.JSONRPCRequest
		if err := json.Unmarshal(data, &req); err != nil {
			resp = parseErrorResponse(err)
		} else {
			resp = h.rpc.HandleRequest(ctx, &req)
		}
		if resp == nil {
			continue
		}

		if err := conn.WriteJSON(resp); err != nil {
			h.logger.WarnContext(ctx, "WebSocket write failed", "error", err.Error())
			return
		}
	}
}

func parseErrorResponse(err error) *protocol.JSONRPCResponse {
	return &protocol.JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   protocol.NewJSONRPCError(protocol.ParseError, "Parse error", err.Error()),
	}
}

func writeRPC(w http.ResponseWriter, resp *protocol.JSONRPCResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
