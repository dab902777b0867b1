// Package api exposes the SEG server over HTTP: MCP JSON-RPC on /mcp, /sse
// and /ws, plus read-only REST views of the catalog and council registry.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"seg-mcp-server/internal/api/handlers"
	"seg-mcp-server/internal/api/middleware"
	"seg-mcp-server/internal/api/response"
	"seg-mcp-server/internal/config"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/mcp"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxRequestSize        = 10 * 1024 * 1024
)

// Router is the HTTP router of the SEG server
type Router struct {
	config  *config.Config
	mux     *chi.Mux
	seg     *mcp.SEGServer
	logger  logging.Logger
	version string

	mcpHandler *handlers.MCPHandler
}

// NewRouter builds the router around a SEG server
func NewRouter(cfg *config.Config, seg *mcp.SEGServer, logger logging.Logger) *Router {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	r := &Router{
		config:  cfg,
		mux:     chi.NewRouter(),
		seg:     seg,
		logger:  logger,
		version: seg.Version(),
	}
	r.mcpHandler = handlers.NewMCPHandler(seg, seg.Name(), logger.WithComponent("mcp-http"))

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Handler returns the HTTP handler for the router
func (r *Router) Handler() http.Handler {
	return r.mux
}

// MCPHandler exposes the transport handlers, mainly to tune heartbeats
func (r *Router) MCPHandler() *handlers.MCPHandler {
	return r.mcpHandler
}

func (r *Router) setupMiddleware() {
	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(r.timeoutMiddleware())

	requestLog := middleware.NewLoggingMiddleware(r.logger.WithComponent("http"), "/health", "/ping")
	r.mux.Use(requestLog.Handler())

	cors := middleware.NewCORSMiddleware(middleware.CORSConfig{})
	r.mux.Use(cors.Handler())

	r.mux.Use(middleware.ServerVersion(r.version))
	r.mux.Use(chimiddleware.RequestSize(maxRequestSize))
	r.mux.Use(chimiddleware.Heartbeat("/ping"))
}

// timeoutMiddleware bounds request time by the configured write timeout,
// except for the streaming endpoints which stay open until the client leaves
func (r *Router) timeoutMiddleware() func(http.Handler) http.Handler {
	requestTimeout := time.Duration(r.config.Server.WriteTimeout) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	timeout := chimiddleware.Timeout(requestTimeout)
	return func(next http.Handler) http.Handler {
		limited := timeout(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/ws") || (req.URL.Path == "/sse" && req.Method == http.MethodGet) {
				next.ServeHTTP(w, req)
				return
			}
			limited.ServeHTTP(w, req)
		})
	}
}

func (r *Router) setupRoutes() {
	health := handlers.NewHealthHandler(r.seg.Store(), r.seg.Name(), r.version)
	r.mux.Get("/health", health.Handle)

	r.mux.Post("/mcp", r.mcpHandler.HandleRPC)
	r.mux.Get("/sse", r.mcpHandler.HandleSSEStream)
	r.mux.Post("/sse", r.mcpHandler.HandleRPC)
	r.mux.Get("/ws", r.mcpHandler.HandleWebSocket)

	catalog := handlers.NewCatalogHandler(r.seg.Catalog(), r.seg.Library(), r.seg.Council())
	framework := handlers.NewFrameworkHandler(r.seg.Library().FrameworkComponents())
	openapi := handlers.NewOpenAPIHandler(r.version)

	r.mux.Route("/api/v1", func(rtr chi.Router) {
		rtr.Get("/health", health.Handle)

		rtr.Get("/replicants", catalog.ListReplicants)
		rtr.Get("/replicants/{name}", catalog.GetReplicant)
		rtr.Get("/replicants/{name}/complements", catalog.GetComplements)

		rtr.Route("/council", func(c chi.Router) {
			c.Get("/balanced", catalog.BalancedCouncil)
			c.Get("/ensembles", catalog.ListEnsembles)
			c.Get("/ensembles/{name}", catalog.GetEnsemble)
			c.Get("/sessions", catalog.ListSessions)
			c.Get("/sessions/{id}", catalog.GetSession)
		})

		rtr.Get("/framework/components", framework.Handle)
		rtr.Get("/openapi.json", openapi.Handle)
	})

	r.mux.Get("/", r.handleRoot)
	r.mux.NotFound(r.handleNotFound)
	r.mux.MethodNotAllowed(r.handleMethodNotAllowed)
}

func (r *Router) handleRoot(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"server":      r.seg.Name(),
		"version":     r.version,
		"api_version": "v1",
		"protocols":   []string{"json-rpc", "sse", "websocket"},
		"endpoints": map[string]string{
			"mcp":        "/mcp",
			"sse":        "/sse",
			"websocket":  "/ws",
			"health":     "/health",
			"replicants": "/api/v1/replicants",
			"council":    "/api/v1/council/sessions",
			"framework":  "/api/v1/framework/components",
			"openapi":    "/api/v1/openapi.json",
		},
	})
}

func (r *Router) handleNotFound(w http.ResponseWriter, req *http.Request) {
	response.WriteNotFound(w, "endpoint", req.URL.Path)
}

func (r *Router) handleMethodNotAllowed(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Allow", "GET, POST, OPTIONS")
	response.WriteJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"error": map[string]string{
			"code":    "METHOD_NOT_ALLOWED",
			"message": req.Method + " is not supported on " + req.URL.Path,
		},
	})
}
