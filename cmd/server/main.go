// server is the SEG MCP server binary. It serves the replicant catalog,
// persona generator and council orchestrator over stdio or HTTP (JSON-RPC,
// SSE and WebSocket).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fredcamaral/gomcp-sdk/transport"

	"seg-mcp-server/internal/api"
	"seg-mcp-server/internal/config"
	"seg-mcp-server/internal/logging"
	"seg-mcp-server/internal/mcp"
	"seg-mcp-server/internal/storage"
)

const (
	modeStdio = "stdio"
	modeHTTP  = "http"

	shutdownTimeout = 30 * time.Second
)

type options struct {
	mode string
	addr string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.mode, "mode", modeStdio, "Server mode: stdio or http")
	fs.StringVar(&opts.addr, "addr", "", "HTTP listen address (defaults to SEG_MCP_HOST:SEG_MCP_PORT)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.mode != modeStdio && opts.mode != modeHTTP {
		return opts, fmt.Errorf("invalid mode: %s. Use 'stdio' or 'http'", opts.mode)
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("Server failed", "error", err.Error())
		cancel()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(logging.Options{
		Level: logging.ParseLogLevel(cfg.Logging.Level),
		JSON:  cfg.Logging.Format == "json",
	}).WithComponent("server")
}

func run(ctx context.Context, cfg *config.Config, opts options, logger logging.Logger) error {
	store, err := storage.NewPersonaStore(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open persona store: %w", err)
	}

	segServer := mcp.NewSEGServer(cfg, store, logger)
	defer func() {
		if err := segServer.Close(); err != nil {
			logger.Warn("Error during shutdown", "error", err.Error())
		}
	}()

	switch opts.mode {
	case modeHTTP:
		addr := listenAddr(cfg, opts.addr)
		router := api.NewRouter(cfg, segServer, logger)
		return serveHTTP(ctx, newHTTPServer(cfg, router.Handler(), addr), logger)

	default:
		logger.Info("Starting SEG MCP server in stdio mode",
			"storage", cfg.Storage.Provider, "version", cfg.Server.Version)
		err := transport.NewStdioTransport().Start(ctx, segServer)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio transport: %w", err)
		}
		return nil
	}
}

func listenAddr(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
}

func newHTTPServer(cfg *config.Config, handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// Streams stay open; the router applies WriteTimeout per request.
		IdleTimeout: 120 * time.Second,
	}
}

// serveHTTP runs srv until ctx is cancelled, then shuts it down gracefully
func serveHTTP(ctx context.Context, srv *http.Server, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("SEG MCP server listening",
			"addr", srv.Addr,
			"mcp", "/mcp", "sse", "/sse", "websocket", "/ws", "health", "/health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// The parent context is already cancelled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx) //nolint:contextcheck // fresh context needed after cancellation
}
