package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seg-mcp-server/internal/config"
	"seg-mcp-server/internal/logging"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr string
	}{
		{name: "defaults", args: nil, want: options{mode: modeStdio}},
		{name: "http with addr", args: []string{"-mode", "http", "-addr", ":9090"}, want: options{mode: modeHTTP, addr: ":9090"}},
		{name: "invalid mode", args: []string{"-mode", "grpc"}, wantErr: "invalid mode: grpc"},
		{name: "unknown flag", args: []string{"-verbose"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListenAddr(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, "localhost:8080", listenAddr(cfg, ""))
	assert.Equal(t, ":9090", listenAddr(cfg, ":9090"))
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.ReadTimeout = 12

	srv := newHTTPServer(cfg, http.NotFoundHandler(), ":0")
	assert.Equal(t, 12*time.Second, srv.ReadTimeout)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
	assert.Zero(t, srv.WriteTimeout)
}

func TestRunHTTPShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := config.DefaultConfig()
	cfg.Content.ExamplesDir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, cfg, options{mode: modeHTTP, addr: addr}, logging.NewNoOpLogger())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunRejectsUnknownStorage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Provider = "cassandra"

	err := run(context.Background(), cfg, options{mode: modeHTTP}, logging.NewNoOpLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage provider")
}
