// Package server exposes the snippets as MCP tools over stdio or HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Azure/msgraph-snippets/internal/auth"
	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/logger"
	"github.com/Azure/msgraph-snippets/internal/registry"
	"github.com/Azure/msgraph-snippets/internal/tools"
	"github.com/Azure/msgraph-snippets/internal/version"
)

const shutdownTimeout = 10 * time.Second

// Service is the snippets MCP server.
type Service struct {
	cfg       *config.ConfigData
	runner    tools.SnippetRunner
	registry  *registry.ToolRegistry
	mcpServer *server.MCPServer
}

// NewService creates a service. Call Initialize before Run.
func NewService(cfg *config.ConfigData, runner tools.SnippetRunner) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
	}
}

// Initialize creates the MCP server and registers the snippet tools.
func (s *Service) Initialize() error {
	if s.runner == nil {
		return errors.New("server: a snippet runner is required")
	}

	s.mcpServer = server.NewMCPServer(
		"msgraph-snippets",
		version.GetVersion(),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registry = registry.NewToolRegistry()
	s.registry.RegisterSnippetTools(s.runner)
	s.registry.ConfigureMCPServer(s.mcpServer)

	logger.Infof("Registered %d tools: %v", len(s.registry.GetAllTools()), s.registry.ToolNames())
	return nil
}

// Run serves on the configured transport until ctx is cancelled or the
// transport fails.
func (s *Service) Run(ctx context.Context) error {
	if s.mcpServer == nil {
		return errors.New("server: Initialize must be called before Run")
	}

	switch s.cfg.Transport {
	case config.TransportStdio:
		logger.Infof("msgraph-snippets MCP server listening on stdio")
		return server.ServeStdio(s.mcpServer)

	case config.TransportSSE, config.TransportStreamableHTTP:
		handler, err := s.httpHandler(ctx)
		if err != nil {
			return err
		}
		return s.serveHTTP(ctx, handler)
	}
	return fmt.Errorf("invalid transport type: %s (must be %s, %s or %s)",
		s.cfg.Transport, config.TransportStdio, config.TransportSSE, config.TransportStreamableHTTP)
}

// httpHandler routes the HTTP transport's endpoints through the auth
// middleware and answers everything else with a help document.
func (s *Service) httpHandler(ctx context.Context) (http.Handler, error) {
	mw, err := auth.NewHTTPAuthMiddleware(ctx, s.cfg.Auth, s.cfg.Transport)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	var endpoints []string
	switch s.cfg.Transport {
	case config.TransportSSE:
		sse := server.NewSSEServer(s.mcpServer,
			server.WithBaseURL(fmt.Sprintf("http://%s", s.cfg.Address())),
		)
		mux.Handle("/sse", mw.Middleware(sse.SSEHandler()))
		mux.Handle("/message", mw.Middleware(sse.MessageHandler()))
		endpoints = []string{"/sse", "/message"}
	default:
		streamable := server.NewStreamableHTTPServer(s.mcpServer)
		mux.Handle("/mcp", mw.Middleware(streamable))
		endpoints = []string{"/mcp"}
	}
	mux.HandleFunc("/", helpHandler(s.cfg.Transport, endpoints))
	return mux, nil
}

// helpHandler answers unknown paths with 404 and the endpoints that exist.
func helpHandler(transport string, endpoints []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		response := map[string]interface{}{
			"error":     "Not Found",
			"message":   fmt.Sprintf("msgraph-snippets serves MCP over %s", transport),
			"endpoints": endpoints,
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Errorf("Failed to encode help response: %v", err)
		}
	}
}

func (s *Service) serveHTTP(ctx context.Context, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("msgraph-snippets MCP server listening on %s (%s)", httpServer.Addr, s.cfg.Transport)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Infof("Shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
