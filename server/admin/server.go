//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package admin provides an HTTP server for health checks, metrics and
// running tools by hand.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/janaksunil/whoop-mcp/log"
	mcpserver "github.com/janaksunil/whoop-mcp/server/mcp"
	"github.com/janaksunil/whoop-mcp/tool"
	"github.com/janaksunil/whoop-mcp/tool/function"
)

// maxBodyBytes bounds the arguments of a tool run.
const maxBodyBytes = 1 << 20

// Invoker runs tools by name.
type Invoker interface {
	Tools() []tool.Tool
	Invoke(ctx context.Context, name string, args []byte) (*mcpserver.Result, error)
}

// Server exposes the admin endpoints.
type Server struct {
	invoker  Invoker
	router   *mux.Router
	gatherer prometheus.Gatherer
	origins  []string
}

// Option configures the Server instance.
type Option func(*Server)

// WithGatherer sets the registry served on /metrics, default is the
// Prometheus default gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithAllowedOrigins sets the origins allowed to call the server from a
// browser. By default no cross-origin request is allowed.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates the admin server.
func New(invoker Invoker, opts ...Option) *Server {
	s := &Server{
		invoker:  invoker,
		router:   mux.NewRouter(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	// cors treats an empty origin list as any origin.
	if len(s.origins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length", "Content-Type"},
		})
		s.router.Use(c.Handler)
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on address until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infof("admin server listening on %s", address)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/tools", s.handleListTools).Methods(http.MethodGet)
	s.router.HandleFunc("/tools/{name}", s.handleRunTool).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// OPTIONS handler to allow CORS pre-flight
	preflight := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.router.HandleFunc("/tools/{name}", preflight).Methods(http.MethodOptions)
}

// ---- Handlers -----------------------------------------------------------

type toolInfo struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Usage       string       `json:"usage"`
	InputSchema *tool.Schema `json:"inputSchema,omitempty"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools := s.invoker.Tools()
	out := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		decl := t.Declaration()
		out = append(out, toolInfo{
			Name:        decl.Name,
			Description: decl.Description,
			Usage:       decl.Usage(),
			InputSchema: decl.InputSchema,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRunTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	log.Debugf("handleRunTool called: tool=%s", name)

	defer r.Body.Close()
	args, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.invoker.Invoke(r.Context(), name, args)
	if err != nil {
		var verr *function.ValidationError
		switch {
		case errors.Is(err, mcpserver.ErrUnknownTool):
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.As(err, &verr):
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Fields: verr.Errors})
		case errors.Is(err, function.ErrInvalidArguments):
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		}
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
