//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package mcp exposes tools over the Model Context Protocol, on stdio or
// streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/janaksunil/whoop-mcp/log"
	tmetric "github.com/janaksunil/whoop-mcp/telemetry/metric"
	"github.com/janaksunil/whoop-mcp/tool"
)

const (
	defaultName    = "whoop-mcp"
	defaultVersion = "0.1.0"
	// DefaultAddress is where the HTTP transport listens by default.
	DefaultAddress = ":3000"
	// DefaultPath is the HTTP endpoint of the MCP server.
	DefaultPath = "/mcp"

	shutdownTimeout = 5 * time.Second
)

// Server bridges tools to MCP servers.
type Server struct {
	name      string
	version   string
	tools     []tool.Tool
	callbacks *tool.Callbacks

	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// Option configures the Server.
type Option func(*Server)

// WithName sets the implementation name announced to clients.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithVersion sets the implementation version announced to clients.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithCallbacks wraps every call with before and after tool callbacks.
func WithCallbacks(cb *tool.Callbacks) Option {
	return func(s *Server) { s.callbacks = cb }
}

// New creates a server over tools. Metric instruments are taken from the
// current global meter, so telemetry must be started first to export them.
func New(tools []tool.Tool, opts ...Option) (*Server, error) {
	s := &Server{
		name:      defaultName,
		version:   defaultVersion,
		tools:     tools,
		callbacks: tool.NewCallbacks(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.calls, err = tmetric.Meter.Int64Counter("tool.calls",
		metric.WithDescription("Number of tool invocations"))
	if err != nil {
		return nil, fmt.Errorf("create tool call counter: %w", err)
	}
	s.duration, err = tmetric.Meter.Float64Histogram("tool.duration",
		metric.WithDescription("Duration of tool invocations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create tool duration histogram: %w", err)
	}
	return s, nil
}

// ServeStdio serves the tools on stdin and stdout until the transport
// closes or ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	server := mcp.NewStdioServer(s.name, s.version,
		mcp.WithStdioServerLogger(mcp.GetDefaultLogger()),
	)
	for _, t := range s.tools {
		server.RegisterTool(NewTool(t.Declaration()), s.Handler(t.Declaration().Name))
	}
	log.Infof("serving %d tools on stdio", len(s.tools))
	if err := server.StartWithContext(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// ServeHTTP serves the tools over streamable HTTP on address and path. It
// returns when the server fails, or shuts the listener down and returns
// once ctx is done.
func (s *Server) ServeHTTP(ctx context.Context, address, path string) error {
	if address == "" {
		address = DefaultAddress
	}
	if path == "" {
		path = DefaultPath
	}
	httpServer := &http.Server{Addr: address}
	server := mcp.NewServer(s.name, s.version,
		mcp.WithServerAddress(address),
		mcp.WithServerPath(path),
		mcp.WithCustomServer(httpServer),
	)
	for _, t := range s.tools {
		server.RegisterTool(NewTool(t.Declaration()), s.Handler(t.Declaration().Name))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	log.Infof("serving %d tools on http://%s%s", len(s.tools), address, path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown mcp http server: %w", err)
	}
	return nil
}

// Handler returns the MCP handler of the named tool. Tool errors become
// error results; successful calls carry the text report followed by the
// structured result as JSON.
func (s *Server) Handler(name string) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewErrorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := s.Invoke(ctx, name, args)
		if err != nil {
			return mcp.NewErrorResult(err.Error()), nil
		}
		structured, err := res.JSON()
		if err != nil {
			return mcp.NewErrorResult(err.Error()), nil
		}

		content := make([]mcp.Content, 0, 2)
		if res.Text != "" {
			content = append(content, mcp.NewTextContent(res.Text))
		}
		content = append(content, mcp.NewTextContent(structured))
		return &mcp.CallToolResult{Content: content}, nil
	}
}

// NewTool converts a tool declaration into an MCP tool definition.
func NewTool(decl *tool.Declaration) *mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(decl.Description)}
	for _, name := range decl.InputSchema.PropertyNames() {
		prop := decl.InputSchema.Properties[name]
		var popts []mcp.PropertyOption
		if prop.Description != "" {
			popts = append(popts, mcp.Description(prop.Description))
		}
		if decl.InputSchema.IsRequired(name) {
			popts = append(popts, mcp.Required())
		}
		if prop.Default != nil {
			popts = append(popts, mcp.Default(prop.Default))
		}
		switch prop.Type {
		case "integer", "number":
			opts = append(opts, mcp.WithNumber(name, popts...))
		default:
			opts = append(opts, mcp.WithString(name, popts...))
		}
	}
	return mcp.NewTool(decl.Name, opts...)
}
