//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/janaksunil/whoop-mcp/config"
	"github.com/janaksunil/whoop-mcp/log"
	"github.com/janaksunil/whoop-mcp/server/admin"
	"github.com/janaksunil/whoop-mcp/telemetry/metric"
	"github.com/janaksunil/whoop-mcp/telemetry/trace"
)

func newServeCmd(a *app) *cobra.Command {
	var transport, address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP",
		Long: `Serve the tools over MCP on stdio (the default) or streamable HTTP.

When admin.address is set, an admin HTTP server also exposes /healthz,
/tools, /tools/{name} and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "" {
				a.cfg.Server.Transport = transport
			}
			if address != "" {
				a.cfg.Server.Address = address
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "override server.transport (stdio or http)")
	cmd.Flags().StringVar(&address, "address", "", "override server.address for the http transport")
	return cmd
}

func (a *app) serve(parent context.Context) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clean, err := startTelemetry(ctx, a.cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, clean()) }()

	server, err := a.newServer(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Admin.Address != "" {
		adminServer := admin.New(server, admin.WithAllowedOrigins(a.cfg.Admin.AllowedOrigins...))
		go func() {
			if err := adminServer.ListenAndServe(ctx, a.cfg.Admin.Address); err != nil {
				log.Errorf("admin server stopped: %v", err)
			}
		}()
	}

	switch a.cfg.Server.Transport {
	case config.TransportHTTP:
		return server.ServeHTTP(ctx, a.cfg.Server.Address, a.cfg.Server.Path)
	default:
		return server.ServeStdio(ctx)
	}
}

// startTelemetry starts trace and metric export when enabled. The returned
// clean func flushes both.
func startTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func() error, error) {
	if !cfg.Enabled {
		return func() error { return nil }, nil
	}

	traceOpts := []trace.Option{trace.WithProtocol(cfg.Protocol)}
	metricOpts := []metric.Option{metric.WithProtocol(cfg.Protocol)}
	if cfg.Endpoint != "" {
		traceOpts = append(traceOpts, trace.WithEndpoint(cfg.Endpoint))
		metricOpts = append(metricOpts, metric.WithEndpoint(cfg.Endpoint))
	}

	cleanTrace, err := trace.Start(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("starting trace export: %w", err)
	}
	cleanMetric, err := metric.Start(ctx, metricOpts...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("starting metric export: %w", err), cleanTrace())
	}
	log.Infof("telemetry export enabled over %s", cfg.Protocol)
	return func() error { return errors.Join(cleanMetric(), cleanTrace()) }, nil
}
