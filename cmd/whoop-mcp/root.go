//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/janaksunil/whoop-mcp/config"
	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
	"github.com/janaksunil/whoop-mcp/log"
	mcpserver "github.com/janaksunil/whoop-mcp/server/mcp"
	"github.com/janaksunil/whoop-mcp/tool"
	whooptool "github.com/janaksunil/whoop-mcp/tool/whoop"
	"github.com/janaksunil/whoop-mcp/whoop"
)

// app holds what every subcommand shares once the config is loaded.
type app struct {
	cfgFile  string
	envFile  string
	logLevel string

	cfg *config.Config
	v   *viper.Viper
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "whoop-mcp",
		Short: "WHOOP fitness data as MCP tools",
		Long: `whoop-mcp exposes WHOOP recovery, strain and sleep data as Model Context
Protocol tools, including weekly comparisons, monthly summaries, weekday
patterns and trends computed from day-by-day fetches.

Example usage:
  whoop-mcp serve                          # Serve on stdio
  whoop-mcp serve --transport http         # Serve streamable HTTP
  whoop-mcp tools                          # List the tools
  whoop-mcp call whoop_weekly_comparison   # Run one tool and print the report
  whoop-mcp config                         # Show the effective configuration`,
		Version:       itelemetry.ServiceVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .whoop-mcp.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to load (default is .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newServeCmd(a),
		newToolsCmd(a),
		newCallCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load() error {
	cfg, v, err := config.Load(a.cfgFile, a.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log.SetLevel(cfg.Log.Level)
	a.cfg, a.v = cfg, v
	log.Debugf("configuration loaded from %q", v.ConfigFileUsed())
	return nil
}

// newServer wires the backend client, the whoop tools and the MCP bridge.
func (a *app) newServer(ctx context.Context) (*mcpserver.Server, error) {
	if !a.cfg.Whoop.HasCredentials() {
		log.Warnf("no WHOOP credentials configured, every backend call will fail: %v", whoop.ErrMissingCredentials)
	}
	client := whoop.New(a.cfg.Whoop.ClientOptions()...)
	set := whooptool.NewToolSet(client,
		whooptool.WithPolicy(a.cfg.Policy),
		whooptool.WithPacing(a.cfg.Pacing),
	)
	callbacks := tool.NewCallbacks().RegisterBeforeTool(logArguments)
	return mcpserver.New(set.Tools(ctx),
		mcpserver.WithVersion(itelemetry.ServiceVersion),
		mcpserver.WithCallbacks(callbacks),
	)
}

// logArguments logs the raw arguments of every tool call at debug level.
func logArguments(_ context.Context, name string, _ *tool.Declaration, args *[]byte) (any, error) {
	log.Debugf("tool %s called with %s", name, *args)
	return nil, nil
}
