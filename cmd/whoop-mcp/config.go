//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janaksunil/whoop-mcp/report"
)

func newConfigCmd(a *app) *cobra.Command {
	var showPath, jsonOutput bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Display the effective configuration after merging defaults, the config
file, the dotenv file and the environment. Secrets are masked.

Examples:
  whoop-mcp config           # Show all settings
  whoop-mcp config --path    # Show the config file in use
  whoop-mcp config --json    # Output as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if showPath {
				if used := a.v.ConfigFileUsed(); used != "" {
					fmt.Fprintf(out, "Config file: %s\n", used)
				} else {
					fmt.Fprintln(out, "No config file found (using defaults)")
				}
				return nil
			}
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a.cfg.Masked())
			}
			return report.WriteTable(out, []string{"KEY", "VALUE"}, a.cfg.Rows())
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, "show config file path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
