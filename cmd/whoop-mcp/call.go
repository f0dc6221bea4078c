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
)

func newCallCmd(a *app) *cobra.Command {
	var jsonOnly bool
	cmd := &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Run one tool and print its report",
		Long: `Run one tool once and print its text report followed by the structured
result.

Examples:
  whoop-mcp call whoop_get_overview
  whoop-mcp call whoop_monthly_summary '{"days": 60}'
  whoop-mcp call whoop_trends '{"start_date": "2024-03-01", "end_date": "2024-03-28"}' --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			if len(args) == 2 {
				input = []byte(args[1])
				if !json.Valid(input) {
					return fmt.Errorf("arguments are not valid JSON: %s", args[1])
				}
			}

			server, err := a.newServer(cmd.Context())
			if err != nil {
				return err
			}
			res, err := server.Invoke(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			structured, err := res.JSON()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !jsonOnly && res.Text != "" {
				fmt.Fprintln(out, res.Text)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, structured)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOnly, "json", false, "print only the structured result")
	return cmd
}
