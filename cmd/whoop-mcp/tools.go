//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"github.com/spf13/cobra"

	"github.com/janaksunil/whoop-mcp/report"
)

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := a.newServer(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(server.Tools()))
			for _, t := range server.Tools() {
				decl := t.Declaration()
				rows = append(rows, []string{decl.Name, decl.Usage(), decl.Description})
			}
			return report.WriteTable(cmd.OutOrStdout(), []string{"NAME", "ARGUMENTS", "DESCRIPTION"}, rows)
		},
	}
}
