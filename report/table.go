//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTable renders rows as a borderless, left aligned table.
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// table renders into the report, falling back to tab separated lines if
// the table cannot be laid out.
func (b *builder) table(header []string, rows [][]string) {
	var sb strings.Builder
	if err := WriteTable(&sb, header, rows); err != nil {
		b.line("%s", strings.Join(header, "\t"))
		for _, r := range rows {
			b.line("%s", strings.Join(r, "\t"))
		}
		return
	}
	b.WriteString(sb.String())
	if !strings.HasSuffix(sb.String(), "\n") {
		b.blank()
	}
}
