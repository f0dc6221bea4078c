//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package report holds the structured result of every tool and renders it
// as a plain text report. Rendering is deterministic and every missing
// value prints as N/A.
package report

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/janaksunil/whoop-mcp/analysis"
)

// NA is printed in place of any missing value.
const NA = "N/A"

var printer = message.NewPrinter(language.English)

// title capitalises s. Casers keep state, so each call builds its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// Renderer is implemented by every report type.
type Renderer interface {
	Text() string
}

// Period is an inclusive date range.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (p Period) String() string {
	return p.Start + " to " + p.End
}

// PeriodStats is a window and its aggregate.
type PeriodStats struct {
	Period
	Stats analysis.WindowStats `json:"stats"`
}

var metricLabels = map[analysis.Metric]string{
	analysis.MetricRecovery: "Recovery",
	analysis.MetricStrain:   "Strain",
	analysis.MetricSleep:    "Sleep",
	analysis.MetricCalories: "Calories",
	analysis.MetricHRV:      "HRV",
	analysis.MetricRHR:      "Resting HR",
}

// formatMetric prints v with the unit of m.
func formatMetric(m analysis.Metric, v *float64) string {
	if v == nil {
		return NA
	}
	switch m {
	case analysis.MetricRecovery:
		return printer.Sprintf("%.0f%%", *v)
	case analysis.MetricStrain:
		return printer.Sprintf("%.1f", *v)
	case analysis.MetricSleep:
		return printer.Sprintf("%.1f h", *v)
	case analysis.MetricCalories:
		return printer.Sprintf("%.0f cal", *v)
	case analysis.MetricHRV:
		return printer.Sprintf("%.0f ms", *v)
	case analysis.MetricRHR:
		return printer.Sprintf("%.0f bpm", *v)
	default:
		return printer.Sprintf("%v", *v)
	}
}

func formatChange(v *int) string {
	if v == nil {
		return NA
	}
	return printer.Sprintf("%+d%%", *v)
}

func formatFloat(v *float64, unit string) string {
	if v == nil {
		return NA
	}
	s := printer.Sprintf("%.1f", *v)
	s = strings.TrimSuffix(s, ".0")
	if unit != "" {
		s += " " + unit
	}
	return s
}

func formatDay(m analysis.Metric, d *analysis.DayValue) string {
	if d == nil {
		return NA
	}
	return d.Date + " (" + formatMetric(m, &d.Value) + ")"
}

func formatWeekday(m analysis.Metric, d *analysis.WeekdayValue) string {
	if d == nil {
		return NA
	}
	return d.Weekday + " (" + formatMetric(m, &d.Value) + ")"
}

func orNA(s string) string {
	if s == "" {
		return NA
	}
	return s
}

func changeFor(c analysis.ChangeSet, m analysis.Metric) *int {
	switch m {
	case analysis.MetricRecovery:
		return c.RecoveryChange
	case analysis.MetricStrain:
		return c.StrainChange
	case analysis.MetricSleep:
		return c.SleepChange
	case analysis.MetricCalories:
		return c.CaloriesChange
	case analysis.MetricHRV:
		return c.HRVChange
	case analysis.MetricRHR:
		return c.RHRChange
	default:
		return nil
	}
}

// builder accumulates report lines.
type builder struct {
	strings.Builder
}

func (b *builder) line(format string, args ...any) {
	printer.Fprintf(&b.Builder, format, args...)
	b.WriteByte('\n')
}

func (b *builder) blank() {
	b.WriteByte('\n')
}

func (b *builder) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.blank()
	b.line("%s:", title)
	for _, it := range items {
		b.line("  - %s", it)
	}
}

func (b *builder) averages(stats analysis.WindowStats) {
	for _, m := range analysis.Metrics {
		b.line("  %s: %s", metricLabels[m], formatMetric(m, stats.Average(m)))
	}
}

func (b *builder) String() string {
	return strings.TrimRight(b.Builder.String(), "\n")
}
