//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"github.com/janaksunil/whoop-mcp/analysis"
)

// WeeklyComparison compares the last seven days with the seven before.
type WeeklyComparison struct {
	ThisWeek        PeriodStats        `json:"thisWeek"`
	LastWeek        PeriodStats        `json:"lastWeek"`
	Changes         analysis.ChangeSet `json:"changes"`
	Insights        []string           `json:"insights"`
	Recommendations []string           `json:"recommendations"`
}

// Text implements Renderer.
func (w WeeklyComparison) Text() string {
	var b builder
	b.line("Weekly Comparison")
	b.line("This week: %s", w.ThisWeek.Period)
	b.line("Last week: %s", w.LastWeek.Period)
	b.blank()

	rows := make([][]string, 0, len(analysis.Metrics))
	for _, m := range analysis.Metrics {
		rows = append(rows, []string{
			metricLabels[m],
			formatMetric(m, w.ThisWeek.Stats.Average(m)),
			formatMetric(m, w.LastWeek.Stats.Average(m)),
			formatChange(changeFor(w.Changes, m)),
		})
	}
	b.table([]string{"Metric", "This week", "Last week", "Change"}, rows)
	b.blank()
	b.line("Days at %.0f%%+ recovery: this week %d/%d, last week %d/%d",
		w.ThisWeek.Stats.Threshold,
		w.ThisWeek.Stats.DaysAboveThreshold, w.ThisWeek.Stats.Days,
		w.LastWeek.Stats.DaysAboveThreshold, w.LastWeek.Stats.Days)

	b.list("Insights", w.Insights)
	b.list("Recommendations", w.Recommendations)
	return b.String()
}

// TrendReport compares the first and second half of a range.
type TrendReport struct {
	Period          Period                 `json:"period"`
	FirstHalf       PeriodStats            `json:"firstHalf"`
	SecondHalf      PeriodStats            `json:"secondHalf"`
	Trends          analysis.Trends        `json:"trends"`
	Changes         analysis.ChangeSet     `json:"changes"`
	Balance         analysis.BalanceResult `json:"balance"`
	Insights        []string               `json:"insights"`
	Recommendations []string               `json:"recommendations"`
}

// Text implements Renderer.
func (t TrendReport) Text() string {
	var b builder
	b.line("Trends (%s)", t.Period)
	b.line("First half: %s", t.FirstHalf.Period)
	b.line("Second half: %s", t.SecondHalf.Period)
	b.blank()

	labels := map[analysis.Metric]analysis.TrendLabel{
		analysis.MetricRecovery: t.Trends.Recovery,
		analysis.MetricStrain:   t.Trends.Strain,
		analysis.MetricSleep:    t.Trends.Sleep,
		analysis.MetricHRV:      t.Trends.HRV,
		analysis.MetricRHR:      t.Trends.RHR,
	}
	var rows [][]string
	for _, m := range analysis.Metrics {
		label, ok := labels[m]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			metricLabels[m],
			formatMetric(m, t.FirstHalf.Stats.Average(m)),
			formatMetric(m, t.SecondHalf.Stats.Average(m)),
			formatChange(changeFor(t.Changes, m)),
			string(label),
		})
	}
	b.table([]string{"Metric", "First half", "Second half", "Change", "Trend"}, rows)
	b.blank()

	ratio := NA
	if t.Balance.Ratio != nil {
		ratio = printer.Sprintf("%.2f", *t.Balance.Ratio)
	}
	b.line("Strain/recovery balance: %s (ratio %s)", t.Balance.Status, ratio)

	b.list("Insights", t.Insights)
	b.list("Recommendations", t.Recommendations)
	return b.String()
}
