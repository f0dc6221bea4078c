//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"strconv"

	"github.com/janaksunil/whoop-mcp/analysis"
)

// MonthlySummary aggregates a long single window.
type MonthlySummary struct {
	Period           Period               `json:"period"`
	Stats            analysis.WindowStats `json:"stats"`
	Zones            analysis.Zones       `json:"recoveryZones"`
	BestRecoveryDay  *analysis.DayValue   `json:"bestRecoveryDay"`
	WorstRecoveryDay *analysis.DayValue   `json:"worstRecoveryDay"`
	PeakStrainDay    *analysis.DayValue   `json:"peakStrainDay"`
	BestSleepDay     *analysis.DayValue   `json:"bestSleepDay"`
	Insights         []string             `json:"insights"`
	Recommendations  []string             `json:"recommendations"`
}

// Text implements Renderer.
func (s MonthlySummary) Text() string {
	var b builder
	b.line("Monthly Summary (%s)", s.Period)
	b.line("Days: %s, with data: %s", strconv.Itoa(s.Stats.Days), strconv.Itoa(s.Stats.DaysWithData))
	b.blank()
	b.line("Averages:")
	b.averages(s.Stats)
	b.blank()
	b.line("Recovery zones: green %d, yellow %d, red %d", s.Zones.Green, s.Zones.Yellow, s.Zones.Red)
	b.blank()
	b.line("Best recovery: %s", formatDay(analysis.MetricRecovery, s.BestRecoveryDay))
	b.line("Worst recovery: %s", formatDay(analysis.MetricRecovery, s.WorstRecoveryDay))
	b.line("Peak strain: %s", formatDay(analysis.MetricStrain, s.PeakStrainDay))
	b.line("Best sleep: %s", formatDay(analysis.MetricSleep, s.BestSleepDay))

	b.list("Insights", s.Insights)
	b.list("Recommendations", s.Recommendations)
	return b.String()
}

// WeekdayPatterns breaks a range down by day of week.
type WeekdayPatterns struct {
	Period               Period                  `json:"period"`
	Weekdays             []analysis.WeekdayStats `json:"weekdays"`
	BestRecoveryWeekday  *analysis.WeekdayValue  `json:"bestRecoveryWeekday"`
	WorstRecoveryWeekday *analysis.WeekdayValue  `json:"worstRecoveryWeekday"`
	HighestStrainWeekday *analysis.WeekdayValue  `json:"highestStrainWeekday"`
	Insights             []string                `json:"insights"`
	Recommendations      []string                `json:"recommendations"`
}

// Text implements Renderer.
func (w WeekdayPatterns) Text() string {
	var b builder
	b.line("Weekday Patterns (%s)", w.Period)
	b.blank()

	rows := make([][]string, 0, len(w.Weekdays))
	for _, d := range w.Weekdays {
		rows = append(rows, []string{
			d.Weekday,
			strconv.Itoa(d.Stats.DaysWithData),
			formatMetric(analysis.MetricRecovery, d.Stats.AvgRecovery),
			formatMetric(analysis.MetricStrain, d.Stats.AvgStrain),
			formatMetric(analysis.MetricSleep, d.Stats.AvgSleep),
			formatMetric(analysis.MetricHRV, d.Stats.AvgHRV),
		})
	}
	b.table([]string{"Weekday", "Days", "Recovery", "Strain", "Sleep", "HRV"}, rows)
	b.blank()
	b.line("Best recovery day: %s", formatWeekday(analysis.MetricRecovery, w.BestRecoveryWeekday))
	b.line("Worst recovery day: %s", formatWeekday(analysis.MetricRecovery, w.WorstRecoveryWeekday))
	b.line("Highest strain day: %s", formatWeekday(analysis.MetricStrain, w.HighestStrainWeekday))

	b.list("Insights", w.Insights)
	b.list("Recommendations", w.Recommendations)
	return b.String()
}
