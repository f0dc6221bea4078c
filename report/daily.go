//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"strings"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/whoop"
)

// DailyOverview is the home screen of one day.
type DailyOverview struct {
	Date             string               `json:"date"`
	Metrics          analysis.DailyRecord `json:"metrics"`
	SleepPerformance *float64             `json:"sleepPerformance"`
	Activities       []whoop.Activity     `json:"activities"`
}

// Text implements Renderer.
func (o DailyOverview) Text() string {
	var b builder
	b.line("Daily Overview (%s)", o.Date)
	b.blank()
	for _, m := range analysis.Metrics {
		b.line("%s: %s", metricLabels[m], formatMetric(m, m.Value(o.Metrics)))
	}
	b.line("Sleep performance: %s", formatMetric(analysis.MetricRecovery, o.SleepPerformance))
	b.activities(o.Activities)
	return b.String()
}

// DeepDive is the detail screen of one domain for one day.
type DeepDive struct {
	Kind         whoop.DeepDiveKind   `json:"kind"`
	Date         string               `json:"date"`
	Score        *float64             `json:"score"`
	ScoreDisplay string               `json:"scoreDisplay,omitempty"`
	Contributors []whoop.Contributor  `json:"contributors"`
	Statistics   []whoop.KeyStatistic `json:"statistics"`
	Activities   []whoop.Activity     `json:"activities,omitempty"`
}

// Text implements Renderer.
func (d DeepDive) Text() string {
	var b builder
	b.line("%s Deep Dive (%s)", title(string(d.Kind)), d.Date)
	b.blank()
	score := d.ScoreDisplay
	if score == "" {
		score = d.formatScore()
	}
	b.line("Score: %s", score)

	if len(d.Contributors) > 0 {
		b.blank()
		b.line("Contributors:")
		for _, c := range d.Contributors {
			b.line("  %s: %s", orNA(c.Title), contributorValue(c))
		}
	}
	if len(d.Statistics) > 0 {
		b.blank()
		b.line("Key statistics:")
		for _, s := range d.Statistics {
			value := s.Display
			if value == "" {
				value = formatFloat(s.Value, s.Unit)
			}
			b.line("  %s: %s%s", orNA(s.Title), value, baseline(s.Baseline, s.Unit))
		}
	}
	if d.Kind == whoop.DeepDiveStrain {
		b.activities(d.Activities)
	}
	return b.String()
}

func (d DeepDive) formatScore() string {
	switch d.Kind {
	case whoop.DeepDiveStrain:
		return formatMetric(analysis.MetricStrain, d.Score)
	default:
		return formatMetric(analysis.MetricRecovery, d.Score)
	}
}

func contributorValue(c whoop.Contributor) string {
	value := c.Display
	if value == "" {
		value = formatFloat(c.Value, c.Unit)
	}
	value += baseline(c.Baseline, c.Unit)
	if c.Status != "" {
		value += " [" + strings.ToLower(c.Status) + "]"
	}
	return value
}

func baseline(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return " (baseline " + formatFloat(v, unit) + ")"
}

func (b *builder) activities(acts []whoop.Activity) {
	b.blank()
	b.line("Activities:")
	if len(acts) == 0 {
		b.line("  none recorded")
		return
	}
	for _, a := range acts {
		b.line("  - %s: strain %s, %s, avg HR %s, max HR %s, %s",
			orNA(a.Name),
			formatMetric(analysis.MetricStrain, a.Strain),
			formatMetric(analysis.MetricCalories, a.Calories),
			formatFloat(a.AvgHeartRate, "bpm"),
			formatFloat(a.MaxHeartRate, "bpm"),
			formatFloat(a.DurationMinutes, "min"),
		)
	}
}
