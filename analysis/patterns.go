//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package analysis

import "fmt"

// ZoneRules read the recovery zone counts of a long window.
var ZoneRules = []Rule{
	{
		Name: "green_majority",
		Match: func(f Facts, _ Policy) bool {
			return f.Zones != nil && f.Zones.Green*2 > f.Zones.total()
		},
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("%d of %d recorded days were in the green zone.", f.Zones.Green, f.Zones.total())
		},
	},
	{
		Name: "red_heavy",
		Match: func(f Facts, _ Policy) bool {
			return f.Zones != nil && f.Zones.Red > f.Zones.Green
		},
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Red recovery days (%d) outnumbered green days (%d).", f.Zones.Red, f.Zones.Green)
		},
		Recommendation: func(Facts, Policy) string {
			return "Build more rest days into the schedule until green days become the norm again."
		},
	},
}

// WeekdayRules read per-weekday aggregates.
var WeekdayRules = []Rule{
	{
		Name: "weekday_spread",
		Match: func(f Facts, p Policy) bool {
			best, worst := BestWeekday(f.Weekdays, MetricRecovery), WorstWeekday(f.Weekdays, MetricRecovery)
			return best != nil && worst != nil && best.Value-worst.Value >= p.WeekdaySpread
		},
		Insight: func(f Facts, _ Policy) string {
			best, worst := BestWeekday(f.Weekdays, MetricRecovery), WorstWeekday(f.Weekdays, MetricRecovery)
			return fmt.Sprintf("Recovery peaks on %s (%.0f%%) and bottoms out on %s (%.0f%%).",
				best.Weekday, best.Value, worst.Weekday, worst.Value)
		},
		Recommendation: func(f Facts, _ Policy) string {
			best, worst := BestWeekday(f.Weekdays, MetricRecovery), WorstWeekday(f.Weekdays, MetricRecovery)
			return fmt.Sprintf("Plan your hardest training for %s and favour recovery work on %s.",
				best.Weekday, worst.Weekday)
		},
	},
	{
		Name: "peak_strain_weekday",
		Match: func(f Facts, _ Policy) bool {
			return BestWeekday(f.Weekdays, MetricStrain) != nil
		},
		Insight: func(f Facts, _ Policy) string {
			peak := BestWeekday(f.Weekdays, MetricStrain)
			return fmt.Sprintf("Strain is highest on %s (%.1f on average).", peak.Weekday, peak.Value)
		},
	},
}

// MonthlyRules is the table applied to a long single window.
func MonthlyRules() []Rule {
	return concatRules(ZoneRules, DefaultRules)
}

// WeekdayPatternRules is the table applied to a weekday breakdown.
func WeekdayPatternRules() []Rule {
	return concatRules(WeekdayRules, DefaultRules)
}

func concatRules(tables ...[]Rule) []Rule {
	var out []Rule
	for _, t := range tables {
		out = append(out, t...)
	}
	return out
}

func (z Zones) total() int {
	return z.Green + z.Yellow + z.Red
}
