//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package analysis

import (
	"fmt"
	"math"
)

// Policy holds every tunable threshold used by the aggregation and insight
// rules.
type Policy struct {
	// RecoveryThreshold is the recovery score a day needs to count towards
	// WindowStats.DaysAboveThreshold in period comparisons.
	RecoveryThreshold float64 `mapstructure:"recovery_threshold"`
	// GreenZone and YellowZone are the lower bounds of the green and
	// yellow recovery bands.
	GreenZone  float64 `mapstructure:"green_zone"`
	YellowZone float64 `mapstructure:"yellow_zone"`
	// TrendBand is the percent change, exclusive, that separates a stable
	// metric from an improving or declining one.
	TrendBand float64 `mapstructure:"trend_band"`
	// OverreachingRatio and UndertrainedRatio bound the strain to
	// recovery ratio.
	OverreachingRatio float64 `mapstructure:"overreaching_ratio"`
	UndertrainedRatio float64 `mapstructure:"undertrained_ratio"`
	// StrainShiftPct is the percent change in strain worth calling out.
	StrainShiftPct float64 `mapstructure:"strain_shift_pct"`
	// HRVShiftPct is the percent change in HRV worth calling out.
	HRVShiftPct float64 `mapstructure:"hrv_shift_pct"`
	// RHRRisePct is the percent rise in resting heart rate worth calling out.
	RHRRisePct float64 `mapstructure:"rhr_rise_pct"`
	// SleepTargetHours is the nightly sleep target.
	SleepTargetHours float64 `mapstructure:"sleep_target_hours"`
	// ConsistentDays is how many days at or above RecoveryThreshold make a
	// window consistently well recovered.
	ConsistentDays int `mapstructure:"consistent_days"`
	// WeekdaySpread is the gap in average recovery points between the best
	// and worst weekday worth calling out.
	WeekdaySpread float64 `mapstructure:"weekday_spread"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		RecoveryThreshold: 70,
		GreenZone:         67,
		YellowZone:        34,
		TrendBand:         5,
		OverreachingRatio: 2,
		UndertrainedRatio: 1,
		StrainShiftPct:    20,
		HRVShiftPct:       10,
		RHRRisePct:        5,
		SleepTargetHours:  7,
		ConsistentDays:    5,
		WeekdaySpread:     10,
	}
}

// Facts is what the insight rules are evaluated against. Previous and
// Changes are zero valued when there is no comparison window; Zones and
// Weekdays are only set by the operations that compute them.
type Facts struct {
	Current  WindowStats
	Previous WindowStats
	Changes  ChangeSet
	Balance  BalanceResult
	Zones    *Zones
	Weekdays []WeekdayStats
}

// Rule is one named entry of the insight table. Match decides whether the
// rule fires; Insight and Recommendation produce its text, and either may
// be nil.
type Rule struct {
	Name           string
	Match          func(f Facts, p Policy) bool
	Insight        func(f Facts, p Policy) string
	Recommendation func(f Facts, p Policy) string
}

// Evaluate runs rules in order. Every matching rule contributes; output
// order follows table order.
func Evaluate(rules []Rule, f Facts, p Policy) (insights, recommendations []string) {
	insights = []string{}
	recommendations = []string{}
	for _, r := range rules {
		if !r.Match(f, p) {
			continue
		}
		if r.Insight != nil {
			insights = append(insights, r.Insight(f, p))
		}
		if r.Recommendation != nil {
			recommendations = append(recommendations, r.Recommendation(f, p))
		}
	}
	return insights, recommendations
}

// DefaultRules is the stock insight table. The three balance rules are
// mutually exclusive because they key off a single classification.
var DefaultRules = []Rule{
	{
		Name:  "recovery_declined",
		Match: func(f Facts, p Policy) bool { return below(f.Changes.RecoveryChange, -p.TrendBand) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Recovery is down %d%% compared to the previous period.", abs(f.Changes.RecoveryChange))
		},
		Recommendation: func(Facts, Policy) string {
			return "Consider prioritizing sleep and lighter training until recovery rebounds."
		},
	},
	{
		Name:  "recovery_improved",
		Match: func(f Facts, p Policy) bool { return above(f.Changes.RecoveryChange, p.TrendBand) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Recovery is up %d%% compared to the previous period.", abs(f.Changes.RecoveryChange))
		},
	},
	{
		Name:  "strain_increased",
		Match: func(f Facts, p Policy) bool { return above(f.Changes.StrainChange, p.StrainShiftPct) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Strain increased %d%% over the previous period.", abs(f.Changes.StrainChange))
		},
		Recommendation: func(Facts, Policy) string {
			return "Schedule an active recovery day to absorb the extra training load."
		},
	},
	{
		Name:  "strain_decreased",
		Match: func(f Facts, p Policy) bool { return below(f.Changes.StrainChange, -p.StrainShiftPct) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Strain dropped %d%% from the previous period.", abs(f.Changes.StrainChange))
		},
	},
	{
		Name: "short_sleep",
		Match: func(f Facts, p Policy) bool {
			return f.Current.AvgSleep != nil && *f.Current.AvgSleep < p.SleepTargetHours
		},
		Insight: func(f Facts, p Policy) string {
			return fmt.Sprintf("Average sleep of %.1f hours is below the %.0f hour target.", *f.Current.AvgSleep, p.SleepTargetHours)
		},
		Recommendation: func(_ Facts, p Policy) string {
			return fmt.Sprintf("Aim for at least %.0f hours of sleep with a consistent bedtime.", p.SleepTargetHours)
		},
	},
	{
		Name:  "sleep_declined",
		Match: func(f Facts, p Policy) bool { return below(f.Changes.SleepChange, -p.TrendBand) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Sleep duration fell %d%% compared to the previous period.", abs(f.Changes.SleepChange))
		},
	},
	{
		Name:  "hrv_declined",
		Match: func(f Facts, p Policy) bool { return below(f.Changes.HRVChange, -p.HRVShiftPct) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("HRV is down %d%%, a sign of accumulated stress.", abs(f.Changes.HRVChange))
		},
		Recommendation: func(Facts, Policy) string {
			return "Reduce intensity and add recovery practices such as breathwork or mobility sessions."
		},
	},
	{
		Name:  "hrv_improved",
		Match: func(f Facts, p Policy) bool { return above(f.Changes.HRVChange, p.HRVShiftPct) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("HRV is up %d%%, suggesting improved adaptation.", abs(f.Changes.HRVChange))
		},
	},
	{
		Name:  "rhr_elevated",
		Match: func(f Facts, p Policy) bool { return above(f.Changes.RHRChange, p.RHRRisePct) },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Resting heart rate is up %d%%, which can signal fatigue or oncoming illness.", abs(f.Changes.RHRChange))
		},
		Recommendation: func(Facts, Policy) string {
			return "Keep an eye on resting heart rate and take a rest day if it stays elevated."
		},
	},
	{
		Name: "consistent_recovery",
		Match: func(f Facts, p Policy) bool {
			return f.Current.DaysAboveThreshold >= p.ConsistentDays
		},
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("%d of %d days reached %.0f%%+ recovery.",
				f.Current.DaysAboveThreshold, f.Current.Days, f.Current.Threshold)
		},
	},
	{
		Name:  "overreaching",
		Match: func(f Facts, _ Policy) bool { return f.Balance.Status == BalanceOverreaching },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Strain is high relative to recovery (ratio %.2f).", *f.Balance.Ratio)
		},
		Recommendation: func(Facts, Policy) string {
			return "Scale back training load to let recovery catch up and avoid overreaching."
		},
	},
	{
		Name:  "undertrained",
		Match: func(f Facts, _ Policy) bool { return f.Balance.Status == BalanceUndertrained },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Strain is low relative to recovery (ratio %.2f).", *f.Balance.Ratio)
		},
		Recommendation: func(Facts, Policy) string {
			return "Recovery leaves room for harder sessions; consider raising training intensity."
		},
	},
	{
		Name:  "balanced",
		Match: func(f Facts, _ Policy) bool { return f.Balance.Status == BalanceBalanced },
		Insight: func(f Facts, _ Policy) string {
			return fmt.Sprintf("Strain and recovery are well balanced (ratio %.2f).", *f.Balance.Ratio)
		},
	},
}

func above(v *int, limit float64) bool {
	return v != nil && float64(*v) > limit
}

func below(v *int, limit float64) bool {
	return v != nil && float64(*v) < limit
}

func abs(v *int) int {
	return int(math.Abs(float64(*v)))
}
