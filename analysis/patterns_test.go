//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneRules(t *testing.T) {
	p := DefaultPolicy()

	insights, recs := Evaluate(ZoneRules, Facts{Zones: &Zones{Green: 16, Yellow: 10, Red: 4}}, p)
	assert.Equal(t, []string{"16 of 30 recorded days were in the green zone."}, insights)
	assert.Empty(t, recs)

	insights, recs = Evaluate(ZoneRules, Facts{Zones: &Zones{Green: 3, Yellow: 20, Red: 7}}, p)
	assert.Equal(t, []string{"Red recovery days (7) outnumbered green days (3)."}, insights)
	assert.Len(t, recs, 1)

	insights, _ = Evaluate(ZoneRules, Facts{}, p)
	assert.Empty(t, insights)
}

func TestWeekdayRules(t *testing.T) {
	p := DefaultPolicy()
	days := ByWeekday([]DailyRecord{
		{Date: "2024-01-01", RecoveryScore: Float(80), Strain: Float(8)},  // Monday
		{Date: "2024-01-05", RecoveryScore: Float(62), Strain: Float(15)}, // Friday
		{Date: "2024-01-06", RecoveryScore: Float(55), Strain: Float(12)}, // Saturday
	}, p.RecoveryThreshold)

	insights, recs := Evaluate(WeekdayRules, Facts{Weekdays: days}, p)

	assert.Equal(t, []string{
		"Recovery peaks on Monday (80%) and bottoms out on Saturday (55%).",
		"Strain is highest on Friday (15.0 on average).",
	}, insights)
	assert.Equal(t, []string{
		"Plan your hardest training for Monday and favour recovery work on Saturday.",
	}, recs)
}

func TestWeekdayRules_NarrowSpread(t *testing.T) {
	p := DefaultPolicy()
	days := ByWeekday([]DailyRecord{
		{Date: "2024-01-01", RecoveryScore: Float(70)},
		{Date: "2024-01-02", RecoveryScore: Float(65)},
	}, p.RecoveryThreshold)

	insights, _ := Evaluate(WeekdayRules, Facts{Weekdays: days}, p)
	assert.Empty(t, insights)
}

func TestMonthlyRulesOrder(t *testing.T) {
	rules := MonthlyRules()
	assert.Equal(t, "green_majority", rules[0].Name)
	assert.Equal(t, len(ZoneRules)+len(DefaultRules), len(rules))
	assert.Equal(t, "weekday_spread", WeekdayPatternRules()[0].Name)
}
