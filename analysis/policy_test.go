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

func intPtr(v int) *int { return &v }

func TestEvaluate_AllMatchingRulesFireInOrder(t *testing.T) {
	p := DefaultPolicy()
	facts := Facts{
		Current: WindowStats{Days: 7, AvgRecovery: Float(50), AvgStrain: Float(14), AvgSleep: Float(6.2), Threshold: 70},
		Changes: ChangeSet{
			RecoveryChange: intPtr(-12),
			StrainChange:   intPtr(25),
			RHRChange:      intPtr(8),
		},
	}
	facts.Balance = Balance(facts.Current.AvgStrain, facts.Current.AvgRecovery, p)

	insights, recs := Evaluate(DefaultRules, facts, p)

	assert.Equal(t, []string{
		"Recovery is down 12% compared to the previous period.",
		"Strain increased 25% over the previous period.",
		"Average sleep of 6.2 hours is below the 7 hour target.",
		"Resting heart rate is up 8%, which can signal fatigue or oncoming illness.",
		"Strain is high relative to recovery (ratio 2.80).",
	}, insights)
	assert.Equal(t, []string{
		"Consider prioritizing sleep and lighter training until recovery rebounds.",
		"Schedule an active recovery day to absorb the extra training load.",
		"Aim for at least 7 hours of sleep with a consistent bedtime.",
		"Keep an eye on resting heart rate and take a rest day if it stays elevated.",
		"Scale back training load to let recovery catch up and avoid overreaching.",
	}, recs)
}

func TestEvaluate_BoundaryChangesDoNotFire(t *testing.T) {
	p := DefaultPolicy()
	facts := Facts{
		Changes: ChangeSet{
			RecoveryChange: intPtr(-5),
			StrainChange:   intPtr(20),
			HRVChange:      intPtr(-10),
			RHRChange:      intPtr(5),
		},
		Balance: BalanceResult{Status: BalanceInsufficientData},
	}

	insights, recs := Evaluate(DefaultRules, facts, p)

	assert.Empty(t, insights)
	assert.Empty(t, recs)
	assert.NotNil(t, insights)
	assert.NotNil(t, recs)
}

func TestEvaluate_BalanceIsExclusive(t *testing.T) {
	p := DefaultPolicy()
	for _, status := range []BalanceStatus{BalanceOverreaching, BalanceUndertrained, BalanceBalanced} {
		facts := Facts{Balance: BalanceResult{Ratio: Float(1.5), Status: status}}
		insights, _ := Evaluate(DefaultRules, facts, p)
		assert.Len(t, insights, 1, "status %s", status)
	}
}

func TestEvaluate_CustomPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.ConsistentDays = 3
	facts := Facts{
		Current: WindowStats{Days: 7, DaysAboveThreshold: 3, Threshold: 70},
		Balance: BalanceResult{Status: BalanceInsufficientData},
	}

	insights, recs := Evaluate(DefaultRules, facts, p)

	assert.Equal(t, []string{"3 of 7 days reached 70%+ recovery."}, insights)
	assert.Empty(t, recs)
}

func TestEvaluate_CustomRuleTable(t *testing.T) {
	rules := []Rule{{
		Name:           "always",
		Match:          func(Facts, Policy) bool { return true },
		Recommendation: func(Facts, Policy) string { return "hydrate" },
	}}
	insights, recs := Evaluate(rules, Facts{}, DefaultPolicy())
	assert.Empty(t, insights)
	assert.Equal(t, []string{"hydrate"}, recs)
}
