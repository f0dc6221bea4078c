//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package analysis

// PercentChange returns round((current-previous)/previous*100), or nil when
// either side is missing or previous is zero.
func PercentChange(current, previous *float64) *int {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	pct := int(Round((*current - *previous) / *previous * 100))
	return &pct
}

// ChangeSet holds percent changes between two windows, current relative to
// previous.
type ChangeSet struct {
	RecoveryChange *int `json:"recoveryChange"`
	StrainChange   *int `json:"strainChange"`
	SleepChange    *int `json:"sleepChange"`
	CaloriesChange *int `json:"caloriesChange"`
	HRVChange      *int `json:"hrvChange"`
	RHRChange      *int `json:"rhrChange"`
}

// Compare computes the ChangeSet of current against previous.
func Compare(current, previous WindowStats) ChangeSet {
	return ChangeSet{
		RecoveryChange: PercentChange(current.AvgRecovery, previous.AvgRecovery),
		StrainChange:   PercentChange(current.AvgStrain, previous.AvgStrain),
		SleepChange:    PercentChange(current.AvgSleep, previous.AvgSleep),
		CaloriesChange: PercentChange(current.AvgCalories, previous.AvgCalories),
		HRVChange:      PercentChange(current.AvgHRV, previous.AvgHRV),
		RHRChange:      PercentChange(current.AvgRHR, previous.AvgRHR),
	}
}

// TrendLabel is the qualitative direction of a metric between two windows.
type TrendLabel string

// Trend labels.
const (
	TrendImproving        TrendLabel = "improving"
	TrendDeclining        TrendLabel = "declining"
	TrendStable           TrendLabel = "stable"
	TrendInsufficientData TrendLabel = "insufficient data"
)

// Trend labels the move from previous to current. The relative change must
// exceed band percent, strictly, to count as improving or declining.
func Trend(current, previous *float64, band float64) TrendLabel {
	if current == nil || previous == nil || *previous == 0 {
		return TrendInsufficientData
	}
	rel := (*current - *previous) * 100 / *previous
	switch {
	case rel > band:
		return TrendImproving
	case rel < -band:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// InverseTrend is Trend for metrics where a lower value is better, such as
// resting heart rate.
func InverseTrend(current, previous *float64, band float64) TrendLabel {
	switch l := Trend(current, previous, band); l {
	case TrendImproving:
		return TrendDeclining
	case TrendDeclining:
		return TrendImproving
	default:
		return l
	}
}

// Trends labels every metric between two windows.
type Trends struct {
	Recovery TrendLabel `json:"recovery"`
	Strain   TrendLabel `json:"strain"`
	Sleep    TrendLabel `json:"sleep"`
	HRV      TrendLabel `json:"hrv"`
	RHR      TrendLabel `json:"rhr"`
}

// CompareTrends labels current against previous using p.TrendBand.
func CompareTrends(current, previous WindowStats, p Policy) Trends {
	return Trends{
		Recovery: Trend(current.AvgRecovery, previous.AvgRecovery, p.TrendBand),
		Strain:   Trend(current.AvgStrain, previous.AvgStrain, p.TrendBand),
		Sleep:    Trend(current.AvgSleep, previous.AvgSleep, p.TrendBand),
		HRV:      Trend(current.AvgHRV, previous.AvgHRV, p.TrendBand),
		RHR:      InverseTrend(current.AvgRHR, previous.AvgRHR, p.TrendBand),
	}
}

// BalanceStatus classifies training load against recovery.
type BalanceStatus string

// Balance statuses.
const (
	BalanceOverreaching     BalanceStatus = "overreaching"
	BalanceUndertrained     BalanceStatus = "undertrained"
	BalanceBalanced         BalanceStatus = "balanced"
	BalanceInsufficientData BalanceStatus = "insufficient data"
)

// BalanceResult is a strain to recovery ratio and its classification.
type BalanceResult struct {
	Ratio  *float64      `json:"ratio"`
	Status BalanceStatus `json:"status"`
}

// Balance computes strain / (recovery / 10) and classifies it against
// p.OverreachingRatio and p.UndertrainedRatio. The ratio is reported to two
// decimals.
func Balance(avgStrain, avgRecovery *float64, p Policy) BalanceResult {
	if avgStrain == nil || avgRecovery == nil || *avgRecovery == 0 {
		return BalanceResult{Status: BalanceInsufficientData}
	}
	ratio := *avgStrain / (*avgRecovery / 10)
	res := BalanceResult{Ratio: Float(Round(ratio*100) / 100)}
	switch {
	case ratio > p.OverreachingRatio:
		res.Status = BalanceOverreaching
	case ratio < p.UndertrainedRatio:
		res.Status = BalanceUndertrained
	default:
		res.Status = BalanceBalanced
	}
	return res
}
