//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package analysis aggregates daily WHOOP metrics and derives trends,
// insights and recommendations from them.
//
// Every aggregate is computed only over records that carry a value for the
// metric in question. A day without data never contributes a zero.
package analysis

import (
	"math"
	"time"
)

// DateLayout is the calendar date format used for record dates.
const DateLayout = "2006-01-02"

// DailyRecord holds the metrics extracted for a single calendar day.
// Each metric is nil when the backend had no value for that day.
type DailyRecord struct {
	Date             string   `json:"date"`
	RecoveryScore    *float64 `json:"recoveryScore"`
	Strain           *float64 `json:"strain"`
	SleepHours       *float64 `json:"sleepHours"`
	Calories         *float64 `json:"calories"`
	HRV              *float64 `json:"hrv"`
	RestingHeartRate *float64 `json:"restingHeartRate"`
}

// EmptyRecord returns a record for date with every metric unset.
func EmptyRecord(date string) DailyRecord {
	return DailyRecord{Date: date}
}

// HasData reports whether at least one metric is present.
func (r DailyRecord) HasData() bool {
	for _, m := range Metrics {
		if m.Value(r) != nil {
			return true
		}
	}
	return false
}

// Weekday returns the day of week of the record date. Unparseable dates
// report ok=false.
func (r DailyRecord) Weekday() (time.Weekday, bool) {
	t, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return 0, false
	}
	return t.Weekday(), true
}

// Metric identifies one nullable field of DailyRecord.
type Metric int

// Supported metrics.
const (
	MetricRecovery Metric = iota
	MetricStrain
	MetricSleep
	MetricCalories
	MetricHRV
	MetricRHR
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricRecovery, MetricStrain, MetricSleep, MetricCalories, MetricHRV, MetricRHR}

// Value returns the metric's value in r, or nil.
func (m Metric) Value(r DailyRecord) *float64 {
	switch m {
	case MetricRecovery:
		return r.RecoveryScore
	case MetricStrain:
		return r.Strain
	case MetricSleep:
		return r.SleepHours
	case MetricCalories:
		return r.Calories
	case MetricHRV:
		return r.HRV
	case MetricRHR:
		return r.RestingHeartRate
	default:
		return nil
	}
}

// String returns the metric's short name.
func (m Metric) String() string {
	switch m {
	case MetricRecovery:
		return "recovery"
	case MetricStrain:
		return "strain"
	case MetricSleep:
		return "sleep"
	case MetricCalories:
		return "calories"
	case MetricHRV:
		return "hrv"
	case MetricRHR:
		return "rhr"
	default:
		return "unknown"
	}
}

// precision is the number of decimals an average of m is rounded to.
// Strain and sleep keep one decimal; the rest are integer scale.
func (m Metric) precision() int {
	if m == MetricStrain || m == MetricSleep {
		return 1
	}
	return 0
}

// Round rounds x half up, matching how the backend's clients display
// scores: 2.5 becomes 3 and -2.5 becomes -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round1 rounds x half up to one decimal place.
func Round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func roundTo(x float64, decimals int) float64 {
	if decimals == 1 {
		return Round1(x)
	}
	return Round(x)
}
