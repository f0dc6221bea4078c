//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package analysis

import (
	"time"
)

// WindowStats summarises a window of daily records.
// Averages are nil when no record in the window has the metric.
type WindowStats struct {
	Days               int      `json:"days"`
	DaysWithData       int      `json:"daysWithData"`
	AvgRecovery        *float64 `json:"avgRecovery"`
	AvgStrain          *float64 `json:"avgStrain"`
	AvgSleep           *float64 `json:"avgSleep"`
	AvgCalories        *float64 `json:"avgCalories"`
	AvgHRV             *float64 `json:"avgHrv"`
	AvgRHR             *float64 `json:"avgRhr"`
	Threshold          float64  `json:"threshold"`
	DaysAboveThreshold int      `json:"daysAboveThreshold"`
}

// Average returns the window average for m.
func (s WindowStats) Average(m Metric) *float64 {
	switch m {
	case MetricRecovery:
		return s.AvgRecovery
	case MetricStrain:
		return s.AvgStrain
	case MetricSleep:
		return s.AvgSleep
	case MetricCalories:
		return s.AvgCalories
	case MetricHRV:
		return s.AvgHRV
	case MetricRHR:
		return s.AvgRHR
	default:
		return nil
	}
}

// Aggregate computes WindowStats over records. threshold is the recovery
// cutoff for DaysAboveThreshold; a record counts when its recovery score is
// present and at least threshold.
func Aggregate(records []DailyRecord, threshold float64) WindowStats {
	stats := WindowStats{
		Days:        len(records),
		Threshold:   threshold,
		AvgRecovery: Mean(records, MetricRecovery),
		AvgStrain:   Mean(records, MetricStrain),
		AvgSleep:    Mean(records, MetricSleep),
		AvgCalories: Mean(records, MetricCalories),
		AvgHRV:      Mean(records, MetricHRV),
		AvgRHR:      Mean(records, MetricRHR),
	}
	for _, r := range records {
		if r.HasData() {
			stats.DaysWithData++
		}
		if r.RecoveryScore != nil && *r.RecoveryScore >= threshold {
			stats.DaysAboveThreshold++
		}
	}
	return stats
}

// Mean returns the rounded mean of m over the records that have it, or nil
// when none do.
func Mean(records []DailyRecord, m Metric) *float64 {
	var (
		sum   float64
		count int
	)
	for _, r := range records {
		if v := m.Value(r); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := roundTo(sum/float64(count), m.precision())
	return &avg
}

// Zones counts days per recovery colour band.
type Zones struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// RecoveryZones buckets recovery scores: green at or above p.GreenZone,
// yellow at or above p.YellowZone, red below. Days without a score are not
// counted.
func RecoveryZones(records []DailyRecord, p Policy) Zones {
	var z Zones
	for _, r := range records {
		if r.RecoveryScore == nil {
			continue
		}
		switch score := *r.RecoveryScore; {
		case score >= p.GreenZone:
			z.Green++
		case score >= p.YellowZone:
			z.Yellow++
		default:
			z.Red++
		}
	}
	return z
}

// DayValue pairs a date with one metric value.
type DayValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BestDay returns the record with the highest value of m. Ties go to the
// earliest record. nil when no record has m.
func BestDay(records []DailyRecord, m Metric) *DayValue {
	return pickDay(records, m, func(candidate, current float64) bool { return candidate > current })
}

// WorstDay returns the record with the lowest value of m. Ties go to the
// earliest record. nil when no record has m.
func WorstDay(records []DailyRecord, m Metric) *DayValue {
	return pickDay(records, m, func(candidate, current float64) bool { return candidate < current })
}

// pickDay expects records in chronological order; a strict comparison keeps
// the first occurrence on ties.
func pickDay(records []DailyRecord, m Metric, better func(candidate, current float64) bool) *DayValue {
	var picked *DayValue
	for _, r := range records {
		v := m.Value(r)
		if v == nil {
			continue
		}
		if picked == nil || better(*v, picked.Value) {
			picked = &DayValue{Date: r.Date, Value: *v}
		}
	}
	return picked
}

// WeekdayStats is the aggregate of every record falling on one weekday.
type WeekdayStats struct {
	Weekday string      `json:"weekday"`
	Stats   WindowStats `json:"stats"`
}

// weekOrder starts on Monday, which is how the backend's app lays out weeks.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ByWeekday groups records by day of week and aggregates each group. The
// result always has seven entries, Monday first; weekdays with no records
// carry zero-day stats.
func ByWeekday(records []DailyRecord, threshold float64) []WeekdayStats {
	groups := make(map[time.Weekday][]DailyRecord, len(weekOrder))
	for _, r := range records {
		wd, ok := r.Weekday()
		if !ok {
			continue
		}
		groups[wd] = append(groups[wd], r)
	}
	out := make([]WeekdayStats, 0, len(weekOrder))
	for _, wd := range weekOrder {
		out = append(out, WeekdayStats{
			Weekday: wd.String(),
			Stats:   Aggregate(groups[wd], threshold),
		})
	}
	return out
}

// WeekdayValue pairs a weekday with an averaged metric.
type WeekdayValue struct {
	Weekday string  `json:"weekday"`
	Value   float64 `json:"value"`
}

// BestWeekday returns the weekday with the highest average of m. Ties go to
// the earlier weekday in Monday-first order.
func BestWeekday(days []WeekdayStats, m Metric) *WeekdayValue {
	return pickWeekday(days, m, func(candidate, current float64) bool { return candidate > current })
}

// WorstWeekday returns the weekday with the lowest average of m.
func WorstWeekday(days []WeekdayStats, m Metric) *WeekdayValue {
	return pickWeekday(days, m, func(candidate, current float64) bool { return candidate < current })
}

func pickWeekday(days []WeekdayStats, m Metric, better func(candidate, current float64) bool) *WeekdayValue {
	var picked *WeekdayValue
	for _, d := range days {
		v := d.Stats.Average(m)
		if v == nil {
			continue
		}
		if picked == nil || better(*v, picked.Value) {
			picked = &WeekdayValue{Weekday: d.Weekday, Value: *v}
		}
	}
	return picked
}

// Split divides records into a first and second half. With an odd count the
// extra record goes to the second half.
func Split(records []DailyRecord) (first, second []DailyRecord) {
	mid := len(records) / 2
	return records[:mid], records[mid:]
}
