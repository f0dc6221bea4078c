//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package whoop

import (
	"context"
	"fmt"
	"time"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/fetch"
	"github.com/janaksunil/whoop-mcp/report"
	"github.com/janaksunil/whoop-mcp/tool/function"
)

type weeklyRequest struct {
	EndDate string `json:"end_date,omitempty" jsonschema:"description=Last day of the current week as YYYY-MM-DD; defaults to today,format=date" validate:"omitempty,datetime=2006-01-02"`
}

type monthlyRequest struct {
	EndDate string `json:"end_date,omitempty" jsonschema:"description=Last day of the window as YYYY-MM-DD; defaults to today,format=date" validate:"omitempty,datetime=2006-01-02"`
	Days    int    `json:"days,omitempty" jsonschema:"description=Number of days in the window,default=30,minimum=1,maximum=90" validate:"omitempty,min=1,max=90"`
}

type weekdayRequest struct {
	EndDate string `json:"end_date,omitempty" jsonschema:"description=Last day of the window as YYYY-MM-DD; defaults to today,format=date" validate:"omitempty,datetime=2006-01-02"`
	Days    int    `json:"days,omitempty" jsonschema:"description=Number of days in the window,default=28,minimum=1,maximum=90" validate:"omitempty,min=1,max=90"`
}

type trendsRequest struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"description=First day of the range as YYYY-MM-DD; when set the range runs to end_date,format=date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"description=Last day of the range as YYYY-MM-DD; defaults to today,format=date" validate:"omitempty,datetime=2006-01-02"`
	Days      int    `json:"days,omitempty" jsonschema:"description=Range length used when start_date is not set,default=14,minimum=1,maximum=90" validate:"omitempty,min=1,max=90"`
}

// window resolves end and days into a range, substituting defaults.
func (s *whoopToolSet) window(endDate string, days, defaultDays int) (fetch.Range, error) {
	end, err := fetch.ParseDate(endDate, s.today())
	if err != nil {
		return fetch.Range{}, invalid(err)
	}
	if days == 0 {
		days = defaultDays
	}
	return fetch.LastDays(end, days), nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", function.ErrInvalidArguments, err)
}

func (s *whoopToolSet) records(ctx context.Context, r fetch.Range, pause time.Duration) ([]analysis.DailyRecord, error) {
	return fetch.Days(ctx, s.fetcher, r, fetch.Pacing{Interval: pause}.NewPacer())
}

// weeklyComparison compares the last seven days with the seven before.
func (s *whoopToolSet) weeklyComparison(ctx context.Context, req weeklyRequest) (report.WeeklyComparison, error) {
	r, err := s.window(req.EndDate, weeklyWindowDays, weeklyWindowDays)
	if err != nil {
		return report.WeeklyComparison{}, err
	}
	records, err := s.records(ctx, r, s.pacing.Weekly)
	if err != nil {
		return report.WeeklyComparison{}, err
	}

	lastWeek, thisWeek := analysis.Split(records)
	out := report.WeeklyComparison{
		ThisWeek: s.periodStats(thisWeek),
		LastWeek: s.periodStats(lastWeek),
	}
	out.Changes = analysis.Compare(out.ThisWeek.Stats, out.LastWeek.Stats)
	facts := analysis.Facts{
		Current:  out.ThisWeek.Stats,
		Previous: out.LastWeek.Stats,
		Changes:  out.Changes,
		Balance:  analysis.Balance(out.ThisWeek.Stats.AvgStrain, out.ThisWeek.Stats.AvgRecovery, s.policy),
	}
	out.Insights, out.Recommendations = analysis.Evaluate(analysis.DefaultRules, facts, s.policy)
	return out, nil
}

// monthlySummary aggregates one long window.
func (s *whoopToolSet) monthlySummary(ctx context.Context, req monthlyRequest) (report.MonthlySummary, error) {
	r, err := s.window(req.EndDate, req.Days, defaultMonthlyDays)
	if err != nil {
		return report.MonthlySummary{}, err
	}
	records, err := s.records(ctx, r, s.pacing.Monthly)
	if err != nil {
		return report.MonthlySummary{}, err
	}

	stats := analysis.Aggregate(records, s.policy.RecoveryThreshold)
	zones := analysis.RecoveryZones(records, s.policy)
	out := report.MonthlySummary{
		Period:           periodOf(records),
		Stats:            stats,
		Zones:            zones,
		BestRecoveryDay:  analysis.BestDay(records, analysis.MetricRecovery),
		WorstRecoveryDay: analysis.WorstDay(records, analysis.MetricRecovery),
		PeakStrainDay:    analysis.BestDay(records, analysis.MetricStrain),
		BestSleepDay:     analysis.BestDay(records, analysis.MetricSleep),
	}
	facts := analysis.Facts{
		Current: stats,
		Zones:   &zones,
		Balance: analysis.Balance(stats.AvgStrain, stats.AvgRecovery, s.policy),
	}
	out.Insights, out.Recommendations = analysis.Evaluate(analysis.MonthlyRules(), facts, s.policy)
	return out, nil
}

// weekdayPatterns groups a window by day of week.
func (s *whoopToolSet) weekdayPatterns(ctx context.Context, req weekdayRequest) (report.WeekdayPatterns, error) {
	r, err := s.window(req.EndDate, req.Days, defaultWeekdayDays)
	if err != nil {
		return report.WeekdayPatterns{}, err
	}
	records, err := s.records(ctx, r, s.pacing.Weekday)
	if err != nil {
		return report.WeekdayPatterns{}, err
	}

	weekdays := analysis.ByWeekday(records, s.policy.RecoveryThreshold)
	out := report.WeekdayPatterns{
		Period:               periodOf(records),
		Weekdays:             weekdays,
		BestRecoveryWeekday:  analysis.BestWeekday(weekdays, analysis.MetricRecovery),
		WorstRecoveryWeekday: analysis.WorstWeekday(weekdays, analysis.MetricRecovery),
		HighestStrainWeekday: analysis.BestWeekday(weekdays, analysis.MetricStrain),
	}
	stats := analysis.Aggregate(records, s.policy.RecoveryThreshold)
	facts := analysis.Facts{
		Current:  stats,
		Weekdays: weekdays,
		Balance:  analysis.Balance(stats.AvgStrain, stats.AvgRecovery, s.policy),
	}
	out.Insights, out.Recommendations = analysis.Evaluate(analysis.WeekdayPatternRules(), facts, s.policy)
	return out, nil
}

// trends compares the first half of a range with the second.
func (s *whoopToolSet) trends(ctx context.Context, req trendsRequest) (report.TrendReport, error) {
	r, err := s.trendRange(req)
	if err != nil {
		return report.TrendReport{}, err
	}
	records, err := s.records(ctx, r, s.pacing.Trends)
	if err != nil {
		return report.TrendReport{}, err
	}

	first, second := analysis.Split(records)
	out := report.TrendReport{
		Period:     periodOf(records),
		FirstHalf:  s.periodStats(first),
		SecondHalf: s.periodStats(second),
	}
	out.Trends = analysis.CompareTrends(out.SecondHalf.Stats, out.FirstHalf.Stats, s.policy)
	out.Changes = analysis.Compare(out.SecondHalf.Stats, out.FirstHalf.Stats)
	out.Balance = analysis.Balance(out.SecondHalf.Stats.AvgStrain, out.SecondHalf.Stats.AvgRecovery, s.policy)
	facts := analysis.Facts{
		Current:  out.SecondHalf.Stats,
		Previous: out.FirstHalf.Stats,
		Changes:  out.Changes,
		Balance:  out.Balance,
	}
	out.Insights, out.Recommendations = analysis.Evaluate(analysis.DefaultRules, facts, s.policy)
	return out, nil
}

// trendRange uses start_date and end_date when start_date is set, and the
// last days ending on end_date otherwise.
func (s *whoopToolSet) trendRange(req trendsRequest) (fetch.Range, error) {
	if req.StartDate == "" {
		return s.window(req.EndDate, req.Days, defaultTrendDays)
	}
	start, err := fetch.ParseDate(req.StartDate, s.today())
	if err != nil {
		return fetch.Range{}, invalid(err)
	}
	end, err := fetch.ParseDate(req.EndDate, s.today())
	if err != nil {
		return fetch.Range{}, invalid(err)
	}
	r := fetch.Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return fetch.Range{}, invalid(err)
	}
	return r, nil
}

func (s *whoopToolSet) periodStats(records []analysis.DailyRecord) report.PeriodStats {
	return report.PeriodStats{
		Period: periodOf(records),
		Stats:  analysis.Aggregate(records, s.policy.RecoveryThreshold),
	}
}

func periodOf(records []analysis.DailyRecord) report.Period {
	if len(records) == 0 {
		return report.Period{}
	}
	return report.Period{Start: records[0].Date, End: records[len(records)-1].Date}
}
