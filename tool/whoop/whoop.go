//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package whoop provides the fitness tools: single day screens, deep dives
// and the multi-day comparisons built on the aggregation core. Tool names
// are prefixed with the toolset name, so "get_overview" is exposed as
// "whoop_get_overview".
package whoop

import (
	"context"
	"time"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/fetch"
	itool "github.com/janaksunil/whoop-mcp/internal/tool"
	"github.com/janaksunil/whoop-mcp/tool"
	"github.com/janaksunil/whoop-mcp/tool/function"
	api "github.com/janaksunil/whoop-mcp/whoop"
)

const (
	// ToolSetName prefixes every tool of the set.
	ToolSetName = "whoop"

	weeklyWindowDays   = 14
	defaultMonthlyDays = 30
	defaultWeekdayDays = 28
	defaultTrendDays   = 14
)

// Pacing is the pause between consecutive day fetches, per operation.
type Pacing struct {
	Weekly  time.Duration `mapstructure:"weekly"`
	Monthly time.Duration `mapstructure:"monthly"`
	Weekday time.Duration `mapstructure:"weekday"`
	Trends  time.Duration `mapstructure:"trends"`
}

// DefaultPacing returns the stock pauses.
func DefaultPacing() Pacing {
	return Pacing{
		Weekly:  fetch.DefaultWeeklyPacing.Interval,
		Monthly: fetch.DefaultMonthlyPacing.Interval,
		Weekday: fetch.DefaultWeekdayPacing.Interval,
		Trends:  fetch.DefaultTrendsPacing.Interval,
	}
}

// Option is a functional option for configuring the whoop tool set.
type Option func(*whoopToolSet)

// WithPolicy sets the insight thresholds, default is analysis.DefaultPolicy().
func WithPolicy(p analysis.Policy) Option {
	return func(s *whoopToolSet) {
		s.policy = p
	}
}

// WithPacing sets the per-operation fetch pauses, default is DefaultPacing().
func WithPacing(p Pacing) Option {
	return func(s *whoopToolSet) {
		s.pacing = p
	}
}

// WithClock sets the source of "today" for tools called without a date.
func WithClock(now func() time.Time) Option {
	return func(s *whoopToolSet) {
		if now != nil {
			s.now = now
		}
	}
}

// whoopToolSet implements the ToolSet interface over a backend fetcher.
type whoopToolSet struct {
	fetcher api.Fetcher
	policy  analysis.Policy
	pacing  Pacing
	now     func() time.Time
	tools   []tool.Tool
}

// NewToolSet creates the whoop tool set. The returned set prefixes every
// tool name with ToolSetName.
func NewToolSet(f api.Fetcher, opts ...Option) tool.ToolSet {
	s := &whoopToolSet{
		fetcher: f,
		policy:  analysis.DefaultPolicy(),
		pacing:  DefaultPacing(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tools = []tool.Tool{
		function.NewFunctionTool(s.overview,
			function.WithName("get_overview"),
			function.WithDescription("Get the home screen of one day: recovery, strain, sleep, "+
				"calories, HRV and resting heart rate plus the day's activities.")),
		function.NewFunctionTool(s.deepDive(api.DeepDiveRecovery),
			function.WithName("get_recovery"),
			function.WithDescription("Get the recovery deep dive of one day: the recovery score "+
				"and the contributors behind it compared with their baselines.")),
		function.NewFunctionTool(s.deepDive(api.DeepDiveStrain),
			function.WithName("get_strain"),
			function.WithDescription("Get the strain deep dive of one day: the strain score, "+
				"its contributors and the activities that produced it.")),
		function.NewFunctionTool(s.deepDive(api.DeepDiveSleep),
			function.WithName("get_sleep"),
			function.WithDescription("Get the sleep deep dive of one day: sleep performance "+
				"and its contributors.")),
		function.NewFunctionTool(s.weeklyComparison,
			function.WithName("weekly_comparison"),
			function.WithDescription("Compare the last 7 days with the 7 days before: averages, "+
				"percent changes, days at 70%+ recovery, insights and recommendations.")),
		function.NewFunctionTool(s.monthlySummary,
			function.WithName("monthly_summary"),
			function.WithDescription("Summarise a window of up to 90 days (30 by default): "+
				"averages, recovery zones, best and worst days, insights and recommendations.")),
		function.NewFunctionTool(s.weekdayPatterns,
			function.WithName("weekday_patterns"),
			function.WithDescription("Break a window of up to 90 days (28 by default) down by "+
				"day of week to find the best and worst recovery days and the heaviest strain day.")),
		function.NewFunctionTool(s.trends,
			function.WithName("trends"),
			function.WithDescription("Compare the first and second half of a date range: trend "+
				"labels per metric, percent changes, strain/recovery balance and insights.")),
	}
	return itool.NewNamedToolSet(s)
}

// Tools implements the ToolSet interface.
func (s *whoopToolSet) Tools(context.Context) []tool.Tool {
	return s.tools
}

// Close implements the ToolSet interface.
func (s *whoopToolSet) Close() error {
	// The fetcher is owned by the caller.
	return nil
}

// Name implements the ToolSet interface.
func (s *whoopToolSet) Name() string {
	return ToolSetName
}

func (s *whoopToolSet) today() time.Time {
	return fetch.Truncate(s.now())
}
