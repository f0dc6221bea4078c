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
	"strings"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/fetch"
	"github.com/janaksunil/whoop-mcp/report"
	"github.com/janaksunil/whoop-mcp/tool/function"
	api "github.com/janaksunil/whoop-mcp/whoop"
)

// dayRequest is the input of the single day tools.
type dayRequest struct {
	Date string `json:"date,omitempty" jsonschema:"description=Day to fetch as YYYY-MM-DD; defaults to today,format=date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *whoopToolSet) day(date string) (string, error) {
	d, err := fetch.ParseDate(date, s.today())
	if err != nil {
		return "", fmt.Errorf("%w: %w", function.ErrInvalidArguments, err)
	}
	return d.Format(analysis.DateLayout), nil
}

// overview fetches one home screen. A fetch error fails the call.
func (s *whoopToolSet) overview(ctx context.Context, req dayRequest) (report.DailyOverview, error) {
	date, err := s.day(req.Date)
	if err != nil {
		return report.DailyOverview{}, err
	}
	payload, err := s.fetcher.Home(ctx, date)
	if err != nil {
		return report.DailyOverview{}, fmt.Errorf("fetch overview for %s: %w", date, err)
	}

	out := report.DailyOverview{
		Date:       date,
		Metrics:    api.ExtractDailyRecord(date, payload),
		Activities: api.Activities(payload),
	}
	if g, ok := api.Gauge(payload, api.IDSleep); ok {
		out.SleepPerformance = g.Score
	}
	return out, nil
}

// deepDive returns the handler of one deep dive kind.
func (s *whoopToolSet) deepDive(kind api.DeepDiveKind) func(context.Context, dayRequest) (report.DeepDive, error) {
	return func(ctx context.Context, req dayRequest) (report.DeepDive, error) {
		date, err := s.day(req.Date)
		if err != nil {
			return report.DeepDive{}, err
		}
		payload, err := s.fetcher.DeepDive(ctx, kind, date)
		if err != nil {
			return report.DeepDive{}, fmt.Errorf("fetch %s deep dive for %s: %w", kind, date, err)
		}

		out := report.DeepDive{
			Kind:         kind,
			Date:         date,
			Contributors: api.Contributors(payload),
			Statistics:   api.All[api.KeyStatistic](payload),
		}
		if g, ok := api.Gauge(payload, strings.ToUpper(string(kind))); ok {
			out.Score = g.Score
			out.ScoreDisplay = g.Display
		}
		if kind == api.DeepDiveStrain {
			out.Activities = api.Activities(payload)
		}
		return out, nil
	}
}
