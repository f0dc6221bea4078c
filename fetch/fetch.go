//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package fetch walks a date range one day at a time, turning each day's
// home screen into a DailyRecord. A day that cannot be fetched becomes an
// empty record and the walk continues.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/internal/metrics"
	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
	"github.com/janaksunil/whoop-mcp/log"
	"github.com/janaksunil/whoop-mcp/telemetry/trace"
	"github.com/janaksunil/whoop-mcp/whoop"
)

// MaxDays bounds every multi-day window.
const MaxDays = 90

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// LastDays returns the window of n days ending on end.
func LastDays(end time.Time, n int) Range {
	end = Truncate(end)
	return Range{Start: end.AddDate(0, 0, -(n - 1)), End: end}
}

// Days is the number of calendar days covered, or 0 when Start is after End.
func (r Range) Days() int {
	start, end := Truncate(r.Start), Truncate(r.End)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// Dates lists every day of the range in ascending order.
func (r Range) Dates() []string {
	n := r.Days()
	out := make([]string, 0, n)
	start := Truncate(r.Start)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i).Format(analysis.DateLayout))
	}
	return out
}

// Validate checks ordering and the day bound.
func (r Range) Validate() error {
	n := r.Days()
	if n == 0 {
		return fmt.Errorf("start date %s is after end date %s",
			r.Start.Format(analysis.DateLayout), r.End.Format(analysis.DateLayout))
	}
	if n > MaxDays {
		return fmt.Errorf("range covers %d days, at most %d are allowed", n, MaxDays)
	}
	return nil
}

// Truncate drops the time of day, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD. An empty string yields def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return Truncate(def), nil
	}
	t, err := time.Parse(analysis.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Days fetches the home screen of every day in r, in ascending order,
// waiting on pacer between fetches. Per-day failures yield empty records.
// Only cancellation of ctx aborts the walk.
func Days(ctx context.Context, f whoop.Fetcher, r Range, pacer Pacer) ([]analysis.DailyRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if pacer == nil {
		pacer = NoPacing{}
	}

	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameFetchRange)
	defer span.End()

	dates := r.Dates()
	records := make([]analysis.DailyRecord, 0, len(dates))
	failed := 0
	for i, date := range dates {
		if i > 0 {
			if err := pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		payload, err := f.Home(ctx, date)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			failed++
			metrics.RecordMissingDay()
			log.Warnf("fetch: no data for %s: %v", date, err)
			records = append(records, analysis.EmptyRecord(date))
			continue
		}
		records = append(records, whoop.ExtractDailyRecord(date, payload))
	}

	itelemetry.TraceRange(span, dates[0], dates[len(dates)-1], len(dates), failed)
	if failed > 0 {
		log.Infof("fetch: %d of %d days between %s and %s had no data",
			failed, len(dates), dates[0], dates[len(dates)-1])
	}
	return records, nil
}
