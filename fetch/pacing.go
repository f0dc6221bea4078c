//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer blocks until the next backend fetch may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Pacing is the spacing policy of one multi-day operation.
type Pacing struct {
	// Interval is the minimum gap between two fetches. Zero disables pacing.
	Interval time.Duration `mapstructure:"interval" json:"interval"`
}

// Default pacing per operation.
var (
	DefaultWeeklyPacing  = Pacing{Interval: 100 * time.Millisecond}
	DefaultMonthlyPacing = Pacing{Interval: 100 * time.Millisecond}
	DefaultWeekdayPacing = Pacing{Interval: 150 * time.Millisecond}
	DefaultTrendsPacing  = Pacing{Interval: 150 * time.Millisecond}
)

// NewPacer builds a fresh pacer. Each operation gets its own, so
// concurrent invocations never wait on each other.
func (p Pacing) NewPacer() Pacer {
	if p.Interval <= 0 {
		return NoPacing{}
	}
	return &limiterPacer{limiter: rate.NewLimiter(rate.Every(p.Interval), 1)}
}

type limiterPacer struct {
	limiter *rate.Limiter
}

func (p *limiterPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NoPacing never waits. It still honours cancellation.
type NoPacing struct{}

// Wait implements Pacer.
func (NoPacing) Wait(ctx context.Context) error {
	return ctx.Err()
}
