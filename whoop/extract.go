//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package whoop

import (
	"strings"

	"github.com/janaksunil/whoop-mcp/analysis"
)

// First returns the first widget of variant W, in document order, for which
// match returns true. A nil match accepts any widget of the variant. A nil
// payload, empty sections or missing items simply yield found=false.
func First[W Widget](p *Payload, match func(W) bool) (w W, found bool) {
	if p == nil {
		return w, false
	}
	for _, s := range p.Sections {
		for _, it := range s.Items {
			v, ok := it.Widget.(W)
			if !ok {
				continue
			}
			if match == nil || match(v) {
				return v, true
			}
		}
	}
	return w, false
}

// All returns every widget of variant W in document order.
func All[W Widget](p *Payload) []W {
	var out []W
	if p == nil {
		return out
	}
	for _, s := range p.Sections {
		for _, it := range s.Items {
			if v, ok := it.Widget.(W); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

// Gauge returns the score gauge with the given id.
func Gauge(p *Payload, id string) (ScoreGauge, bool) {
	return First(p, func(g ScoreGauge) bool { return strings.EqualFold(g.ID, id) })
}

// Statistic returns the key statistic with the given id.
func Statistic(p *Payload, id string) (KeyStatistic, bool) {
	return First(p, func(s KeyStatistic) bool { return strings.EqualFold(s.ID, id) })
}

// Contributors returns the contributors of the first contributors tile.
func Contributors(p *Payload) []Contributor {
	tile, ok := First[ContributorsTile](p, nil)
	if !ok {
		return nil
	}
	return tile.Contributors
}

// Activities returns every activity on the screen.
func Activities(p *Payload) []Activity {
	return All[Activity](p)
}

// ExtractDailyRecord maps a home screen to the metrics of one day. Widgets
// that are missing leave the corresponding metric nil.
func ExtractDailyRecord(date string, p *Payload) analysis.DailyRecord {
	rec := analysis.EmptyRecord(date)
	if g, ok := Gauge(p, IDRecovery); ok {
		rec.RecoveryScore = g.Score
	}
	if g, ok := Gauge(p, IDStrain); ok {
		rec.Strain = g.Score
	}
	if s, ok := Statistic(p, IDSleepDuration); ok {
		rec.SleepHours = hours(s.Value, s.Unit)
	}
	if s, ok := Statistic(p, IDCalories); ok {
		rec.Calories = s.Value
	}
	if s, ok := Statistic(p, IDHRV); ok {
		rec.HRV = s.Value
	}
	if s, ok := Statistic(p, IDRestingHR); ok {
		rec.RestingHeartRate = s.Value
	}
	return rec
}

// hours normalises a duration value to hours. Unknown units are taken as
// hours already.
func hours(v *float64, unit string) *float64 {
	if v == nil {
		return nil
	}
	var h float64
	switch strings.ToLower(unit) {
	case "ms", "milli", "millis":
		h = *v / 3_600_000
	case "s", "sec", "seconds":
		h = *v / 3600
	case "min", "minutes":
		h = *v / 60
	default:
		h = *v
	}
	return &h
}
