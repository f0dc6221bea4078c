//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package whoop

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janaksunil/whoop-mcp/analysis"
	"github.com/janaksunil/whoop-mcp/report"
	"github.com/janaksunil/whoop-mcp/tool"
	"github.com/janaksunil/whoop-mcp/tool/function"
	api "github.com/janaksunil/whoop-mcp/whoop"
)

// fakeFetcher serves gauges from per-date values. Dates without values get
// an empty screen.
type fakeFetcher struct {
	recovery map[string]float64
	strain   map[string]float64
	fail     map[string]error
	home     *api.Payload
	deep     map[api.DeepDiveKind]*api.Payload
	calls    []string
}

func (f *fakeFetcher) Home(_ context.Context, date string) (*api.Payload, error) {
	f.calls = append(f.calls, date)
	if err := f.fail[date]; err != nil {
		return nil, err
	}
	if f.home != nil {
		return f.home, nil
	}
	var items []api.Item
	if v, ok := f.recovery[date]; ok {
		items = append(items, gauge(api.IDRecovery, v))
	}
	if v, ok := f.strain[date]; ok {
		items = append(items, gauge(api.IDStrain, v))
	}
	return &api.Payload{Date: date, Sections: []api.Section{{Items: items}}}, nil
}

func (f *fakeFetcher) DeepDive(_ context.Context, kind api.DeepDiveKind, date string) (*api.Payload, error) {
	f.calls = append(f.calls, string(kind)+"@"+date)
	if err := f.fail[date]; err != nil {
		return nil, err
	}
	return f.deep[kind], nil
}

func gauge(id string, v float64) api.Item {
	return api.Item{Type: api.TypeScoreGauge, Widget: api.ScoreGauge{ID: id, Score: analysis.Float(v)}}
}

var testNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func newTestSet(f api.Fetcher) tool.ToolSet {
	return NewToolSet(f,
		WithPacing(Pacing{}),
		WithClock(func() time.Time { return testNow }))
}

func call[O any](t *testing.T, f api.Fetcher, name, args string) (O, error) {
	t.Helper()
	set := newTestSet(f)
	ct, ok := tool.Find(set.Tools(context.Background()), name)
	require.True(t, ok, "tool %s not found", name)
	res, err := ct.Call(context.Background(), []byte(args))
	if err != nil {
		var zero O
		return zero, err
	}
	out, ok := res.(O)
	require.True(t, ok, "unexpected result type %T", res)
	return out, nil
}

// series assigns values to consecutive dates starting at start.
func series(start string, values ...float64) map[string]float64 {
	d, err := time.Parse(analysis.DateLayout, start)
	if err != nil {
		panic(err)
	}
	out := make(map[string]float64, len(values))
	for i, v := range values {
		out[d.AddDate(0, 0, i).Format(analysis.DateLayout)] = v
	}
	return out
}

func TestToolSet_Names(t *testing.T) {
	set := newTestSet(&fakeFetcher{})
	assert.Equal(t, ToolSetName, set.Name())
	assert.NoError(t, set.Close())

	var names []string
	for _, tl := range set.Tools(context.Background()) {
		names = append(names, tl.Declaration().Name)
		assert.NotEmpty(t, tl.Declaration().Description)
		assert.NotNil(t, tl.Declaration().InputSchema)
	}
	assert.Equal(t, []string{
		"whoop_get_overview",
		"whoop_get_recovery",
		"whoop_get_strain",
		"whoop_get_sleep",
		"whoop_weekly_comparison",
		"whoop_monthly_summary",
		"whoop_weekday_patterns",
		"whoop_trends",
	}, names)
}

func TestToolSet_InputSchemas(t *testing.T) {
	set := newTestSet(&fakeFetcher{})
	monthly, ok := tool.Find(set.Tools(context.Background()), "whoop_monthly_summary")
	require.True(t, ok)

	schema := monthly.Declaration().InputSchema
	assert.Empty(t, schema.Required)
	assert.Equal(t, int64(30), schema.Properties["days"].Default)
	assert.Equal(t, "date", schema.Properties["end_date"].Format)
	assert.Equal(t, "days?(=30) end_date?", monthly.Declaration().Usage())
}

func TestOverview(t *testing.T) {
	body, err := os.ReadFile("../../whoop/testdata/home.json")
	require.NoError(t, err)
	payload, err := api.DecodePayload(body)
	require.NoError(t, err)
	f := &fakeFetcher{home: payload}

	out, err := call[report.DailyOverview](t, f, "whoop_get_overview", `{}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-03-15"}, f.calls)
	assert.Equal(t, "2024-03-15", out.Date)
	require.NotNil(t, out.Metrics.RecoveryScore)
	assert.Equal(t, 71.0, *out.Metrics.RecoveryScore)
	require.NotNil(t, out.Metrics.SleepHours)
	assert.Equal(t, 7.5, *out.Metrics.SleepHours)
	require.NotNil(t, out.SleepPerformance)
	assert.Equal(t, 88.0, *out.SleepPerformance)
	assert.Len(t, out.Activities, 2)
}

func TestOverview_FetchErrorFailsCall(t *testing.T) {
	f := &fakeFetcher{fail: map[string]error{"2024-03-10": api.ErrUnauthorized}}

	_, err := call[report.DailyOverview](t, f, "whoop_get_overview", `{"date":"2024-03-10"}`)

	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, err.Error(), "2024-03-10")
}

func TestDeepDive(t *testing.T) {
	hr := analysis.Float(148)
	strain := &api.Payload{Sections: []api.Section{{Items: []api.Item{
		{Type: api.TypeScoreGauge, Widget: api.ScoreGauge{ID: "STRAIN", Score: analysis.Float(12.4), Display: "12.4"}},
		{Type: api.TypeContributorsTile, Widget: api.ContributorsTile{Contributors: []api.Contributor{
			{ID: "HR_ZONES", Title: "Heart rate zones", Value: analysis.Float(42), Unit: "min"},
		}}},
		{Type: api.TypeActivity, Widget: api.Activity{ID: "a1", Name: "Running", AvgHeartRate: hr}},
	}}}}
	f := &fakeFetcher{deep: map[api.DeepDiveKind]*api.Payload{
		api.DeepDiveStrain:   strain,
		api.DeepDiveRecovery: strain,
	}}

	out, err := call[report.DeepDive](t, f, "whoop_get_strain", `{"date":"2024-03-12"}`)
	require.NoError(t, err)
	assert.Equal(t, api.DeepDiveStrain, out.Kind)
	assert.Equal(t, "2024-03-12", out.Date)
	require.NotNil(t, out.Score)
	assert.Equal(t, 12.4, *out.Score)
	assert.Equal(t, "12.4", out.ScoreDisplay)
	assert.Len(t, out.Contributors, 1)
	assert.Len(t, out.Activities, 1)

	// Recovery looks for its own gauge and never carries activities.
	out, err = call[report.DeepDive](t, f, "whoop_get_recovery", `{"date":"2024-03-12"}`)
	require.NoError(t, err)
	assert.Nil(t, out.Score)
	assert.Empty(t, out.Activities)
	assert.Equal(t, []string{"strain@2024-03-12", "recovery@2024-03-12"}, f.calls)
}

func TestDeepDive_NotFound(t *testing.T) {
	f := &fakeFetcher{fail: map[string]error{"2024-03-15": api.ErrNotFound}}
	_, err := call[report.DeepDive](t, f, "whoop_get_sleep", `{}`)
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestWeeklyComparison(t *testing.T) {
	f := &fakeFetcher{recovery: series("2024-03-01",
		60, 62, 58, 65, 61, 59, 63,
		70, 72, 68, 75, 71, 69, 73,
	)}

	out, err := call[report.WeeklyComparison](t, f, "whoop_weekly_comparison", `{"end_date":"2024-03-14"}`)
	require.NoError(t, err)

	assert.Len(t, f.calls, 14)
	assert.Equal(t, "2024-03-01", f.calls[0])
	assert.Equal(t, "2024-03-14", f.calls[13])
	assert.Equal(t, report.Period{Start: "2024-03-08", End: "2024-03-14"}, out.ThisWeek.Period)
	assert.Equal(t, report.Period{Start: "2024-03-01", End: "2024-03-07"}, out.LastWeek.Period)
	require.NotNil(t, out.ThisWeek.Stats.AvgRecovery)
	assert.Equal(t, 71.0, *out.ThisWeek.Stats.AvgRecovery)
	assert.Equal(t, 61.0, *out.LastWeek.Stats.AvgRecovery)
	require.NotNil(t, out.Changes.RecoveryChange)
	assert.Equal(t, 16, *out.Changes.RecoveryChange)
	assert.Nil(t, out.Changes.StrainChange)
	assert.Equal(t, 5, out.ThisWeek.Stats.DaysAboveThreshold)
	assert.Equal(t, 0, out.LastWeek.Stats.DaysAboveThreshold)
	assert.Equal(t, 70.0, out.ThisWeek.Stats.Threshold)
	assert.NotNil(t, out.Insights)
	assert.NotNil(t, out.Recommendations)
}

func TestMonthlySummary_BestAndWorst(t *testing.T) {
	f := &fakeFetcher{recovery: map[string]float64{"2024-01-01": 80, "2024-01-02": 45}}

	out, err := call[report.MonthlySummary](t, f, "whoop_monthly_summary", `{"end_date":"2024-01-02","days":2}`)
	require.NoError(t, err)

	assert.Equal(t, &analysis.DayValue{Date: "2024-01-01", Value: 80}, out.BestRecoveryDay)
	assert.Equal(t, &analysis.DayValue{Date: "2024-01-02", Value: 45}, out.WorstRecoveryDay)
	assert.Nil(t, out.PeakStrainDay)
	assert.Equal(t, analysis.Zones{Green: 1, Yellow: 1}, out.Zones)
	assert.Equal(t, report.Period{Start: "2024-01-01", End: "2024-01-02"}, out.Period)
}

func TestMonthlySummary_MissingDayIsAGap(t *testing.T) {
	f := &fakeFetcher{
		recovery: series("2024-02-15", make([]float64, 30)...),
		fail:     map[string]error{"2024-03-01": errors.New("backend unavailable")},
	}

	out, err := call[report.MonthlySummary](t, f, "whoop_monthly_summary", `{}`)
	require.NoError(t, err)

	assert.Len(t, f.calls, 30)
	assert.Equal(t, "2024-03-15", f.calls[29])
	assert.Equal(t, 30, out.Stats.Days)
	assert.Equal(t, 29, out.Stats.DaysWithData)
	assert.Equal(t, 29, out.Zones.Red)
}

func TestWeekdayPatterns(t *testing.T) {
	recovery := map[string]float64{}
	strain := map[string]float64{}
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC) // Monday
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		date := d.Format(analysis.DateLayout)
		switch d.Weekday() {
		case time.Monday:
			recovery[date] = 80
		case time.Sunday:
			recovery[date] = 40
		default:
			recovery[date] = 60
		}
		strain[date] = 10
		if d.Weekday() == time.Saturday {
			strain[date] = 15
		}
	}
	f := &fakeFetcher{recovery: recovery, strain: strain}

	out, err := call[report.WeekdayPatterns](t, f, "whoop_weekday_patterns", `{"end_date":"2024-03-17","days":14}`)
	require.NoError(t, err)

	require.Len(t, out.Weekdays, 7)
	assert.Equal(t, "Monday", out.Weekdays[0].Weekday)
	assert.Equal(t, 2, out.Weekdays[0].Stats.Days)
	assert.Equal(t, &analysis.WeekdayValue{Weekday: "Monday", Value: 80}, out.BestRecoveryWeekday)
	assert.Equal(t, &analysis.WeekdayValue{Weekday: "Sunday", Value: 40}, out.WorstRecoveryWeekday)
	assert.Equal(t, &analysis.WeekdayValue{Weekday: "Saturday", Value: 15}, out.HighestStrainWeekday)
	assert.Contains(t, out.Insights, "Recovery peaks on Monday (80%) and bottoms out on Sunday (40%).")
	assert.Contains(t, out.Insights, "Strain is highest on Saturday (15.0 on average).")
}

func TestTrends_ExplicitRange(t *testing.T) {
	f := &fakeFetcher{
		recovery: series("2024-03-01", 50, 50, 50, 50, 50, 60, 60, 60, 60, 60),
		strain:   series("2024-03-01", 10, 10, 10, 10, 10, 10, 10, 10, 10, 10),
	}

	out, err := call[report.TrendReport](t, f, "whoop_trends", `{"start_date":"2024-03-01","end_date":"2024-03-10"}`)
	require.NoError(t, err)

	assert.Equal(t, report.Period{Start: "2024-03-01", End: "2024-03-10"}, out.Period)
	assert.Equal(t, report.Period{Start: "2024-03-01", End: "2024-03-05"}, out.FirstHalf.Period)
	assert.Equal(t, report.Period{Start: "2024-03-06", End: "2024-03-10"}, out.SecondHalf.Period)
	assert.Equal(t, analysis.TrendImproving, out.Trends.Recovery)
	assert.Equal(t, analysis.TrendStable, out.Trends.Strain)
	assert.Equal(t, analysis.TrendInsufficientData, out.Trends.Sleep)
	require.NotNil(t, out.Changes.RecoveryChange)
	assert.Equal(t, 20, *out.Changes.RecoveryChange)
	assert.Equal(t, analysis.BalanceBalanced, out.Balance.Status)
}

func TestTrends_DefaultWindowGivesExtraDayToSecondHalf(t *testing.T) {
	f := &fakeFetcher{}

	out, err := call[report.TrendReport](t, f, "whoop_trends", `{"days":7}`)
	require.NoError(t, err)

	assert.Len(t, f.calls, 7)
	assert.Equal(t, 3, out.FirstHalf.Stats.Days)
	assert.Equal(t, 4, out.SecondHalf.Stats.Days)
	assert.Equal(t, "2024-03-15", out.SecondHalf.End)
	assert.Equal(t, analysis.TrendInsufficientData, out.Trends.Recovery)
}

func TestInputErrors(t *testing.T) {
	f := &fakeFetcher{}
	var verr *function.ValidationError

	_, err := call[report.MonthlySummary](t, f, "whoop_monthly_summary", `{"days":91}`)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "days")

	_, err = call[report.DailyOverview](t, f, "whoop_get_overview", `{"date":"15-03-2024"}`)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "date")

	_, err = call[report.TrendReport](t, f, "whoop_trends", `{"start_date":"2024-03-10","end_date":"2024-03-01"}`)
	assert.ErrorIs(t, err, function.ErrInvalidArguments)

	_, err = call[report.TrendReport](t, f, "whoop_trends", `{"start_date":"2023-01-01","end_date":"2024-03-01"}`)
	assert.ErrorIs(t, err, function.ErrInvalidArguments)
	assert.Contains(t, err.Error(), "at most 90")

	assert.Empty(t, f.calls)
}

func TestCancellationFailsMultiDayCall(t *testing.T) {
	f := &fakeFetcher{}
	set := newTestSet(f)
	ct, ok := tool.Find(set.Tools(context.Background()), "whoop_monthly_summary")
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ct.Call(ctx, nil)

	assert.ErrorIs(t, err, context.Canceled)
}
