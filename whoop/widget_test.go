//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package whoop

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPayload(t *testing.T, name string) *Payload {
	t.Helper()
	body, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	p, err := DecodePayload(body)
	require.NoError(t, err)
	return p
}

func TestDecodePayload_Variants(t *testing.T) {
	p := loadPayload(t, "home.json")

	require.Len(t, p.Sections, 4)
	assert.Equal(t, "2024-03-15", p.Date)

	overview := p.Sections[0].Items
	require.Len(t, overview, 4)
	gauge, ok := overview[0].Widget.(ScoreGauge)
	require.True(t, ok)
	assert.Equal(t, "RECOVERY", gauge.ID)
	require.NotNil(t, gauge.Score)
	assert.Equal(t, 71.0, *gauge.Score)

	unknown, ok := overview[3].Widget.(UnknownWidget)
	require.True(t, ok)
	assert.Equal(t, "PROMO_BANNER", unknown.Type)
	assert.JSONEq(t, `{"headline":"Try WHOOP Coach"}`, string(unknown.Content))

	act, ok := p.Sections[2].Items[0].Widget.(Activity)
	require.True(t, ok)
	require.NotNil(t, act.SportID)
	assert.Equal(t, 0, *act.SportID)
	assert.Equal(t, 148.0, *act.AvgHeartRate)

	tile, ok := p.Sections[3].Items[0].Widget.(ContributorsTile)
	require.True(t, ok)
	assert.Len(t, tile.Contributors, 2)
}

func TestDecodePayload_NullsAndMissingContent(t *testing.T) {
	body := `{"sections":[{"items":[
		{"type":"SCORE_GAUGE","content":{"id":"RECOVERY","score":null}},
		{"type":"KEY_STATISTIC"}
	]}]}`
	p, err := DecodePayload([]byte(body))
	require.NoError(t, err)

	g := p.Sections[0].Items[0].Widget.(ScoreGauge)
	assert.Nil(t, g.Score)
	assert.Equal(t, KeyStatistic{}, p.Sections[0].Items[1].Widget)
}

func TestDecodePayload_MalformedKnownContent(t *testing.T) {
	body := `{"sections":[{"items":[
		{"type":"SCORE_GAUGE","content":{"id":"RECOVERY","score":71}},
		{"type":"ACTIVITY","content":{"id":"run","name":"Running","strain":"high"}},
		{"type":"SCORE_GAUGE","content":{"id":"STRAIN","score":"high"}}
	]}]}`
	p, err := DecodePayload([]byte(body))
	require.NoError(t, err)

	items := p.Sections[0].Items
	require.Len(t, items, 3)
	unknown, ok := items[1].Widget.(UnknownWidget)
	require.True(t, ok)
	assert.Equal(t, TypeActivity, unknown.Type)
	assert.JSONEq(t, `{"id":"run","name":"Running","strain":"high"}`, string(unknown.Content))
	assert.IsType(t, UnknownWidget{}, items[2].Widget)

	rec := ExtractDailyRecord("2024-03-15", p)
	require.NotNil(t, rec.RecoveryScore)
	assert.Equal(t, 71.0, *rec.RecoveryScore)
	assert.Nil(t, rec.Strain)
	assert.Empty(t, Activities(p))
}

func TestDecodePayload_NotJSON(t *testing.T) {
	_, err := DecodePayload([]byte("<html>"))
	assert.Error(t, err)
}

func TestItem_MarshalRoundTrip(t *testing.T) {
	p := loadPayload(t, "home.json")

	out, err := json.Marshal(p)
	require.NoError(t, err)
	again, err := DecodePayload(out)
	require.NoError(t, err)

	assert.Equal(t, p, again)
}
