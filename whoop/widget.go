//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package whoop

import (
	"encoding/json"
	"fmt"

	"github.com/janaksunil/whoop-mcp/log"
)

// Widget type tags used by the backend's home and deep dive screens.
const (
	TypeScoreGauge       = "SCORE_GAUGE"
	TypeContributorsTile = "CONTRIBUTORS_TILE"
	TypeActivity         = "ACTIVITY"
	TypeKeyStatistic     = "KEY_STATISTIC"
)

// Well known widget ids.
const (
	IDRecovery      = "RECOVERY"
	IDStrain        = "STRAIN"
	IDSleep         = "SLEEP"
	IDHRV           = "HRV"
	IDRestingHR     = "RHR"
	IDCalories      = "CALORIES"
	IDSleepDuration = "SLEEP_DURATION"
)

// Payload is a screen returned by the backend: sections of items, each item
// a typed widget.
type Payload struct {
	Date     string    `json:"date,omitempty"`
	Sections []Section `json:"sections"`
}

// Section groups widgets.
type Section struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Items []Item `json:"items"`
}

// Item wraps one widget. Its Widget is decoded from the raw content
// according to the type tag.
type Item struct {
	Type   string
	Widget Widget
}

// Widget is implemented by every widget variant.
type Widget interface {
	widgetType() string
}

// ScoreGauge is a headline score such as recovery percent or day strain.
type ScoreGauge struct {
	ID      string   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Score   *float64 `json:"score"`
	Max     *float64 `json:"max,omitempty"`
	Display string   `json:"display,omitempty"`
}

// ContributorsTile lists the sub-metrics explaining a composite score.
type ContributorsTile struct {
	ID           string        `json:"id,omitempty"`
	Title        string        `json:"title,omitempty"`
	Contributors []Contributor `json:"metrics"`
}

// Contributor is one sub-metric of a ContributorsTile.
type Contributor struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Value    *float64 `json:"value"`
	Unit     string   `json:"unit,omitempty"`
	Display  string   `json:"display,omitempty"`
	Baseline *float64 `json:"baseline,omitempty"`
	Status   string   `json:"status,omitempty"`
}

// Activity is a recorded workout or other activity.
type Activity struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	SportID         *int     `json:"sport_id,omitempty"`
	Start           string   `json:"start,omitempty"`
	End             string   `json:"end,omitempty"`
	Strain          *float64 `json:"strain"`
	Calories        *float64 `json:"calories"`
	AvgHeartRate    *float64 `json:"average_heart_rate"`
	MaxHeartRate    *float64 `json:"max_heart_rate"`
	DurationMinutes *float64 `json:"duration_minutes"`
}

// KeyStatistic is a single labelled value such as HRV or calories.
type KeyStatistic struct {
	ID       string   `json:"id"`
	Title    string   `json:"title,omitempty"`
	Value    *float64 `json:"value"`
	Unit     string   `json:"unit,omitempty"`
	Display  string   `json:"display,omitempty"`
	Baseline *float64 `json:"baseline,omitempty"`
}

// UnknownWidget keeps the raw content of a type tag this client does not
// model.
type UnknownWidget struct {
	Type    string
	Content json.RawMessage
}

func (ScoreGauge) widgetType() string       { return TypeScoreGauge }
func (ContributorsTile) widgetType() string { return TypeContributorsTile }
func (Activity) widgetType() string         { return TypeActivity }
func (KeyStatistic) widgetType() string     { return TypeKeyStatistic }
func (w UnknownWidget) widgetType() string  { return w.Type }

type rawItem struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// UnmarshalJSON decodes the content into the variant named by the type tag.
// Items without content decode to a zero widget of their variant. Content
// that does not fit its variant is kept as an UnknownWidget, so one off-shape
// item never hides the others.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Type = raw.Type

	var (
		w   Widget
		err error
	)
	switch raw.Type {
	case TypeScoreGauge:
		w, err = decodeContent[ScoreGauge](raw.Content)
	case TypeContributorsTile:
		w, err = decodeContent[ContributorsTile](raw.Content)
	case TypeActivity:
		w, err = decodeContent[Activity](raw.Content)
	case TypeKeyStatistic:
		w, err = decodeContent[KeyStatistic](raw.Content)
	default:
		w = UnknownWidget{Type: raw.Type, Content: raw.Content}
	}
	if err != nil {
		log.Warnf("whoop: keeping %s widget unparsed: %v", raw.Type, err)
		w = UnknownWidget{Type: raw.Type, Content: raw.Content}
	}
	it.Widget = w
	return nil
}

// MarshalJSON writes the item back in its wire shape.
func (it Item) MarshalJSON() ([]byte, error) {
	var content any = it.Widget
	if u, ok := it.Widget.(UnknownWidget); ok {
		content = u.Content
	}
	return json.Marshal(struct {
		Type    string `json:"type"`
		Content any    `json:"content,omitempty"`
	}{Type: it.Type, Content: content})
}

func decodeContent[W Widget](content json.RawMessage) (W, error) {
	var w W
	if len(content) == 0 || string(content) == "null" {
		return w, nil
	}
	err := json.Unmarshal(content, &w)
	return w, err
}

// DecodePayload parses a screen body.
func DecodePayload(body []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return &p, nil
}
