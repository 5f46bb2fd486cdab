package models

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// Mention ist ein extrahiertes Snippet (Pain Point, Solution Request oder App-Idee) mit Häufigkeit.
type Mention struct {
	Text             string   `json:"text"`
	Count            int      `json:"count"`
	Examples         []string `json:"examples"`
	Title            string   `json:"title,omitempty"`
	Description      string   `json:"description,omitempty"`
	Sentiment        *float64 `json:"sentiment,omitempty"`
	FrustrationScore *float64 `json:"frustration_score,omitempty"`
}

// UnmarshalJSON akzeptiert ältere Datensätze, die "mentions" statt "count" speichern.
func (m *Mention) UnmarshalJSON(data []byte) error {
	type plain Mention
	var raw struct {
		plain
		Mentions *int `json:"mentions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Mention(raw.plain)
	if m.Count == 0 && raw.Mentions != nil {
		m.Count = *raw.Mentions
	}
	if m.Examples == nil {
		m.Examples = []string{}
	}
	return nil
}

// TrendPoint ist ein Monatswert der Erwähnungen eines Topics.
type TrendPoint struct {
	Month    string `json:"month"`
	Mentions int    `json:"mentions"`
}

// UnmarshalJSON akzeptiert die Varianten {date, value} und {month, count}.
func (p *TrendPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Month    string `json:"month"`
		Date     string `json:"date"`
		Mentions *int   `json:"mentions"`
		Count    *int   `json:"count"`
		Value    *int   `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Month = raw.Month
	if p.Month == "" {
		p.Month = raw.Date
	}
	switch {
	case raw.Mentions != nil:
		p.Mentions = *raw.Mentions
	case raw.Count != nil:
		p.Mentions = *raw.Count
	case raw.Value != nil:
		p.Mentions = *raw.Value
	default:
		p.Mentions = 0
	}
	return nil
}

// monthLayouts are tried in order when a trend month has to be interpreted as a date.
var monthLayouts = []string{"2006-01-02", "2006-01", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ParseMonth interprets a trend month string.
func ParseMonth(s string) (time.Time, bool) {
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Period returns the YYYY-MM bucket of the point.
func (p TrendPoint) Period() string {
	if len(p.Month) >= 7 {
		return p.Month[:7]
	}
	return p.Month
}

// SortTrend sorts points chronologically; unparseable months sort lexically after parsed ones.
func SortTrend(points []TrendPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		ti, okI := ParseMonth(points[i].Month)
		tj, okJ := ParseMonth(points[j].Month)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI != okJ:
			return okI
		default:
			return points[i].Month < points[j].Month
		}
	})
}

// DecodeMentions dekodiert eine JSON-Array-Spalte. Eine leere Spalte ist ein Fehler.
func DecodeMentions(raw datatypes.JSON) ([]Mention, error) {
	out := []Mention{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Mention{}
	}
	return out, nil
}

// DecodeTrend dekodiert trend_data und sortiert die Punkte nach Monat.
func DecodeTrend(raw datatypes.JSON) ([]TrendPoint, error) {
	out := []TrendPoint{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []TrendPoint{}
	}
	SortTrend(out)
	return out, nil
}

// EncodeJSON serialisiert einen Wert für eine JSON-Spalte.
func EncodeJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
