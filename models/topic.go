package models

import (
	"time"

	"gorm.io/datatypes"
)

// Topic repräsentiert ein aus Diskussionen extrahiertes Thema mit aggregierten Kennzahlen.
// Die JSON-Spalten bleiben für die Datenbank opaker Text und werden erst in der Anwendung dekodiert.
type Topic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name             string  `json:"name" gorm:"not null;index"`
	Category         string  `json:"category" gorm:"not null;index"`
	MentionCount     int     `json:"mention_count" gorm:"default:0"`
	GrowthPercentage float64 `json:"growth_percentage" gorm:"default:0"`
	AverageBudget    float64 `json:"average_budget" gorm:"default:0"`

	TrendData         datatypes.JSON `json:"trend_data" gorm:"default:'[]'"`
	PainPoints        datatypes.JSON `json:"pain_points" gorm:"default:'[]'"`
	SolutionRequests  datatypes.JSON `json:"solution_requests" gorm:"default:'[]'"`
	AppIdeas          datatypes.JSON `json:"app_ideas" gorm:"default:'[]'"`
	OpportunityScores datatypes.JSON `json:"opportunity_scores" gorm:"default:'{}'"`
}

// TableName gibt explizit den Tabellennamen an.
func (Topic) TableName() string {
	return "reddit_topics"
}

// CollectedTopic ist die typisierte Form eines Topics, wie sie ein Provider liefert.
type CollectedTopic struct {
	Name              string
	Category          string
	MentionCount      int
	GrowthPercentage  float64
	AverageBudget     float64
	TrendData         []TrendPoint
	PainPoints        []Mention
	SolutionRequests  []Mention
	AppIdeas          []Mention
	OpportunityScores OpportunityScores
}

// ApplyTo schreibt die Felder serialisiert in eine Topic-Zeile.
func (c *CollectedTopic) ApplyTo(t *Topic) error {
	t.Name = c.Name
	t.Category = c.Category
	t.MentionCount = c.MentionCount
	t.GrowthPercentage = c.GrowthPercentage
	t.AverageBudget = c.AverageBudget

	columns := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&t.TrendData, nonNilTrend(c.TrendData)},
		{&t.PainPoints, nonNilMentions(c.PainPoints)},
		{&t.SolutionRequests, nonNilMentions(c.SolutionRequests)},
		{&t.AppIdeas, nonNilMentions(c.AppIdeas)},
		{&t.OpportunityScores, c.OpportunityScores},
	}
	for _, col := range columns {
		raw, err := EncodeJSON(col.src)
		if err != nil {
			return err
		}
		*col.dst = raw
	}
	return nil
}

func nonNilTrend(p []TrendPoint) []TrendPoint {
	if p == nil {
		return []TrendPoint{}
	}
	return p
}

func nonNilMentions(m []Mention) []Mention {
	if m == nil {
		return []Mention{}
	}
	for i := range m {
		if m[i].Examples == nil {
			m[i].Examples = []string{}
		}
	}
	return m
}
