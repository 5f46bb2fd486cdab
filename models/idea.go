package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserSubmittedIdea speichert eine über das Formular eingereichte Produktidee.
type UserSubmittedIdea struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Title          string `json:"title" gorm:"not null"`
	Description    string `json:"description" gorm:"type:text;not null"`
	Category       string `json:"category" gorm:"not null;index"`
	TargetAudience string `json:"target_audience"`

	// Als JSON-Text gespeicherte Listen
	PainPoints     datatypes.JSONSlice[string] `json:"pain_points"`
	Features       datatypes.JSONSlice[string] `json:"features"`
	CompetitorURLs datatypes.JSONSlice[string] `json:"competitor_urls" gorm:"column:competitor_urls"`

	MonetizationModel string  `json:"monetization_model"`
	EstimatedBudget   float64 `json:"estimated_budget" gorm:"default:0"`
	SubmitterEmail    string  `json:"submitter_email" gorm:"default:''"`
}

// TableName gibt explizit den Tabellennamen an.
func (UserSubmittedIdea) TableName() string {
	return "user_submitted_ideas"
}
