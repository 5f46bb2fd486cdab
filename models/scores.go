package models

import (
	"encoding/json"
	"math"

	"gorm.io/datatypes"
)

// OpportunityScores enthält den gewichteten Gesamtscore (0-100) und die Teilscores eines Topics.
type OpportunityScores struct {
	TotalScore        float64  `json:"total_score"`
	MonetizationScore *float64 `json:"monetization_score,omitempty"`
	UrgencyScore      *float64 `json:"urgency_score,omitempty"`
	MarketScore       *float64 `json:"market_score,omitempty"`
	CompetitionScore  *float64 `json:"competition_score,omitempty"`
	EngagementScore   *float64 `json:"engagement_score,omitempty"`
	GrowthScore       *float64 `json:"growth_score,omitempty"`
	PainScore         *float64 `json:"pain_score,omitempty"`
}

// DecodeScores dekodiert die opportunity_scores-Spalte. Leer bedeutet {}.
func DecodeScores(raw datatypes.JSON) (OpportunityScores, error) {
	var s OpportunityScores
	if len(raw) == 0 {
		return s, nil
	}
	err := json.Unmarshal(raw, &s)
	return s, err
}

// ScoreInputs sind die Rohwerte, aus denen ScoreOpportunity die Teilscores berechnet.
type ScoreInputs struct {
	MentionCount     int
	GrowthPercentage float64
	Competition      float64
	Monetization     float64
	Engagement       float64
}

// Gewichte des Gesamtscores.
const (
	marketWeight       = 0.25
	growthWeight       = 0.25
	competitionWeight  = 0.2
	monetizationWeight = 0.15
	engagementWeight   = 0.15
)

// ScoreOpportunity berechnet die Teilscores und den gewichteten Gesamtscore, jeweils auf eine Nachkommastelle gerundet.
func ScoreOpportunity(in ScoreInputs) OpportunityScores {
	market := math.Min(100, float64(in.MentionCount)/25)
	growth := math.Min(100, in.GrowthPercentage*1.2)
	total := market*marketWeight +
		growth*growthWeight +
		in.Competition*competitionWeight +
		in.Monetization*monetizationWeight +
		in.Engagement*engagementWeight

	return OpportunityScores{
		TotalScore:        Round1(total),
		MarketScore:       float64Ptr(Round1(market)),
		GrowthScore:       float64Ptr(Round1(growth)),
		CompetitionScore:  float64Ptr(Round1(in.Competition)),
		MonetizationScore: float64Ptr(Round1(in.Monetization)),
		EngagementScore:   float64Ptr(Round1(in.Engagement)),
	}
}

// Round1 rundet auf eine Nachkommastelle.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func float64Ptr(v float64) *float64 {
	return &v
}
