package services

import (
	"context"
	"errors"
	"strings"

	"idea-engine/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrMissingIdeaFields = errors.New("title, description, and category are required")

// IdeaSubmission ist der Request-Body von /api/ideas/submit.
type IdeaSubmission struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	TargetAudience    string   `json:"target_audience"`
	PainPoints        []string `json:"pain_points"`
	Features          []string `json:"features"`
	CompetitorURLs    []string `json:"competitor_urls"`
	MonetizationModel string   `json:"monetization_model"`
	EstimatedBudget   float64  `json:"estimated_budget" binding:"gte=0"`
	SubmitterEmail    string   `json:"submitter_email"`
}

// IdeaService speichert eingereichte Ideen.
type IdeaService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewIdeaService erstellt einen IdeaService.
func NewIdeaService(db *gorm.DB, logger *zap.Logger) *IdeaService {
	return &IdeaService{DB: db, Logger: logger}
}

// Submit validiert die Pflichtfelder und legt die Idee an. Die Listenfelder werden
// unverändert gespeichert. Gibt die neue ID zurück.
func (s *IdeaService) Submit(ctx context.Context, in IdeaSubmission) (uint, error) {
	idea := models.UserSubmittedIdea{
		Title:             cleanLine(in.Title),
		Description:       cleanBlock(in.Description),
		Category:          cleanLine(in.Category),
		TargetAudience:    cleanLine(in.TargetAudience),
		PainPoints:        stringSlice(in.PainPoints),
		Features:          stringSlice(in.Features),
		CompetitorURLs:    stringSlice(in.CompetitorURLs),
		MonetizationModel: cleanLine(in.MonetizationModel),
		EstimatedBudget:   in.EstimatedBudget,
		SubmitterEmail:    strings.TrimSpace(in.SubmitterEmail),
	}
	if idea.Title == "" || idea.Description == "" || idea.Category == "" {
		return 0, ErrMissingIdeaFields
	}

	if err := s.DB.WithContext(ctx).Create(&idea).Error; err != nil {
		s.Logger.Error("Failed to insert idea", zap.String("title", in.Title), zap.Error(err))
		return 0, err
	}
	s.Logger.Info("Idea submitted", zap.Uint("id", idea.ID), zap.String("category", idea.Category))
	return idea.ID, nil
}

func stringSlice(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
