package services

import (
	"context"

	"idea-engine/models"

	"go.uber.org/zap"
)

// DefaultMinScore ist der Schwellwert, wenn minScore fehlt.
const DefaultMinScore = 70

// Opportunity ist ein Topic mit seinem Gesamtscore.
type Opportunity struct {
	TopicSummary
	OpportunityScore float64 `json:"opportunity_score"`
}

// Opportunities gibt alle Topics mit total_score >= minScore absteigend nach Score zurück.
// Ein leerer category-Wert filtert nicht.
func (s *TopicService) Opportunities(ctx context.Context, minScore float64, category string) ([]Opportunity, error) {
	d := dialectOf(s.DB)
	query := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select(s.summaryColumns()).
		Where(d.totalScore()+" >= ?", minScore)
	if c := normalizeCategory(category); c != "" {
		query = query.Where("category = ?", c)
	}

	var rows []models.Topic
	if err := query.Order(d.totalScore() + " DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, classifyScanError(err)
	}

	out := make([]Opportunity, 0, len(rows))
	for i := range rows {
		summary, err := toSummary(&rows[i])
		if err != nil {
			s.Logger.Error("Failed to decode opportunity", zap.Uint("id", rows[i].ID), zap.Error(err))
			return nil, err
		}
		out = append(out, Opportunity{TopicSummary: summary, OpportunityScore: summary.OpportunityScores.TotalScore})
	}
	return out, nil
}
