package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"idea-engine/models"

	"go.uber.org/zap"
)

const (
	marketTopCategories = 5
	marketTrendMonths   = 6
)

// CategoryCount ist ein Eintrag der Kategorieverteilung.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// MonthlyGrowth summiert die Erwähnungen aller Topics eines Kalendermonats.
type MonthlyGrowth struct {
	Month  string `json:"month"`
	Period string `json:"period"`
	Growth int    `json:"growth"`
}

// CategoryPainPoints zählt die Pain Points aller Topics einer Kategorie.
type CategoryPainPoints struct {
	Category   string `json:"category"`
	PainPoints int    `json:"painPoints"`
}

// MarketAnalysis ist die Antwort von /api/market-analysis.
type MarketAnalysis struct {
	CategoryDistribution []CategoryCount      `json:"categoryDistribution"`
	GrowthTrends         []MonthlyGrowth      `json:"growthTrends"`
	PainPointsByCategory []CategoryPainPoints `json:"painPointsByCategory"`
}

// MarketAnalysis führt die drei Teilabfragen aus. Schlägt eine fehl, wird kein Teilergebnis geliefert.
// Topics mit ungültigem trend_data oder pain_points werden übersprungen.
func (s *TopicService) MarketAnalysis(ctx context.Context) (*MarketAnalysis, error) {
	distribution, err := s.categoryDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	trends, err := s.growthTrends(ctx)
	if err != nil {
		return nil, fmt.Errorf("growth trends: %w", err)
	}
	painPoints, err := s.painPointsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("pain points by category: %w", err)
	}
	return &MarketAnalysis{
		CategoryDistribution: distribution,
		GrowthTrends:         trends,
		PainPointsByCategory: painPoints,
	}, nil
}

func (s *TopicService) categoryDistribution(ctx context.Context) ([]CategoryCount, error) {
	out := []CategoryCount{}
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Limit(marketTopCategories).
		Scan(&out).Error
	return out, err
}

func (s *TopicService) growthTrends(ctx context.Context) ([]MonthlyGrowth, error) {
	var rows []models.Topic
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select("id", dialectOf(s.DB).jsonArray("trend_data")+" AS trend_data").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := map[string]int{}
	for _, row := range rows {
		points, err := models.DecodeTrend(row.TrendData)
		if err != nil {
			s.Logger.Warn("Skipping topic with invalid trend data", zap.Uint("id", row.ID), zap.Error(err))
			continue
		}
		for _, p := range points {
			if p.Period() == "" {
				continue
			}
			sums[p.Period()] += p.Mentions
		}
	}

	periods := make([]string, 0, len(sums))
	for period := range sums {
		periods = append(periods, period)
	}
	sort.Strings(periods)
	if len(periods) > marketTrendMonths {
		periods = periods[len(periods)-marketTrendMonths:]
	}

	out := make([]MonthlyGrowth, 0, len(periods))
	for _, period := range periods {
		out = append(out, MonthlyGrowth{Month: monthLabel(period), Period: period, Growth: sums[period]})
	}
	return out, nil
}

func (s *TopicService) painPointsByCategory(ctx context.Context) ([]CategoryPainPoints, error) {
	var rows []models.Topic
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select("id", "category", dialectOf(s.DB).jsonArray("pain_points")+" AS pain_points").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := map[string]int{}
	for _, row := range rows {
		mentions, err := models.DecodeMentions(row.PainPoints)
		if err != nil {
			s.Logger.Warn("Skipping topic with invalid pain points", zap.Uint("id", row.ID), zap.Error(err))
			continue
		}
		for _, m := range mentions {
			if m.Text != "" {
				totals[row.Category]++
			}
		}
	}

	out := make([]CategoryPainPoints, 0, len(totals))
	for category, n := range totals {
		out = append(out, CategoryPainPoints{Category: category, PainPoints: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PainPoints != out[j].PainPoints {
			return out[i].PainPoints > out[j].PainPoints
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > marketTopCategories {
		out = out[:marketTopCategories]
	}
	return out, nil
}

// monthLabel turns "2024-01" into "Jan"; anything else is returned unchanged.
func monthLabel(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return period
	}
	return t.Format("Jan")
}
