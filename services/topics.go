package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idea-engine/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTopicNotFound = errors.New("topic not found")
	// ErrCorruptTopic wird zurückgegeben, wenn eine JSON-Spalte nicht dekodiert werden kann.
	ErrCorruptTopic = errors.New("failed to parse topic data")
)

// DefaultTrendingLimit und MaxTrendingLimit begrenzen /api/topics/trending.
const (
	DefaultTrendingLimit = 5
	MaxTrendingLimit     = 50
)

// TopicSummary ist die Listenform eines Topics.
type TopicSummary struct {
	ID                uint                     `json:"id"`
	Title             string                   `json:"title"`
	Category          string                   `json:"category"`
	GrowthRate        float64                  `json:"growth_rate"`
	MentionCount      int                      `json:"mention_count"`
	LastUpdated       time.Time                `json:"last_updated"`
	TrendData         []models.TrendPoint      `json:"trend_data"`
	OpportunityScores models.OpportunityScores `json:"opportunity_scores"`
}

// TopicDetail enthält zusätzlich alle dekodierten Listen.
type TopicDetail struct {
	TopicSummary
	PainPoints       []models.Mention `json:"pain_points"`
	SolutionRequests []models.Mention `json:"solution_requests"`
	AppIdeas         []models.Mention `json:"app_ideas"`
}

// TrendingTopic ist die kompakte Form für das Dashboard-Widget.
type TrendingTopic struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	GrowthRate float64 `json:"growth_rate"`
}

// DashboardStats sind die Kennzahlen der Übersichtsseite.
type DashboardStats struct {
	TotalTopics       int64   `json:"totalTopics"`
	TrendingTopics    int64   `json:"trendingTopics"`
	TotalCategories   int64   `json:"totalCategories"`
	AverageGrowthRate float64 `json:"averageGrowthRate"`
}

// TopicService beantwortet alle lesenden Topic-Abfragen.
type TopicService struct {
	DB                *gorm.DB
	Logger            *zap.Logger
	TrendingThreshold float64
}

// NewTopicService erstellt einen TopicService.
func NewTopicService(db *gorm.DB, logger *zap.Logger, trendingThreshold float64) *TopicService {
	return &TopicService{DB: db, Logger: logger, TrendingThreshold: trendingThreshold}
}

func (s *TopicService) summaryColumns() []string {
	d := dialectOf(s.DB)
	return []string{
		"id", "name", "category", "growth_percentage", "mention_count", "updated_at",
		d.jsonArray("trend_data") + " AS trend_data",
		d.jsonObject("opportunity_scores") + " AS opportunity_scores",
	}
}

func (s *TopicService) detailColumns() []string {
	d := dialectOf(s.DB)
	return append(s.summaryColumns(),
		d.jsonArray("pain_points")+" AS pain_points",
		d.jsonArray("solution_requests")+" AS solution_requests",
		d.jsonArray("app_ideas")+" AS app_ideas",
	)
}

// List gibt die gefilterten Topics nach mention_count absteigend zurück.
func (s *TopicService) List(ctx context.Context, f TopicFilter) ([]TopicSummary, error) {
	d := dialectOf(s.DB)
	query := s.DB.WithContext(ctx).Model(&models.Topic{}).Select(s.summaryColumns())

	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := likePattern(f.Search)
		if f.DeepSearch {
			query = query.Where(
				"("+d.like("name")+" OR "+d.like("category")+" OR "+
					d.arrayTextMatch("pain_points")+" OR "+
					d.arrayTextMatch("solution_requests")+" OR "+
					d.arrayTextMatch("app_ideas")+")",
				pattern, pattern, pattern, pattern, pattern,
			)
		} else {
			query = query.Where("("+d.like("name")+" OR "+d.like("category")+")", pattern, pattern)
		}
	}

	var rows []models.Topic
	if err := query.Order("mention_count DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, classifyScanError(err)
	}

	out := make([]TopicSummary, 0, len(rows))
	for i := range rows {
		summary, err := toSummary(&rows[i])
		if err != nil {
			s.Logger.Error("Failed to decode topic", zap.Uint("id", rows[i].ID), zap.Error(err))
			return nil, err
		}
		summary.TrendData = f.Timeframe.Trim(summary.TrendData)
		out = append(out, summary)
	}
	return out, nil
}

// Get gibt ein Topic mit allen dekodierten JSON-Spalten zurück.
func (s *TopicService) Get(ctx context.Context, id uint) (*TopicDetail, error) {
	var row models.Topic
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select(s.detailColumns()).
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrTopicNotFound, id)
		}
		return nil, classifyScanError(err)
	}

	summary, err := toSummary(&row)
	if err != nil {
		s.Logger.Error("Failed to decode topic", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	detail := &TopicDetail{TopicSummary: summary}
	for _, col := range []struct {
		name string
		dst  *[]models.Mention
		raw  []byte
	}{
		{"pain_points", &detail.PainPoints, row.PainPoints},
		{"solution_requests", &detail.SolutionRequests, row.SolutionRequests},
		{"app_ideas", &detail.AppIdeas, row.AppIdeas},
	} {
		list, err := models.DecodeMentions(col.raw)
		if err != nil {
			s.Logger.Error("Failed to decode topic column", zap.Uint("id", id), zap.String("column", col.name), zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTopic, col.name, err)
		}
		*col.dst = list
	}
	return detail, nil
}

// Trending gibt die am stärksten wachsenden Topics über dem Schwellwert zurück.
func (s *TopicService) Trending(ctx context.Context, limit int) ([]TrendingTopic, error) {
	var rows []models.Topic
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select("id", "name", "category", "growth_percentage").
		Where("growth_percentage > ?", s.TrendingThreshold).
		Order("growth_percentage DESC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]TrendingTopic, 0, len(rows))
	for _, r := range rows {
		out = append(out, TrendingTopic{ID: r.ID, Title: r.Name, Category: r.Category, GrowthRate: r.GrowthPercentage})
	}
	return out, nil
}

// Stats berechnet die Dashboard-Kennzahlen in einer Aggregat-Abfrage.
func (s *TopicService) Stats(ctx context.Context) (DashboardStats, error) {
	var agg struct {
		TotalTopics       int64
		TrendingTopics    int64
		TotalCategories   int64
		AverageGrowthRate *float64
	}
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Select(`COUNT(DISTINCT id) AS total_topics,
			COUNT(DISTINCT CASE WHEN growth_percentage > ? THEN id END) AS trending_topics,
			COUNT(DISTINCT category) AS total_categories,
			AVG(growth_percentage) AS average_growth_rate`, s.TrendingThreshold).
		Scan(&agg).Error
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{
		TotalTopics:     agg.TotalTopics,
		TrendingTopics:  agg.TrendingTopics,
		TotalCategories: agg.TotalCategories,
	}
	if agg.AverageGrowthRate != nil {
		stats.AverageGrowthRate = models.Round1(*agg.AverageGrowthRate)
	}
	return stats, nil
}

// Categories gibt alle Kategorien alphabetisch zurück.
func (s *TopicService) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Count gibt die Anzahl der Topics zurück.
func (s *TopicService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Topic{}).Count(&n).Error
	return n, err
}

func toSummary(row *models.Topic) (TopicSummary, error) {
	trend, err := models.DecodeTrend(row.TrendData)
	if err != nil {
		return TopicSummary{}, fmt.Errorf("%w: trend_data: %v", ErrCorruptTopic, err)
	}
	scores, err := models.DecodeScores(row.OpportunityScores)
	if err != nil {
		return TopicSummary{}, fmt.Errorf("%w: opportunity_scores: %v", ErrCorruptTopic, err)
	}
	return TopicSummary{
		ID:                row.ID,
		Title:             row.Name,
		Category:          row.Category,
		GrowthRate:        row.GrowthPercentage,
		MentionCount:      row.MentionCount,
		LastUpdated:       row.UpdatedAt,
		TrendData:         trend,
		OpportunityScores: scores,
	}, nil
}

// classifyScanError maps JSON errors raised by SQLite's json functions or by decoding onto ErrCorruptTopic.
func classifyScanError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || isMalformedJSONError(err) {
		return fmt.Errorf("%w: %v", ErrCorruptTopic, err)
	}
	return err
}
