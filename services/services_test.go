package services

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"idea-engine/config"
	"idea-engine/models"
	"idea-engine/storage"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "services.db")}
	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close(db) })
	return db
}

type topicFixture struct {
	name       string
	category   string
	mentions   int
	growth     float64
	trend      string
	painPoints string
	solutions  string
	ideas      string
	scores     string
}

func insertTopic(t *testing.T, db *gorm.DB, f topicFixture) uint {
	t.Helper()
	orDefault := func(s, def string) datatypes.JSON {
		if s == "" {
			return datatypes.JSON(def)
		}
		return datatypes.JSON(s)
	}
	topic := models.Topic{
		Name:              f.name,
		Category:          f.category,
		MentionCount:      f.mentions,
		GrowthPercentage:  f.growth,
		TrendData:         orDefault(f.trend, "[]"),
		PainPoints:        orDefault(f.painPoints, "[]"),
		SolutionRequests:  orDefault(f.solutions, "[]"),
		AppIdeas:          orDefault(f.ideas, "[]"),
		OpportunityScores: orDefault(f.scores, "{}"),
	}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("insert %s: %v", f.name, err)
	}
	return topic.ID
}

func newTestTopicService(db *gorm.DB) *TopicService {
	return NewTopicService(db, zap.NewNop(), 30)
}

func background() context.Context {
	return context.Background()
}
