package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"idea-engine/config"
	"idea-engine/providers"
	"idea-engine/providers/sample"
	"idea-engine/services"
	"idea-engine/storage"
)

func main() {
	logging, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer storage.Close(db)

	if err := storage.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}

	collector := services.NewCollectService(db, logging, []providers.Provider{sample.NewProvider(cfg, logging)})
	count, err := collector.RunAll(context.Background())
	if err != nil {
		logging.Fatal("Seeding failed", zap.Error(err))
	}
	logging.Info("Sample topics seeded", zap.Int("new_topics", count), zap.String("db_path", cfg.DBPath))
}
