package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"idea-engine/config"
	"idea-engine/storage"
)

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()
	logging.Info("Starte Backup-Prozess...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}
	if !cfg.BackupConfigured() {
		logging.Fatal("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY und S3_BUCKET müssen gesetzt sein")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := storage.OpenDatabase(cfg)
	if err != nil {
		logging.Fatal("Fehler beim Öffnen der Datenbank", zap.Error(err))
	}
	defer storage.Close(db)

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}

	backuper := storage.NewBackuper(db, s3Client, cfg.S3Endpoint, cfg.S3Bucket, cfg.BackupPrefix, cfg.BackupKeep, logging)
	key, err := backuper.Run(ctx)
	if err != nil {
		logging.Fatal("Backup fehlgeschlagen", zap.Error(err))
	}
	logging.Info("Backup-Prozess erfolgreich abgeschlossen.", zap.String("bucket", cfg.S3Bucket), zap.String("key", key))
}
