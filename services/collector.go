package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"idea-engine/models"
	"idea-engine/providers"
)

// CollectService kümmert sich um die Orchestrierung des Sammelns über alle Provider.
type CollectService struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Providers []providers.Provider
}

// NewCollectService erstellt eine neue Instanz des CollectService.
func NewCollectService(db *gorm.DB, logger *zap.Logger, providers []providers.Provider) *CollectService {
	return &CollectService{DB: db, Logger: logger, Providers: providers}
}

// RunAll führt alle Provider aus und gibt die Anzahl neu angelegter Topics zurück.
// Fehlerhafte Provider werden protokolliert und übersprungen.
func (c *CollectService) RunAll(ctx context.Context) (int, error) {
	total := 0
	var failed int
	for _, provider := range c.Providers {
		log := c.Logger.With(zap.String("provider", provider.Name()))
		log.Info("Starte Sammeln für Provider.")

		topics, err := provider.Collect(ctx)
		if err != nil {
			log.Error("Provider-Sammlung fehlgeschlagen", zap.Error(err))
			failed++
			continue
		}
		created, err := c.upsert(ctx, topics)
		if err != nil {
			log.Error("Speichern der Topics fehlgeschlagen", zap.Error(err))
			failed++
			continue
		}
		log.Info("Provider abgeschlossen", zap.Int("topics", len(topics)), zap.Int("new_topics", created))
		total += created
	}
	if failed > 0 && failed == len(c.Providers) {
		return total, fmt.Errorf("all %d providers failed", failed)
	}
	return total, nil
}

// upsert schreibt die Topics eines Providers in einer Transaktion, abgeglichen über den Namen.
func (c *CollectService) upsert(ctx context.Context, topics []*models.CollectedTopic) (int, error) {
	created := 0
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, collected := range topics {
			if collected == nil || collected.Name == "" {
				continue
			}
			var existing models.Topic
			err := tx.Select("id", "created_at").Where("name = ?", collected.Name).Order("id").Take(&existing).Error
			switch {
			case err == nil:
				if err := collected.ApplyTo(&existing); err != nil {
					return fmt.Errorf("encode %q: %w", collected.Name, err)
				}
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("update %q: %w", collected.Name, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				var topic models.Topic
				if err := collected.ApplyTo(&topic); err != nil {
					return fmt.Errorf("encode %q: %w", collected.Name, err)
				}
				if err := tx.Create(&topic).Error; err != nil {
					return fmt.Errorf("create %q: %w", collected.Name, err)
				}
				created++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
