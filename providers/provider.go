package providers

import (
	"context"

	"idea-engine/models"
)

// Provider ist das Interface, das jede Topic-Quelle (z.B. der Sample-Katalog) implementieren muss.
type Provider interface {
	// Collect liefert die aktuell von der Quelle aggregierten Topics.
	Collect(ctx context.Context) ([]*models.CollectedTopic, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "sample").
	Name() string
}
