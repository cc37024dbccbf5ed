package services

import (
	"context"

	"github.com/desertthunder/moviedb/internal/models"
)

// Enricher looks up metadata for a movie title.
type Enricher interface {
	// Fetch returns whatever the provider knows about title.
	// Returns [shared.ErrNoData] when nothing usable came back.
	Fetch(ctx context.Context, title string) (*models.Enrichment, error)

	// Name returns the name of the provider (e.g., "OMDb")
	Name() string
}
