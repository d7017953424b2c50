package catalog

import (
	"context"
	"fmt"

	"fedkart/internal/repository"

	"github.com/rs/zerolog"
)

// Importer loads a catalogue, validates it and stores it.
type Importer struct {
	loader Loader
	repo   repository.DiscountRepository
	logger zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, repo repository.DiscountRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import stores every discount of the catalogue at path and returns how many
// were written. A catalogue with any invalid entry is rejected as a whole.
func (i *Importer) Import(ctx context.Context, path string) (int, error) {
	discounts, err := i.loader.Load(ctx, path)
	if err != nil {
		return 0, err
	}

	if err := validateAll(discounts); err != nil {
		i.logger.Warn().Err(err).Str("path", path).Msg("catalogue rejected")
		return 0, fmt.Errorf("invalid catalogue %s: %w", path, err)
	}

	if err := i.repo.Upsert(ctx, discounts); err != nil {
		return 0, fmt.Errorf("failed to store catalogue %s: %w", path, err)
	}

	i.logger.Info().
		Str("path", path).
		Int("discounts", len(discounts)).
		Msg("catalogue imported")

	return len(discounts), nil
}
