package repository

import (
	"context"
	"fmt"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// Upsert inserts the discounts in one batch, replacing rows with the same ID.
func (r *discountRepository) Upsert(ctx context.Context, discounts []model.Discount) error {
	if len(discounts) == 0 {
		return nil
	}

	query := `
		INSERT INTO discounts (id, kind, percentage, club_id, valid_until, athlete_id, event_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			percentage = EXCLUDED.percentage,
			club_id = EXCLUDED.club_id,
			valid_until = EXCLUDED.valid_until,
			athlete_id = EXCLUDED.athlete_id,
			event_ids = EXCLUDED.event_ids
	`

	batch := &pgx.Batch{}
	for _, d := range discounts {
		eventIDs := d.EventIDs
		if eventIDs == nil {
			eventIDs = []uuid.UUID{}
		}
		batch.Queue(query, d.ID, d.Kind, d.Percentage, d.ClubID, d.ValidUntil, d.AthleteID, eventIDs)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(discounts); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("discount_id", discounts[i].ID.String()).
				Msg("failed to upsert discount")
			return fmt.Errorf("failed to upsert discount %s: %w", discounts[i].ID, err)
		}
	}

	r.logger.Debug().
		Int("count", len(discounts)).
		Msg("discounts upserted successfully")

	return nil
}
