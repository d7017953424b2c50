package repository

import (
	"context"
	"errors"
	"fmt"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// eventRepository implements the EventRepository interface using PostgreSQL.
type eventRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEventRepository creates a new PostgreSQL-backed event repository.
func NewEventRepository(pool *pgxpool.Pool, logger zerolog.Logger) EventRepository {
	return &eventRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "event").Logger(),
	}
}

// GetAll retrieves events with pagination support.
func (r *eventRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Event, error) {
	query := `
		SELECT id, club_id, title, price, starts_at, created_at
		FROM events
		ORDER BY starts_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query events")
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, r.logger)
}

// GetByID retrieves a single event by its ID.
func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, club_id, title, price, starts_at, created_at
		FROM events
		WHERE id = $1
	`

	var e model.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.ClubID, &e.Title, &e.Price, &e.StartsAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("event_id", id.String()).Msg("event not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("event_id", id.String()).Msg("failed to query event")
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	return &e, nil
}

// queryEventsByIDs is shared by the event and cart repositories.
func queryEventsByIDs(ctx context.Context, db Querier, logger zerolog.Logger, ids []uuid.UUID) ([]model.Event, error) {
	if len(ids) == 0 {
		return []model.Event{}, nil
	}

	query := `
		SELECT id, club_id, title, price, starts_at, created_at
		FROM events
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := db.Query(ctx, query, ids)
	if err != nil {
		logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query events by IDs")
		return nil, fmt.Errorf("failed to query events by IDs: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows, logger)
}

func scanEvents(rows pgx.Rows, logger zerolog.Logger) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		err := rows.Scan(&e.ID, &e.ClubID, &e.Title, &e.Price, &e.StartsAt, &e.CreatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan event row")
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating event rows")
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}
