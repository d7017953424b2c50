package repository

import (
	"context"
	"fmt"
	"time"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	db     Querier
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		db:     pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// WithTx returns a repository that runs every statement inside tx.
func (r *cartRepository) WithTx(tx pgx.Tx) CartRepository {
	return &cartRepository{
		db:     tx,
		logger: r.logger,
	}
}

// GetRegistrationsByLines resolves price line IDs to their active registrations.
func (r *cartRepository) GetRegistrationsByLines(ctx context.Context, lineIDs []uuid.UUID) ([]model.Registration, error) {
	if len(lineIDs) == 0 {
		return []model.Registration{}, nil
	}

	query := `
		SELECT r.id, r.line_id, r.order_id, r.athlete_id, a.club_id, r.event_id,
		       e.club_id, e.title, r.status, l.amount, r.discount_id
		FROM registrations r
		JOIN order_lines l ON l.id = r.line_id
		JOIN athletes a ON a.id = r.athlete_id
		JOIN events e ON e.id = r.event_id
		WHERE r.line_id = ANY($1)
		  AND r.status IN ('pending', 'definitive')
		ORDER BY r.id
	`

	rows, err := r.db.Query(ctx, query, lineIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(lineIDs)).Msg("failed to query cart registrations")
		return nil, fmt.Errorf("failed to query cart registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		err := rows.Scan(
			&reg.ID,
			&reg.LineID,
			&reg.OrderID,
			&reg.AthleteID,
			&reg.ClubID,
			&reg.EventID,
			&reg.EventClubID,
			&reg.EventTitle,
			&reg.Status,
			&reg.Price,
			&reg.DiscountID,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan registration row")
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating registration rows")
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

// GetOtherRegistrations returns the active, discount-free registrations of the
// given athletes outside of exclude. Only identity fields are populated.
func (r *cartRepository) GetOtherRegistrations(ctx context.Context, athleteIDs, exclude []uuid.UUID) ([]model.Registration, error) {
	if len(athleteIDs) == 0 {
		return []model.Registration{}, nil
	}
	if exclude == nil {
		exclude = []uuid.UUID{}
	}

	query := `
		SELECT r.id, r.order_id, r.athlete_id, r.event_id, e.club_id, e.title, r.status
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.athlete_id = ANY($1)
		  AND NOT (r.id = ANY($2))
		  AND r.status IN ('pending', 'definitive')
		  AND r.discount_id IS NULL
		ORDER BY r.id
	`

	rows, err := r.db.Query(ctx, query, athleteIDs, exclude)
	if err != nil {
		r.logger.Error().Err(err).Int("athletes", len(athleteIDs)).Msg("failed to query other registrations")
		return nil, fmt.Errorf("failed to query other registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		err := rows.Scan(
			&reg.ID,
			&reg.OrderID,
			&reg.AthleteID,
			&reg.EventID,
			&reg.EventClubID,
			&reg.EventTitle,
			&reg.Status,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan registration row")
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating registration rows")
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

// GetActiveDiscounts returns the discounts of the given clubs valid at the given time.
func (r *cartRepository) GetActiveDiscounts(ctx context.Context, clubIDs []uuid.UUID, at time.Time) ([]model.Discount, error) {
	if len(clubIDs) == 0 {
		return []model.Discount{}, nil
	}

	query := `
		SELECT id, kind, percentage, club_id, valid_until, athlete_id, event_ids
		FROM discounts
		WHERE club_id = ANY($1)
		  AND valid_until >= $2
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, clubIDs, at)
	if err != nil {
		r.logger.Error().Err(err).Int("clubs", len(clubIDs)).Msg("failed to query discounts")
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []model.Discount
	for rows.Next() {
		var d model.Discount
		err := rows.Scan(&d.ID, &d.Kind, &d.Percentage, &d.ClubID, &d.ValidUntil, &d.AthleteID, &d.EventIDs)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discount row")
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating discount rows")
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return discounts, nil
}

// GetEvents retrieves multiple events by their IDs.
func (r *cartRepository) GetEvents(ctx context.Context, ids []uuid.UUID) ([]model.Event, error) {
	return queryEventsByIDs(ctx, r.db, r.logger, ids)
}

// SaveDiscount sets or clears the discount of a registration.
func (r *cartRepository) SaveDiscount(ctx context.Context, registrationID uuid.UUID, discountID *uuid.UUID) error {
	query := `UPDATE registrations SET discount_id = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, registrationID, discountID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("registration_id", registrationID.String()).
			Msg("failed to save registration discount")
		return fmt.Errorf("failed to save registration discount: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to save registration discount: registration %s not found", registrationID)
	}

	return nil
}

// CreateOrderLine inserts an order line.
func (r *cartRepository) CreateOrderLine(ctx context.Context, line *model.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, kind, description, amount, club_id, discount_id, reasons, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	reasons := line.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		line.ID,
		line.OrderID,
		line.Kind,
		line.Description,
		line.Amount,
		line.ClubID,
		line.DiscountID,
		reasons,
		line.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("line_id", line.ID.String()).
			Str("kind", string(line.Kind)).
			Msg("failed to create order line")
		return fmt.Errorf("failed to create order line: %w", err)
	}

	r.logger.Debug().
		Str("line_id", line.ID.String()).
		Str("amount", line.Amount.String()).
		Msg("order line created successfully")

	return nil
}
