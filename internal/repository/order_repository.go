package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Msg("order created successfully")

	return nil
}

// LockOrder loads an order with FOR UPDATE so mutations of one cart are serialised.
func (r *orderRepository) LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	var order model.Order
	err := tx.QueryRow(ctx, query, id).Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	return &order, nil
}

// UpdateOrderStatus changes the status of an order.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	_, err := tx.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", string(status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// CreateRegistration inserts a registration.
func (r *orderRepository) CreateRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	query := `
		INSERT INTO registrations (id, line_id, order_id, athlete_id, event_id, status, discount_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(ctx, query, reg.ID, reg.LineID, reg.OrderID, reg.AthleteID, reg.EventID, reg.Status, reg.DiscountID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("registration_id", reg.ID.String()).
			Str("order_id", reg.OrderID.String()).
			Msg("failed to create registration")
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

// HasActiveRegistration reports whether the athlete is already entered in the event.
func (r *orderRepository) HasActiveRegistration(ctx context.Context, tx pgx.Tx, athleteID, eventID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE athlete_id = $1 AND event_id = $2
			  AND status IN ('pending', 'definitive')
		)
	`

	var exists bool
	if err := tx.QueryRow(ctx, query, athleteID, eventID).Scan(&exists); err != nil {
		r.logger.Error().
			Err(err).
			Str("athlete_id", athleteID.String()).
			Str("event_id", eventID.String()).
			Msg("failed to check existing registration")
		return false, fmt.Errorf("failed to check existing registration: %w", err)
	}

	return exists, nil
}

// GetRegistration retrieves a registration of the given order.
func (r *orderRepository) GetRegistration(ctx context.Context, tx pgx.Tx, orderID, registrationID uuid.UUID) (*model.Registration, error) {
	query := `
		SELECT r.id, r.line_id, r.order_id, r.athlete_id, r.event_id, r.status, r.discount_id
		FROM registrations r
		WHERE r.id = $1 AND r.order_id = $2
	`

	var (
		reg    model.Registration
		lineID *uuid.UUID
	)
	err := tx.QueryRow(ctx, query, registrationID, orderID).Scan(
		&reg.ID,
		&lineID,
		&reg.OrderID,
		&reg.AthleteID,
		&reg.EventID,
		&reg.Status,
		&reg.DiscountID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().
			Err(err).
			Str("registration_id", registrationID.String()).
			Msg("failed to query registration")
		return nil, fmt.Errorf("failed to query registration: %w", err)
	}
	if lineID != nil {
		reg.LineID = *lineID
	}

	return &reg, nil
}

// RemoveRegistration marks a registration removed and deletes its price line.
func (r *orderRepository) RemoveRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	query := `
		UPDATE registrations
		SET status = 'removed', discount_id = NULL, line_id = NULL
		WHERE id = $1
	`

	if _, err := tx.Exec(ctx, query, reg.ID); err != nil {
		r.logger.Error().Err(err).Str("registration_id", reg.ID.String()).Msg("failed to remove registration")
		return fmt.Errorf("failed to remove registration: %w", err)
	}

	if reg.LineID != uuid.Nil {
		if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, reg.LineID); err != nil {
			r.logger.Error().Err(err).Str("line_id", reg.LineID.String()).Msg("failed to delete price line")
			return fmt.Errorf("failed to delete price line: %w", err)
		}
	}

	return nil
}

// FinalizeRegistrations marks every pending registration of the order definitive.
func (r *orderRepository) FinalizeRegistrations(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	query := `
		UPDATE registrations SET status = 'definitive'
		WHERE order_id = $1 AND status = 'pending'
	`

	tag, err := tx.Exec(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to finalise registrations")
		return 0, fmt.Errorf("failed to finalise registrations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// GetCartLineIDs returns the price lines of the order that carry an active registration.
func (r *orderRepository) GetCartLineIDs(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT l.id
		FROM order_lines l
		JOIN registrations r ON r.line_id = l.id
		WHERE l.order_id = $1
		  AND l.kind = 'price'
		  AND r.status IN ('pending', 'definitive')
		ORDER BY l.id
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to scan cart lines")
		return nil, fmt.Errorf("failed to scan cart lines: %w", err)
	}

	return ids, nil
}

// DeleteDiscountLines removes the order's discount lines.
func (r *orderRepository) DeleteDiscountLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1 AND kind = 'discount'`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete discount lines")
		return 0, fmt.Errorf("failed to delete discount lines: %w", err)
	}

	return tag.RowsAffected(), nil
}

// AttachLines sets the order of the given lines.
func (r *orderRepository) AttachLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lineIDs []uuid.UUID) error {
	if len(lineIDs) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, `UPDATE order_lines SET order_id = $1 WHERE id = ANY($2)`, orderID, lineIDs)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Int("count", len(lineIDs)).
			Msg("failed to attach order lines")
		return fmt.Errorf("failed to attach order lines: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID along with its registrations and lines.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.Registration, []model.OrderLine, error) {
	orderQuery := `
		SELECT id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	regs, err := r.getRegistrations(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	lines, err := r.getLines(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}

	return &order, regs, lines, nil
}

func (r *orderRepository) getRegistrations(ctx context.Context, orderID uuid.UUID) ([]model.Registration, error) {
	query := `
		SELECT r.id, r.line_id, r.order_id, r.athlete_id, a.club_id, r.event_id,
		       e.club_id, e.title, r.status, COALESCE(l.amount, 0), r.discount_id
		FROM registrations r
		JOIN athletes a ON a.id = r.athlete_id
		JOIN events e ON e.id = r.event_id
		LEFT JOIN order_lines l ON l.id = r.line_id
		WHERE r.order_id = $1
		  AND r.status IN ('pending', 'definitive')
		ORDER BY r.id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order registrations")
		return nil, fmt.Errorf("failed to query order registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var (
			reg    model.Registration
			lineID *uuid.UUID
		)
		err := rows.Scan(
			&reg.ID,
			&lineID,
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
		if lineID != nil {
			reg.LineID = *lineID
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating registration rows")
		return nil, fmt.Errorf("error iterating registrations: %w", err)
	}

	return regs, nil
}

func (r *orderRepository) getLines(ctx context.Context, orderID uuid.UUID) ([]model.OrderLine, error) {
	query := `
		SELECT id, order_id, kind, description, amount, club_id, discount_id, reasons, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY kind DESC, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order lines")
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var line model.OrderLine
		err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.Kind,
			&line.Description,
			&line.Amount,
			&line.ClubID,
			&line.DiscountID,
			&line.Reasons,
			&line.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return lines, nil
}
