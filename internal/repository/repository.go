package repository

import (
	"context"
	"time"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CartRepository is the persistence surface of the discount engine.
type CartRepository interface {
	// GetRegistrationsByLines resolves price line IDs to their active registrations,
	// including the athlete's home club and the event's organising club.
	GetRegistrationsByLines(ctx context.Context, lineIDs []uuid.UUID) ([]model.Registration, error)

	// GetOtherRegistrations returns the active, discount-free registrations of the
	// given athletes, leaving out the registrations listed in exclude.
	GetOtherRegistrations(ctx context.Context, athleteIDs, exclude []uuid.UUID) ([]model.Registration, error)

	// GetActiveDiscounts returns the discounts issued by the given clubs that are
	// still valid at the given time, ordered by ID.
	GetActiveDiscounts(ctx context.Context, clubIDs []uuid.UUID, at time.Time) ([]model.Discount, error)

	// GetEvents retrieves multiple events by their IDs.
	GetEvents(ctx context.Context, ids []uuid.UUID) ([]model.Event, error)

	// SaveDiscount sets (or clears, when discountID is nil) the discount of a registration.
	SaveDiscount(ctx context.Context, registrationID uuid.UUID, discountID *uuid.UUID) error

	// CreateOrderLine inserts an order line. The line is not attached to any order
	// unless line.OrderID is set.
	CreateOrderLine(ctx context.Context, line *model.OrderLine) error

	// WithTx returns a repository that runs every statement inside tx.
	WithTx(tx pgx.Tx) CartRepository
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// LockOrder loads an order and holds a row lock on it until tx ends.
	// Returns nil when the order does not exist.
	LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// UpdateOrderStatus changes the status of an order.
	UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error

	// CreateRegistration inserts a registration.
	CreateRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error

	// HasActiveRegistration reports whether the athlete already holds an active
	// registration for the event.
	HasActiveRegistration(ctx context.Context, tx pgx.Tx, athleteID, eventID uuid.UUID) (bool, error)

	// GetRegistration retrieves a registration of the given order.
	// Returns nil when it does not belong to the order.
	GetRegistration(ctx context.Context, tx pgx.Tx, orderID, registrationID uuid.UUID) (*model.Registration, error)

	// RemoveRegistration marks a registration removed, clears its discount and
	// deletes its price line.
	RemoveRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error

	// FinalizeRegistrations marks every pending registration of the order definitive.
	FinalizeRegistrations(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)

	// GetCartLineIDs returns the price lines of the order that carry an active registration.
	GetCartLineIDs(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]uuid.UUID, error)

	// DeleteDiscountLines removes the order's discount lines.
	DeleteDiscountLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error)

	// AttachLines sets the order of the given lines.
	AttachLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lineIDs []uuid.UUID) error

	// GetByID retrieves an order with its registrations and lines.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.Registration, []model.OrderLine, error)
}

// EventRepository defines the interface for event data access operations.
type EventRepository interface {
	// GetAll retrieves events with pagination support, ordered by start date.
	GetAll(ctx context.Context, limit, offset int) ([]model.Event, error)

	// GetByID retrieves a single event by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
}

// DiscountRepository stores discount definitions.
type DiscountRepository interface {
	// Upsert inserts the discounts, replacing existing rows with the same ID.
	Upsert(ctx context.Context, discounts []model.Discount) error
}
