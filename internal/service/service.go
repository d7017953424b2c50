package service

import (
	"context"

	"fedkart/internal/model"

	"github.com/google/uuid"
)

// EventService defines operations on the event catalogue.
type EventService interface {
	// List retrieves events with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Event, error)

	// GetByID retrieves a single event by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
}

// CartService defines operations on carts and orders. Every mutation runs in
// one transaction holding a row lock on the order and ends with the discounts
// of the cart recalculated.
type CartService interface {
	// CreateCart opens an empty cart.
	CreateCart(ctx context.Context) (*model.OrderResponse, error)

	// GetOrder retrieves an order with its registrations, lines and total.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error)

	// AddItem registers an athlete for an event and charges the event price.
	AddItem(ctx context.Context, orderID uuid.UUID, req *model.AddItemRequest) (*model.OrderResponse, error)

	// RemoveItem takes a registration out of the cart.
	RemoveItem(ctx context.Context, orderID, registrationID uuid.UUID) (*model.OrderResponse, error)

	// Recalculate replaces the cart's discount lines with a fresh resolution.
	Recalculate(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error)

	// Checkout recalculates the cart one last time, confirms its registrations
	// and closes it.
	Checkout(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error)
}
