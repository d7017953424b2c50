package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderCart       OrderStatus = "cart"
	OrderCheckedOut OrderStatus = "checked_out"
)

// LineKind distinguishes charges from discounts on an order.
type LineKind string

const (
	LinePrice    LineKind = "price"
	LineDiscount LineKind = "discount"
)

// Order represents a cart and, after checkout, the purchase.
type Order struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderLine is a monetary line item. Discount lines carry a negative amount.
// OrderID stays nil until the caller attaches the line to an order.
type OrderLine struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     *uuid.UUID      `json:"orderId,omitempty" db:"order_id"`
	Kind        LineKind        `json:"kind" db:"kind"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	ClubID      *uuid.UUID      `json:"clubId,omitempty" db:"club_id"`
	DiscountID  *uuid.UUID      `json:"discountId,omitempty" db:"discount_id"`
	Reasons     []string        `json:"reasons,omitempty" db:"reasons"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// AddItemRequest represents the request payload for adding an event to a cart.
type AddItemRequest struct {
	AthleteID uuid.UUID `json:"athleteId"`
	EventID   uuid.UUID `json:"eventId"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	Status        OrderStatus     `json:"status"`
	Registrations []Registration  `json:"registrations"`
	Lines         []OrderLine     `json:"lines"`
	Total         decimal.Decimal `json:"total"`
}
