package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountsResolved is published after a cart's discounts were recalculated.
type DiscountsResolved struct {
	OrderID       uuid.UUID       `json:"orderId"`
	DiscountLines int             `json:"discountLines"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	ResolvedAt    time.Time       `json:"resolvedAt"`
}

// OrderCheckedOut is published when a cart becomes a purchase.
type OrderCheckedOut struct {
	OrderID       uuid.UUID       `json:"orderId"`
	Registrations int64           `json:"registrations"`
	Total         decimal.Decimal `json:"total"`
	CheckedOutAt  time.Time       `json:"checkedOutAt"`
}
