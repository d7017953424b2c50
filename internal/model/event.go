package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event represents a competition organised by a club.
type Event struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	ClubID    uuid.UUID       `json:"clubId" db:"club_id"`
	Title     string          `json:"title" db:"title"`
	Price     decimal.Decimal `json:"price" db:"price"`
	StartsAt  time.Time       `json:"startsAt" db:"starts_at"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
