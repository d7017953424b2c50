package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationDefinitive RegistrationStatus = "definitive"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationRemoved    RegistrationStatus = "removed"
)

// Active reports whether the registration still counts as an entry.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationPending || s == RegistrationDefinitive
}

// Registration is one athlete's entry into one event.
// Price is the amount of the price line the registration is charged on.
type Registration struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	LineID      uuid.UUID          `json:"lineId" db:"line_id"`
	OrderID     uuid.UUID          `json:"orderId" db:"order_id"`
	AthleteID   uuid.UUID          `json:"athleteId" db:"athlete_id"`
	ClubID      *uuid.UUID         `json:"clubId,omitempty" db:"club_id"`
	EventID     uuid.UUID          `json:"eventId" db:"event_id"`
	EventClubID uuid.UUID          `json:"eventClubId" db:"event_club_id"`
	EventTitle  string             `json:"eventTitle" db:"event_title"`
	Status      RegistrationStatus `json:"status" db:"status"`
	Price       decimal.Decimal    `json:"price" db:"price"`
	DiscountID  *uuid.UUID         `json:"discountId,omitempty" db:"discount_id"`
}
