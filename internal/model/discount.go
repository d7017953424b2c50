package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountKind selects the eligibility rule of a discount.
type DiscountKind string

const (
	DiscountPersonal DiscountKind = "personal"
	DiscountClub     DiscountKind = "club"
	DiscountCombo    DiscountKind = "combo"
)

// Valid reports whether k is a known discount kind.
func (k DiscountKind) Valid() bool {
	switch k {
	case DiscountPersonal, DiscountClub, DiscountCombo:
		return true
	}
	return false
}

// Label returns the human readable name used on order lines.
func (k DiscountKind) Label() string {
	switch k {
	case DiscountPersonal:
		return "Personal discount"
	case DiscountClub:
		return "Club discount"
	case DiscountCombo:
		return "Combo discount"
	}
	return "Discount"
}

// Discount is a percentage-off pricing rule issued by a club.
//
// EventIDs lists the events the discount applies to. For combo discounts it
// is the required set: every event must be covered by the same athlete.
// AthleteID is only meaningful for personal discounts.
type Discount struct {
	ID         uuid.UUID    `json:"id" yaml:"id" db:"id"`
	Kind       DiscountKind `json:"kind" yaml:"kind" db:"kind"`
	Percentage int          `json:"percentage" yaml:"percentage" db:"percentage"`
	ClubID     uuid.UUID    `json:"clubId" yaml:"club_id" db:"club_id"`
	ValidUntil time.Time    `json:"validUntil" yaml:"valid_until" db:"valid_until"`
	AthleteID  *uuid.UUID   `json:"athleteId,omitempty" yaml:"athlete_id,omitempty" db:"athlete_id"`
	EventIDs   []uuid.UUID  `json:"eventIds" yaml:"event_ids" db:"event_ids"`
}

// Covers reports whether eventID is one of the discount's listed events.
func (d Discount) Covers(eventID uuid.UUID) bool {
	for _, id := range d.EventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// AmountFor returns price x percentage / 100, unrounded.
func (d Discount) AmountFor(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(d.Percentage))).Div(decimal.NewFromInt(100))
}
