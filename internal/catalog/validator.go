package catalog

import (
	"fmt"

	"fedkart/internal/model"

	"github.com/google/uuid"
)

// Validate checks a single discount definition. Failures wrap
// model.ErrInvalidDiscount.
func Validate(d model.Discount) error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", model.ErrInvalidDiscount)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("%w: discount %s has unknown kind %q", model.ErrInvalidDiscount, d.ID, d.Kind)
	}
	if d.Percentage < 0 || d.Percentage > 100 {
		return fmt.Errorf("%w: discount %s percentage %d outside 0-100", model.ErrInvalidDiscount, d.ID, d.Percentage)
	}
	if d.ClubID == uuid.Nil {
		return fmt.Errorf("%w: discount %s has no club", model.ErrInvalidDiscount, d.ID)
	}
	if d.ValidUntil.IsZero() {
		return fmt.Errorf("%w: discount %s has no valid_until", model.ErrInvalidDiscount, d.ID)
	}
	if len(d.EventIDs) == 0 {
		return fmt.Errorf("%w: discount %s lists no events", model.ErrInvalidDiscount, d.ID)
	}

	switch d.Kind {
	case model.DiscountPersonal:
		if d.AthleteID == nil {
			return fmt.Errorf("%w: personal discount %s has no athlete", model.ErrInvalidDiscount, d.ID)
		}
	default:
		if d.AthleteID != nil {
			return fmt.Errorf("%w: %s discount %s must not name an athlete", model.ErrInvalidDiscount, d.Kind, d.ID)
		}
	}

	return nil
}

// validateAll checks every discount and rejects duplicate IDs.
func validateAll(discounts []model.Discount) error {
	seen := make(map[uuid.UUID]struct{}, len(discounts))
	for i, d := range discounts {
		if err := Validate(d); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("entry %d: %w: duplicate id %s", i, model.ErrInvalidDiscount, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}
