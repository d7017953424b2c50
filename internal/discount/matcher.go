package discount

import (
	"bytes"
	"slices"

	"fedkart/internal/model"

	"github.com/google/uuid"
)

// comboOption is a combo discount found feasible for one athlete. Choosing it
// assigns the discount to every registration listed, or to none of them.
type comboOption struct {
	discount      model.Discount
	athleteID     uuid.UUID
	registrations []uuid.UUID
}

// matchResult holds the candidates found for a cart.
//
// candidates only carries personal and club discounts; combo discounts reach
// the optimizer through combos, and comboEligible marks the registrations they
// cover.
type matchResult struct {
	discounts     map[uuid.UUID]model.Discount
	candidates    map[uuid.UUID][]model.Discount
	comboEligible map[uuid.UUID][]uuid.UUID
	combos        []comboOption
}

func (m matchResult) candidateCount() int {
	n := 0
	for _, c := range m.candidates {
		n += len(c)
	}
	return n + len(m.combos)
}

// usable reports whether a discount is well formed enough to ever apply.
// A discount of any kind that lists no event is ignored, as is a personal
// discount without an athlete.
func usable(d model.Discount) bool {
	if !d.Kind.Valid() || d.Percentage < 0 || d.Percentage > 100 {
		return false
	}
	if len(d.EventIDs) == 0 {
		return false
	}
	if d.Kind == model.DiscountPersonal && d.AthleteID == nil {
		return false
	}
	return true
}

// match tags every cart registration with the discounts it could legally
// receive. Discounts are visited in ID order and duplicates are ignored.
func match(idx *cartIndex, discounts []model.Discount) matchResult {
	m := matchResult{
		discounts:     make(map[uuid.UUID]model.Discount),
		candidates:    make(map[uuid.UUID][]model.Discount),
		comboEligible: make(map[uuid.UUID][]uuid.UUID),
	}

	sorted := slices.Clone(discounts)
	slices.SortStableFunc(sorted, func(a, b model.Discount) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	for _, d := range sorted {
		if _, seen := m.discounts[d.ID]; seen {
			continue
		}
		if _, ok := idx.clubs[d.ClubID]; !ok {
			continue
		}
		if !usable(d) {
			continue
		}
		m.discounts[d.ID] = d

		switch d.Kind {
		case model.DiscountPersonal:
			for _, reg := range idx.registrationsOf(*d.AthleteID) {
				m.attach(reg, d)
			}
		case model.DiscountClub:
			for _, athleteID := range idx.athletes {
				if idx.athleteClub[athleteID] != d.ClubID {
					continue
				}
				for _, reg := range idx.registrationsOf(athleteID) {
					m.attach(reg, d)
				}
			}
		case model.DiscountCombo:
			for _, athleteID := range idx.athletes {
				m.matchCombo(idx, athleteID, d)
			}
		}
	}

	return m
}

// applies reports whether d may be granted on reg: the event must be one of
// the discount's events and be organised by the issuing club.
func applies(reg *model.Registration, d model.Discount) bool {
	return reg.EventClubID == d.ClubID && d.Covers(reg.EventID)
}

func (m *matchResult) attach(reg *model.Registration, d model.Discount) {
	if !applies(reg, d) {
		return
	}
	for _, existing := range m.candidates[reg.ID] {
		if existing.ID == d.ID {
			return
		}
	}
	m.candidates[reg.ID] = append(m.candidates[reg.ID], d)
}

// matchCombo checks whether the athlete covers every required event, counting
// both cart events and events they already hold outside the cart.
func (m *matchResult) matchCombo(idx *cartIndex, athleteID uuid.UUID, d model.Discount) {
	held := make(map[uuid.UUID]struct{}, len(idx.athleteEvents[athleteID])+len(idx.otherEvents[athleteID]))
	for _, eventID := range idx.athleteEvents[athleteID] {
		held[eventID] = struct{}{}
	}
	for _, eventID := range idx.otherEvents[athleteID] {
		held[eventID] = struct{}{}
	}
	for _, required := range d.EventIDs {
		if _, ok := held[required]; !ok {
			return
		}
	}

	var covered []uuid.UUID
	for _, reg := range idx.registrationsOf(athleteID) {
		if !applies(reg, d) {
			continue
		}
		covered = append(covered, reg.ID)
		if !slices.Contains(m.comboEligible[reg.ID], d.ID) {
			m.comboEligible[reg.ID] = append(m.comboEligible[reg.ID], d.ID)
		}
	}
	if len(covered) == 0 {
		return
	}

	m.combos = append(m.combos, comboOption{
		discount:      d,
		athleteID:     athleteID,
		registrations: covered,
	})
}
