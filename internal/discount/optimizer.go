package discount

import (
	"bytes"
	"maps"
	"slices"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// assignment maps a registration ID to the discount granted on it. Values are
// never mutated once built; with returns an extended copy.
type assignment map[uuid.UUID]uuid.UUID

func (a assignment) with(discountID uuid.UUID, registrationIDs ...uuid.UUID) assignment {
	next := make(assignment, len(a)+len(registrationIDs))
	maps.Copy(next, a)
	for _, id := range registrationIDs {
		next[id] = discountID
	}
	return next
}

func (a assignment) free(registrationIDs []uuid.UUID) bool {
	for _, id := range registrationIDs {
		if _, taken := a[id]; taken {
			return false
		}
	}
	return true
}

// discountIDs returns the distinct discounts in use, ordered by ID.
func (a assignment) discountIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a))
	ids := make([]uuid.UUID, 0, len(a))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(x, y uuid.UUID) int { return bytes.Compare(x[:], y[:]) })
	return ids
}

type usedSet map[uuid.UUID]struct{}

func (u usedSet) has(id uuid.UUID) bool {
	_, ok := u[id]
	return ok
}

func (u usedSet) with(id uuid.UUID) usedSet {
	next := make(usedSet, len(u)+1)
	maps.Copy(next, u)
	next[id] = struct{}{}
	return next
}

// result is the best assignment found by the search.
type result struct {
	total      decimal.Decimal
	used       []uuid.UUID
	assignment assignment
}

type optimizer struct {
	registrations []*model.Registration
	match         matchResult
	best          result
}

// optimize runs an exhaustive backtracking search for the assignment with the
// largest total discount value. Combo options are tried first, each applied to
// all of its registrations at once; personal and club candidates then fill the
// registrations left free. A discount is used at most once.
//
// Registrations and discounts are visited in ID order and a new best must be
// strictly greater, so among equal totals the first assignment found wins.
func optimize(registrations []*model.Registration, m matchResult) result {
	o := &optimizer{
		registrations: registrations,
		match:         m,
		best: result{
			total:      decimal.Zero,
			used:       []uuid.UUID{},
			assignment: assignment{},
		},
	}

	o.combo(assignment{}, usedSet{}, 0)

	return o.best
}

func (o *optimizer) combo(a assignment, used usedSet, from int) {
	o.consider(a)

	for i := from; i < len(o.match.combos); i++ {
		opt := o.match.combos[i]
		if used.has(opt.discount.ID) || !a.free(opt.registrations) {
			continue
		}
		o.combo(a.with(opt.discount.ID, opt.registrations...), used.with(opt.discount.ID), i+1)
	}

	o.simple(a, used, 0)
}

func (o *optimizer) simple(a assignment, used usedSet, from int) {
	o.consider(a)

	for i := from; i < len(o.registrations); i++ {
		reg := o.registrations[i]
		if _, taken := a[reg.ID]; taken {
			continue
		}
		for _, d := range o.match.candidates[reg.ID] {
			if used.has(d.ID) {
				continue
			}
			o.simple(a.with(d.ID, reg.ID), used.with(d.ID), i+1)
		}
	}
}

func (o *optimizer) consider(a assignment) {
	total := o.value(a)
	if total.GreaterThan(o.best.total) {
		o.best = result{
			total:      total,
			used:       a.discountIDs(),
			assignment: a,
		}
	}
}

// value is the sum of price x percentage / 100 over the assigned registrations.
func (o *optimizer) value(a assignment) decimal.Decimal {
	total := decimal.Zero
	for _, reg := range o.registrations {
		discountID, ok := a[reg.ID]
		if !ok {
			continue
		}
		total = total.Add(o.match.discounts[discountID].AmountFor(reg.Price))
	}
	return total
}
