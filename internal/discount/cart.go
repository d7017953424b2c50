package discount

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
)

type athleteEvent struct {
	athlete uuid.UUID
	event   uuid.UUID
}

// cartIndex is the working set of one resolution run. Registrations are the
// club-linked cart registrations ordered by ID; every other field is derived
// from them and from the athletes' registrations outside the cart.
type cartIndex struct {
	registrations []*model.Registration
	athletes      []uuid.UUID
	clubs         map[uuid.UUID]struct{}
	clubIDs       []uuid.UUID
	athleteClub   map[uuid.UUID]uuid.UUID
	athleteEvents map[uuid.UUID][]uuid.UUID
	otherEvents   map[uuid.UUID][]uuid.UUID
	byAthleteEvt  map[athleteEvent]*model.Registration
}

func newCartIndex() *cartIndex {
	return &cartIndex{
		clubs:         make(map[uuid.UUID]struct{}),
		athleteClub:   make(map[uuid.UUID]uuid.UUID),
		athleteEvents: make(map[uuid.UUID][]uuid.UUID),
		otherEvents:   make(map[uuid.UUID][]uuid.UUID),
		byAthleteEvt:  make(map[athleteEvent]*model.Registration),
	}
}

func (idx *cartIndex) empty() bool {
	return len(idx.registrations) == 0
}

// registrationsOf returns the cart registrations of an athlete in index order.
func (idx *cartIndex) registrationsOf(athleteID uuid.UUID) []*model.Registration {
	var regs []*model.Registration
	for _, eventID := range idx.athleteEvents[athleteID] {
		if reg, ok := idx.byAthleteEvt[athleteEvent{athleteID, eventID}]; ok {
			regs = append(regs, reg)
		}
	}
	return regs
}

// loadCart resolves the cart lines, clears every discount previously assigned
// to them and indexes the result. Registrations whose athlete has no home club
// are cleared too but left out of the index: they can never receive a discount.
func loadCart(ctx context.Context, repo repository.CartRepository, lineIDs []uuid.UUID) (*cartIndex, error) {
	idx := newCartIndex()
	if len(lineIDs) == 0 {
		return idx, nil
	}

	regs, err := repo.GetRegistrationsByLines(ctx, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart registrations: %w", err)
	}

	slices.SortFunc(regs, func(a, b model.Registration) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	// Every cart registration is reset, including those left out below.
	for i := range regs {
		reg := &regs[i]
		if reg.DiscountID != nil {
			if err := repo.SaveDiscount(ctx, reg.ID, nil); err != nil {
				return nil, fmt.Errorf("failed to reset discount of registration %s: %w", reg.ID, err)
			}
			reg.DiscountID = nil
		}
		if reg.ClubID == nil {
			continue
		}
		idx.registrations = append(idx.registrations, reg)
	}

	cartRegIDs := make([]uuid.UUID, 0, len(idx.registrations))
	for _, reg := range idx.registrations {
		cartRegIDs = append(cartRegIDs, reg.ID)

		if _, ok := idx.clubs[reg.EventClubID]; !ok {
			idx.clubs[reg.EventClubID] = struct{}{}
			idx.clubIDs = append(idx.clubIDs, reg.EventClubID)
		}

		if _, ok := idx.athleteClub[reg.AthleteID]; !ok {
			idx.athleteClub[reg.AthleteID] = *reg.ClubID
			idx.athletes = append(idx.athletes, reg.AthleteID)
		}

		key := athleteEvent{reg.AthleteID, reg.EventID}
		if _, dup := idx.byAthleteEvt[key]; dup {
			continue
		}
		idx.byAthleteEvt[key] = reg
		idx.athleteEvents[reg.AthleteID] = append(idx.athleteEvents[reg.AthleteID], reg.EventID)
	}
	slices.SortFunc(idx.clubIDs, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })

	if idx.empty() {
		return idx, nil
	}

	others, err := repo.GetOtherRegistrations(ctx, idx.athletes, cartRegIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load other registrations: %w", err)
	}

	for _, other := range others {
		if !other.Status.Active() || other.DiscountID != nil {
			continue
		}
		if _, inCart := idx.byAthleteEvt[athleteEvent{other.AthleteID, other.EventID}]; inCart {
			continue
		}
		if slices.Contains(idx.otherEvents[other.AthleteID], other.EventID) {
			continue
		}
		idx.otherEvents[other.AthleteID] = append(idx.otherEvents[other.AthleteID], other.EventID)
	}

	return idx, nil
}
