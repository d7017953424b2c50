package discount

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// memRepository is an in-memory CartRepository.
type memRepository struct {
	registrations map[uuid.UUID]*model.Registration
	events        map[uuid.UUID]model.Event
	discounts     []model.Discount
	lines         []model.OrderLine
	saves         []saveCall

	errRegistrations error
	errDiscounts     error
	errSave          error
	errLine          error
}

type saveCall struct {
	registrationID uuid.UUID
	discountID     *uuid.UUID
}

func newMemRepository() *memRepository {
	return &memRepository{
		registrations: make(map[uuid.UUID]*model.Registration),
		events:        make(map[uuid.UUID]model.Event),
	}
}

// event adds an event organised by club.
func (r *memRepository) event(clubID uuid.UUID, title, price string) uuid.UUID {
	id := uuid.New()
	r.events[id] = model.Event{
		ID:       id,
		ClubID:   clubID,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		StartsAt: fixedNow.Add(30 * 24 * time.Hour),
	}
	return id
}

// register adds a registration. A nil club models an athlete without home club.
func (r *memRepository) register(athleteID uuid.UUID, clubID *uuid.UUID, eventID uuid.UUID, status model.RegistrationStatus) *model.Registration {
	reg := &model.Registration{
		ID:        uuid.New(),
		LineID:    uuid.New(),
		OrderID:   uuid.New(),
		AthleteID: athleteID,
		ClubID:    clubID,
		EventID:   eventID,
		Status:    status,
		Price:     r.events[eventID].Price,
	}
	r.registrations[reg.ID] = reg
	return reg
}

func (r *memRepository) addDiscount(d model.Discount) model.Discount {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.ValidUntil.IsZero() {
		d.ValidUntil = fixedNow.Add(24 * time.Hour)
	}
	r.discounts = append(r.discounts, d)
	return d
}

func (r *memRepository) WithTx(pgx.Tx) repository.CartRepository {
	return r
}

func (r *memRepository) sortedRegistrations() []*model.Registration {
	regs := make([]*model.Registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		regs = append(regs, reg)
	}
	slices.SortFunc(regs, func(a, b *model.Registration) int { return bytes.Compare(a.ID[:], b.ID[:]) })
	return regs
}

func (r *memRepository) withEvent(reg model.Registration) model.Registration {
	e := r.events[reg.EventID]
	reg.EventClubID = e.ClubID
	reg.EventTitle = e.Title
	return reg
}

func (r *memRepository) GetRegistrationsByLines(_ context.Context, lineIDs []uuid.UUID) ([]model.Registration, error) {
	if r.errRegistrations != nil {
		return nil, r.errRegistrations
	}
	var out []model.Registration
	for _, reg := range r.sortedRegistrations() {
		if slices.Contains(lineIDs, reg.LineID) && reg.Status.Active() {
			out = append(out, r.withEvent(*reg))
		}
	}
	return out, nil
}

func (r *memRepository) GetOtherRegistrations(_ context.Context, athleteIDs, exclude []uuid.UUID) ([]model.Registration, error) {
	var out []model.Registration
	for _, reg := range r.sortedRegistrations() {
		if !slices.Contains(athleteIDs, reg.AthleteID) || slices.Contains(exclude, reg.ID) {
			continue
		}
		if !reg.Status.Active() || reg.DiscountID != nil {
			continue
		}
		out = append(out, r.withEvent(*reg))
	}
	return out, nil
}

func (r *memRepository) GetActiveDiscounts(_ context.Context, clubIDs []uuid.UUID, at time.Time) ([]model.Discount, error) {
	if r.errDiscounts != nil {
		return nil, r.errDiscounts
	}
	var out []model.Discount
	for _, d := range r.discounts {
		if slices.Contains(clubIDs, d.ClubID) && !d.ValidUntil.Before(at) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memRepository) GetEvents(_ context.Context, ids []uuid.UUID) ([]model.Event, error) {
	var out []model.Event
	for _, id := range ids {
		if e, ok := r.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRepository) SaveDiscount(_ context.Context, registrationID uuid.UUID, discountID *uuid.UUID) error {
	if r.errSave != nil {
		return r.errSave
	}
	reg, ok := r.registrations[registrationID]
	if !ok {
		return fmt.Errorf("registration %s not found", registrationID)
	}
	var stored *uuid.UUID
	if discountID != nil {
		id := *discountID
		stored = &id
	}
	reg.DiscountID = stored
	r.saves = append(r.saves, saveCall{registrationID: registrationID, discountID: stored})
	return nil
}

func (r *memRepository) CreateOrderLine(_ context.Context, line *model.OrderLine) error {
	if r.errLine != nil {
		return r.errLine
	}
	r.lines = append(r.lines, *line)
	return nil
}

// cartLines returns the price line IDs of the given registrations.
func cartLines(regs ...*model.Registration) []uuid.UUID {
	ids := make([]uuid.UUID, len(regs))
	for i, reg := range regs {
		ids[i] = reg.LineID
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
