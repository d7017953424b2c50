package discount

import (
	"context"
	"testing"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsable(t *testing.T) {
	athlete := uuid.New()
	event := uuid.New()

	tests := []struct {
		name     string
		discount model.Discount
		expected bool
	}{
		{
			name:     "Club discount with events",
			discount: model.Discount{Kind: model.DiscountClub, Percentage: 20, EventIDs: []uuid.UUID{event}},
			expected: true,
		},
		{
			name:     "Personal discount without athlete",
			discount: model.Discount{Kind: model.DiscountPersonal, Percentage: 20, EventIDs: []uuid.UUID{event}},
			expected: false,
		},
		{
			name:     "Personal discount with athlete",
			discount: model.Discount{Kind: model.DiscountPersonal, Percentage: 20, AthleteID: &athlete, EventIDs: []uuid.UUID{event}},
			expected: true,
		},
		{
			name:     "Combo without events",
			discount: model.Discount{Kind: model.DiscountCombo, Percentage: 50},
			expected: false,
		},
		{
			name:     "Club discount without events",
			discount: model.Discount{Kind: model.DiscountClub, Percentage: 20},
			expected: false,
		},
		{
			name:     "Personal discount without events",
			discount: model.Discount{Kind: model.DiscountPersonal, Percentage: 20, AthleteID: &athlete},
			expected: false,
		},
		{
			name:     "Percentage above 100",
			discount: model.Discount{Kind: model.DiscountClub, Percentage: 120, EventIDs: []uuid.UUID{event}},
			expected: false,
		},
		{
			name:     "Negative percentage",
			discount: model.Discount{Kind: model.DiscountClub, Percentage: -5, EventIDs: []uuid.UUID{event}},
			expected: false,
		},
		{
			name:     "Unknown kind",
			discount: model.Discount{Kind: "seasonal", Percentage: 10, EventIDs: []uuid.UUID{event}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, usable(tt.discount))
		})
	}
}

func TestMatch_PersonalOnlyForOwnAthlete(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	anna := uuid.New()
	ben := uuid.New()
	event := repo.event(club, "Open", "30.00")
	annaReg := repo.register(anna, &club, event, model.RegistrationPending)
	benReg := repo.register(ben, &club, event, model.RegistrationPending)

	personal := repo.addDiscount(model.Discount{
		Kind:       model.DiscountPersonal,
		Percentage: 40,
		ClubID:     club,
		AthleteID:  &anna,
		EventIDs:   []uuid.UUID{event},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(annaReg, benReg))
	require.NoError(t, err)

	m := match(idx, repo.discounts)

	require.Len(t, m.candidates[annaReg.ID], 1)
	assert.Equal(t, personal.ID, m.candidates[annaReg.ID][0].ID)
	assert.Empty(t, m.candidates[benReg.ID])
}

func TestMatch_ClubDiscountRequiresHomeClubAndOrganiser(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	rival := uuid.New()
	member := uuid.New()
	guest := uuid.New()
	home := repo.event(club, "Home meet", "30.00")
	away := repo.event(rival, "Away meet", "30.00")
	memberHome := repo.register(member, &club, home, model.RegistrationPending)
	memberAway := repo.register(member, &club, away, model.RegistrationPending)
	guestHome := repo.register(guest, &rival, home, model.RegistrationPending)

	clubDiscount := repo.addDiscount(model.Discount{
		Kind:       model.DiscountClub,
		Percentage: 15,
		ClubID:     club,
		EventIDs:   []uuid.UUID{home, away},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(memberHome, memberAway, guestHome))
	require.NoError(t, err)

	m := match(idx, repo.discounts)

	require.Len(t, m.candidates[memberHome.ID], 1)
	assert.Equal(t, clubDiscount.ID, m.candidates[memberHome.ID][0].ID)
	assert.Empty(t, m.candidates[memberAway.ID], "event organised by another club")
	assert.Empty(t, m.candidates[guestHome.ID], "athlete of another club")
}

func TestMatch_ComboRequiresEveryEvent(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	athlete := uuid.New()
	eventA := repo.event(club, "A", "10.00")
	eventB := repo.event(club, "B", "10.00")
	eventC := repo.event(club, "C", "10.00")
	regA := repo.register(athlete, &club, eventA, model.RegistrationPending)
	regB := repo.register(athlete, &club, eventB, model.RegistrationPending)

	repo.addDiscount(model.Discount{
		Kind:       model.DiscountCombo,
		Percentage: 30,
		ClubID:     club,
		EventIDs:   []uuid.UUID{eventA, eventB, eventC},
	})
	pair := repo.addDiscount(model.Discount{
		Kind:       model.DiscountCombo,
		Percentage: 20,
		ClubID:     club,
		EventIDs:   []uuid.UUID{eventA, eventB},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(regA, regB))
	require.NoError(t, err)

	m := match(idx, repo.discounts)

	require.Len(t, m.combos, 1)
	assert.Equal(t, pair.ID, m.combos[0].discount.ID)
	assert.Equal(t, athlete, m.combos[0].athleteID)
	assert.ElementsMatch(t, []uuid.UUID{regA.ID, regB.ID}, m.combos[0].registrations)
	assert.Equal(t, []uuid.UUID{pair.ID}, m.comboEligible[regA.ID])
	assert.Empty(t, m.candidates[regA.ID], "combo discounts never become simple candidates")
}

func TestMatch_ComboUsesRegistrationsOutsideCart(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	athlete := uuid.New()
	eventA := repo.event(club, "A", "10.00")
	eventB := repo.event(club, "B", "10.00")
	repo.register(athlete, &club, eventA, model.RegistrationDefinitive)
	regB := repo.register(athlete, &club, eventB, model.RegistrationPending)

	repo.addDiscount(model.Discount{
		Kind:       model.DiscountCombo,
		Percentage: 20,
		ClubID:     club,
		EventIDs:   []uuid.UUID{eventA, eventB},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(regB))
	require.NoError(t, err)

	m := match(idx, repo.discounts)

	require.Len(t, m.combos, 1)
	assert.Equal(t, []uuid.UUID{regB.ID}, m.combos[0].registrations)
}

func TestMatch_ComboIgnoresDiscountedOrCancelledOutsideRegistrations(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	athlete := uuid.New()
	eventA := repo.event(club, "A", "10.00")
	eventB := repo.event(club, "B", "10.00")
	eventC := repo.event(club, "C", "10.00")
	discounted := repo.register(athlete, &club, eventA, model.RegistrationDefinitive)
	discounted.DiscountID = ptr(uuid.New())
	repo.register(athlete, &club, eventC, model.RegistrationCancelled)
	regB := repo.register(athlete, &club, eventB, model.RegistrationPending)

	repo.addDiscount(model.Discount{
		Kind:       model.DiscountCombo,
		Percentage: 20,
		ClubID:     club,
		EventIDs:   []uuid.UUID{eventA, eventB},
	})
	repo.addDiscount(model.Discount{
		Kind:       model.DiscountCombo,
		Percentage: 20,
		ClubID:     club,
		EventIDs:   []uuid.UUID{eventB, eventC},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(regB))
	require.NoError(t, err)

	m := match(idx, repo.discounts)

	assert.Empty(t, m.combos)
}

func TestMatch_DiscountOrderAndDuplicates(t *testing.T) {
	repo := newMemRepository()
	club := uuid.New()
	athlete := uuid.New()
	event := repo.event(club, "Open", "30.00")
	reg := repo.register(athlete, &club, event, model.RegistrationPending)

	first := repo.addDiscount(model.Discount{
		Kind: model.DiscountClub, Percentage: 10, ClubID: club, EventIDs: []uuid.UUID{event},
	})
	second := repo.addDiscount(model.Discount{
		Kind: model.DiscountClub, Percentage: 20, ClubID: club, EventIDs: []uuid.UUID{event},
	})

	idx, err := loadCart(context.Background(), repo, cartLines(reg))
	require.NoError(t, err)

	forward := match(idx, []model.Discount{first, second, first})
	backward := match(idx, []model.Discount{second, first})

	require.Len(t, forward.candidates[reg.ID], 2)
	assert.Equal(t, forward.candidates[reg.ID], backward.candidates[reg.ID])
	assert.Len(t, forward.discounts, 2)
}
