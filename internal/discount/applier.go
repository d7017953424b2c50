package discount

import (
	"context"
	"fmt"
	"time"

	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// apply persists the winning assignment and creates the discount order lines:
// one per registration for personal and club discounts, one aggregated line
// per combo discount. Lines are created unattached.
func apply(
	ctx context.Context,
	repo repository.CartRepository,
	idx *cartIndex,
	m matchResult,
	best result,
	now time.Time,
) ([]model.OrderLine, error) {
	lines := make([]model.OrderLine, 0, len(best.used))

	comboTotals := make(map[uuid.UUID]decimal.Decimal)
	var comboOrder []uuid.UUID

	for _, reg := range idx.registrations {
		discountID, ok := best.assignment[reg.ID]
		if !ok {
			continue
		}
		d := m.discounts[discountID]

		if err := repo.SaveDiscount(ctx, reg.ID, &d.ID); err != nil {
			return nil, fmt.Errorf("failed to assign discount to registration %s: %w", reg.ID, err)
		}
		reg.DiscountID = &d.ID

		amount := d.AmountFor(reg.Price)

		if d.Kind == model.DiscountCombo {
			if _, ok := comboTotals[d.ID]; !ok {
				comboOrder = append(comboOrder, d.ID)
				comboTotals[d.ID] = decimal.Zero
			}
			comboTotals[d.ID] = comboTotals[d.ID].Add(amount)
			continue
		}

		lines = append(lines, discountLine(d, amount, []string{reg.EventTitle}, now))
	}

	if len(comboOrder) > 0 {
		titles, err := comboTitles(ctx, repo, m, comboOrder)
		if err != nil {
			return nil, err
		}
		for _, id := range comboOrder {
			d := m.discounts[id]
			lines = append(lines, discountLine(d, comboTotals[id], titles[id], now))
		}
	}

	for i := range lines {
		if err := repo.CreateOrderLine(ctx, &lines[i]); err != nil {
			return nil, fmt.Errorf("failed to create discount line: %w", err)
		}
	}

	return lines, nil
}

func discountLine(d model.Discount, amount decimal.Decimal, reasons []string, now time.Time) model.OrderLine {
	clubID := d.ClubID
	discountID := d.ID
	return model.OrderLine{
		ID:          uuid.New(),
		Kind:        model.LineDiscount,
		Description: fmt.Sprintf("%s %d%%", d.Kind.Label(), d.Percentage),
		Amount:      amount.Round(2).Neg(),
		ClubID:      &clubID,
		DiscountID:  &discountID,
		Reasons:     reasons,
		CreatedAt:   now,
	}
}

// comboTitles names every event each combo discount covers, in the order the
// discount lists them.
func comboTitles(ctx context.Context, repo repository.CartRepository, m matchResult, comboIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	var eventIDs []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, id := range comboIDs {
		for _, eventID := range m.discounts[id].EventIDs {
			if _, ok := seen[eventID]; ok {
				continue
			}
			seen[eventID] = struct{}{}
			eventIDs = append(eventIDs, eventID)
		}
	}

	events, err := repo.GetEvents(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load combo events: %w", err)
	}

	byID := make(map[uuid.UUID]string, len(events))
	for _, e := range events {
		byID[e.ID] = e.Title
	}

	titles := make(map[uuid.UUID][]string, len(comboIDs))
	for _, id := range comboIDs {
		for _, eventID := range m.discounts[id].EventIDs {
			if title, ok := byID[eventID]; ok {
				titles[id] = append(titles[id], title)
			}
		}
	}

	return titles, nil
}
