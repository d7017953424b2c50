// Package discount resolves the automatic discounts of a cart.
//
// A run loads the cart registrations, matches them against the personal,
// club and combo discounts of the organising clubs, searches for the
// assignment granting the largest total discount and persists it together
// with the discount order lines. A registration carries at most one discount
// and a combo discount covers all of its registrations or none.
package discount

import (
	"context"
	"fmt"
	"time"

	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Resolver resolves the automatic discounts of a cart.
type Resolver interface {
	// Resolve recomputes the discounts of the registrations charged on the given
	// price lines and returns the new, unattached discount order lines. A cart
	// without any applicable discount yields an empty slice.
	Resolve(ctx context.Context, lineIDs []uuid.UUID) ([]model.OrderLine, error)

	// WithTx returns a resolver whose reads and writes run inside tx.
	WithTx(tx pgx.Tx) Resolver
}

// engine implements Resolver on top of a CartRepository.
type engine struct {
	repo   repository.CartRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine creates a new discount engine.
func NewEngine(repo repository.CartRepository, logger zerolog.Logger) Resolver {
	return newEngine(repo, logger, time.Now)
}

func newEngine(repo repository.CartRepository, logger zerolog.Logger, now func() time.Time) *engine {
	return &engine{
		repo:   repo,
		logger: logger.With().Str("component", "discount-engine").Logger(),
		now:    now,
	}
}

// WithTx returns a resolver whose reads and writes run inside tx.
func (e *engine) WithTx(tx pgx.Tx) Resolver {
	return &engine{
		repo:   e.repo.WithTx(tx),
		logger: e.logger,
		now:    e.now,
	}
}

// Resolve runs the pipeline once: load, match, optimize, apply.
func (e *engine) Resolve(ctx context.Context, lineIDs []uuid.UUID) ([]model.OrderLine, error) {
	now := e.now()

	idx, err := loadCart(ctx, e.repo, lineIDs)
	if err != nil {
		e.logger.Error().Err(err).Int("lines", len(lineIDs)).Msg("failed to load cart")
		return nil, err
	}

	if idx.empty() {
		e.logger.Debug().
			Int("lines", len(lineIDs)).
			Msg("no club-linked registrations in cart, no discount possible")
		return []model.OrderLine{}, nil
	}

	discounts, err := e.repo.GetActiveDiscounts(ctx, idx.clubIDs, now)
	if err != nil {
		e.logger.Error().Err(err).Int("clubs", len(idx.clubIDs)).Msg("failed to load discounts")
		return nil, fmt.Errorf("failed to load discounts: %w", err)
	}

	m := match(idx, discounts)
	best := optimize(idx.registrations, m)

	e.logger.Debug().
		Int("registrations", len(idx.registrations)).
		Int("discounts", len(discounts)).
		Int("candidates", m.candidateCount()).
		Int("combo_options", len(m.combos)).
		Str("best_total", best.total.String()).
		Int("discounts_used", len(best.used)).
		Msg("discount search completed")

	if len(best.assignment) == 0 {
		return []model.OrderLine{}, nil
	}

	lines, err := apply(ctx, e.repo, idx, m, best, now)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to apply discounts")
		return nil, err
	}

	e.logger.Info().
		Int("registrations", len(idx.registrations)).
		Int("lines", len(lines)).
		Str("total_discount", best.total.Round(2).String()).
		Msg("discounts resolved")

	return lines, nil
}
