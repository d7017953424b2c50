package service

import (
	"context"
	"fmt"
	"time"

	"fedkart/internal/discount"
	"fedkart/internal/events"
	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	orderRepo repository.OrderRepository
	eventRepo repository.EventRepository
	cartRepo  repository.CartRepository
	resolver  discount.Resolver
	publisher events.Publisher
	exchange  string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCartService creates a new cart service. Events are published to exchange
// after each committed recalculation and checkout.
func NewCartService(
	orderRepo repository.OrderRepository,
	eventRepo repository.EventRepository,
	cartRepo repository.CartRepository,
	resolver discount.Resolver,
	publisher events.Publisher,
	exchange string,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		cartRepo:  cartRepo,
		resolver:  resolver,
		publisher: publisher,
		exchange:  exchange,
		logger:    logger.With().Str("service", "cart").Logger(),
		now:       time.Now,
	}
}

// CreateCart opens an empty cart.
func (s *cartService) CreateCart(ctx context.Context) (*model.OrderResponse, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := s.now()
	order := &model.Order{
		ID:        uuid.New(),
		Status:    model.OrderCart,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID.String()).Msg("cart created")

	return buildResponse(order, nil, nil), nil
}

// GetOrder retrieves an order with its registrations, lines and total.
func (s *cartService) GetOrder(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	order, regs, lines, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return buildResponse(order, regs, lines), nil
}

// AddItem registers an athlete for an event and charges the event price.
func (s *cartService) AddItem(ctx context.Context, orderID uuid.UUID, req *model.AddItemRequest) (*model.OrderResponse, error) {
	if req == nil || req.AthleteID == uuid.Nil || req.EventID == uuid.Nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "athleteId and eventId are required")
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", req.EventID.String()).Msg("failed to get event")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		s.logger.Warn().Str("event_id", req.EventID.String()).Msg("event not found")
		return nil, model.ErrEventNotFound
	}

	var resolved []model.OrderLine
	err = s.inCart(ctx, orderID, func(tx pgx.Tx) error {
		exists, err := s.orderRepo.HasActiveRegistration(ctx, tx, req.AthleteID, req.EventID)
		if err != nil {
			return err
		}
		if exists {
			s.logger.Warn().
				Str("athlete_id", req.AthleteID.String()).
				Str("event_id", req.EventID.String()).
				Msg("athlete already registered")
			return model.ErrAlreadyRegistered
		}

		line := model.OrderLine{
			ID:          uuid.New(),
			OrderID:     &orderID,
			Kind:        model.LinePrice,
			Description: event.Title,
			Amount:      event.Price,
			ClubID:      &event.ClubID,
			CreatedAt:   s.now(),
		}
		if err := s.cartRepo.WithTx(tx).CreateOrderLine(ctx, &line); err != nil {
			return err
		}

		reg := model.Registration{
			ID:        uuid.New(),
			LineID:    line.ID,
			OrderID:   orderID,
			AthleteID: req.AthleteID,
			EventID:   req.EventID,
			Status:    model.RegistrationPending,
		}
		if err := s.orderRepo.CreateRegistration(ctx, tx, &reg); err != nil {
			return err
		}

		resolved, err = s.recalculate(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("athlete_id", req.AthleteID.String()).
		Str("event_id", req.EventID.String()).
		Msg("item added to cart")

	return s.afterRecalculation(ctx, orderID, resolved)
}

// RemoveItem takes a registration out of the cart.
func (s *cartService) RemoveItem(ctx context.Context, orderID, registrationID uuid.UUID) (*model.OrderResponse, error) {
	var resolved []model.OrderLine
	err := s.inCart(ctx, orderID, func(tx pgx.Tx) error {
		reg, err := s.orderRepo.GetRegistration(ctx, tx, orderID, registrationID)
		if err != nil {
			return err
		}
		if reg == nil || !reg.Status.Active() {
			return model.ErrRegistrationNotFound
		}

		if err := s.orderRepo.RemoveRegistration(ctx, tx, reg); err != nil {
			return err
		}

		resolved, err = s.recalculate(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("registration_id", registrationID.String()).
		Msg("item removed from cart")

	return s.afterRecalculation(ctx, orderID, resolved)
}

// Recalculate replaces the cart's discount lines with a fresh resolution.
func (s *cartService) Recalculate(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	var resolved []model.OrderLine
	err := s.inCart(ctx, orderID, func(tx pgx.Tx) error {
		var err error
		resolved, err = s.recalculate(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.afterRecalculation(ctx, orderID, resolved)
}

// Checkout recalculates the cart, confirms its registrations and closes it.
func (s *cartService) Checkout(ctx context.Context, orderID uuid.UUID) (*model.OrderResponse, error) {
	var finalised int64
	err := s.inCart(ctx, orderID, func(tx pgx.Tx) error {
		if _, err := s.recalculate(ctx, tx, orderID); err != nil {
			return err
		}

		var err error
		finalised, err = s.orderRepo.FinalizeRegistrations(ctx, tx, orderID)
		if err != nil {
			return err
		}

		return s.orderRepo.UpdateOrderStatus(ctx, tx, orderID, model.OrderCheckedOut)
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Int64("registrations", finalised).
		Str("total", resp.Total.String()).
		Msg("order checked out")

	s.publish(ctx, events.RoutingOrderCheckedOut, events.OrderCheckedOut{
		OrderID:       orderID,
		Registrations: finalised,
		Total:         resp.Total,
		CheckedOutAt:  s.now(),
	})

	return resp, nil
}

// inCart runs fn in a transaction holding the lock of an open cart.
func (s *cartService) inCart(ctx context.Context, orderID uuid.UUID, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.LockOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return model.ErrOrderNotFound
	}
	if order.Status != model.OrderCart {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("status", string(order.Status)).
			Msg("order is not an open cart")
		return model.ErrOrderNotOpen
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// recalculate drops the cart's discount lines, resolves the discounts of its
// price lines again and attaches the new discount lines to the order.
func (s *cartService) recalculate(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderLine, error) {
	if _, err := s.orderRepo.DeleteDiscountLines(ctx, tx, orderID); err != nil {
		return nil, err
	}

	lineIDs, err := s.orderRepo.GetCartLineIDs(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolver.WithTx(tx).Resolve(ctx, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discounts: %w", err)
	}

	ids := make([]uuid.UUID, len(lines))
	for i := range lines {
		ids[i] = lines[i].ID
	}
	if err := s.orderRepo.AttachLines(ctx, tx, orderID, ids); err != nil {
		return nil, err
	}

	return lines, nil
}

func (s *cartService) afterRecalculation(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) (*model.OrderResponse, error) {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}

	s.publish(ctx, events.RoutingDiscountsResolved, events.DiscountsResolved{
		OrderID:       orderID,
		DiscountLines: len(lines),
		TotalDiscount: total,
		ResolvedAt:    s.now(),
	})

	return s.GetOrder(ctx, orderID)
}

// publish sends an event once the transaction is committed. Delivery failures
// are logged and do not fail the request.
func (s *cartService) publish(ctx context.Context, routingKey string, body any) {
	if err := s.publisher.Publish(ctx, s.exchange, routingKey, body); err != nil {
		s.logger.Warn().Err(err).Str("routing_key", routingKey).Msg("failed to publish event")
	}
}

// buildResponse assembles the API view of an order. Total is the sum of all
// lines, discounts included.
func buildResponse(order *model.Order, regs []model.Registration, lines []model.OrderLine) *model.OrderResponse {
	if regs == nil {
		regs = []model.Registration{}
	}
	if lines == nil {
		lines = []model.OrderLine{}
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}

	return &model.OrderResponse{
		ID:            order.ID,
		Status:        order.Status,
		Registrations: regs,
		Lines:         lines,
		Total:         total,
	}
}
