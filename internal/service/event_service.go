package service

import (
	"context"
	"fmt"

	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// eventService implements EventService.
type eventService struct {
	eventRepo repository.EventRepository
	logger    zerolog.Logger
}

// NewEventService creates a new event service.
func NewEventService(eventRepo repository.EventRepository, logger zerolog.Logger) EventService {
	return &eventService{
		eventRepo: eventRepo,
		logger:    logger.With().Str("service", "event").Logger(),
	}
}

// List retrieves events with pagination. limit is clamped to 1..100.
func (s *eventService) List(ctx context.Context, limit, offset int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	events, err := s.eventRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to list events")
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	s.logger.Debug().
		Int("count", len(events)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved events")

	return events, nil
}

// GetByID retrieves a single event by ID.
func (s *eventService) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	if id == uuid.Nil {
		return nil, model.ErrEventNotFound
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("event_id", id.String()).Msg("failed to get event by ID")
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if event == nil {
		s.logger.Debug().Str("event_id", id.String()).Msg("event not found")
		return nil, model.ErrEventNotFound
	}

	return event, nil
}
