package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
	"github.com/aparnaappu2002/planzo-backend/internal/repository"
	"github.com/aparnaappu2002/planzo-backend/pkg/telemetry"
)

// EventService implements the event listing lifecycle. Write
// operations are vendor-scoped: a vendor can only touch its own events.
type EventService interface {
	CreateEvent(ctx context.Context, vendorID string, req *dto.CreateEventRequest) (*domain.Event, error)
	UpdateEvent(ctx context.Context, vendorID, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error)
	// CancelEvent marks the event cancelled; the document survives so
	// past attendees can still resolve it
	CancelEvent(ctx context.Context, vendorID, eventID string) error
	ListVendorEvents(ctx context.Context, vendorID string, q *dto.ListQuery) ([]*domain.Event, int64, error)
	ListEvents(ctx context.Context, q *dto.EventListQuery) ([]*domain.Event, int64, error)
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
}

type eventService struct {
	events repository.EventRepository
}

// NewEventService creates a new EventService
func NewEventService(events repository.EventRepository) EventService {
	return &eventService{events: events}
}

func (s *eventService) CreateEvent(ctx context.Context, vendorID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	span.SetAttributes(attribute.String("vendor_id", vendorID))

	now := time.Now()
	event := &domain.Event{
		EventID:     uuid.New().String(),
		VendorID:    vendorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      domain.EventUpcoming,
		Date:        req.Date,
		Venue:       req.Venue,
		Address:     req.Address,
		Price:       req.Price,
		TotalSeats:  req.TotalSeats,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("event_id", event.EventID))
	span.SetStatus(codes.Ok, "")
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, vendorID, eventID string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.update")
	defer span.End()

	span.SetAttributes(
		attribute.String("vendor_id", vendorID),
		attribute.String("event_id", eventID),
	)

	event, err := s.getOwned(ctx, vendorID, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Address != nil {
		event.Address = *req.Address
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.TotalSeats != nil {
		event.TotalSeats = *req.TotalSeats
	}
	event.UpdatedAt = time.Now()

	if err := s.events.Update(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

func (s *eventService) CancelEvent(ctx context.Context, vendorID, eventID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.event.cancel")
	defer span.End()

	span.SetAttributes(
		attribute.String("vendor_id", vendorID),
		attribute.String("event_id", eventID),
	)

	if _, err := s.getOwned(ctx, vendorID, eventID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.events.UpdateStatus(ctx, eventID, domain.EventCancelled); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *eventService) ListVendorEvents(ctx context.Context, vendorID string, q *dto.ListQuery) ([]*domain.Event, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list_vendor")
	defer span.End()

	q.Normalize()
	filter := &repository.EventFilter{
		VendorID: vendorID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	filter.SetDefaults()

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return events, total, nil
}

func (s *eventService) ListEvents(ctx context.Context, q *dto.EventListQuery) ([]*domain.Event, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list")
	defer span.End()

	filter := &repository.EventFilter{
		Status:   domain.EventStatus(q.Status),
		Category: q.Category,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	filter.SetDefaults()

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetStatus(codes.Ok, "")
	return events, total, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.events.GetByEventID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if event == nil {
		span.SetStatus(codes.Error, "event not found")
		return nil, ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// getOwned loads the event and enforces vendor ownership
func (s *eventService) getOwned(ctx context.Context, vendorID, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.VendorID != vendorID {
		return nil, ErrNotEventOwner
	}
	return event, nil
}
