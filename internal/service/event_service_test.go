package service

import (
	"context"
	"testing"
	"time"

	"github.com/aparnaappu2002/planzo-backend/internal/domain"
	"github.com/aparnaappu2002/planzo-backend/internal/dto"
)

func seedEvent(repo *mockEventRepository, eventID, vendorID, title string, status domain.EventStatus) *domain.Event {
	event := &domain.Event{
		EventID:   eventID,
		VendorID:  vendorID,
		Title:     title,
		Category:  "music",
		Status:    status,
		Date:      time.Now().Add(48 * time.Hour),
		Venue:     "Main Hall",
		Price:     25,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	repo.events[eventID] = event
	return event
}

func TestEventService_Create(t *testing.T) {
	repo := newMockEventRepository()
	svc := NewEventService(repo)

	event, err := svc.CreateEvent(context.Background(), "vendor-1", &dto.CreateEventRequest{
		Title:    "Summer Gala",
		Category: "music",
		Date:     time.Now().Add(72 * time.Hour),
		Venue:    "City Arena",
		Price:    40,
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if event.EventID == "" {
		t.Error("EventID not assigned")
	}
	if event.Status != domain.EventUpcoming {
		t.Errorf("Status = %v, want upcoming", event.Status)
	}
	if event.VendorID != "vendor-1" {
		t.Errorf("VendorID = %v, want vendor-1", event.VendorID)
	}
}

func TestEventService_Ownership(t *testing.T) {
	repo := newMockEventRepository()
	svc := NewEventService(repo)
	seedEvent(repo, "event-1", "vendor-1", "Gala", domain.EventUpcoming)

	newTitle := "Renamed"

	t.Run("other vendor cannot update", func(t *testing.T) {
		_, err := svc.UpdateEvent(context.Background(), "vendor-2", "event-1", &dto.UpdateEventRequest{Title: &newTitle})
		if err != ErrNotEventOwner {
			t.Errorf("UpdateEvent() error = %v, want %v", err, ErrNotEventOwner)
		}
	})

	t.Run("other vendor cannot cancel", func(t *testing.T) {
		if err := svc.CancelEvent(context.Background(), "vendor-2", "event-1"); err != ErrNotEventOwner {
			t.Errorf("CancelEvent() error = %v, want %v", err, ErrNotEventOwner)
		}
	})

	t.Run("owner updates selected fields only", func(t *testing.T) {
		updated, err := svc.UpdateEvent(context.Background(), "vendor-1", "event-1", &dto.UpdateEventRequest{Title: &newTitle})
		if err != nil {
			t.Fatalf("UpdateEvent() error = %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("Title = %v, want Renamed", updated.Title)
		}
		if updated.Venue != "Main Hall" {
			t.Errorf("Venue = %v, untouched field changed", updated.Venue)
		}
	})

	t.Run("owner cancels", func(t *testing.T) {
		if err := svc.CancelEvent(context.Background(), "vendor-1", "event-1"); err != nil {
			t.Fatalf("CancelEvent() error = %v", err)
		}
		if repo.events["event-1"].Status != domain.EventCancelled {
			t.Errorf("Status = %v, want cancelled", repo.events["event-1"].Status)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		if _, err := svc.GetEvent(context.Background(), "nope"); err != ErrEventNotFound {
			t.Errorf("GetEvent() error = %v, want %v", err, ErrEventNotFound)
		}
	})
}

func TestEventService_List(t *testing.T) {
	repo := newMockEventRepository()
	svc := NewEventService(repo)
	seedEvent(repo, "event-1", "vendor-1", "Jazz Night", domain.EventUpcoming)
	seedEvent(repo, "event-2", "vendor-1", "Rock Night", domain.EventCancelled)
	seedEvent(repo, "event-3", "vendor-2", "Jazz Brunch", domain.EventUpcoming)

	t.Run("filter by status", func(t *testing.T) {
		events, total, err := svc.ListEvents(context.Background(), &dto.EventListQuery{Status: "upcoming"})
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		if total != 2 || len(events) != 2 {
			t.Errorf("got %d/%d events, want 2/2", len(events), total)
		}
	})

	t.Run("search by title", func(t *testing.T) {
		events, _, err := svc.ListEvents(context.Background(), &dto.EventListQuery{Search: "jazz"})
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		if len(events) != 2 {
			t.Errorf("got %d events, want 2", len(events))
		}
	})

	t.Run("vendor listing is scoped", func(t *testing.T) {
		events, total, err := svc.ListVendorEvents(context.Background(), "vendor-1", &dto.ListQuery{})
		if err != nil {
			t.Fatalf("ListVendorEvents() error = %v", err)
		}
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		for _, e := range events {
			if e.VendorID != "vendor-1" {
				t.Errorf("leaked event %s of vendor %s", e.EventID, e.VendorID)
			}
		}
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := svc.ListEvents(context.Background(), &dto.EventListQuery{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("ListEvents() error = %v", err)
		}
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if len(events) != 1 {
			t.Errorf("got %d events on second page, want 1", len(events))
		}
	})
}
