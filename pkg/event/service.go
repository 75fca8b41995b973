package event

import (
	"context"
	"fmt"
	"time"

	"github.com/redninjacat/multical/internal/event_bus"
)

// Service owns event CRUD and implements Source for the layout layer.
// Mutations are announced on the bus so other components (caches, exports)
// can react without coupling to this package.
type Service struct {
	repo Repository
	bus  *event_bus.EventBus
}

func NewService(repo Repository, bus *event_bus.EventBus) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
	}
}

func (s *Service) AddEvent(ctx context.Context, e Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.AllDay {
		e = normalizeAllDay(e)
	}

	uid, err := s.repo.StoreEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	e.UID = uid

	s.publish(ctx, event_bus.EventCreatedType, e)
	return &e, nil
}

func (s *Service) GetEvent(ctx context.Context, uid string) (*Event, error) {
	return s.repo.GetEvent(ctx, uid)
}

// EventsIntersecting returns all stored events overlapping [from, to].
func (s *Service) EventsIntersecting(ctx context.Context, from, to time.Time) ([]Event, error) {
	return s.repo.GetEvents(ctx, from, to)
}

func (s *Service) ModifyEvent(ctx context.Context, e Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.AllDay {
		e = normalizeAllDay(e)
	}

	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.publish(ctx, event_bus.EventUpdatedType, e)
	return &e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, uid string) error {
	if err := s.repo.DeleteEvent(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.publish(ctx, event_bus.EventDeletedType, Event{UID: uid})
	return nil
}

func (s *Service) publish(ctx context.Context, t event_bus.EventType, e Event) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(event_bus.NewEvent(ctx, t, event_bus.CalendarEventChanged{
		UID:       e.UID,
		Title:     e.Title,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		AllDay:    e.AllDay,
	}))
}

// normalizeAllDay zeroes the time-of-day fields of an all-day event, keeping
// only its calendar dates.
func normalizeAllDay(e Event) Event {
	e.StartTime = time.Date(e.StartTime.Year(), e.StartTime.Month(), e.StartTime.Day(), 0, 0, 0, 0, e.StartTime.Location())
	e.EndTime = time.Date(e.EndTime.Year(), e.EndTime.Month(), e.EndTime.Day(), 0, 0, 0, 0, e.EndTime.Location())
	return e
}
