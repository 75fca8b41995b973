package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redninjacat/multical/internal/event_bus"
)

func setupServiceTest() (*Service, *event_bus.EventBus) {
	bus := event_bus.NewEventBus()
	return NewService(NewRepositoryStub(), bus), bus
}

func TestServiceAddEvent(t *testing.T) {
	service, _ := setupServiceTest()
	ctx := context.Background()

	added, err := service.AddEvent(ctx, Event{
		Title:     "Standup",
		StartTime: time.Date(2024, 2, 5, 9, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 5, 9, 30, 0, 0, time.Local),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, added.UID)

	stored, err := service.GetEvent(ctx, added.UID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Standup", stored.Title)
}

func TestServiceAddEventRejectsMalformedEvent(t *testing.T) {
	service, _ := setupServiceTest()

	_, err := service.AddEvent(context.Background(), Event{
		Title:     "Backwards",
		StartTime: time.Date(2024, 2, 5, 10, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 5, 9, 0, 0, 0, time.Local),
	})

	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestServiceAddEventNormalizesAllDay(t *testing.T) {
	service, _ := setupServiceTest()

	added, err := service.AddEvent(context.Background(), Event{
		Title:     "Conference",
		AllDay:    true,
		StartTime: time.Date(2024, 2, 5, 14, 30, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 7, 9, 15, 0, 0, time.Local),
	})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local), added.StartTime)
	assert.Equal(t, time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local), added.EndTime)
}

func TestServiceEventsIntersecting(t *testing.T) {
	service, _ := setupServiceTest()
	ctx := context.Background()

	events := []Event{
		{Title: "early", StartTime: time.Date(2024, 2, 5, 8, 0, 0, 0, time.Local), EndTime: time.Date(2024, 2, 5, 9, 0, 0, 0, time.Local)},
		{Title: "late", StartTime: time.Date(2024, 2, 5, 20, 0, 0, 0, time.Local), EndTime: time.Date(2024, 2, 5, 21, 0, 0, 0, time.Local)},
		{Title: "other day", StartTime: time.Date(2024, 2, 9, 8, 0, 0, 0, time.Local), EndTime: time.Date(2024, 2, 9, 9, 0, 0, 0, time.Local)},
	}
	for _, e := range events {
		_, err := service.AddEvent(ctx, e)
		require.NoError(t, err)
	}

	got, err := service.EventsIntersecting(ctx,
		time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local),
		time.Date(2024, 2, 5, 23, 59, 59, 0, time.Local),
	)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Title)
	assert.Equal(t, "late", got[1].Title)
}

func TestServiceModifyAndDeleteEvent(t *testing.T) {
	service, _ := setupServiceTest()
	ctx := context.Background()

	added, err := service.AddEvent(ctx, Event{
		Title:     "Draft",
		StartTime: time.Date(2024, 2, 5, 9, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 5, 10, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)

	added.Title = "Final"
	modified, err := service.ModifyEvent(ctx, *added)
	require.NoError(t, err)
	assert.Equal(t, "Final", modified.Title)

	require.NoError(t, service.DeleteEvent(ctx, added.UID))
	stored, err := service.GetEvent(ctx, added.UID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestServicePublishesBusNotifications(t *testing.T) {
	service, bus := setupServiceTest()
	ctx := context.Background()

	var received []event_bus.EventType
	for _, eventType := range []event_bus.EventType{event_bus.EventCreatedType, event_bus.EventUpdatedType, event_bus.EventDeletedType} {
		bus.Subscribe(eventType, func(e event_bus.Event) error {
			received = append(received, e.Type)
			return nil
		})
	}

	added, err := service.AddEvent(ctx, Event{
		Title:     "Tracked",
		StartTime: time.Date(2024, 2, 5, 9, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 5, 10, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)
	_, err = service.ModifyEvent(ctx, *added)
	require.NoError(t, err)
	require.NoError(t, service.DeleteEvent(ctx, added.UID))

	assert.Equal(t, []event_bus.EventType{
		event_bus.EventCreatedType,
		event_bus.EventUpdatedType,
		event_bus.EventDeletedType,
	}, received)
}
