package event

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidEvent = errors.New("invalid event")

// Event is one concrete calendar event instance. Recurring events reach this
// type already expanded to individual occurrences by their source.
type Event struct {
	UID        string
	Title      string
	StartTime  time.Time
	EndTime    time.Time
	AllDay     bool
	Color      string
	Comment    string
	ExternalID string
}

// Validate checks the structural invariants of the event. The end must not
// precede the start. Zero-duration timed events are a permitted degenerate
// case: they never overlap anything.
func (e Event) Validate() error {
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("event %q ends before it starts: %w", e.UID, ErrInvalidEvent)
	}
	return nil
}

// Duration returns the event's length. For all-day events this spans whole
// calendar days and is only meaningful for ordering.
func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// OverlapsTime reports whether the two events share any instant. Touching
// intervals (one ending exactly when the other starts) do not overlap.
func (e Event) OverlapsTime(other Event) bool {
	return e.StartTime.Before(other.EndTime) && other.StartTime.Before(e.EndTime)
}

// Source supplies events for a time range. Implementations must return every
// event that intersects [from, to], already expanded from any recurrence rule.
type Source interface {
	EventsIntersecting(ctx context.Context, from, to time.Time) ([]Event, error)
}
