package event_bus

import "time"

const (
	EventCreatedType EventType = "calendar.event.created"
	EventUpdatedType EventType = "calendar.event.updated"
	EventDeletedType EventType = "calendar.event.deleted"
)

// CalendarEventChanged is the payload for all calendar event mutations.
// For deletions only the UID is populated.
type CalendarEventChanged struct {
	UID       string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	AllDay    bool
}
