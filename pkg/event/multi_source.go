package event

import (
	"context"
	"fmt"
	"time"
)

// MultiSource merges several event sources into one, e.g. the local store
// plus any number of subscribed feeds.
type MultiSource struct {
	sources []Source
}

func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) EventsIntersecting(ctx context.Context, from, to time.Time) ([]Event, error) {
	events := make([]Event, 0)
	for _, source := range m.sources {
		part, err := source.EventsIntersecting(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("event source failed: %w", err)
		}
		events = append(events, part...)
	}
	return events, nil
}
