package event

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu     sync.RWMutex
	items  map[string]Event
	nextId int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		items:  make(map[string]Event),
		nextId: 1,
	}
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, e Event) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid := e.UID
	if uid == "" {
		uid = fmt.Sprintf("stub-event-%d", r.nextId)
		r.nextId++
	}
	e.UID = uid
	r.items[uid] = e
	return uid, nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]Event, 0, len(r.items))
	for _, e := range r.items {
		if !e.StartTime.After(to) && !e.EndTime.Before(from) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, uid string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[uid]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[e.UID]; !ok {
		return fmt.Errorf("event %q not found", e.UID)
	}
	r.items[e.UID] = e
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, uid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, uid)
	return nil
}
