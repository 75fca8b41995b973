package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/redninjacat/multical/pkg/event"
)

var ErrAllDayEvent = errors.New("all-day event cannot be placed on the time axis")

// ColumnPlacement is the day-view placement of one timed event: its column
// within the overlap group and the total number of columns the group needs.
type ColumnPlacement struct {
	Event   event.Event
	Column  int
	Columns int
}

// ResolveDayOverlaps assigns side-by-side columns to overlapping timed events
// of a single day. Events that overlap transitively form one group; within a
// group every event gets the lowest column whose occupants it does not
// overlap, and all members share the group's column count.
//
// The result has one placement per input event, in input order. The input
// slice is never reordered. All-day events must be filtered out by the caller
// and are rejected here to surface integration bugs early.
func ResolveDayOverlaps(events []event.Event) ([]ColumnPlacement, error) {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if e.AllDay {
			return nil, fmt.Errorf("event %q: %w", e.UID, ErrAllDayEvent)
		}
	}

	placements := make([]ColumnPlacement, len(events))
	if len(events) == 0 {
		return placements, nil
	}

	// Sort indices instead of the events themselves so the caller's slice
	// keeps its order. Earlier starts first; on equal starts the longer
	// event goes first so it anchors the lower column.
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := events[order[a]], events[order[b]]
		if !ea.StartTime.Equal(eb.StartTime) {
			return ea.StartTime.Before(eb.StartTime)
		}
		return ea.Duration() > eb.Duration()
	})

	// Sweep: an event joins the current group while it starts strictly
	// before the group's running max end, which merges transitive chains
	// even when the first and last member do not overlap directly.
	groupStart := 0
	groupEnd := events[order[0]].EndTime
	for i := 1; i < len(order); i++ {
		e := events[order[i]]
		if e.StartTime.Before(groupEnd) {
			if e.EndTime.After(groupEnd) {
				groupEnd = e.EndTime
			}
			continue
		}
		assignColumns(events, order[groupStart:i], placements)
		groupStart = i
		groupEnd = e.EndTime
	}
	assignColumns(events, order[groupStart:], placements)

	return placements, nil
}

// assignColumns greedily packs one overlap group into columns: each event
// takes the lowest column none of whose occupants it time-overlaps.
func assignColumns(events []event.Event, group []int, placements []ColumnPlacement) {
	columns := make([][]int, 0, 4)

	for _, idx := range group {
		e := events[idx]
		column := -1
		for c := range columns {
			free := true
			for _, occupant := range columns[c] {
				if e.OverlapsTime(events[occupant]) {
					free = false
					break
				}
			}
			if free {
				column = c
				break
			}
		}
		if column < 0 {
			columns = append(columns, nil)
			column = len(columns) - 1
		}
		columns[column] = append(columns[column], idx)
		placements[idx] = ColumnPlacement{Event: e, Column: column}
	}

	for _, idx := range group {
		placements[idx].Columns = len(columns)
	}
}
