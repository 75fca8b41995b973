package layout

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redninjacat/multical/pkg/dateutil"
	"github.com/redninjacat/multical/pkg/event"
)

var ErrInvalidGrid = errors.New("grid must contain a positive whole number of 7-day weeks")

// WeekSegment is the rendering of one event on one week row of the month
// grid. Multi-week events produce one segment per week they cross; the
// first/last flags mark the segments whose boundary is the event's true start
// or end, so the renderer can round those edges and square off week wraps.
type WeekSegment struct {
	Event            event.Event
	Week             int
	Row              int
	StartDayInWeek   int
	EndDayInWeek     int
	DayIndexInEvent  int
	TotalDaysInEvent int
	IsFirstSegment   bool
	IsLastSegment    bool
}

// MonthLayout is the complete month-view placement: segments for every
// visible event plus, when a row cap is in effect, the number of hidden
// events per grid cell.
type MonthLayout struct {
	Weeks         int
	Segments      []WeekSegment
	OverflowByDay []int
}

// daySpan is an event's position on the grid expressed in day indices
// relative to the first grid date. first/last may lie outside the grid when
// the event starts or ends beyond the visible range.
type daySpan struct {
	event event.Event
	first int
	last  int
}

// ResolveMonthSegments stacks multi-day and all-day events onto the rows of
// a month grid. Rows are assigned per week row, greedily from row 0, among
// every event intersecting that week (including events entering from an
// adjacent week), mirroring the day-view column algorithm with day-ranges in
// place of time-ranges. When maxVisibleRows > 0, events assigned a row at or
// beyond the cap produce no segment for that week; instead each grid day
// they touch has its overflow count increased.
func ResolveMonthSegments(events []event.Event, gridDates []time.Time, maxVisibleRows int) (MonthLayout, error) {
	if len(gridDates) == 0 || len(gridDates)%7 != 0 {
		return MonthLayout{}, fmt.Errorf("%d grid dates: %w", len(gridDates), ErrInvalidGrid)
	}

	weeks := len(gridDates) / 7
	layout := MonthLayout{
		Weeks:         weeks,
		Segments:      []WeekSegment{},
		OverflowByDay: make([]int, len(gridDates)),
	}

	gridStart := gridDates[0]
	spans := make([]daySpan, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return MonthLayout{}, err
		}
		span := newDaySpan(e, gridStart)
		if span.last < 0 || span.first >= len(gridDates) {
			continue
		}
		spans = append(spans, span)
	}

	for week := 0; week < weeks; week++ {
		layout.resolveWeek(week, spans, maxVisibleRows)
	}

	return layout, nil
}

// newDaySpan projects an event onto grid day indices. A timed event ending
// exactly at midnight does not occupy the day it ends on, consistent with
// touching intervals not overlapping.
func newDaySpan(e event.Event, gridStart time.Time) daySpan {
	end := e.EndTime
	if !e.AllDay && end.After(e.StartTime) && end.Equal(dateutil.StartOfDay(end)) {
		end = dateutil.AddDays(end, -1)
	}
	return daySpan{
		event: e,
		first: dateutil.DaysBetween(gridStart, e.StartTime),
		last:  dateutil.DaysBetween(gridStart, end),
	}
}

func (l *MonthLayout) resolveWeek(week int, spans []daySpan, maxVisibleRows int) {
	weekFirst := week * 7
	weekLast := weekFirst + 6

	visible := make([]daySpan, 0, len(spans))
	for _, s := range spans {
		if s.first <= weekLast && s.last >= weekFirst {
			visible = append(visible, s)
		}
	}

	// Same ordering policy as the day view: earlier start first, longer
	// span first on ties.
	sort.SliceStable(visible, func(a, b int) bool {
		if visible[a].first != visible[b].first {
			return visible[a].first < visible[b].first
		}
		return visible[a].last-visible[a].first > visible[b].last-visible[b].first
	})

	// Greedy lowest-free-row packing over clamped day ranges.
	type rowSpan struct{ first, last int }
	rows := make([][]rowSpan, 0, 4)
	for _, s := range visible {
		first := max(s.first, weekFirst)
		last := min(s.last, weekLast)

		row := -1
		for r := range rows {
			free := true
			for _, occupied := range rows[r] {
				if first <= occupied.last && occupied.first <= last {
					free = false
					break
				}
			}
			if free {
				row = r
				break
			}
		}
		if row < 0 {
			rows = append(rows, nil)
			row = len(rows) - 1
		}
		rows[row] = append(rows[row], rowSpan{first: first, last: last})

		if maxVisibleRows > 0 && row >= maxVisibleRows {
			for day := first; day <= last; day++ {
				l.OverflowByDay[day]++
			}
			continue
		}

		l.Segments = append(l.Segments, WeekSegment{
			Event:            s.event,
			Week:             week,
			Row:              row,
			StartDayInWeek:   first - weekFirst,
			EndDayInWeek:     last - weekFirst,
			DayIndexInEvent:  first - s.first,
			TotalDaysInEvent: s.last - s.first + 1,
			IsFirstSegment:   first == s.first,
			IsLastSegment:    last == s.last,
		})
	}
}
