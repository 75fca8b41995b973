package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redninjacat/multical/pkg/dateutil"
	"github.com/redninjacat/multical/pkg/event"
)

// febGrid is the February 2024 grid with a Sunday week start:
// Jan 28 through Mar 2, 35 cells.
func febGrid() []time.Time {
	return dateutil.GenerateMonthGridDates(time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), time.Sunday, false)
}

func allDayEvent(uid string, start, end time.Time) event.Event {
	return event.Event{UID: uid, Title: uid, AllDay: true, StartTime: start, EndTime: end}
}

func day(d int) time.Time {
	// Day of February 2024; values above 29 spill into March on purpose.
	return time.Date(2024, 2, d, 0, 0, 0, 0, time.Local)
}

func segmentsByUID(segments []WeekSegment, uid string) []WeekSegment {
	var out []WeekSegment
	for _, s := range segments {
		if s.Event.UID == uid {
			out = append(out, s)
		}
	}
	return out
}

func TestResolveMonthSegmentsEmptyInput(t *testing.T) {
	layout, err := ResolveMonthSegments(nil, febGrid(), 0)

	require.NoError(t, err)
	assert.Equal(t, 5, layout.Weeks)
	assert.Empty(t, layout.Segments)
	assert.Len(t, layout.OverflowByDay, 35)
}

func TestResolveMonthSegmentsRejectsRaggedGrid(t *testing.T) {
	_, err := ResolveMonthSegments(nil, febGrid()[:33], 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)

	_, err = ResolveMonthSegments(nil, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestResolveMonthSegmentsSingleWeekEvent(t *testing.T) {
	// Feb 5 (Monday) through Feb 7: entirely inside week 1 of the grid.
	events := []event.Event{allDayEvent("trip", day(5), day(7))}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)

	require.Len(t, layout.Segments, 1)
	seg := layout.Segments[0]
	assert.Equal(t, 1, seg.Week)
	assert.Equal(t, 0, seg.Row)
	assert.Equal(t, 1, seg.StartDayInWeek) // Monday in a Sunday-start week
	assert.Equal(t, 3, seg.EndDayInWeek)
	assert.Equal(t, 0, seg.DayIndexInEvent)
	assert.Equal(t, 3, seg.TotalDaysInEvent)
	assert.True(t, seg.IsFirstSegment)
	assert.True(t, seg.IsLastSegment)
}

func TestResolveMonthSegmentsWeekSpanningEvent(t *testing.T) {
	// Feb 1 (Thursday, week 0) through Feb 8 (Thursday, week 1).
	events := []event.Event{allDayEvent("festival", day(1), day(8))}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)
	require.Len(t, layout.Segments, 2)

	first := layout.Segments[0]
	assert.Equal(t, 0, first.Week)
	assert.Equal(t, 4, first.StartDayInWeek)
	assert.Equal(t, 6, first.EndDayInWeek)
	assert.Equal(t, 0, first.DayIndexInEvent)
	assert.Equal(t, 8, first.TotalDaysInEvent)
	assert.True(t, first.IsFirstSegment)
	assert.False(t, first.IsLastSegment) // cut by the week wrap, not the event end

	second := layout.Segments[1]
	assert.Equal(t, 1, second.Week)
	assert.Equal(t, 0, second.StartDayInWeek)
	assert.Equal(t, 4, second.EndDayInWeek)
	assert.Equal(t, 3, second.DayIndexInEvent)
	assert.False(t, second.IsFirstSegment)
	assert.True(t, second.IsLastSegment)
}

func TestResolveMonthSegmentsEventEnteringFromOutsideGrid(t *testing.T) {
	// Starts before the visible grid: the first visible segment must not be
	// flagged as the event's true start.
	events := []event.Event{allDayEvent("carnival", time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local), day(1))}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)
	require.Len(t, layout.Segments, 1)

	seg := layout.Segments[0]
	assert.Equal(t, 0, seg.Week)
	assert.Equal(t, 0, seg.StartDayInWeek)
	assert.Equal(t, 4, seg.EndDayInWeek)
	assert.False(t, seg.IsFirstSegment)
	assert.True(t, seg.IsLastSegment)
	assert.Equal(t, 8, seg.DayIndexInEvent) // Jan 20 .. Jan 28 is 8 days in
	assert.Equal(t, 13, seg.TotalDaysInEvent)
}

func TestResolveMonthSegmentsRowStacking(t *testing.T) {
	events := []event.Event{
		allDayEvent("a", day(5), day(9)),
		allDayEvent("b", day(7), day(10)),
		allDayEvent("c", day(10), day(10)), // overlaps b only
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)

	a := segmentsByUID(layout.Segments, "a")
	b := segmentsByUID(layout.Segments, "b")
	c := segmentsByUID(layout.Segments, "c")
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	require.Len(t, c, 1)

	assert.Equal(t, 0, a[0].Row)
	assert.Equal(t, 1, b[0].Row)
	// c does not touch a's days, so it reuses row 0.
	assert.Equal(t, 0, c[0].Row)
}

func TestResolveMonthSegmentsLongerEventAnchorsLowerRow(t *testing.T) {
	events := []event.Event{
		allDayEvent("short", day(5), day(5)),
		allDayEvent("long", day(5), day(9)),
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)

	assert.Equal(t, 0, segmentsByUID(layout.Segments, "long")[0].Row)
	assert.Equal(t, 1, segmentsByUID(layout.Segments, "short")[0].Row)
}

func TestResolveMonthSegmentsOverflow(t *testing.T) {
	events := []event.Event{
		allDayEvent("a", day(5), day(6)),
		allDayEvent("b", day(5), day(6)),
		allDayEvent("c", day(5), day(5)),
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 2)
	require.NoError(t, err)

	// a and b fill rows 0 and 1; c exceeds the cap on Feb 5 only.
	assert.Len(t, layout.Segments, 2)
	assert.Empty(t, segmentsByUID(layout.Segments, "c"))

	feb5 := dateutil.DaysBetween(febGrid()[0], day(5))
	feb6 := feb5 + 1
	assert.Equal(t, 1, layout.OverflowByDay[feb5])
	assert.Equal(t, 0, layout.OverflowByDay[feb6])
}

func TestResolveMonthSegmentsNoCapWhenMaxRowsZero(t *testing.T) {
	events := []event.Event{
		allDayEvent("a", day(5), day(6)),
		allDayEvent("b", day(5), day(6)),
		allDayEvent("c", day(5), day(6)),
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)

	assert.Len(t, layout.Segments, 3)
	for _, overflow := range layout.OverflowByDay {
		assert.Equal(t, 0, overflow)
	}
}

func TestResolveMonthSegmentsTimedEventEndingAtMidnight(t *testing.T) {
	// Feb 5 10:00 to Feb 7 00:00: the event does not occupy Feb 7.
	e := event.Event{
		UID:       "shift",
		StartTime: time.Date(2024, 2, 5, 10, 0, 0, 0, time.Local),
		EndTime:   time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local),
	}

	layout, err := ResolveMonthSegments([]event.Event{e}, febGrid(), 0)
	require.NoError(t, err)
	require.Len(t, layout.Segments, 1)

	seg := layout.Segments[0]
	assert.Equal(t, 1, seg.StartDayInWeek)
	assert.Equal(t, 2, seg.EndDayInWeek)
	assert.Equal(t, 2, seg.TotalDaysInEvent)
}

func TestResolveMonthSegmentsSkipsEventsOutsideGrid(t *testing.T) {
	events := []event.Event{
		allDayEvent("before", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local)),
		allDayEvent("after", time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local), time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)),
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)
	assert.Empty(t, layout.Segments)
}

func TestResolveMonthSegmentsRejectsMalformedEvent(t *testing.T) {
	events := []event.Event{allDayEvent("backwards", day(9), day(5))}

	_, err := ResolveMonthSegments(events, febGrid(), 0)
	assert.ErrorIs(t, err, event.ErrInvalidEvent)
}

func TestResolveMonthSegmentsRowsNeverCollide(t *testing.T) {
	events := []event.Event{
		allDayEvent("a", day(1), day(10)),
		allDayEvent("b", day(3), day(5)),
		allDayEvent("c", day(4), day(12)),
		allDayEvent("d", day(6), day(8)),
		allDayEvent("e", day(11), day(11)),
	}

	layout, err := ResolveMonthSegments(events, febGrid(), 0)
	require.NoError(t, err)

	// Within each week, segments on the same row must not share any day.
	type key struct{ week, row int }
	occupied := map[key][][2]int{}
	for _, seg := range layout.Segments {
		k := key{seg.Week, seg.Row}
		for _, other := range occupied[k] {
			disjoint := seg.EndDayInWeek < other[0] || other[1] < seg.StartDayInWeek
			assert.True(t, disjoint, "week %d row %d has colliding segments", seg.Week, seg.Row)
		}
		occupied[k] = append(occupied[k], [2]int{seg.StartDayInWeek, seg.EndDayInWeek})
	}
}
