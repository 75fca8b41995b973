package view

import (
	"context"
	"fmt"
	"time"

	"github.com/redninjacat/multical/internal/utils"
	"github.com/redninjacat/multical/pkg/dateutil"
	"github.com/redninjacat/multical/pkg/event"
	"github.com/redninjacat/multical/pkg/layout"
	"github.com/redninjacat/multical/pkg/timegrid"
)

// Service computes ready-to-render view layouts. It always asks the grid
// layer which range to fetch and hands the fetched events to the resolvers;
// it never infers ranges itself.
type Service struct {
	source event.Source
	clock  utils.Clock
}

func NewService(source event.Source, clock utils.Clock) *Service {
	return &Service{
		source: source,
		clock:  clock,
	}
}

// DayTile is one timed event placed on the day view: overlap column plus
// pixel position on the vertical time axis.
type DayTile struct {
	Event   event.Event
	Column  int
	Columns int
	Top     float64
	Height  float64
}

// DayLayout is the complete day view: all-day events in their own lane and
// timed events as positioned tiles.
type DayLayout struct {
	Date   time.Time
	Window timegrid.TimeWindow
	AllDay []event.Event
	Timed  []DayTile
}

// DayView fetches the events of one calendar day and lays them out within
// the given time window.
func (s *Service) DayView(ctx context.Context, date time.Time, window timegrid.TimeWindow) (*DayLayout, error) {
	from := dateutil.StartOfDay(date)
	to := dateutil.EndOfDay(date)

	events, err := s.source.EventsIntersecting(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	allDay := make([]event.Event, 0)
	timed := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.AllDay {
			allDay = append(allDay, e)
		} else {
			timed = append(timed, e)
		}
	}

	placements, err := layout.ResolveDayOverlaps(timed)
	if err != nil {
		return nil, err
	}

	// Overnight events intersect the day but start or end outside it; only
	// the portion on this calendar day is positioned.
	dayEnd := dateutil.AddDays(from, 1)
	tiles := make([]DayTile, 0, len(placements))
	for _, p := range placements {
		start := p.Event.StartTime
		if start.Before(from) {
			start = from
		}
		end := p.Event.EndTime
		if end.After(dayEnd) {
			end = dayEnd
		}
		tiles = append(tiles, DayTile{
			Event:   p.Event,
			Column:  p.Column,
			Columns: p.Columns,
			Top:     window.TimeToOffset(start),
			Height:  window.DurationToHeight(end.Sub(start)),
		})
	}

	return &DayLayout{
		Date:   from,
		Window: window,
		AllDay: allDay,
		Timed:  tiles,
	}, nil
}

// MonthLayout is the complete month view: the grid dates, the week number of
// each row, and the segment placement of every multi-day and all-day event.
type MonthLayout struct {
	Month         time.Time
	Dates         []time.Time
	WeekNumbers   []int
	Segments      []layout.WeekSegment
	OverflowByDay []int
}

// MonthView fetches the events visible in the month grid and resolves the
// multi-day/all-day rows. Single-day timed events are left out: the month
// view renders those as plain per-day entries without row stacking.
func (s *Service) MonthView(ctx context.Context, month time.Time, firstDayOfWeek time.Weekday, showSixthRow bool, maxVisibleRows int) (*MonthLayout, error) {
	dates := dateutil.GenerateMonthGridDates(month, firstDayOfWeek, showSixthRow)
	gridRange := dateutil.VisibleGridRange(month, firstDayOfWeek, showSixthRow)

	events, err := s.source.EventsIntersecting(ctx, gridRange.Start, gridRange.End)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	spanning := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.AllDay || !dateutil.SameDay(e.StartTime, e.EndTime) {
			spanning = append(spanning, e)
		}
	}

	monthLayout, err := layout.ResolveMonthSegments(spanning, dates, maxVisibleRows)
	if err != nil {
		return nil, err
	}

	weekNumbers := make([]int, 0, monthLayout.Weeks)
	for week := 0; week < monthLayout.Weeks; week++ {
		weekNumbers = append(weekNumbers, dateutil.WeekNumber(dates[week*7], firstDayOfWeek))
	}

	return &MonthLayout{
		Month:         time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location()),
		Dates:         dates,
		WeekNumbers:   weekNumbers,
		Segments:      monthLayout.Segments,
		OverflowByDay: monthLayout.OverflowByDay,
	}, nil
}

// SlotTarget converts a vertical offset on the day view back to a concrete
// time: the raw time is rounded to the slot raster, then pulled onto a nearby
// event boundary when one lies within snapRange. Drag-and-drop placement goes
// through this so drops line up with the grid and with adjacent events.
func (s *Service) SlotTarget(ctx context.Context, date time.Time, window timegrid.TimeWindow, offset float64, slotDuration, snapRange time.Duration) (time.Time, error) {
	t := timegrid.SnapToTimeSlot(window.OffsetToTime(offset, date), slotDuration)
	if snapRange <= 0 {
		return t, nil
	}

	events, err := s.source.EventsIntersecting(ctx, dateutil.StartOfDay(date), dateutil.EndOfDay(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to fetch events: %w", err)
	}

	candidates := make([]time.Time, 0, 2*len(events))
	for _, e := range events {
		if e.AllDay {
			continue
		}
		candidates = append(candidates, e.StartTime, e.EndTime)
	}
	return timegrid.SnapToNearbyTime(t, candidates, snapRange), nil
}

// GridRange exposes the authoritative fetch range for a month view.
func (s *Service) GridRange(month time.Time, firstDayOfWeek time.Weekday, showSixthRow bool) dateutil.DateRange {
	return dateutil.VisibleGridRange(month, firstDayOfWeek, showSixthRow)
}

// Today returns the current calendar day according to the service clock.
func (s *Service) Today() time.Time {
	return dateutil.StartOfDay(s.clock.Now())
}
