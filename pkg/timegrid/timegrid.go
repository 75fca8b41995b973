package timegrid

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidHourRange  = errors.New("startHour must be less than endHour and both within 0..24")
	ErrInvalidHourHeight = errors.New("hourHeight must be greater than zero")
)

// TimeWindow describes the visible vertical time axis of a day view:
// an hour range and the pixel height of one hour.
type TimeWindow struct {
	StartHour  int
	EndHour    int
	HourHeight float64
}

// NewTimeWindow validates the parameters and returns a TimeWindow.
func NewTimeWindow(startHour, endHour int, hourHeight float64) (TimeWindow, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return TimeWindow{}, fmt.Errorf("time window %d..%d: %w", startHour, endHour, ErrInvalidHourRange)
	}
	if hourHeight <= 0 {
		return TimeWindow{}, fmt.Errorf("hour height %f: %w", hourHeight, ErrInvalidHourHeight)
	}
	return TimeWindow{StartHour: startHour, EndHour: endHour, HourHeight: hourHeight}, nil
}

// Height returns the total pixel height of the window.
func (w TimeWindow) Height() float64 {
	return float64(w.EndHour-w.StartHour) * w.HourHeight
}

// TimeToOffset converts a wall-clock time to a vertical pixel offset from the
// top of the window. Times before StartHour yield negative offsets.
func (w TimeWindow) TimeToOffset(t time.Time) float64 {
	minutes := float64((t.Hour()-w.StartHour)*60 + t.Minute())
	return minutes / 60 * w.HourHeight
}

// OffsetToTime converts a vertical pixel offset back to a wall-clock time on
// the given calendar day, rounded to the nearest whole minute. The result is
// reconstructed from date fields so it stays correct across DST transitions.
func (w TimeWindow) OffsetToTime(offset float64, day time.Time) time.Time {
	minutes := int(math.Round(offset/w.HourHeight*60)) + w.StartHour*60
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// DurationToHeight converts an event duration to its pixel height.
func (w TimeWindow) DurationToHeight(d time.Duration) float64 {
	return d.Minutes() / 60 * w.HourHeight
}

// SnapToTimeSlot rounds t to the nearest multiple of slot minutes since
// midnight. A zero or negative slot leaves t unchanged.
func SnapToTimeSlot(t time.Time, slot time.Duration) time.Time {
	slotMinutes := int(slot.Minutes())
	if slotMinutes <= 0 {
		return t
	}
	total := t.Hour()*60 + t.Minute()
	snapped := int(math.Round(float64(total)/float64(slotMinutes))) * slotMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), 0, snapped, 0, 0, t.Location())
}

// SnapToNearbyTime returns the candidate closest to t when that candidate lies
// within snapRange (inclusive); otherwise t is returned unchanged. Among
// equally distant candidates the first one wins.
func SnapToNearbyTime(t time.Time, candidates []time.Time, snapRange time.Duration) time.Time {
	best := t
	bestDistance := time.Duration(math.MaxInt64)
	for _, c := range candidates {
		d := absDuration(t.Sub(c))
		if d <= snapRange && d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best
}

// IsWithinSnapRange reports whether a and b are at most snapRange apart.
func IsWithinSnapRange(a, b time.Time, snapRange time.Duration) bool {
	return absDuration(a.Sub(b)) <= snapRange
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
