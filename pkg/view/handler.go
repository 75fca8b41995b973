package view

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/redninjacat/multical/internal/rest"
	"github.com/redninjacat/multical/pkg/timegrid"
)

// Defaults applied when the request leaves layout parameters out, typically
// populated from the application configuration.
type Defaults struct {
	FirstDayOfWeek      int
	StartHour           int
	EndHour             int
	HourHeight          float64
	SlotDurationMinutes int
	SnapRangeMinutes    int
	MaxVisibleRows      int
	ShowSixthRow        bool
}

type Handler struct {
	views    *Service
	defaults Defaults
}

func NewHandler(s *Service, defaults Defaults) *Handler {
	return &Handler{views: s, defaults: defaults}
}

type DayTileDTO struct {
	UID     string    `json:"uid"`
	Title   string    `json:"title"`
	Color   string    `json:"color,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Column  int       `json:"column"`
	Columns int       `json:"columns"`
	Top     float64   `json:"top"`
	Height  float64   `json:"height"`
}

type AllDayDTO struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
	Date  string `json:"date"`
}

type DayViewDTO struct {
	Date       string       `json:"date"`
	StartHour  int          `json:"startHour"`
	EndHour    int          `json:"endHour"`
	HourHeight float64      `json:"hourHeight"`
	AllDay     []AllDayDTO  `json:"allDay"`
	Events     []DayTileDTO `json:"events"`
}

type SegmentDTO struct {
	UID       string    `json:"uid"`
	Title     string    `json:"title"`
	Color     string    `json:"color,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Week      int       `json:"week"`
	Row       int       `json:"row"`
	StartDay  int       `json:"startDay"`
	EndDay    int       `json:"endDay"`
	DayIndex  int       `json:"dayIndex"`
	TotalDays int       `json:"totalDays"`
	IsFirst   bool      `json:"isFirst"`
	IsLast    bool      `json:"isLast"`
}

type MonthViewDTO struct {
	Month       string       `json:"month"`
	Dates       []string     `json:"dates"`
	WeekNumbers []int        `json:"weekNumbers"`
	Segments    []SegmentDTO `json:"segments"`
	Overflow    []int        `json:"overflow"`
}

type RangeDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotDTO struct {
	Time time.Time `json:"time"`
	Top  float64   `json:"top"`
}

const dateLayout = "2006-01-02"
const monthLayout = "2006-01"

// GetDayView handles GET /api/view/day.
func (h *Handler) GetDayView(w http.ResponseWriter, r *http.Request) {
	date, window, ok := h.dayParams(w, r)
	if !ok {
		return
	}

	dayLayout, err := h.views.DayView(r.Context(), date, window)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := DayViewDTO{
		Date:       dayLayout.Date.Format(dateLayout),
		StartHour:  window.StartHour,
		EndHour:    window.EndHour,
		HourHeight: window.HourHeight,
		AllDay:     make([]AllDayDTO, 0, len(dayLayout.AllDay)),
		Events:     make([]DayTileDTO, 0, len(dayLayout.Timed)),
	}
	for _, e := range dayLayout.AllDay {
		dto.AllDay = append(dto.AllDay, AllDayDTO{
			UID:   e.UID,
			Title: e.Title,
			Color: e.Color,
			Date:  e.StartTime.Format(dateLayout),
		})
	}
	for _, tile := range dayLayout.Timed {
		dto.Events = append(dto.Events, DayTileDTO{
			UID:     tile.Event.UID,
			Title:   tile.Event.Title,
			Color:   tile.Event.Color,
			Start:   tile.Event.StartTime,
			End:     tile.Event.EndTime,
			Column:  tile.Column,
			Columns: tile.Columns,
			Top:     tile.Top,
			Height:  tile.Height,
		})
	}

	respondJSON(w, http.StatusOK, dto)
}

// GetMonthView handles GET /api/view/month.
func (h *Handler) GetMonthView(w http.ResponseWriter, r *http.Request) {
	month, firstDay, sixthRow, ok := h.monthParams(w, r)
	if !ok {
		return
	}
	maxRows, err := intParam(r, "maxRows", h.defaults.MaxVisibleRows)
	if err != nil {
		badRequest(w, "Invalid maxRows", "'maxRows' must be an integer")
		return
	}

	monthView, err := h.views.MonthView(r.Context(), month, firstDay, sixthRow, maxRows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := MonthViewDTO{
		Month:       monthView.Month.Format(monthLayout),
		Dates:       make([]string, 0, len(monthView.Dates)),
		WeekNumbers: monthView.WeekNumbers,
		Segments:    make([]SegmentDTO, 0, len(monthView.Segments)),
		Overflow:    monthView.OverflowByDay,
	}
	for _, d := range monthView.Dates {
		dto.Dates = append(dto.Dates, d.Format(dateLayout))
	}
	for _, seg := range monthView.Segments {
		dto.Segments = append(dto.Segments, SegmentDTO{
			UID:       seg.Event.UID,
			Title:     seg.Event.Title,
			Color:     seg.Event.Color,
			Start:     seg.Event.StartTime,
			End:       seg.Event.EndTime,
			Week:      seg.Week,
			Row:       seg.Row,
			StartDay:  seg.StartDayInWeek,
			EndDay:    seg.EndDayInWeek,
			DayIndex:  seg.DayIndexInEvent,
			TotalDays: seg.TotalDaysInEvent,
			IsFirst:   seg.IsFirstSegment,
			IsLast:    seg.IsLastSegment,
		})
	}

	respondJSON(w, http.StatusOK, dto)
}

// GetMonthRange handles GET /api/view/month/range.
func (h *Handler) GetMonthRange(w http.ResponseWriter, r *http.Request) {
	month, firstDay, sixthRow, ok := h.monthParams(w, r)
	if !ok {
		return
	}
	gridRange := h.views.GridRange(month, firstDay, sixthRow)
	respondJSON(w, http.StatusOK, RangeDTO{Start: gridRange.Start, End: gridRange.End})
}

// GetDaySlot handles GET /api/view/day/slot: it resolves a vertical offset on
// the day view to the snapped drop time.
func (h *Handler) GetDaySlot(w http.ResponseWriter, r *http.Request) {
	date, window, ok := h.dayParams(w, r)
	if !ok {
		return
	}

	offsetString := r.URL.Query().Get("offset")
	offset, err := strconv.ParseFloat(offsetString, 64)
	if err != nil {
		badRequest(w, "Invalid offset", "'offset' must be a number of pixels")
		return
	}

	slotMinutes, err := intParam(r, "slotMinutes", h.defaults.SlotDurationMinutes)
	if err != nil {
		badRequest(w, "Invalid slotMinutes", "'slotMinutes' must be an integer")
		return
	}
	snapMinutes, err := intParam(r, "snapMinutes", h.defaults.SnapRangeMinutes)
	if err != nil {
		badRequest(w, "Invalid snapMinutes", "'snapMinutes' must be an integer")
		return
	}

	target, err := h.views.SlotTarget(r.Context(), date, window, offset,
		time.Duration(slotMinutes)*time.Minute, time.Duration(snapMinutes)*time.Minute)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, SlotDTO{Time: target, Top: window.TimeToOffset(target)})
}

// dayParams reads the date and time-window parameters shared by the day-view
// endpoints, falling back to the configured defaults.
func (h *Handler) dayParams(w http.ResponseWriter, r *http.Request) (time.Time, timegrid.TimeWindow, bool) {
	date := h.views.Today()
	if dateString := r.URL.Query().Get("date"); dateString != "" {
		parsed, err := time.ParseInLocation(dateLayout, dateString, time.Local)
		if err != nil {
			badRequest(w, "Invalid date format", "'date' must be in YYYY-MM-DD format")
			return time.Time{}, timegrid.TimeWindow{}, false
		}
		date = parsed
	}

	startHour := h.defaults.StartHour
	endHour := h.defaults.EndHour
	hourHeight := h.defaults.HourHeight
	var err error
	if startHour, err = intParam(r, "startHour", startHour); err != nil {
		badRequest(w, "Invalid startHour", "'startHour' must be an integer")
		return time.Time{}, timegrid.TimeWindow{}, false
	}
	if endHour, err = intParam(r, "endHour", endHour); err != nil {
		badRequest(w, "Invalid endHour", "'endHour' must be an integer")
		return time.Time{}, timegrid.TimeWindow{}, false
	}
	if s := r.URL.Query().Get("hourHeight"); s != "" {
		if hourHeight, err = strconv.ParseFloat(s, 64); err != nil {
			badRequest(w, "Invalid hourHeight", "'hourHeight' must be a number")
			return time.Time{}, timegrid.TimeWindow{}, false
		}
	}

	window, err := timegrid.NewTimeWindow(startHour, endHour, hourHeight)
	if err != nil {
		badRequest(w, "Invalid time window", err.Error())
		return time.Time{}, timegrid.TimeWindow{}, false
	}
	return date, window, true
}

func (h *Handler) monthParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Weekday, bool, bool) {
	month := h.views.Today()
	if monthString := r.URL.Query().Get("month"); monthString != "" {
		parsed, err := time.ParseInLocation(monthLayout, monthString, time.Local)
		if err != nil {
			badRequest(w, "Invalid month format", "'month' must be in YYYY-MM format")
			return time.Time{}, 0, false, false
		}
		month = parsed
	}

	firstDay, err := intParam(r, "firstDayOfWeek", h.defaults.FirstDayOfWeek)
	if err != nil || firstDay < 0 || firstDay > 6 {
		badRequest(w, "Invalid firstDayOfWeek", "'firstDayOfWeek' must be 0 (Sunday) through 6 (Saturday)")
		return time.Time{}, 0, false, false
	}

	sixthRow := h.defaults.ShowSixthRow
	if s := r.URL.Query().Get("sixthRow"); s != "" {
		sixthRow, err = strconv.ParseBool(s)
		if err != nil {
			badRequest(w, "Invalid sixthRow", "'sixthRow' must be a boolean")
			return time.Time{}, 0, false, false
		}
	}

	return month, time.Weekday(firstDay), sixthRow, true
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}

func badRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message, Details: details}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
