package view

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redninjacat/multical/internal/utils"
	"github.com/redninjacat/multical/pkg/event"
)

func setupViewHandlerTest(events ...event.Event) *mux.Router {
	clock := &utils.MockClock{FixedNow: time.Date(2024, 2, 5, 12, 0, 0, 0, time.Local)}
	service := NewService(&stubSource{events: events}, clock)
	handler := NewHandler(service, Defaults{
		FirstDayOfWeek:      1,
		StartHour:           0,
		EndHour:             24,
		HourHeight:          60,
		SlotDurationMinutes: 15,
		SnapRangeMinutes:    5,
		MaxVisibleRows:      4,
	})

	router := mux.NewRouter()
	router.HandleFunc("/api/view/day", handler.GetDayView).Methods("GET")
	router.HandleFunc("/api/view/day/slot", handler.GetDaySlot).Methods("GET")
	router.HandleFunc("/api/view/month", handler.GetMonthView).Methods("GET")
	router.HandleFunc("/api/view/month/range", handler.GetMonthRange).Methods("GET")
	return router
}

func TestGetDayView(t *testing.T) {
	router := setupViewHandlerTest(
		timed("standup", 9, 0, 9, 30),
		allDay("holiday", time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local), time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local)),
	)

	req := httptest.NewRequest("GET", "/api/view/day?date=2024-02-05&startHour=8&endHour=18", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto DayViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "2024-02-05", dto.Date)
	assert.Equal(t, 8, dto.StartHour)
	require.Len(t, dto.Events, 1)
	assert.Equal(t, "standup", dto.Events[0].UID)
	assert.Equal(t, 60.0, dto.Events[0].Top)
	require.Len(t, dto.AllDay, 1)
	assert.Equal(t, "holiday", dto.AllDay[0].UID)
}

func TestGetDayViewDefaultsToToday(t *testing.T) {
	router := setupViewHandlerTest()

	req := httptest.NewRequest("GET", "/api/view/day", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto DayViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "2024-02-05", dto.Date)
}

func TestGetDayViewBadParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad date", "/api/view/day?date=05.02.2024"},
		{"bad startHour", "/api/view/day?startHour=nine"},
		{"inverted window", "/api/view/day?startHour=18&endHour=8"},
		{"bad hourHeight", "/api/view/day?hourHeight=tall"},
	}

	router := setupViewHandlerTest()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetDaySlot(t *testing.T) {
	router := setupViewHandlerTest(
		timed("meeting", 10, 28, 11, 0),
	)

	// 633px is 10:33 at 60px/h; slot raster gives 10:30 and the nearby
	// meeting start pulls it onto 10:28.
	req := httptest.NewRequest("GET", "/api/view/day/slot?date=2024-02-05&offset=633", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto SlotDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.True(t, dto.Time.Equal(time.Date(2024, 2, 5, 10, 28, 0, 0, time.Local)))
	assert.Equal(t, 628.0, dto.Top)
}

func TestGetDaySlotBadParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing offset", "/api/view/day/slot?date=2024-02-05"},
		{"bad offset", "/api/view/day/slot?date=2024-02-05&offset=low"},
		{"bad slotMinutes", "/api/view/day/slot?date=2024-02-05&offset=633&slotMinutes=few"},
		{"bad snapMinutes", "/api/view/day/slot?date=2024-02-05&offset=633&snapMinutes=near"},
	}

	router := setupViewHandlerTest()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetMonthView(t *testing.T) {
	router := setupViewHandlerTest(
		allDay("trip", time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local), time.Date(2024, 2, 7, 0, 0, 0, 0, time.Local)),
	)

	req := httptest.NewRequest("GET", "/api/view/month?month=2024-02&firstDayOfWeek=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto MonthViewDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "2024-02", dto.Month)
	require.Len(t, dto.Dates, 35)
	assert.Equal(t, "2024-01-28", dto.Dates[0])
	require.Len(t, dto.Segments, 1)
	assert.Equal(t, "trip", dto.Segments[0].UID)
	assert.Equal(t, 1, dto.Segments[0].Week)
	assert.Len(t, dto.Overflow, 35)
}

func TestGetMonthViewBadParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"bad month", "/api/view/month?month=February"},
		{"firstDayOfWeek out of range", "/api/view/month?firstDayOfWeek=7"},
		{"bad sixthRow", "/api/view/month?sixthRow=perhaps"},
		{"bad maxRows", "/api/view/month?maxRows=lots"},
	}

	router := setupViewHandlerTest()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetMonthRange(t *testing.T) {
	router := setupViewHandlerTest()

	req := httptest.NewRequest("GET", "/api/view/month/range?month=2024-02&firstDayOfWeek=0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto RangeDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, time.Date(2024, 1, 28, 0, 0, 0, 0, time.Local), dto.Start.In(time.Local))
	assert.Equal(t, time.March, dto.End.In(time.Local).Month())
	assert.Equal(t, 2, dto.End.In(time.Local).Day())
}
