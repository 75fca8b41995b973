package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/redninjacat/multical/internal/rest"
)

type Handler struct {
	events *Service
}

type EventDTO struct {
	UID        string    `json:"uid"`
	Title      string    `json:"title"`
	StartTime  time.Time `json:"start"`
	EndTime    time.Time `json:"end"`
	AllDay     bool      `json:"allDay"`
	Color      string    `json:"color,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	ExternalID string    `json:"externalId,omitempty"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.RFC3339, fromString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid from (date) format",
			Details: "'from' must be in RFC3339 format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	to, err := time.Parse(time.RFC3339, toString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid to (date) format",
			Details: "'to' must be in RFC3339 format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	events, err := h.events.EventsIntersecting(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var dtos = make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.events.GetEvent(r.Context(), mux.Vars(r)["eventUid"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if e == nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(*e)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := h.events.AddEvent(r.Context(), dtoToEvent(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(*added)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.UID = mux.Vars(r)["eventUid"]

	modified, err := h.events.ModifyEvent(r.Context(), dtoToEvent(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventToDTO(*modified)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	vars := mux.Vars(r)
	if err := h.events.DeleteEvent(r.Context(), vars["eventUid"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func eventToDTO(e Event) EventDTO {
	return EventDTO{
		UID:        e.UID,
		Title:      e.Title,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		AllDay:     e.AllDay,
		Color:      e.Color,
		Comment:    e.Comment,
		ExternalID: e.ExternalID,
	}
}

func dtoToEvent(dto EventDTO) Event {
	return Event{
		UID:        dto.UID,
		Title:      dto.Title,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
		AllDay:     dto.AllDay,
		Color:      dto.Color,
		Comment:    dto.Comment,
		ExternalID: dto.ExternalID,
	}
}
