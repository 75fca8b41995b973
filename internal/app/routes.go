package app

import (
	"github.com/gorilla/mux"

	"github.com/redninjacat/multical/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/event", deps.EventHandler.GetEvents).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventUid}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Views
	r.HandleFunc("/api/view/day", deps.ViewHandler.GetDayView).Methods("GET")
	r.HandleFunc("/api/view/day/slot", deps.ViewHandler.GetDaySlot).Methods("GET")
	r.HandleFunc("/api/view/month", deps.ViewHandler.GetMonthView).Methods("GET")
	r.HandleFunc("/api/view/month/range", deps.ViewHandler.GetMonthRange).Methods("GET")
}
