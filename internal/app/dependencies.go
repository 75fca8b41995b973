package app

import (
	"database/sql"

	"github.com/redninjacat/multical/internal/config"
	"github.com/redninjacat/multical/internal/event_bus"
	"github.com/redninjacat/multical/internal/utils"
	"github.com/redninjacat/multical/pkg/event"
	"github.com/redninjacat/multical/pkg/ics"
	"github.com/redninjacat/multical/pkg/view"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	EventRepo    *event.RepositoryImpl
	EventService *event.Service
	EventHandler *event.Handler

	FeedSource *ics.FeedSource
	Source     event.Source

	ViewService *view.Service
	ViewHandler *view.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.EventRepo = event.NewRepository(db)
	deps.EventService = event.NewService(deps.EventRepo, deps.Bus)
	deps.EventHandler = event.NewHandler(deps.EventService)

	feeds := make([]ics.Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		feeds = append(feeds, ics.Feed{Name: f.Name, URL: f.URL})
	}
	deps.FeedSource = ics.NewFeedSource(feeds)
	deps.Source = event.NewMultiSource(deps.EventService, deps.FeedSource)

	deps.ViewService = view.NewService(deps.Source, deps.Clock)
	deps.ViewHandler = view.NewHandler(deps.ViewService, view.Defaults{
		FirstDayOfWeek:      cfg.Calendar.FirstDayOfWeek,
		StartHour:           cfg.Calendar.StartHour,
		EndHour:             cfg.Calendar.EndHour,
		HourHeight:          cfg.Calendar.HourHeight,
		SlotDurationMinutes: cfg.Calendar.SlotDurationMinutes,
		SnapRangeMinutes:    cfg.Calendar.SnapRangeMinutes,
		MaxVisibleRows:      cfg.Calendar.MaxVisibleRows,
		ShowSixthRow:        cfg.Calendar.ShowSixthRow,
	})

	return deps
}
