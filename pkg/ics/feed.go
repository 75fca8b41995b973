// Package ics exposes remote ICS subscriptions as an event.Source. It is the
// recurrence black box of the system: RRULE/EXDATE expansion happens here, so
// the layout layer only ever sees concrete event instances.
package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"

	"github.com/redninjacat/multical/pkg/dateutil"
	"github.com/redninjacat/multical/pkg/event"
)

// maxOccurrencesPerEvent caps recurrence expansion so a malformed rule cannot
// flood a view.
const maxOccurrencesPerEvent = 1000

// Feed is one ICS subscription.
type Feed struct {
	Name string
	URL  string
}

// FeedSource implements event.Source over a set of ICS feeds. Feeds that fail
// to fetch or parse are logged and skipped so one broken subscription does not
// blank the whole calendar.
type FeedSource struct {
	client *http.Client
	feeds  []Feed
}

func NewFeedSource(feeds []Feed) *FeedSource {
	return &FeedSource{
		client: &http.Client{Timeout: 15 * time.Second},
		feeds:  feeds,
	}
}

func (s *FeedSource) EventsIntersecting(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("invalid range: %s is after %s", from, to)
	}

	events := make([]event.Event, 0)
	for _, feed := range s.feeds {
		feedEvents, err := s.feedEvents(ctx, feed, from, to)
		if err != nil {
			log.Errorf("skipping ICS feed %q: %v", feed.Name, err)
			continue
		}
		events = append(events, feedEvents...)
	}
	return events, nil
}

func (s *FeedSource) feedEvents(ctx context.Context, feed Feed, from, to time.Time) ([]event.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	events := make([]event.Event, 0)
	for _, ve := range cal.Events() {
		occurrences, err := expandVEvent(feed, ve, from, to)
		if err != nil {
			log.Errorf("skipping event in feed %q: %v", feed.Name, err)
			continue
		}
		events = append(events, occurrences...)
	}
	log.Debugf("ICS feed %q produced %d events for %s..%s", feed.Name, len(events), from, to)
	return events, nil
}

// expandVEvent converts one VEVENT into the concrete occurrences that
// intersect [from, to], expanding RRULE and honoring EXDATE.
func expandVEvent(feed Feed, ve *ical.VEvent, from, to time.Time) ([]event.Event, error) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return nil, fmt.Errorf("VEVENT has no UID")
	}
	uid := uidProp.Value

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("event %q has no usable DTSTART: %w", uid, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}

	template := event.Event{
		Title:      propValue(ve, ical.ComponentPropertySummary),
		Comment:    propValue(ve, ical.ComponentPropertyDescription),
		AllDay:     isAllDay(ve),
		ExternalID: uid,
	}

	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		e := makeOccurrence(feed, template, uid, start, end)
		if intersectsRange(e, from, to) {
			return []event.Event{e}, nil
		}
		return nil, nil
	}

	r, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil, fmt.Errorf("event %q has an invalid RRULE: %w", uid, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	duration := end.Sub(start)
	occStarts := set.Between(from.In(start.Location()).Add(-duration), to.In(start.Location()), true)
	if len(occStarts) > maxOccurrencesPerEvent {
		log.Errorf("event %q hit the expansion cap of %d occurrences", uid, maxOccurrencesPerEvent)
		occStarts = occStarts[:maxOccurrencesPerEvent]
	}

	occurrences := make([]event.Event, 0, len(occStarts))
	for _, occStart := range occStarts {
		occurrences = append(occurrences, makeOccurrence(feed, template, uid, occStart, occStart.Add(duration)))
	}
	return occurrences, nil
}

func makeOccurrence(feed Feed, template event.Event, uid string, start, end time.Time) event.Event {
	e := template
	e.UID = fmt.Sprintf("%s:%s:%d", feed.Name, uid, start.Unix())
	e.StartTime = start
	e.EndTime = end
	if e.AllDay {
		e.StartTime = dateutil.StartOfDay(start)
		// ICS all-day DTEND is exclusive; the last occupied day is the one before.
		lastDay := dateutil.StartOfDay(end)
		if lastDay.After(e.StartTime) {
			lastDay = dateutil.AddDays(lastDay, -1)
		}
		e.EndTime = lastDay
	}
	return e
}

func intersectsRange(e event.Event, from, to time.Time) bool {
	if e.AllDay {
		return !dateutil.EndOfDay(e.EndTime).Before(from) && !e.StartTime.After(to)
	}
	return e.StartTime.Before(to) && e.EndTime.After(from)
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// isAllDay detects date-only DTSTART values (VALUE=DATE or no time part).
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime parses the basic ICS date/date-time forms used by EXDATE.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}
