package calendar

import (
	"strings"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is a simplified calendar event for the watchman's near-term window.
type Event struct {
	ID       string
	Summary  string
	Start    time.Time
	End      time.Time
	Location string
	MeetLink string
}

// HasLocation reports whether the event carries a physical location.
func (e Event) HasLocation() bool {
	return strings.TrimSpace(e.Location) != ""
}

// HasVideoLink reports whether the event carries a video-conference link.
func (e Event) HasVideoLink() bool {
	return strings.TrimSpace(e.MeetLink) != ""
}

// toEvent converts a Google Calendar event to an Event
func toEvent(event *calendar.Event) Event {
	e := Event{
		ID:       event.Id,
		Summary:  event.Summary,
		Location: event.Location,
	}

	// Parse start time
	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				e.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.Parse("2006-01-02", event.Start.Date); err == nil {
				e.Start = t
			}
		}
	}

	// Parse end time
	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				e.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse("2006-01-02", event.End.Date); err == nil {
				e.End = t
			}
		}
	}

	// Google Meet link
	if event.ConferenceData != nil && len(event.ConferenceData.EntryPoints) > 0 {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				e.MeetLink = ep.Uri
				break
			}
		}
	}

	return e
}
