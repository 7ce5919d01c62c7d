// Package features derives temporal and content fields for watch events.
//
// Temporal fields are plain calendar arithmetic on the event timestamp;
// the content category comes from a configurable keyword table.
package features

import (
	"time"

	"github.com/gauthierbraillon/watchlens/internal/history"
)

// TimeOfDay buckets an hour of the day.
type TimeOfDay string

const (
	Night     TimeOfDay = "Night"     // [0, 6)
	Morning   TimeOfDay = "Morning"   // [6, 12)
	Afternoon TimeOfDay = "Afternoon" // [12, 18)
	Evening   TimeOfDay = "Evening"   // [18, 24)
)

// TimesOfDay lists the buckets in chronological order.
var TimesOfDay = []TimeOfDay{Night, Morning, Afternoon, Evening}

// TimeOfDayFor returns the bucket containing hour.
func TimeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour < 6:
		return Night
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// EnrichedEvent is an Event with derived fields.
// SessionID is zero until the event has been through session segmentation.
type EnrichedEvent struct {
	history.Event
	Hour            int       `json:"hour"`
	DayOfWeek       string    `json:"day_of_week"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	IsWeekend       bool      `json:"is_weekend"`
	TimeOfDay       TimeOfDay `json:"time_of_day"`
	ContentCategory string    `json:"content_category"`
	SessionID       int       `json:"session_id"`
}

// Enricher derives EnrichedEvents.
type Enricher struct {
	classifier *Classifier
}

// NewEnricher creates an Enricher that classifies titles with c.
func NewEnricher(c *Classifier) *Enricher {
	return &Enricher{classifier: c}
}

// Enrich derives the temporal fields and content category of e.
func (en *Enricher) Enrich(e history.Event) EnrichedEvent {
	ts := e.Timestamp
	weekday := ts.Weekday()

	return EnrichedEvent{
		Event:           e,
		Hour:            ts.Hour(),
		DayOfWeek:       weekday.String(),
		Month:           int(ts.Month()),
		Year:            ts.Year(),
		IsWeekend:       weekday == time.Saturday || weekday == time.Sunday,
		TimeOfDay:       TimeOfDayFor(ts.Hour()),
		ContentCategory: en.classifier.Classify(e.Title),
	}
}

// EnrichAll enriches events, preserving their order.
func (en *Enricher) EnrichAll(events []history.Event) []EnrichedEvent {
	out := make([]EnrichedEvent, len(events))
	for i, e := range events {
		out[i] = en.Enrich(e)
	}
	return out
}
