// Package session groups time-ordered watch events into viewing sessions.
//
// A session is a maximal run of events where each event follows the previous
// one by at most the inactivity gap (30 minutes by default). A gap equal to the
// threshold keeps the events in the same session.
package session

import (
	"sort"
	"time"

	"github.com/gauthierbraillon/watchlens/internal/features"
)

// DefaultGap is the inactivity threshold separating two sessions.
const DefaultGap = 30 * time.Minute

// DurationCategory buckets session durations.
type DurationCategory string

const (
	Duration0To30   DurationCategory = "0-30min"
	Duration30To60  DurationCategory = "30-60min"
	Duration60To90  DurationCategory = "60-90min"
	Duration90To120 DurationCategory = "90-120min"
	DurationOver120 DurationCategory = "120+min"
)

// DurationBuckets lists the duration categories from shortest to longest.
var DurationBuckets = []DurationCategory{
	Duration0To30, Duration30To60, Duration60To90, Duration90To120, DurationOver120,
}

// CategorizeDuration buckets a duration in minutes. Buckets are right-inclusive:
// 0 and 30 both fall in "0-30min", 30.5 in "30-60min".
func CategorizeDuration(minutes float64) DurationCategory {
	switch {
	case minutes <= 30:
		return Duration0To30
	case minutes <= 60:
		return Duration30To60
	case minutes <= 90:
		return Duration60To90
	case minutes <= 120:
		return Duration90To120
	default:
		return DurationOver120
	}
}

// Session summarizes one run of events.
type Session struct {
	ID               int              `json:"id"`
	VideoCount       int              `json:"video_count"`
	StartTime        time.Time        `json:"start_time"`
	EndTime          time.Time        `json:"end_time"`
	DurationMinutes  float64          `json:"duration_minutes"`
	DurationCategory DurationCategory `json:"duration_category"`
}

// Segmenter splits events into sessions.
type Segmenter struct {
	gap time.Duration
}

// NewSegmenter returns a Segmenter using gap as the inactivity threshold.
// A non-positive gap selects DefaultGap.
func NewSegmenter(gap time.Duration) *Segmenter {
	if gap <= 0 {
		gap = DefaultGap
	}
	return &Segmenter{gap: gap}
}

// Gap returns the inactivity threshold.
func (s *Segmenter) Gap() time.Duration {
	return s.gap
}

// Segment returns a copy of events sorted oldest first and annotated with
// session ids, together with one Session per id in id order. The first event
// opens session 0; every gap strictly greater than the threshold opens the next.
func (s *Segmenter) Segment(events []features.EnrichedEvent) ([]features.EnrichedEvent, []Session) {
	out := make([]features.EnrichedEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	sessions := make([]Session, 0)
	id := -1
	for i := range out {
		if i == 0 || out[i].Timestamp.Sub(out[i-1].Timestamp) > s.gap {
			id++
			sessions = append(sessions, Session{
				ID:        id,
				StartTime: out[i].Timestamp,
			})
		}
		out[i].SessionID = id

		cur := &sessions[len(sessions)-1]
		cur.VideoCount++
		cur.EndTime = out[i].Timestamp
	}

	for i := range sessions {
		minutes := sessions[i].EndTime.Sub(sessions[i].StartTime).Minutes()
		sessions[i].DurationMinutes = minutes
		sessions[i].DurationCategory = CategorizeDuration(minutes)
	}

	return out, sessions
}
