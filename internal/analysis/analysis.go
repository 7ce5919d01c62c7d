// Package analysis computes viewing statistics over the feature table.
package analysis

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/session"
)

// Weekdays lists day names Monday first, the order used in reports.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Overview holds the headline numbers of a report.
type Overview struct {
	TotalVideos          int
	ActiveDays           int
	TotalSessions        int
	AvgVideosPerDay      float64
	MostActiveDay        string
	MostActiveDayAvg     float64
	PeakHour             int
	PeakHourAvg          float64
	AvgSessionMinutes    float64
	MedianSessionMinutes float64
	AvgVideosPerSession  float64
}

// MonthAverage is the average number of videos per active day in a month.
type MonthAverage struct {
	Month   string // YYYY-MM
	Average float64
}

// DayAverage is the average number of videos watched on a weekday.
type DayAverage struct {
	Day     string
	Average float64
}

// Count pairs a label with a number of occurrences.
type Count struct {
	Label string
	Count int
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ActiveDays returns the number of distinct calendar days with at least one event.
func ActiveDays(events []features.EnrichedEvent) int {
	days := make(map[string]struct{})
	for _, e := range events {
		days[dayKey(e.Timestamp)] = struct{}{}
	}
	return len(days)
}

// MonthlyDailyAverages returns, per month in chronological order, the number of
// videos divided by the number of active days in that month.
func MonthlyDailyAverages(events []features.EnrichedEvent) []MonthAverage {
	videos := make(map[string]int)
	days := make(map[string]map[string]struct{})
	for _, e := range events {
		m := e.Timestamp.Format("2006-01")
		videos[m]++
		if days[m] == nil {
			days[m] = make(map[string]struct{})
		}
		days[m][dayKey(e.Timestamp)] = struct{}{}
	}

	months := make([]string, 0, len(videos))
	for m := range videos {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]MonthAverage, 0, len(months))
	for _, m := range months {
		out = append(out, MonthAverage{Month: m, Average: float64(videos[m]) / float64(len(days[m]))})
	}
	return out
}

// WeekdayAverages returns the expected number of videos per weekday, Monday
// first: the weekday total divided by the number of active days, times seven.
func WeekdayAverages(events []features.EnrichedEvent) []DayAverage {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.DayOfWeek]++
	}
	active := ActiveDays(events)

	out := make([]DayAverage, 0, len(Weekdays))
	for _, d := range Weekdays {
		avg := 0.0
		if active > 0 {
			avg = float64(counts[d]) / float64(active) * 7
		}
		out = append(out, DayAverage{Day: d, Average: avg})
	}
	return out
}

// HourlyAverages returns the average number of videos per active day for every hour.
func HourlyAverages(events []features.EnrichedEvent) [24]float64 {
	var counts [24]int
	for _, e := range events {
		counts[e.Hour]++
	}

	var out [24]float64
	active := ActiveDays(events)
	if active == 0 {
		return out
	}
	for h, c := range counts {
		out[h] = float64(c) / float64(active)
	}
	return out
}

// DurationDistribution counts sessions per duration bucket, shortest first.
func DurationDistribution(sessions []session.Session) []Count {
	counts := make(map[session.DurationCategory]int)
	for _, s := range sessions {
		counts[s.DurationCategory]++
	}

	out := make([]Count, 0, len(session.DurationBuckets))
	for _, b := range session.DurationBuckets {
		out = append(out, Count{Label: string(b), Count: counts[b]})
	}
	return out
}

// TimeOfDayDistribution counts events per time-of-day bucket.
func TimeOfDayDistribution(events []features.EnrichedEvent) []Count {
	counts := make(map[features.TimeOfDay]int)
	for _, e := range events {
		counts[e.TimeOfDay]++
	}

	out := make([]Count, 0, len(features.TimesOfDay))
	for _, b := range features.TimesOfDay {
		out = append(out, Count{Label: string(b), Count: counts[b]})
	}
	return out
}

// CategoryBreakdown counts events per content category, most frequent first.
func CategoryBreakdown(events []features.EnrichedEvent) []Count {
	counts := make(map[string]int)
	for _, e := range events {
		counts[e.ContentCategory]++
	}
	return ranked(counts, 0)
}

// TopChannels returns the n most watched channels. Events without a channel are ignored.
func TopChannels(events []features.EnrichedEvent, n int) []Count {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Channel != "" {
			counts[e.Channel]++
		}
	}
	return ranked(counts, n)
}

// ranked sorts counts descending, ties alphabetical, keeping at most n (n <= 0 keeps all).
func ranked(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for label, c := range counts {
		out = append(out, Count{Label: label, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize computes the report overview. Ties for most active day and peak
// hour go to the earliest in the week and in the day.
func Summarize(events []features.EnrichedEvent, sessions []session.Session) Overview {
	o := Overview{
		TotalVideos:   len(events),
		ActiveDays:    ActiveDays(events),
		TotalSessions: len(sessions),
	}
	if o.ActiveDays > 0 {
		o.AvgVideosPerDay = float64(o.TotalVideos) / float64(o.ActiveDays)
	}

	for i, d := range WeekdayAverages(events) {
		if i == 0 || d.Average > o.MostActiveDayAvg {
			o.MostActiveDay, o.MostActiveDayAvg = d.Day, d.Average
		}
	}

	hourly := HourlyAverages(events)
	for h, avg := range hourly {
		if avg > o.PeakHourAvg {
			o.PeakHour, o.PeakHourAvg = h, avg
		}
	}

	durations := make(stats.Float64Data, 0, len(sessions))
	videos := make(stats.Float64Data, 0, len(sessions))
	for _, s := range sessions {
		durations = append(durations, s.DurationMinutes)
		videos = append(videos, float64(s.VideoCount))
	}
	if len(sessions) > 0 {
		o.AvgSessionMinutes, _ = stats.Mean(durations)
		o.MedianSessionMinutes, _ = stats.Median(durations)
		o.AvgVideosPerSession, _ = stats.Mean(videos)
	}

	return o
}
