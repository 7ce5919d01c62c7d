package display

import (
	"fmt"
	"sort"

	"github.com/gauthierbraillon/watchlens/internal/analysis"
	"github.com/gauthierbraillon/watchlens/internal/session"
)

// CountBars converts labelled counts to bars.
func CountBars(counts []analysis.Count) []Bar {
	bars := make([]Bar, len(counts))
	for i, c := range counts {
		bars[i] = Bar{Label: c.Label, Value: float64(c.Count)}
	}
	return bars
}

// WeekdayBars converts weekday averages to bars.
func WeekdayBars(days []analysis.DayAverage) []Bar {
	bars := make([]Bar, len(days))
	for i, d := range days {
		bars[i] = Bar{Label: d.Day, Value: d.Average}
	}
	return bars
}

// MonthBars converts monthly averages to bars.
func MonthBars(months []analysis.MonthAverage) []Bar {
	bars := make([]Bar, len(months))
	for i, m := range months {
		bars[i] = Bar{Label: m.Month, Value: m.Average}
	}
	return bars
}

// HourBars converts hourly averages to bars labelled 00 to 23.
func HourBars(hours [24]float64) []Bar {
	bars := make([]Bar, len(hours))
	for h, v := range hours {
		bars[h] = Bar{Label: fmt.Sprintf("%02d", h), Value: v}
	}
	return bars
}

func sortSessions(sessions []session.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].DurationMinutes > sessions[j].DurationMinutes
	})
}
