// Package aggregator builds the aggregated feature table from watch events.
//
// This package enables watchlens to:
// - Restrict the history to a date range
// - Enrich every event with temporal and content fields
// - Segment the enriched events into viewing sessions
package aggregator

import (
	"time"

	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/session"
)

// Options configures table construction. Zero bounds are open.
type Options struct {
	Since time.Time
	Until time.Time
}

// Table is the aggregated feature table: enriched events ordered oldest
// first with session ids, and one summary per session.
type Table struct {
	Events   []features.EnrichedEvent `json:"events"`
	Sessions []session.Session        `json:"sessions"`
}
