package aggregator

import (
	"github.com/gauthierbraillon/watchlens/internal/features"
	"github.com/gauthierbraillon/watchlens/internal/history"
	"github.com/gauthierbraillon/watchlens/internal/session"
)

// Aggregator turns normalized events into a feature table.
type Aggregator struct {
	enricher  *features.Enricher
	segmenter *session.Segmenter
}

// New creates an Aggregator.
func New(enricher *features.Enricher, segmenter *session.Segmenter) *Aggregator {
	return &Aggregator{
		enricher:  enricher,
		segmenter: segmenter,
	}
}

// Build filters events by opts, orders them oldest first, enriches and segments them.
func (a *Aggregator) Build(events []history.Event, opts Options) Table {
	filtered := Filter(events, opts)
	enriched := a.enricher.EnrichAll(history.Ascending(filtered))
	annotated, sessions := a.segmenter.Segment(enriched)

	return Table{
		Events:   annotated,
		Sessions: sessions,
	}
}

// Filter returns the events within the inclusive [Since, Until] range, in input order.
func Filter(events []history.Event, opts Options) []history.Event {
	out := make([]history.Event, 0, len(events))
	for _, e := range events {
		if !opts.Since.IsZero() && e.Timestamp.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && e.Timestamp.After(opts.Until) {
			continue
		}
		out = append(out, e)
	}
	return out
}
