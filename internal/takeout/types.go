// Package takeout reads the watch-history export produced by Google Takeout.
//
// This package enables watchlens to:
// - Decode the export in whatever charset it was written with
// - Extract one Entry per watched video (title, link, channel, raw timestamp)
// - Skip cells that no longer point at a video
package takeout

// Entry is a single watch-history record as it appears in the export.
// RawTimestamp is left untouched; parsing belongs to the history package.
type Entry struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	Channel      string `json:"channel,omitempty"`
	ChannelLink  string `json:"channel_link,omitempty"`
	RawTimestamp string `json:"raw_timestamp"`
}
