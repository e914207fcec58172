package models

import "time"

// SearchResultItem is one entry of a provider search page.
// Entries keep the provider's relevance order; no deduplication is done.
type SearchResultItem struct {
	VideoID   string `json:"video_id"`  // Provider's opaque video key
	Title     string `json:"title"`     // Display title
	Thumbnail string `json:"thumbnail"` // Thumbnail locator
}

// ResolvedStream describes a single playable result. The stream URL is
// typically short-lived, so the value is produced fresh on every resolution
// and never cached.
type ResolvedStream struct {
	VideoID   string `json:"video_id"`   // Provider's opaque video key
	StreamURL string `json:"stream_url"` // Direct playable audio URL
	Title     string `json:"title"`      // Display title
	Thumbnail string `json:"thumbnail"`  // Thumbnail locator
}

// PlaybackEvent is the payload published to Kafka when a stream is resolved.
type PlaybackEvent struct {
	EventID    string    `json:"event_id"`    // Unique event identifier
	VideoID    string    `json:"video_id"`    // Resolved video key
	Title      string    `json:"title"`       // Display title at resolution time
	ResolvedAt time.Time `json:"resolved_at"` // Resolution timestamp
}
