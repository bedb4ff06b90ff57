package models

import "time"

// Default values applied when the upstream payload omits a field
const (
	DefaultPodcastTitle  = "Untitled Podcast"
	DefaultEpisodeTitle  = "Untitled Episode"
	DefaultAudioMimeType = "audio/mpeg"
)

// Podcast is the canonical channel-level model built from one upstream page.
// Exactly one Podcast exists per pipeline run; it is immutable once built.
type Podcast struct {
	Title       string `json:"title"`
	SourceURL   string `json:"source_url"`
	Author      string `json:"author,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Episode is the canonical item-level model. Episodes preserve upstream
// ordering (assumed reverse-chronological) and are never re-sorted.
type Episode struct {
	// ID is the upstream short-code identifier (eid). It is unique within
	// a run and doubles as the feed GUID.
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	AudioURL        string    `json:"audio_url"`
	AudioMimeType   string    `json:"audio_mime_type"`
	ImageURL        string    `json:"image_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	HasDuration     bool      `json:"-"`

	// IsRestricted marks episodes whose media is gated upstream. They
	// survive normalization but are omitted from the synthesized feed.
	IsRestricted bool `json:"is_restricted"`
}
