// Package media defines shared types for the snapgrab application.
package media

// Type represents whether a downloadable item is an image or a video.
type Type string

const (
	Image Type = "image"
	Video Type = "video"
)

// Descriptor describes a single downloadable media item resolved from
// a post. ShouldRender marks URLs that point at the resolver's progress
// API rather than at a file; they need one more request before they can
// be downloaded.
type Descriptor struct {
	URL          string `json:"url"`
	Type         Type   `json:"type"`
	Resolution   string `json:"resolution,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ShouldRender bool   `json:"shouldRender,omitempty"`
}

// ExtractionResult is the structured output of a successful resolution.
// Media is never empty in a valid result; an extraction that yields zero
// items is a failure, not an empty success.
type ExtractionResult struct {
	Description string       `json:"description,omitempty"`
	Preview     string       `json:"preview,omitempty"`
	Media       []Descriptor `json:"media"`
}

// Response is the public result contract. Exactly one of Message and
// Data is populated: Message iff Success is false, Data iff it is true.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    *ExtractionResult `json:"data,omitempty"`
}

// HistoryEntry records one completed download.
type HistoryEntry struct {
	ID        int64  // Assigned by the history store
	SourceURL string // The post URL that was resolved
	Platform  string // instagram, facebook, or tiktok
	Type      Type   // Image or Video
	File      string // Local path the media was saved to
	SavedAt   string // RFC 3339 timestamp
}
