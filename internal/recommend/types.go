package recommend

import "time"

// Category is a titled, reasoned group of recommended TMDB identifiers
// within one lane.
type Category struct {
	Title  string  `json:"title"`
	Reason string  `json:"reason"`
	Items  []int64 `json:"items"`
}

// Payload is the normalized recommendation set for all three lanes.
// This is the unit persisted in the cache and the unit enriched at read
// time. Raw model text is never persisted.
type Payload struct {
	Movies        []Category `json:"movies"`
	TV            []Category `json:"tv"`
	Documentaries []Category `json:"documentaries"`
}

// EmptyPayload returns a payload with empty (non-nil) lanes so the
// serialized form always carries all three arrays.
func EmptyPayload() Payload {
	return Payload{
		Movies:        []Category{},
		TV:            []Category{},
		Documentaries: []Category{},
	}
}

// CacheEntry is one persisted generation result. Entries are append-only;
// the most recent entry per user is authoritative.
type CacheEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// EnrichedItem is a recommended work with resolved display metadata.
// Display fields stay empty when metadata resolution failed; enrichment
// failure never removes an item on its own.
type EnrichedItem struct {
	TmdbID    int64  `json:"tmdbId"`
	MediaType string `json:"mediaType"`
	Title     string `json:"title,omitempty"`
	Overview  string `json:"overview,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"`
}

// EnrichedCategory is a category whose items survived filtering and
// carry resolved metadata.
type EnrichedCategory struct {
	Title  string         `json:"title"`
	Reason string         `json:"reason"`
	Items  []EnrichedItem `json:"items"`
}

// Response is the enriched recommendation set returned to callers.
type Response struct {
	Movies        []EnrichedCategory `json:"movies"`
	TV            []EnrichedCategory `json:"tv"`
	Documentaries []EnrichedCategory `json:"documentaries"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}
