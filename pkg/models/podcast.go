package models

import "time"

// PodcastCanonical is the normalized, internal form of one iTunes search
// result used by the ingest pipeline and database layer.
//
// Raw iTunes records are mapped into this structure first,
// then we write to the DB from this representation.
type PodcastCanonical struct {
	TrackID          int64      `json:"track_id"`                     // iTunes stable id (trackId, or collectionId as fallback)
	TrackName        string     `json:"track_name"`                   // title, "Unknown Title" if absent
	ArtistName       string     `json:"artist_name"`                  // creator, "Unknown Artist" if absent
	Description      string     `json:"description,omitempty"`        // description or longDescription
	PrimaryGenreName string     `json:"primary_genre_name,omitempty"` // genre (optional)
	ArtworkURL100    string     `json:"artwork_url_100,omitempty"`
	ArtworkURL600    string     `json:"artwork_url_600,omitempty"`
	TrackViewURL     string     `json:"track_view_url,omitempty"` // trackViewUrl or collectionViewUrl
	ReleaseDate      *time.Time `json:"release_date,omitempty"`   // nil when absent or unparsable
	Country          string     `json:"country,omitempty"`
	Kind             string     `json:"kind,omitempty"` // kind or wrapperType (podcast / track / collection)
	TrackCount       int        `json:"track_count,omitempty"`
}
