package models

import "time"

// Podcast is one stored row of the podcasts table.
type Podcast struct {
	ID               string     `json:"id"`
	TrackID          int64      `json:"track_id"`
	TrackName        string     `json:"track_name"`
	ArtistName       string     `json:"artist_name"`
	Description      string     `json:"description,omitempty"`
	PrimaryGenreName string     `json:"primary_genre_name,omitempty"`
	ArtworkURL100    string     `json:"artwork_url_100,omitempty"`
	ArtworkURL600    string     `json:"artwork_url_600,omitempty"`
	TrackViewURL     string     `json:"track_view_url,omitempty"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`
	Country          string     `json:"country,omitempty"`
	Kind             string     `json:"kind,omitempty"`
	TrackCount       int        `json:"track_count,omitempty"`
	SearchTerms      string     `json:"search_terms"` // comma-joined lower-cased terms that surfaced this row
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TermCount is one row of the popular-terms ranking: an accumulated
// search_terms value and how many stored podcasts carry exactly it.
type TermCount struct {
	SearchTerm string `json:"search_term"`
	Count      int    `json:"count"`
}
