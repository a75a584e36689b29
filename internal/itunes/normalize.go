package itunes

import (
	"strings"
	"time"

	"podhub/pkg/models"
)

const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
)

// Normalize maps one raw iTunes record into the canonical podcast shape.
// It always produces a record: missing fields fall back to the alternate
// collection-style field name, then to a fixed default. A record with
// neither trackId nor collectionId comes back with TrackID == 0 and is the
// caller's problem (it cannot be deduplicated).
func Normalize(r Result) models.PodcastCanonical {
	c := models.PodcastCanonical{
		TrackID:          r.TrackID,
		TrackName:        r.TrackName,
		ArtistName:       r.ArtistName,
		Description:      r.Description,
		PrimaryGenreName: r.PrimaryGenreName,
		ArtworkURL100:    r.ArtworkURL100,
		ArtworkURL600:    r.ArtworkURL600,
		TrackViewURL:     r.TrackViewURL,
		Country:          r.Country,
		Kind:             r.Kind,
		TrackCount:       r.TrackCount,
	}

	if c.TrackID == 0 {
		c.TrackID = r.CollectionID
	}
	if c.TrackName == "" {
		c.TrackName = r.CollectionName
	}
	if c.TrackName == "" {
		c.TrackName = UnknownTitle
	}
	if c.ArtistName == "" {
		c.ArtistName = UnknownArtist
	}
	if c.Description == "" {
		c.Description = r.LongDescription
	}
	if c.TrackViewURL == "" {
		c.TrackViewURL = r.CollectionViewURL
	}
	if c.Kind == "" {
		c.Kind = r.WrapperType
	}
	c.ReleaseDate = parseReleaseDate(r.ReleaseDate)

	return c
}

// parseReleaseDate returns nil rather than an error on bad input: a broken
// date must not fail the whole record.
func parseReleaseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
