package itunes

import (
	"testing"
	"time"
)

func TestNormalizePrefersTrackFields(t *testing.T) {
	c := Normalize(Result{
		TrackID:           101,
		CollectionID:      202,
		TrackName:         "Go Time",
		CollectionName:    "Go Time Collection",
		ArtistName:        "Changelog",
		Description:       "short",
		LongDescription:   "long",
		Kind:              "podcast",
		WrapperType:       "track",
		TrackViewURL:      "https://example.com/track",
		CollectionViewURL: "https://example.com/collection",
	})
	if c.TrackID != 101 {
		t.Fatalf("expected trackId 101, got %d", c.TrackID)
	}
	if c.TrackName != "Go Time" {
		t.Fatalf("unexpected title: %q", c.TrackName)
	}
	if c.Description != "short" {
		t.Fatalf("unexpected description: %q", c.Description)
	}
	if c.Kind != "podcast" {
		t.Fatalf("unexpected kind: %q", c.Kind)
	}
	if c.TrackViewURL != "https://example.com/track" {
		t.Fatalf("unexpected view url: %q", c.TrackViewURL)
	}
}

func TestNormalizeFallsBackToCollectionFields(t *testing.T) {
	c := Normalize(Result{
		CollectionID:      202,
		CollectionName:    "All About Android",
		LongDescription:   "long",
		WrapperType:       "collection",
		CollectionViewURL: "https://example.com/collection",
	})
	if c.TrackID != 202 {
		t.Fatalf("expected collectionId fallback 202, got %d", c.TrackID)
	}
	if c.TrackName != "All About Android" {
		t.Fatalf("unexpected title: %q", c.TrackName)
	}
	if c.Description != "long" {
		t.Fatalf("unexpected description: %q", c.Description)
	}
	if c.Kind != "collection" {
		t.Fatalf("unexpected kind: %q", c.Kind)
	}
	if c.TrackViewURL != "https://example.com/collection" {
		t.Fatalf("unexpected view url: %q", c.TrackViewURL)
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	c := Normalize(Result{TrackID: 7})
	if c.TrackName != UnknownTitle {
		t.Fatalf("expected %q, got %q", UnknownTitle, c.TrackName)
	}
	if c.ArtistName != UnknownArtist {
		t.Fatalf("expected %q, got %q", UnknownArtist, c.ArtistName)
	}
	if c.ReleaseDate != nil {
		t.Fatalf("expected nil release date, got %v", c.ReleaseDate)
	}
}

func TestNormalizeParsesReleaseDate(t *testing.T) {
	c := Normalize(Result{TrackID: 7, ReleaseDate: "2024-03-01T10:30:00Z"})
	if c.ReleaseDate == nil {
		t.Fatal("expected parsed release date")
	}
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	if !c.ReleaseDate.Equal(want) {
		t.Fatalf("unexpected release date: %v", c.ReleaseDate)
	}
}

func TestNormalizeBadDateDoesNotFail(t *testing.T) {
	c := Normalize(Result{TrackID: 7, ReleaseDate: "not-a-date"})
	if c.ReleaseDate != nil {
		t.Fatalf("expected nil for unparsable date, got %v", c.ReleaseDate)
	}
	if c.TrackID != 7 {
		t.Fatalf("record should still normalize, got %#v", c)
	}
}

func TestNormalizeMissingIDs(t *testing.T) {
	c := Normalize(Result{TrackName: "orphan"})
	if c.TrackID != 0 {
		t.Fatalf("expected zero track id, got %d", c.TrackID)
	}
}
