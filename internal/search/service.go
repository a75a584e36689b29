package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"podhub/internal/itunes"
	"podhub/internal/metrics"
	"podhub/pkg/models"
)

// Validation failures, rejected before any upstream call.
var (
	ErrInvalidTerm  = errors.New("search term must be at least 2 characters")
	ErrInvalidMedia = errors.New("unsupported media type")
	ErrInvalidLimit = errors.New("limit must be between 1 and 200")
)

// media values accepted by the iTunes Search API.
var allowedMedia = map[string]struct{}{
	"podcast":   {},
	"music":     {},
	"audiobook": {},
	"shortFilm": {},
	"tvShow":    {},
	"software":  {},
	"ebook":     {},
	"all":       {},
}

// Client fetches raw results from the iTunes Search API.
type Client interface {
	Search(ctx context.Context, term, media, country string, limit int) ([]itunes.Result, error)
}

// Store is the slice of the podcast repository the ingest pipeline writes
// through. The store enforces track_id uniqueness; the pipeline checks
// existence first instead of leaning on the constraint.
type Store interface {
	GetByTrackID(ctx context.Context, trackID int64) (*models.Podcast, error)
	Insert(ctx context.Context, p *models.Podcast) error
	UpdateSearchTerms(ctx context.Context, id, terms string) error
}

// Service is the ingest pipeline: fetch from iTunes, normalize each result,
// dedup against the store by track id and merge search terms on conflict.
type Service struct {
	client Client
	store  Store
}

func NewService(client Client, store Store) *Service {
	return &Service{client: client, store: store}
}

type Query struct {
	Term    string
	Media   string
	Country string
	Limit   int
}

// normalize trims, applies defaults and validates. Queries that fail here
// never reach the upstream API.
func (q *Query) normalize() error {
	q.Term = strings.TrimSpace(q.Term)
	if len(q.Term) < 2 {
		return ErrInvalidTerm
	}

	q.Media = strings.TrimSpace(q.Media)
	if q.Media == "" {
		q.Media = "podcast"
	}
	if _, ok := allowedMedia[q.Media]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMedia, q.Media)
	}

	q.Country = strings.TrimSpace(q.Country)
	if q.Country == "" {
		q.Country = "US"
	}

	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Limit < 1 || q.Limit > 200 {
		return ErrInvalidLimit
	}

	return nil
}

// SearchAndStore runs one ingest: validate, fetch, then process each raw
// result independently. Upstream failures abort the whole call; a single
// item that fails to persist is logged and skipped so one bad item cannot
// sink the rest of the batch. Returned records (created or matched) keep
// encounter order.
func (s *Service) SearchAndStore(ctx context.Context, q Query) ([]models.Podcast, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}

	results, err := s.client.Search(ctx, q.Term, q.Media, q.Country, q.Limit)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(q.Term)
	if len(results) == 0 {
		log.Printf("[ingest] term %q: no results from iTunes", term)
		return []models.Podcast{}, nil
	}

	saved := make([]models.Podcast, 0, len(results))
	for _, raw := range results {
		canon := itunes.Normalize(raw)
		if canon.TrackID == 0 {
			log.Printf("[ingest] skipping result without track or collection id (%q)", canon.TrackName)
			metrics.IngestSkippedTotal.Inc()
			continue
		}

		existing, err := s.store.GetByTrackID(ctx, canon.TrackID)
		if err != nil {
			log.Printf("[ingest] lookup track %d failed: %v", canon.TrackID, err)
			metrics.IngestSkippedTotal.Inc()
			continue
		}

		if existing != nil {
			// substring check, not equality: a term already covered by the
			// stored string is not re-appended
			if !strings.Contains(existing.SearchTerms, term) {
				existing.SearchTerms = existing.SearchTerms + ", " + term
				if err := s.store.UpdateSearchTerms(ctx, existing.ID, existing.SearchTerms); err != nil {
					log.Printf("[ingest] update terms for track %d failed: %v", canon.TrackID, err)
					metrics.IngestSkippedTotal.Inc()
					continue
				}
			}
			saved = append(saved, *existing)
			metrics.IngestMatchedTotal.Inc()
			continue
		}

		now := time.Now().UTC()
		p := models.Podcast{
			ID:               uuid.NewString(),
			TrackID:          canon.TrackID,
			TrackName:        canon.TrackName,
			ArtistName:       canon.ArtistName,
			Description:      canon.Description,
			PrimaryGenreName: canon.PrimaryGenreName,
			ArtworkURL100:    canon.ArtworkURL100,
			ArtworkURL600:    canon.ArtworkURL600,
			TrackViewURL:     canon.TrackViewURL,
			ReleaseDate:      canon.ReleaseDate,
			Country:          canon.Country,
			Kind:             canon.Kind,
			TrackCount:       canon.TrackCount,
			SearchTerms:      term,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.store.Insert(ctx, &p); err != nil {
			log.Printf("[ingest] save track %d failed: %v", canon.TrackID, err)
			metrics.IngestSkippedTotal.Inc()
			continue
		}
		saved = append(saved, p)
		metrics.IngestSavedTotal.Inc()
	}

	log.Printf("[ingest] term %q: processed %d of %d results", term, len(saved), len(results))
	return saved, nil
}
