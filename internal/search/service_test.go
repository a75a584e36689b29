package search

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"podhub/internal/itunes"
	"podhub/internal/podcast"
	"podhub/pkg/database"
	"podhub/pkg/models"
)

type stubClient struct {
	results []itunes.Result
	err     error
	calls   int
}

func (s *stubClient) Search(ctx context.Context, term, media, country string, limit int) ([]itunes.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// failingStore passes everything through to the real repo except inserts for
// one track id.
type failingStore struct {
	*podcast.Repo
	failTrackID int64
}

func (f *failingStore) Insert(ctx context.Context, p *models.Podcast) error {
	if p.TrackID == f.failTrackID {
		return errors.New("simulated insert failure")
	}
	return f.Repo.Insert(ctx, p)
}

func newTestRepo(t *testing.T) *podcast.Repo {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return podcast.NewRepo(db)
}

func rawResults(n int) []itunes.Result {
	out := make([]itunes.Result, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, itunes.Result{
			TrackID:    int64(i),
			TrackName:  fmt.Sprintf("Show %d", i),
			ArtistName: "Host",
			Kind:       "podcast",
		})
	}
	return out
}

func storedCount(t *testing.T, repo *podcast.Repo) int {
	t.Helper()
	total, err := repo.Count(context.Background(), podcast.ListQuery{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return total
}

func TestSearchAndStoreCreatesRecords(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(6)}
	svc := NewService(client, repo)

	saved, err := svc.SearchAndStore(context.Background(), Query{Term: "technology", Limit: 6})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(saved) != 6 {
		t.Fatalf("expected 6 records, got %d", len(saved))
	}
	for _, p := range saved {
		if p.SearchTerms != "technology" {
			t.Fatalf("unexpected terms on track %d: %q", p.TrackID, p.SearchTerms)
		}
		if p.ID == "" {
			t.Fatalf("missing generated id on track %d", p.TrackID)
		}
	}
	if storedCount(t, repo) != 6 {
		t.Fatalf("expected 6 stored rows, got %d", storedCount(t, repo))
	}
}

func TestSearchAndStoreIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(6)}
	svc := NewService(client, repo)
	ctx := context.Background()

	q := Query{Term: "technology", Limit: 6}
	if _, err := svc.SearchAndStore(ctx, q); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	saved, err := svc.SearchAndStore(ctx, q)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if len(saved) != 6 {
		t.Fatalf("expected 6 matched records, got %d", len(saved))
	}
	if storedCount(t, repo) != 6 {
		t.Fatalf("re-ingest created duplicates: %d rows", storedCount(t, repo))
	}
	for _, p := range saved {
		if p.SearchTerms != "technology" {
			t.Fatalf("same term must not be re-appended: %q", p.SearchTerms)
		}
	}
}

func TestNewTermAppendedExactlyOnce(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(1)}
	svc := NewService(client, repo)
	ctx := context.Background()

	if _, err := svc.SearchAndStore(ctx, Query{Term: "news"}); err != nil {
		t.Fatalf("ingest news: %v", err)
	}
	// three ingests under the same new term append it once
	for i := 0; i < 3; i++ {
		if _, err := svc.SearchAndStore(ctx, Query{Term: "Sports"}); err != nil {
			t.Fatalf("ingest sports #%d: %v", i, err)
		}
	}

	got, err := repo.GetByTrackID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SearchTerms != "news, sports" {
		t.Fatalf("expected %q, got %q", "news, sports", got.SearchTerms)
	}
}

func TestTermAlreadyCoveredBySubstringNotAppended(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(1)}
	svc := NewService(client, repo)
	ctx := context.Background()

	if _, err := svc.SearchAndStore(ctx, Query{Term: "technology"}); err != nil {
		t.Fatalf("ingest technology: %v", err)
	}
	// "tech" occurs inside the stored "technology" string, so it is
	// considered covered and nothing is appended
	if _, err := svc.SearchAndStore(ctx, Query{Term: "tech"}); err != nil {
		t.Fatalf("ingest tech: %v", err)
	}

	got, err := repo.GetByTrackID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SearchTerms != "technology" {
		t.Fatalf("expected terms unchanged, got %q", got.SearchTerms)
	}
}

func TestShortTermRejectedBeforeUpstreamCall(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(1)}
	svc := NewService(client, repo)

	for _, term := range []string{"", " ", "a", " a "} {
		_, err := svc.SearchAndStore(context.Background(), Query{Term: term})
		if !errors.Is(err, ErrInvalidTerm) {
			t.Fatalf("term %q: expected ErrInvalidTerm, got %v", term, err)
		}
	}
	if client.calls != 0 {
		t.Fatalf("upstream must not be called on validation failure, got %d calls", client.calls)
	}
}

func TestInvalidMediaAndLimitRejected(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(1)}
	svc := NewService(client, repo)
	ctx := context.Background()

	if _, err := svc.SearchAndStore(ctx, Query{Term: "news", Media: "vinyl"}); !errors.Is(err, ErrInvalidMedia) {
		t.Fatalf("expected ErrInvalidMedia, got %v", err)
	}
	if _, err := svc.SearchAndStore(ctx, Query{Term: "news", Limit: 500}); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("upstream must not be called, got %d calls", client.calls)
	}
}

func TestUpstreamTimeoutPropagatesAndPersistsNothing(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{err: fmt.Errorf("itunes: search: %w", itunes.ErrTimeout)}
	svc := NewService(client, repo)

	_, err := svc.SearchAndStore(context.Background(), Query{Term: "technology"})
	if !errors.Is(err, itunes.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if storedCount(t, repo) != 0 {
		t.Fatalf("no partial records may persist, got %d rows", storedCount(t, repo))
	}
}

func TestZeroResultsIsNotAnError(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewService(&stubClient{}, repo)

	saved, err := svc.SearchAndStore(context.Background(), Query{Term: "zzzz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 0 {
		t.Fatalf("expected empty result, got %d", len(saved))
	}
}

func TestSingleItemFailureDoesNotAbortBatch(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: rawResults(10)}
	store := &failingStore{Repo: repo, failTrackID: 5}
	svc := NewService(client, store)

	saved, err := svc.SearchAndStore(context.Background(), Query{Term: "technology"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(saved) != 9 {
		t.Fatalf("expected 9 surviving records, got %d", len(saved))
	}
	for _, p := range saved {
		if p.TrackID == 5 {
			t.Fatal("failed item must not appear in results")
		}
	}
	if storedCount(t, repo) != 9 {
		t.Fatalf("expected 9 stored rows, got %d", storedCount(t, repo))
	}
}

func TestResultsWithoutAnyIDAreSkipped(t *testing.T) {
	repo := newTestRepo(t)
	client := &stubClient{results: []itunes.Result{
		{TrackName: "orphan"},
		{TrackID: 7, TrackName: "kept", ArtistName: "Host"},
	}}
	svc := NewService(client, repo)

	saved, err := svc.SearchAndStore(context.Background(), Query{Term: "news"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(saved) != 1 || saved[0].TrackID != 7 {
		t.Fatalf("expected only the identifiable record, got %#v", saved)
	}
}

var _ Store = (*podcast.Repo)(nil)
