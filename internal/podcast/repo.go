package podcast

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"podhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const podcastColumns = `id, track_id, track_name, artist_name, description,
		primary_genre_name, artwork_url_100, artwork_url_600, track_view_url,
		release_date, country, kind, track_count, search_terms, created_at, updated_at`

type ListQuery struct {
	Artist string // substring match on artist_name
	Genre  string // substring match on primary_genre_name
	Limit  int
	Offset int
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Podcast, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+podcastColumns+`
		FROM podcasts
		WHERE id = ?
	`, id)
	return scanOne(row)
}

func (r *Repo) GetByTrackID(ctx context.Context, trackID int64) (*models.Podcast, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+podcastColumns+`
		FROM podcasts
		WHERE track_id = ?
	`, trackID)
	return scanOne(row)
}

func (r *Repo) Insert(ctx context.Context, p *models.Podcast) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO podcasts (`+podcastColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.TrackID,
		p.TrackName,
		p.ArtistName,
		nullString(p.Description),
		nullString(p.PrimaryGenreName),
		nullString(p.ArtworkURL100),
		nullString(p.ArtworkURL600),
		nullString(p.TrackViewURL),
		nullTime(p.ReleaseDate),
		nullString(p.Country),
		nullString(p.Kind),
		nullInt(p.TrackCount),
		p.SearchTerms,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert podcast track %d: %w", p.TrackID, err)
	}
	return nil
}

// UpdateSearchTerms is an explicit read-modify-write step: the caller reads
// the row, computes the new terms string and persists it here.
func (r *Repo) UpdateSearchTerms(ctx context.Context, id, terms string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE podcasts
		SET search_terms = ?, updated_at = ?
		WHERE id = ?
	`, terms, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update search terms for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update search terms rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update search terms for %s: no such row", id)
	}
	return nil
}

// Recent returns stored podcasts newest-insertion-first. Rows created within
// the same timestamp are broken by rowid so the order stays deterministic.
func (r *Repo) Recent(ctx context.Context, limit int) ([]models.Podcast, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+podcastColumns+`
		FROM podcasts
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent query: %w", err)
	}
	return scanAll(rows)
}

// ByTerm returns stored podcasts whose accumulated search_terms contain the
// given term as a case-insensitive substring, newest first.
func (r *Repo) ByTerm(ctx context.Context, term string) ([]models.Podcast, error) {
	kw := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+podcastColumns+`
		FROM podcasts
		WHERE LOWER(search_terms) LIKE ?
		ORDER BY created_at DESC, rowid DESC
	`, kw)
	if err != nil {
		return nil, fmt.Errorf("by-term query: %w", err)
	}
	return scanAll(rows)
}

// PopularTerms groups by the full accumulated search_terms string, not by
// individual terms: "news" and "news, tech" count separately.
func (r *Repo) PopularTerms(ctx context.Context, topN int) ([]models.TermCount, error) {
	if topN <= 0 {
		topN = 10
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT search_terms, COUNT(*) AS cnt
		FROM podcasts
		GROUP BY search_terms
		ORDER BY cnt DESC, search_terms ASC
		LIMIT ?
	`, topN)
	if err != nil {
		return nil, fmt.Errorf("popular terms query: %w", err)
	}
	defer rows.Close()

	out := make([]models.TermCount, 0, topN)
	for rows.Next() {
		var tc models.TermCount
		if err := rows.Scan(&tc.SearchTerm, &tc.Count); err != nil {
			return nil, fmt.Errorf("popular terms scan: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("popular terms rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Podcast, error) {
	sqlStr, args := buildListSQL(q, false)
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	return scanAll(rows)
}

// buildListSQL builds either COUNT(*) or the SELECT list with
// artist/genre substring filters.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + podcastColumns + ` FROM podcasts`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM podcasts`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Artist) != "" {
		where = append(where, "LOWER(artist_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Artist))+"%")
	}
	if strings.TrimSpace(q.Genre) != "" {
		where = append(where, "LOWER(primary_genre_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q.Genre))+"%")
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY created_at DESC, rowid DESC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPodcast(row rowScanner) (*models.Podcast, error) {
	var (
		p           models.Podcast
		description sql.NullString
		genre       sql.NullString
		artwork100  sql.NullString
		artwork600  sql.NullString
		viewURL     sql.NullString
		releaseDate sql.NullTime
		country     sql.NullString
		kind        sql.NullString
		trackCount  sql.NullInt64
	)

	if err := row.Scan(
		&p.ID, &p.TrackID, &p.TrackName, &p.ArtistName, &description,
		&genre, &artwork100, &artwork600, &viewURL,
		&releaseDate, &country, &kind, &trackCount, &p.SearchTerms,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Description = description.String
	p.PrimaryGenreName = genre.String
	p.ArtworkURL100 = artwork100.String
	p.ArtworkURL600 = artwork600.String
	p.TrackViewURL = viewURL.String
	p.Country = country.String
	p.Kind = kind.String
	if trackCount.Valid {
		p.TrackCount = int(trackCount.Int64)
	}
	if releaseDate.Valid {
		t := releaseDate.Time.UTC()
		p.ReleaseDate = &t
	}
	return &p, nil
}

func scanOne(row *sql.Row) (*models.Podcast, error) {
	p, err := scanPodcast(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan podcast: %w", err)
	}
	return p, nil
}

func scanAll(rows *sql.Rows) ([]models.Podcast, error) {
	defer rows.Close()

	out := make([]models.Podcast, 0)
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan podcast row: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
