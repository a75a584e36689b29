package database

import (
	"database/sql"
	"fmt"
)

// schema is applied on every startup; all statements are idempotent.
// track_id is the iTunes identifier and carries the dedup uniqueness
// constraint. search_terms, artist_name and primary_genre_name are indexed
// because the read endpoints filter on them.
const schema = `
CREATE TABLE IF NOT EXISTS podcasts (
  id TEXT PRIMARY KEY,
  track_id INTEGER NOT NULL UNIQUE,
  track_name TEXT NOT NULL,
  artist_name TEXT NOT NULL,
  description TEXT,
  primary_genre_name TEXT,
  artwork_url_100 TEXT,
  artwork_url_600 TEXT,
  track_view_url TEXT,
  release_date TIMESTAMP,
  country TEXT,
  kind TEXT,
  track_count INTEGER,
  search_terms TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_podcasts_search_terms ON podcasts(search_terms);
CREATE INDEX IF NOT EXISTS idx_podcasts_artist_name ON podcasts(artist_name);
CREATE INDEX IF NOT EXISTS idx_podcasts_genre ON podcasts(primary_genre_name);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
