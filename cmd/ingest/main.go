package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"podhub/internal/itunes"
	"podhub/internal/podcast"
	"podhub/internal/search"
	"podhub/pkg/database"
	"podhub/pkg/utils"
)

// One-shot ingest of a single search term, for seeding or debugging
// without the HTTP server.
func main() {
	term := flag.String("term", "", "search term (required)")
	media := flag.String("media", "podcast", "media type")
	country := flag.String("country", "US", "store country code")
	limit := flag.Int("limit", 50, "maximum results (1-200)")
	flag.Parse()

	if strings.TrimSpace(*term) == "" {
		log.Fatal("usage: ingest -term <term> [-media podcast] [-country US] [-limit 50]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	itCfg := utils.LoadITunesConfig()
	client := itunes.New(itunes.Config{BaseURL: itCfg.BaseURL, Timeout: itCfg.Timeout})
	svc := search.NewService(client, podcast.NewRepo(db))

	saved, err := svc.SearchAndStore(ctx, search.Query{
		Term:    *term,
		Media:   *media,
		Country: *country,
		Limit:   *limit,
	})
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	log.Printf("ingested %d records for %q into %s", len(saved), *term, dbCfg.Path)
}
