package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

// inbody-dbcheck verifies the SQLite store can be opened, its schema is
// current and reports what it holds.
func main() {
	dbPath := os.Getenv("INBODY_DB_PATH")
	if dbPath == "" {
		dbPath = "inbody_results.db"
	}
	if _, err := os.Stat(dbPath); err != nil {
		log.Println("ERROR: database file not found:", dbPath)
		log.Println("  run inbody-batch first, or point INBODY_DB_PATH at an existing database")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.OpenDatabase(dbPath, nil)
	if err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: closing database: %v", err)
		}
	}()
	log.Println("DB health: OK")

	store := repository.NewScanStore(db, nil)

	stats, err := store.GetStats(ctx)
	if err != nil {
		log.Fatalf("reading store stats: %v", err)
	}
	log.Printf("processed files: %d (ok=%d failed=%d)", stats.TotalProcessed, stats.Succeeded, stats.Failed)
	log.Printf("scan results: %d", stats.TotalResults)

	dr, err := store.GetDataRange(ctx)
	if err != nil {
		log.Fatalf("reading data range: %v", err)
	}
	switch {
	case dr.Count == 0:
		log.Println("no scan results yet")
	case dr.Earliest == nil || dr.Latest == nil:
		log.Printf("no dated scans (%d results total)", dr.Count)
	default:
		log.Printf("scan dates: %s .. %s (%d results)",
			dr.Earliest.Format("2006-01-02"), dr.Latest.Format("2006-01-02"), dr.Count)
	}
}
