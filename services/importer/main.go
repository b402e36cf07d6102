package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pollumap/pollumap/services/api/db"
	"github.com/pollumap/pollumap/services/api/ingest"
	"github.com/pollumap/pollumap/services/importer/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("importer failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runID := uuid.NewString()

	f, err := os.Open(cfg.FilePath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	result, err := ingest.ParseReadings(f)
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	log.Printf("run %s: parsed %d readings from %s (%d rows skipped)",
		runID, len(result.Readings), cfg.FilePath, result.Skipped)

	if len(result.Readings) == 0 {
		return fmt.Errorf("no valid readings in %s", cfg.FilePath)
	}

	stations := db.StationsFromReadings(result.Readings)

	if cfg.DryRun {
		log.Printf("dry-run: would upsert %d stations and insert %d readings", len(stations), len(result.Readings))
		return nil
	}

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpsertStations(ctx, stations); err != nil {
		return fmt.Errorf("upsert stations: %w", err)
	}
	if err := store.InsertReadings(ctx, result.Readings); err != nil {
		return fmt.Errorf("insert readings: %w", err)
	}

	log.Printf("run %s: upserted %d stations, inserted %d readings", runID, len(stations), len(result.Readings))
	return nil
}
