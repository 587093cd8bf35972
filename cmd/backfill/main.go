// Command backfill syncs daily payloads from the local JSON store into the
// daily_payloads table, for payloads written while the database was down or
// skipped.
// Usage: go run ./cmd/backfill
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/repository/postgres"
	"tunadex/internal/storage/local"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	store := local.NewStore(cfg.Storage.DataDir)
	repo := postgres.NewPayloadRepo(db)

	ctx := context.Background()
	dates, err := store.ListDates(ctx)
	if err != nil {
		return fmt.Errorf("listing local payload dates: %w", err)
	}
	if len(dates) == 0 {
		log.Println("No local payloads found; nothing to backfill")
		return nil
	}

	total := 0
	for _, date := range dates {
		payload, err := store.Load(ctx, date)
		if err != nil {
			log.Printf("WARN: skipping %s: %v", date, err)
			continue
		}

		existing, err := repo.Load(ctx, date)
		if err != nil && !errors.Is(err, domain.ErrPayloadNotFound) {
			log.Printf("WARN: skipping %s: checking existing row: %v", date, err)
			continue
		}
		if existing != nil && !existing.RunTimestamp.Before(payload.RunTimestamp) {
			continue
		}

		if err := repo.Save(ctx, payload); err != nil {
			log.Printf("WARN: failed to upsert payload for %s: %v", date, err)
			continue
		}
		total++
	}

	log.Printf("Backfill complete: %d of %d payloads upserted", total, len(dates))
	return nil
}
