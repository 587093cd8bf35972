// Command trawl runs the email ingestion pipeline for a single day from the
// command line, without the HTTP server.
// Usage: go run ./cmd/trawl [-date YYYY-MM-DD]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"tunadex/internal/anomaly"
	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/email/noop"
	"tunadex/internal/email/ses"
	"tunadex/internal/extraction/gemini"
	"tunadex/internal/mail/gmail"
	"tunadex/internal/port"
	"tunadex/internal/repository/postgres"
	"tunadex/internal/service"
	"tunadex/internal/storage/local"
	s3storage "tunadex/internal/storage/s3"
	"tunadex/internal/textscan"
	"tunadex/internal/vocab"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dateFlag := flag.String("date", "", "target date (YYYY-MM-DD), defaults to today")
	flag.Parse()

	target := domain.Today()
	if *dateFlag != "" {
		parsed, err := domain.ParseDate(*dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		target = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tables := vocab.Default()
	if cfg.Vocab.File != "" {
		tables, err = vocab.Load(cfg.Vocab.File)
		if err != nil {
			return fmt.Errorf("loading vocabulary file: %w", err)
		}
	}

	store := local.NewStore(cfg.Storage.DataDir)

	var dbStore port.PayloadStore
	if !cfg.Trawl.SkipDB {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer func() { _ = db.Close() }()
		dbStore = postgres.NewPayloadRepo(db)
	}

	var objects port.ObjectStorage
	if !cfg.Trawl.SkipS3 {
		objects, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("initializing S3 client: %w", err)
		}
	}

	alerts := noop.NewNoopSender()
	if cfg.SES.Enabled {
		alerts, err = ses.NewSESSender(&cfg.SES)
		if err != nil {
			return fmt.Errorf("initializing SES sender: %w", err)
		}
	}

	svc := service.NewTrawlService(
		gmail.NewClient(&cfg.Gmail),
		gemini.NewExtractor(&cfg.Extractor),
		anomaly.NewDetector(tables),
		textscan.NewScanner(tables),
		store, dbStore, objects, alerts, cfg,
	)

	payload, err := svc.Run(context.Background(), target)
	if err != nil {
		return fmt.Errorf("trawl run for %s: %w", target, err)
	}

	log.Printf("Trawl complete for %s: %d emails, %d shipments, %d boxes, %.1f lbs, %d anomalies",
		payload.Date, payload.EmailsProcessed, len(payload.Shipments),
		payload.Totals.TotalBoxes, payload.Totals.TotalWeightLbs, len(payload.Anomalies))
	return nil
}
