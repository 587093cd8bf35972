package main

import (
	"fmt"
	"log"

	"tunadex/internal/anomaly"
	"tunadex/internal/config"
	"tunadex/internal/email/noop"
	"tunadex/internal/email/ses"
	"tunadex/internal/extraction/gemini"
	"tunadex/internal/handler"
	"tunadex/internal/mail/gmail"
	"tunadex/internal/port"
	"tunadex/internal/repository/postgres"
	"tunadex/internal/router"
	"tunadex/internal/service"
	"tunadex/internal/storage/local"
	s3storage "tunadex/internal/storage/s3"
	"tunadex/internal/textscan"
	"tunadex/internal/vocab"

	"github.com/jmoiron/sqlx"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tables, err := loadVocab(cfg)
	if err != nil {
		return err
	}

	// Local store is the system of record; the database and S3 archive are
	// optional secondary sinks.
	store := local.NewStore(cfg.Storage.DataDir)

	var db *sqlx.DB
	var dbStore port.PayloadStore
	if !cfg.Trawl.SkipDB {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		dbStore = postgres.NewPayloadRepo(db)
	}

	var objects port.ObjectStorage
	if !cfg.Trawl.SkipS3 {
		objects, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	alerts := noop.NewNoopSender()
	if cfg.SES.Enabled {
		alerts, err = ses.NewSESSender(&cfg.SES)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	}

	mailClient := gmail.NewClient(&cfg.Gmail)
	extractor := gemini.NewExtractor(&cfg.Extractor)
	detector := anomaly.NewDetector(tables)
	scanner := textscan.NewScanner(tables)

	// Initialize services
	trawlSvc := service.NewTrawlService(mailClient, extractor, detector, scanner, store, dbStore, objects, alerts, cfg)
	reportSvc := service.NewReportService(store, objects, cfg)

	// Initialize handlers
	payloadH := handler.NewPayloadHandler(store)
	reportH := handler.NewReportHandler(reportSvc)
	trawlH := handler.NewTrawlHandler(trawlSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(payloadH, reportH, trawlH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func loadVocab(cfg *config.Config) (*vocab.Table, error) {
	if cfg.Vocab.File == "" {
		return vocab.Default(), nil
	}
	tables, err := vocab.Load(cfg.Vocab.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary file: %w", err)
	}
	return tables, nil
}
