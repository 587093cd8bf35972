// Command report renders a daily, weekly, or monthly report from the local
// payload store to stdout or a file.
// Usage: go run ./cmd/report [-type daily|weekly|monthly] [-date YYYY-MM-DD] [-format markdown|html] [-out FILE]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/service"
	"tunadex/internal/storage/local"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	typeFlag := flag.String("type", "daily", "report type: daily, weekly, or monthly")
	dateFlag := flag.String("date", "", "anchor date (YYYY-MM-DD), defaults to today")
	formatFlag := flag.String("format", "markdown", "output format: markdown or html")
	outFlag := flag.String("out", "", "output file, defaults to stdout")
	flag.Parse()

	anchor := domain.Today()
	if *dateFlag != "" {
		parsed, err := domain.ParseDate(*dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		anchor = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := local.NewStore(cfg.Storage.DataDir)
	svc := service.NewReportService(store, nil, cfg)

	ctx := context.Background()
	var report *service.Report
	switch *typeFlag {
	case "daily":
		report, err = svc.Daily(ctx, anchor)
	case "weekly":
		report, err = svc.Weekly(ctx, anchor)
	case "monthly":
		report, err = svc.Monthly(ctx, anchor)
	default:
		return fmt.Errorf("unknown report type %q", *typeFlag)
	}
	if err != nil {
		return fmt.Errorf("generating %s report for %s: %w", *typeFlag, anchor, err)
	}

	body := report.Markdown
	if *formatFlag == "html" {
		body = report.HTML
	}

	if *outFlag == "" {
		fmt.Print(body)
		return nil
	}
	if err := os.WriteFile(*outFlag, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *outFlag, err)
	}
	log.Printf("Report written to %s", *outFlag)
	return nil
}
