package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tunadex/internal/anomaly"
	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
	"tunadex/internal/storage/local"
	"tunadex/internal/textscan"
	"tunadex/internal/xlsxexport"
)

// TrawlService runs the daily pipeline: search the inbox, fetch emails and
// attachments, extract shipments, detect anomalies, and persist the payload
// to every configured sink.
type TrawlService interface {
	Run(ctx context.Context, target domain.Date) (*domain.DailyPayload, error)
}

type trawlService struct {
	mail      port.MailSource
	extractor port.ShipmentExtractor
	detector  *anomaly.Detector
	scanner   *textscan.Scanner
	store     *local.Store
	dbStore   port.PayloadStore
	objects   port.ObjectStorage
	alerts    port.AlertSender
	cfg       *config.Config
}

// NewTrawlService wires the pipeline. dbStore, objects, and alerts may be
// nil; the local store is the system of record and is required.
func NewTrawlService(
	mail port.MailSource,
	extractor port.ShipmentExtractor,
	detector *anomaly.Detector,
	scanner *textscan.Scanner,
	store *local.Store,
	dbStore port.PayloadStore,
	objects port.ObjectStorage,
	alerts port.AlertSender,
	cfg *config.Config,
) TrawlService {
	return &trawlService{
		mail:      mail,
		extractor: extractor,
		detector:  detector,
		scanner:   scanner,
		store:     store,
		dbStore:   dbStore,
		objects:   objects,
		alerts:    alerts,
		cfg:       cfg,
	}
}

func (s *trawlService) Run(ctx context.Context, target domain.Date) (*domain.DailyPayload, error) {
	log.Printf("trawlService: starting run for %s (lookback=%d days)", target, s.cfg.Trawl.LookbackDays)

	messages, err := s.mail.Search(ctx, target, s.cfg.Trawl.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("searching inbox: %w", err)
	}
	log.Printf("trawlService: found %d messages", len(messages))

	existing := s.loadExisting(ctx, target)

	emails, attachmentTexts, hints := s.fetchEmails(ctx, target, messages)

	payload := &domain.DailyPayload{
		Date:            target,
		RunTimestamp:    time.Now().UTC(),
		EmailsProcessed: len(emails),
		Shipments:       existing,
	}

	if len(emails) > 0 {
		out, err := s.extractor.Extract(ctx, port.ExtractInput{
			Emails:            emails,
			AttachmentTexts:   attachmentTexts,
			Hints:             hints,
			TargetDate:        target,
			ExistingShipments: existing,
		})
		if err != nil {
			return nil, fmt.Errorf("extracting shipments: %w", err)
		}
		log.Printf("trawlService: extracted %d shipments, %d anomalies (model=%s)",
			len(out.Shipments), len(out.Anomalies), out.ModelUsed)
		payload.Shipments = append(payload.Shipments, out.Shipments...)
		payload.Anomalies = append(payload.Anomalies, out.Anomalies...)
	}

	payload.Anomalies = append(payload.Anomalies, s.detector.RunAllChecks(emails, payload.Shipments)...)
	payload.ComputeTotals()

	if err := s.store.Save(ctx, payload); err != nil {
		return nil, fmt.Errorf("saving payload: %w", err)
	}

	s.persistSecondary(ctx, payload)

	log.Printf("trawlService: run complete for %s: %d shipments, %d boxes, %.1f lbs, %d anomalies",
		target, len(payload.Shipments), payload.Totals.TotalBoxes,
		payload.Totals.TotalWeightLbs, len(payload.Anomalies))
	return payload, nil
}

// loadExisting returns the shipments already extracted for the target date,
// so reruns on the same day merge instead of double counting.
func (s *trawlService) loadExisting(ctx context.Context, target domain.Date) []domain.Shipment {
	prior, err := s.store.Load(ctx, target)
	if errors.Is(err, domain.ErrPayloadNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("trawlService: loading prior payload: %v", err)
		return nil
	}
	log.Printf("trawlService: merging with %d previously extracted shipments", len(prior.Shipments))
	return prior.Shipments
}

// fetchEmails pulls full detail and attachments for each message, archiving
// raw bodies as it goes. A message that fails to fetch is logged and
// skipped, not fatal to the run.
func (s *trawlService) fetchEmails(ctx context.Context, target domain.Date, messages []domain.EmailMessage) ([]domain.EmailDetail, map[string]string, map[string]textscan.FirstPass) {
	var emails []domain.EmailDetail
	attachmentTexts := make(map[string]string)
	hints := make(map[string]textscan.FirstPass)

	for _, msg := range messages {
		detail, err := s.mail.GetDetail(ctx, msg.MessageID)
		if err != nil {
			log.Printf("trawlService: fetching message %s: %v", msg.MessageID, err)
			continue
		}
		emails = append(emails, *detail)

		if err := s.store.SaveRawEmail(target, detail.MessageID, rawEmailSnapshot(detail)); err != nil {
			log.Printf("trawlService: archiving raw email %s: %v", detail.MessageID, err)
		}

		if text := s.collectAttachmentText(ctx, detail); text != "" {
			attachmentTexts[detail.MessageID] = text
		}

		scanText := detail.BodyText + " " + detail.Subject
		if att := attachmentTexts[detail.MessageID]; att != "" {
			scanText += " " + att
		}
		hints[detail.MessageID] = s.scanner.FirstPass(scanText)
	}

	return emails, attachmentTexts, hints
}

func (s *trawlService) collectAttachmentText(ctx context.Context, detail *domain.EmailDetail) string {
	var parts []string
	for _, att := range detail.Attachments {
		data, err := s.mail.GetAttachment(ctx, detail.MessageID, att.AttachmentID)
		if err != nil {
			log.Printf("trawlService: downloading attachment %s of %s: %v", att.Filename, detail.MessageID, err)
			continue
		}
		text := extractAttachmentText(att, data)
		if text != "" {
			parts = append(parts, fmt.Sprintf("--- %s ---\n%s", att.Filename, text))
		}
	}
	return strings.Join(parts, "\n\n")
}

// extractAttachmentText converts attachment bytes to prompt text. CSV and
// plain files pass through, spreadsheets are flattened row by row. PDFs and
// images are left to a note so the model knows content exists unseen.
func extractAttachmentText(att domain.AttachmentMeta, data []byte) string {
	switch att.AttachmentType {
	case domain.AttachmentCSV:
		return string(data)
	case domain.AttachmentExcel:
		text, err := excelText(data)
		if err != nil {
			log.Printf("trawlService: reading spreadsheet %s: %v", att.Filename, err)
			return fmt.Sprintf("[unreadable spreadsheet: %s]", att.Filename)
		}
		return text
	case domain.AttachmentPDF, domain.AttachmentImage:
		return fmt.Sprintf("[attachment not extracted: %s (%s, %d bytes)]", att.Filename, att.MimeType, att.SizeBytes)
	default:
		if strings.HasPrefix(att.MimeType, "text/") {
			return string(data)
		}
		return ""
	}
}

func excelText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "[sheet: %s]\n", sheet)
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func rawEmailSnapshot(detail *domain.EmailDetail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", detail.Sender)
	fmt.Fprintf(&b, "Subject: %s\n", detail.Subject)
	if detail.Date != nil {
		fmt.Fprintf(&b, "Date: %s\n", detail.Date.Format(time.RFC1123Z))
	}
	fmt.Fprintf(&b, "\n%s\n", detail.BodyText)
	return []byte(b.String())
}

// persistSecondary copies the payload to the database, object storage, and
// the alert channel. Failures here are logged, never fatal: the local store
// already holds the run.
func (s *trawlService) persistSecondary(ctx context.Context, payload *domain.DailyPayload) {
	if s.dbStore != nil && !s.cfg.Trawl.SkipDB {
		if err := s.dbStore.Save(ctx, payload); err != nil {
			log.Printf("trawlService: saving payload to database: %v", err)
		}
	}

	if s.objects != nil && !s.cfg.Trawl.SkipS3 {
		s.uploadPayload(ctx, payload)
		if !s.cfg.Trawl.SkipXLSX {
			s.uploadWorkbook(ctx, payload)
		}
	}

	if s.alerts != nil && len(payload.Anomalies) > 0 {
		if err := s.alerts.SendAnomalyDigest(ctx, payload); err != nil {
			log.Printf("trawlService: sending anomaly digest: %v", err)
		}
	}
}

func (s *trawlService) uploadPayload(ctx context.Context, payload *domain.DailyPayload) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Printf("trawlService: marshaling payload for upload: %v", err)
		return
	}
	key := fmt.Sprintf("processed/%s.json", payload.Date)
	_, err = s.objects.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.S3.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("trawlService: uploading payload to s3: %v", err)
	}
}

func (s *trawlService) uploadWorkbook(ctx context.Context, payload *domain.DailyPayload) {
	var buf bytes.Buffer
	if err := xlsxexport.Write(&buf, payload); err != nil {
		log.Printf("trawlService: building workbook: %v", err)
		return
	}
	key := fmt.Sprintf("workbooks/%s.xlsx", payload.Date)
	_, err := s.objects.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.S3.Bucket,
		Key:         key,
		Body:        &buf,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Size:        int64(buf.Len()),
	})
	if err != nil {
		log.Printf("trawlService: uploading workbook to s3: %v", err)
	}
}
