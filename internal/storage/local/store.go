// Package local persists daily payloads and raw email snapshots as files
// under a data directory. This is the system of record; database and object
// storage sinks are secondary copies.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tunadex/internal/domain"
)

const (
	processedDir = "processed"
	rawDir       = "raw"
)

// Store reads and writes payload JSON under dataDir.
type Store struct {
	dataDir string
}

// NewStore creates a file-backed payload store rooted at dataDir.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) payloadPath(date domain.Date) string {
	return filepath.Join(s.dataDir, processedDir, date.String()+".json")
}

// Save writes the payload for its date, replacing any existing file. The
// write goes through a temp file so a crash never leaves a truncated
// payload behind.
func (s *Store) Save(_ context.Context, payload *domain.DailyPayload) error {
	dir := filepath.Join(s.dataDir, processedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating payload directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "payload-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.payloadPath(payload.Date)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing payload file: %w", err)
	}
	return nil
}

// Load returns the payload for a date, or domain.ErrPayloadNotFound when no
// run has been persisted for it.
func (s *Store) Load(_ context.Context, date domain.Date) (*domain.DailyPayload, error) {
	data, err := os.ReadFile(s.payloadPath(date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrPayloadNotFound
		}
		return nil, fmt.Errorf("reading payload for %s: %w", date, err)
	}

	var payload domain.DailyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling payload for %s: %w", date, err)
	}
	return &payload, nil
}

// LoadRange returns the payloads for all dates in [start, end] that have
// one, in date order. Dates without a payload are skipped, not errors.
func (s *Store) LoadRange(ctx context.Context, start, end domain.Date) ([]domain.DailyPayload, error) {
	var payloads []domain.DailyPayload
	for d := start; !d.After(end); d = d.AddDays(1) {
		payload, err := s.Load(ctx, d)
		if errors.Is(err, domain.ErrPayloadNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}
	return payloads, nil
}

// ListDates returns every date with a persisted payload, sorted ascending.
func (s *Store) ListDates(_ context.Context) ([]domain.Date, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, processedDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing payload directory: %w", err)
	}

	var dates []domain.Date
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		date, err := domain.ParseDate(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// SaveRawEmail archives an email body under raw/DATE/MESSAGE_ID.txt for
// audit and reprocessing.
func (s *Store) SaveRawEmail(date domain.Date, messageID string, content []byte) error {
	dir := filepath.Join(s.dataDir, rawDir, date.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating raw email directory: %w", err)
	}
	path := filepath.Join(dir, messageID+".txt")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing raw email %s: %w", messageID, err)
	}
	return nil
}
