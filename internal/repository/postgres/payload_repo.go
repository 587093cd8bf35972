package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tunadex/internal/domain"
	"tunadex/internal/port"
)

type payloadRepo struct {
	db *sqlx.DB
}

// NewPayloadRepo creates a PostgreSQL-backed PayloadStore. Each daily
// payload is stored as one JSONB document keyed by its date, with summary
// columns denormalized for dashboard queries.
func NewPayloadRepo(db *sqlx.DB) port.PayloadStore {
	return &payloadRepo{db: db}
}

type payloadRow struct {
	PayloadDate     time.Time `db:"payload_date"`
	RunTimestamp    time.Time `db:"run_timestamp"`
	EmailsProcessed int       `db:"emails_processed"`
	ShipmentCount   int       `db:"shipment_count"`
	AnomalyCount    int       `db:"anomaly_count"`
	TotalBoxes      int       `db:"total_boxes"`
	TotalWeightLbs  float64   `db:"total_weight_lbs"`
	Document        []byte    `db:"document"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *payloadRepo) Save(ctx context.Context, payload *domain.DailyPayload) error {
	document, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payloadRepo.Save: marshaling payload: %w", err)
	}

	query := `INSERT INTO daily_payloads (
		payload_date, run_timestamp, emails_processed,
		shipment_count, anomaly_count, total_boxes, total_weight_lbs,
		document, created_at, updated_at
	) VALUES (
		$1, $2, $3,
		$4, $5, $6, $7,
		$8, NOW(), NOW()
	)
	ON CONFLICT (payload_date) DO UPDATE SET
		run_timestamp = EXCLUDED.run_timestamp,
		emails_processed = EXCLUDED.emails_processed,
		shipment_count = EXCLUDED.shipment_count,
		anomaly_count = EXCLUDED.anomaly_count,
		total_boxes = EXCLUDED.total_boxes,
		total_weight_lbs = EXCLUDED.total_weight_lbs,
		document = EXCLUDED.document,
		updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		payload.Date.Time(), payload.RunTimestamp, payload.EmailsProcessed,
		len(payload.Shipments), len(payload.Anomalies),
		payload.Totals.TotalBoxes, payload.Totals.TotalWeightLbs,
		document)
	if err != nil {
		return fmt.Errorf("payloadRepo.Save: %w", err)
	}
	return nil
}

func (r *payloadRepo) Load(ctx context.Context, date domain.Date) (*domain.DailyPayload, error) {
	var row payloadRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM daily_payloads WHERE payload_date = $1", date.Time())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPayloadNotFound
		}
		return nil, fmt.Errorf("payloadRepo.Load: %w", err)
	}
	return decodeDocument(row.Document)
}

func (r *payloadRepo) LoadRange(ctx context.Context, start, end domain.Date) ([]domain.DailyPayload, error) {
	var rows []payloadRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM daily_payloads WHERE payload_date BETWEEN $1 AND $2 ORDER BY payload_date",
		start.Time(), end.Time())
	if err != nil {
		return nil, fmt.Errorf("payloadRepo.LoadRange: %w", err)
	}

	payloads := make([]domain.DailyPayload, 0, len(rows))
	for _, row := range rows {
		payload, err := decodeDocument(row.Document)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}
	return payloads, nil
}

func (r *payloadRepo) ListDates(ctx context.Context) ([]domain.Date, error) {
	var raw []time.Time
	err := r.db.SelectContext(ctx, &raw,
		"SELECT payload_date FROM daily_payloads ORDER BY payload_date")
	if err != nil {
		return nil, fmt.Errorf("payloadRepo.ListDates: %w", err)
	}

	dates := make([]domain.Date, 0, len(raw))
	for _, t := range raw {
		dates = append(dates, domain.DateOf(t))
	}
	return dates, nil
}

func decodeDocument(document []byte) (*domain.DailyPayload, error) {
	var payload domain.DailyPayload
	if err := json.Unmarshal(document, &payload); err != nil {
		return nil, fmt.Errorf("payloadRepo: unmarshaling document: %w", err)
	}
	return &payload, nil
}
