package port

import (
	"context"

	"tunadex/internal/domain"
)

// PayloadStore persists daily payloads keyed by calendar date. Save replaces
// the whole payload for its date; partial updates do not exist.
type PayloadStore interface {
	Save(ctx context.Context, payload *domain.DailyPayload) error
	Load(ctx context.Context, date domain.Date) (*domain.DailyPayload, error)
	LoadRange(ctx context.Context, start, end domain.Date) ([]domain.DailyPayload, error)
	ListDates(ctx context.Context) ([]domain.Date, error)
}
