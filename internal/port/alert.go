package port

import (
	"context"

	"tunadex/internal/domain"
)

// AlertSender delivers the post-run anomaly digest to operators.
type AlertSender interface {
	SendAnomalyDigest(ctx context.Context, payload *domain.DailyPayload) error
}
