package port

import (
	"context"

	"tunadex/internal/domain"
)

// MailSource abstracts the supplier inbox: search for shipment emails in a
// date window, fetch full message detail, and download attachments.
type MailSource interface {
	Search(ctx context.Context, target domain.Date, lookbackDays int) ([]domain.EmailMessage, error)
	GetDetail(ctx context.Context, messageID string) (*domain.EmailDetail, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}
