// Package ses sends the post-run anomaly digest via AWS SES.
package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESSender creates a new SES-backed AlertSender.
func NewSESSender(cfg *config.SESConfig) (port.AlertSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		toAddress:   cfg.ToAddress,
	}, nil
}

// SendAnomalyDigest sends one digest email summarizing the day's anomalies.
// A payload with no anomalies sends nothing.
func (s *sesSender) SendAnomalyDigest(ctx context.Context, payload *domain.DailyPayload) error {
	if len(payload.Anomalies) == 0 {
		return nil
	}

	errorCount := payload.CountBySeverity(domain.SeverityError)
	warningCount := payload.CountBySeverity(domain.SeverityWarning)

	subject := fmt.Sprintf("[tunadex] %s: %d anomalies (%d errors, %d warnings)",
		payload.Date, len(payload.Anomalies), errorCount, warningCount)
	htmlBody := buildDigestHTML(payload)
	textBody := buildDigestText(payload)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildDigestText(payload *domain.DailyPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Anomaly digest for %s\n\n", payload.Date)
	fmt.Fprintf(&b, "Emails processed: %d\n", payload.EmailsProcessed)
	fmt.Fprintf(&b, "Shipments: %d (%d boxes, %.1f lbs)\n\n",
		len(payload.Shipments), payload.Totals.TotalBoxes, payload.Totals.TotalWeightLbs)
	for _, a := range payload.Anomalies {
		fmt.Fprintf(&b, "[%s] %s: %s\n", a.Severity, a.Type, a.Description)
		if a.RelatedAWB != "" {
			fmt.Fprintf(&b, "  AWB: %s\n", a.RelatedAWB)
		}
	}
	return b.String()
}

func buildDigestHTML(payload *domain.DailyPayload) string {
	var rows strings.Builder
	for _, a := range payload.Anomalies {
		color := "#B45309"
		if a.Severity == domain.SeverityError {
			color = "#B91C1C"
		}
		fmt.Fprintf(&rows, `<tr>
  <td style="padding: 8px; border-bottom: 1px solid #eee; color: %s; font-weight: bold;">%s</td>
  <td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
  <td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
  <td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
</tr>`, color, a.Severity, a.Type, a.Description, a.RelatedAWB)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Anomaly digest for %s</h2>
  <p>%d emails processed, %d shipments, %d boxes, %.1f lbs total.</p>
  <table style="border-collapse: collapse; width: 100%%;">
    <tr>
      <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ccc;">Severity</th>
      <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ccc;">Type</th>
      <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ccc;">Description</th>
      <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ccc;">AWB</th>
    </tr>
    %s
  </table>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">tunadex - Seafood Shipment Tracking</p>
</body>
</html>`, payload.Date, payload.EmailsProcessed, len(payload.Shipments),
		payload.Totals.TotalBoxes, payload.Totals.TotalWeightLbs, rows.String())
}
