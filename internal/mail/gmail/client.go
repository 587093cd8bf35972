// Package gmail implements port.MailSource against the Gmail REST API.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"tunadex/internal/config"
	"tunadex/internal/domain"
	"tunadex/internal/port"
)

const (
	apiBaseURL     = "https://gmail.googleapis.com/gmail/v1"
	googleTokenURL = "https://oauth2.googleapis.com/token"
	pageSize       = 100
)

// Client implements port.MailSource against the Gmail REST API using a
// refresh-token OAuth flow.
type Client struct {
	endpoint string
	queries  []string
	client   *http.Client
}

// NewClient creates a Gmail mail source. The underlying HTTP client
// refreshes access tokens transparently.
func NewClient(cfg *config.GmailConfig) *Client {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
	}
	source := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = timeoutFor(cfg)
	return newClient(cfg, httpClient)
}

// NewClientWithHTTP creates a mail source with a custom endpoint and HTTP
// client (for testing).
func NewClientWithHTTP(cfg *config.GmailConfig, endpoint string, httpClient *http.Client) *Client {
	c := newClient(cfg, httpClient)
	c.endpoint = endpoint
	return c
}

func newClient(cfg *config.GmailConfig, httpClient *http.Client) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiBaseURL
	}
	return &Client{
		endpoint: endpoint,
		queries:  cfg.SenderQueries,
		client:   httpClient,
	}
}

func timeoutFor(cfg *config.GmailConfig) time.Duration {
	if cfg.TimeoutSecs > 0 {
		return time.Duration(cfg.TimeoutSecs) * time.Second
	}
	return 60 * time.Second
}

// Search lists messages matching the configured sender queries within the
// date window ending on target. Results are deduplicated across queries and
// returned in Gmail's listing order.
func (c *Client) Search(ctx context.Context, target domain.Date, lookbackDays int) ([]domain.EmailMessage, error) {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	after := target.AddDays(-(lookbackDays - 1)).Time().Format("2006/01/02")
	before := target.AddDays(1).Time().Format("2006/01/02")

	seen := make(map[string]bool)
	var messages []domain.EmailMessage
	for _, senderQuery := range c.queries {
		query := fmt.Sprintf("%s after:%s before:%s", senderQuery, after, before)
		refs, err := c.listMessages(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", senderQuery, err)
		}
		for _, ref := range refs {
			if seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true
			msg, err := c.getMetadata(ctx, ref.ID)
			if err != nil {
				return nil, fmt.Errorf("fetching metadata for %s: %w", ref.ID, err)
			}
			messages = append(messages, *msg)
		}
	}
	return messages, nil
}

// GetDetail fetches the full message and flattens its MIME tree into plain
// text, HTML, and attachment metadata.
func (c *Client) GetDetail(ctx context.Context, messageID string) (*domain.EmailDetail, error) {
	u := fmt.Sprintf("%s/users/me/messages/%s?format=full", c.endpoint, url.PathEscape(messageID))
	var msg gmailMessage
	if err := c.getJSON(ctx, u, &msg); err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", messageID, err)
	}

	detail := &domain.EmailDetail{
		MessageID: msg.ID,
		ThreadID:  msg.ThreadID,
		Subject:   msg.Payload.header("Subject"),
		Sender:    msg.Payload.header("From"),
		Date:      parseMessageDate(msg.Payload.header("Date")),
	}
	walkParts(&msg.Payload, detail)
	return detail, nil
}

// GetAttachment downloads the raw bytes of a single attachment.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	u := fmt.Sprintf("%s/users/me/messages/%s/attachments/%s",
		c.endpoint, url.PathEscape(messageID), url.PathEscape(attachmentID))
	var body gmailBody
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("fetching attachment %s: %w", attachmentID, err)
	}
	data, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(body.Data, "="))
	if err != nil {
		return nil, fmt.Errorf("decoding attachment %s: %w", attachmentID, err)
	}
	return data, nil
}

type messageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type listResponse struct {
	Messages      []messageRef `json:"messages"`
	NextPageToken string       `json:"nextPageToken"`
}

func (c *Client) listMessages(ctx context.Context, query string) ([]messageRef, error) {
	var refs []messageRef
	pageToken := ""
	for {
		params := url.Values{}
		params.Set("q", query)
		params.Set("maxResults", fmt.Sprintf("%d", pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		u := fmt.Sprintf("%s/users/me/messages?%s", c.endpoint, params.Encode())

		var page listResponse
		if err := c.getJSON(ctx, u, &page); err != nil {
			return nil, err
		}
		refs = append(refs, page.Messages...)
		if page.NextPageToken == "" {
			return refs, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) getMetadata(ctx context.Context, messageID string) (*domain.EmailMessage, error) {
	u := fmt.Sprintf("%s/users/me/messages/%s?format=metadata&metadataHeaders=Subject&metadataHeaders=From&metadataHeaders=Date",
		c.endpoint, url.PathEscape(messageID))
	var msg gmailMessage
	if err := c.getJSON(ctx, u, &msg); err != nil {
		return nil, err
	}
	return &domain.EmailMessage{
		MessageID: msg.ID,
		ThreadID:  msg.ThreadID,
		Subject:   msg.Payload.header("Subject"),
		Sender:    msg.Payload.header("From"),
		Date:      parseMessageDate(msg.Payload.header("Date")),
		Snippet:   msg.Snippet,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, u string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling gmail API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gmail API error (status %d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

// gmailMessage models the subset of the Gmail message resource we read.
type gmailMessage struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"threadId"`
	Snippet  string    `json:"snippet"`
	Payload  gmailPart `json:"payload"`
}

type gmailPart struct {
	MimeType string        `json:"mimeType"`
	Filename string        `json:"filename"`
	Headers  []gmailHeader `json:"headers"`
	Body     gmailBody     `json:"body"`
	Parts    []gmailPart   `json:"parts"`
}

type gmailHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type gmailBody struct {
	AttachmentID string `json:"attachmentId"`
	Size         int64  `json:"size"`
	Data         string `json:"data"`
}

func (p *gmailPart) header(name string) string {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// walkParts recurses the MIME tree collecting body text, HTML, and
// attachment references. Inline bodies with filenames count as attachments.
func walkParts(part *gmailPart, detail *domain.EmailDetail) {
	if part.Filename != "" && part.Body.AttachmentID != "" {
		detail.Attachments = append(detail.Attachments, domain.AttachmentMeta{
			AttachmentID:   part.Body.AttachmentID,
			Filename:       part.Filename,
			MimeType:       part.MimeType,
			SizeBytes:      part.Body.Size,
			AttachmentType: ClassifyAttachment(part.Filename, part.MimeType),
		})
	} else if part.Body.Data != "" {
		decoded, err := decodeBase64URL(part.Body.Data)
		if err == nil {
			switch part.MimeType {
			case "text/plain":
				detail.BodyText += string(decoded)
			case "text/html":
				detail.BodyHTML += string(decoded)
			}
		}
	}
	for i := range part.Parts {
		walkParts(&part.Parts[i], detail)
	}
}

func decodeBase64URL(data string) ([]byte, error) {
	return base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
}

// ClassifyAttachment buckets an attachment by filename extension, falling
// back to the MIME type.
func ClassifyAttachment(filename, mimeType string) domain.AttachmentType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return domain.AttachmentPDF
	case ".xlsx", ".xls":
		return domain.AttachmentExcel
	case ".csv":
		return domain.AttachmentCSV
	case ".png", ".jpg", ".jpeg", ".gif", ".heic":
		return domain.AttachmentImage
	}
	switch {
	case mimeType == "application/pdf":
		return domain.AttachmentPDF
	case strings.HasPrefix(mimeType, "image/"):
		return domain.AttachmentImage
	case strings.Contains(mimeType, "spreadsheet"):
		return domain.AttachmentExcel
	}
	return domain.AttachmentOther
}

func parseMessageDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return nil
	}
	return &t
}

var _ port.MailSource = (*Client)(nil)
