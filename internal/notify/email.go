package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// EmailRecipient is a destination address with an optional display name.
type EmailRecipient struct {
	Email string
	Name  string
}

// EmailMessage represents an email to be sent. Multiple recipients are
// joined into one outgoing message, not one send per recipient.
type EmailMessage struct {
	To      []EmailRecipient
	Subject string
	HTML    string
	Text    string
}

// EmailSender defines the contract for the mail channel.
// Implementations can be swapped (SendGrid, SES) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) Outcome
	// Verify performs a lightweight authentication probe against the
	// transport. It does network I/O and is only invoked on demand.
	Verify(ctx context.Context) error
}

// SendGridEmailSender sends emails via the SendGrid API.
type SendGridEmailSender struct {
	client    *sendgrid.Client
	apiKey    string
	fromEmail string
	fromName  string
	features  *Features
	logger    *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// NewSendGridEmailSender creates a SendGrid-backed email sender. Returns
// nil when the API key is absent; callers fall back to NullEmailSender.
func NewSendGridEmailSender(cfg SendGridConfig, features *Features, logger *logging.Logger) *SendGridEmailSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridEmailSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		features:  features,
		logger:    logger,
	}
}

// Send sends one email to all recipients via SendGrid.
func (s *SendGridEmailSender) Send(ctx context.Context, msg EmailMessage) Outcome {
	if s.features != nil && s.features.DryRun {
		id := dryRunID("dry-run")
		s.logger.Info("[DRY RUN] email would be sent",
			"to", joinRecipients(msg.To),
			"subject", msg.Subject,
			"message_id", id,
		)
		return OK(id)
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	m.Subject = msg.Subject
	p := mail.NewPersonalization()
	for _, r := range msg.To {
		p.AddTos(mail.NewEmail(r.Name, r.Email))
	}
	m.AddPersonalizations(p)
	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	response, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", joinRecipients(msg.To))
		return Errf("sendgrid send failed: %v", err)
	}
	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return Errf("sendgrid returned status %d", response.StatusCode)
	}

	id := firstHeader(response.Headers, "X-Message-Id")
	s.logger.Info("email sent via sendgrid", "to", joinRecipients(msg.To), "subject", msg.Subject, "message_id", id)
	return OK(id)
}

// Verify probes SendGrid with an authenticated scopes lookup.
func (s *SendGridEmailSender) Verify(ctx context.Context) error {
	req := sendgrid.GetRequest(s.apiKey, "/v3/scopes", "https://api.sendgrid.com")
	req.Method = "GET"
	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("notify: sendgrid verify: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("notify: sendgrid verify returned status %d", resp.StatusCode)
	}
	return nil
}

// NullEmailSender stands in when email credentials are absent. It is
// always constructible so a misconfigured process still starts; every
// send reports not-configured without network I/O.
type NullEmailSender struct {
	logger *logging.Logger
}

// NewNullEmailSender creates the null email sender.
func NewNullEmailSender(logger *logging.Logger) *NullEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &NullEmailSender{logger: logger}
}

// Send reports the channel as unconfigured.
func (s *NullEmailSender) Send(ctx context.Context, msg EmailMessage) Outcome {
	s.logger.Warn("email send skipped: service not configured", "subject", msg.Subject)
	return Errf("email service not configured")
}

// Verify reports the channel as unconfigured.
func (s *NullEmailSender) Verify(ctx context.Context) error {
	return fmt.Errorf("notify: email service not configured")
}

func joinRecipients(to []EmailRecipient) string {
	parts := make([]string, 0, len(to))
	for _, r := range to {
		if r.Name != "" {
			parts = append(parts, fmt.Sprintf("%q <%s>", r.Name, r.Email))
		} else {
			parts = append(parts, r.Email)
		}
	}
	return strings.Join(parts, ", ")
}

func firstHeader(headers map[string][]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func dryRunID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixMilli())
}

// Ensure interface compliance
var _ EmailSender = (*SendGridEmailSender)(nil)
var _ EmailSender = (*NullEmailSender)(nil)
