package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

var smsSendTracer = otel.Tracer("diagnostics.internal.notify.sms")

// SMSSender defines the contract for the text-message channel.
type SMSSender interface {
	Send(ctx context.Context, to, body string) Outcome
}

// TwilioSMSSender posts SMS messages using Twilio's REST API.
type TwilioSMSSender struct {
	accountSID  string
	authToken   string
	from        string
	countryCode string
	features    *Features
	httpClient  *http.Client
	logger      *logging.Logger
}

// TwilioConfig holds configuration for the Twilio transport.
type TwilioConfig struct {
	AccountSID         string
	AuthToken          string
	FromNumber         string
	DefaultCountryCode string
}

// NewTwilioSMSSender builds a sender with sane defaults. Returns nil when
// credentials are missing; callers fall back to NullSMSSender.
func NewTwilioSMSSender(cfg TwilioConfig, features *Features, logger *logging.Logger) *TwilioSMSSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "+91"
	}
	return &TwilioSMSSender{
		accountSID:  cfg.AccountSID,
		authToken:   cfg.AuthToken,
		from:        cfg.FromNumber,
		countryCode: cfg.DefaultCountryCode,
		features:    features,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Send dispatches a single SMS. Retries are the retry wrapper's concern;
// this performs exactly one attempt.
func (s *TwilioSMSSender) Send(ctx context.Context, to, body string) Outcome {
	if to == "" {
		return Errf("sms destination required")
	}
	if strings.TrimSpace(body) == "" {
		return Errf("sms body required")
	}

	formatted := FormatPhone(to, s.countryCode)

	if s.features != nil && s.features.DryRun {
		id := dryRunID("dry-run-sms")
		s.logger.Info("[DRY RUN] SMS would be sent",
			"to", formatted,
			"body_preview", truncate(body, 50),
			"message_id", id,
		)
		return OK(id)
	}

	ctx, span := smsSendTracer.Start(ctx, "notify.sms.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("diagnostics.sms.to", formatted))

	payload := url.Values{}
	payload.Set("To", formatted)
	payload.Set("From", s.from)
	payload.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return Errf("twilio request build failed: %v", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("twilio send failed", "error", err, "to", formatted)
		return Errf("twilio send failed: %v", err)
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := formatTwilioError(resp.StatusCode, respBody)
		s.logger.Error("twilio send rejected", "status", resp.StatusCode, "to", formatted)
		return Errf("twilio send failed: %s", msg)
	}

	var parsed struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	_ = json.Unmarshal(respBody, &parsed)

	s.logger.Info("sms sent via twilio", "to", formatted, "sid", parsed.SID, "status", parsed.Status)
	return OK(parsed.SID)
}

// NullSMSSender stands in when Twilio credentials are absent.
type NullSMSSender struct {
	logger *logging.Logger
}

// NewNullSMSSender creates the null SMS sender.
func NewNullSMSSender(logger *logging.Logger) *NullSMSSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &NullSMSSender{logger: logger}
}

// Send reports the channel as unconfigured.
func (s *NullSMSSender) Send(ctx context.Context, to, body string) Outcome {
	s.logger.Warn("sms send skipped: service not configured", "to", to)
	return Errf("sms service not configured")
}

// FormatPhone normalizes a phone number for Twilio: every character except
// digits and a leading + is stripped; a bare national number gets the
// default country code; a number already in international form is
// returned unchanged.
func FormatPhone(raw, defaultCountryCode string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}

	ccDigits := strings.TrimPrefix(defaultCountryCode, "+")

	// Country code present but the + was dropped somewhere upstream.
	if ccDigits != "" && strings.HasPrefix(cleaned, ccDigits) && len(cleaned) == 10+len(ccDigits) {
		return "+" + cleaned
	}
	// Bare 10-digit national number.
	if len(cleaned) == 10 {
		return "+" + ccDigits + cleaned
	}
	return cleaned
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	return fmt.Sprintf("status %d: %s", status, trimmed)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Ensure interface compliance
var _ SMSSender = (*TwilioSMSSender)(nil)
var _ SMSSender = (*NullSMSSender)(nil)
