package notify

import (
	"context"
	"strings"
	"testing"
)

func TestSendGridSenderRequiresAPIKey(t *testing.T) {
	if s := NewSendGridEmailSender(SendGridConfig{FromEmail: "noreply@example.com"}, nil, nil); s != nil {
		t.Fatal("expected nil sender without API key")
	}
}

func TestSendGridSenderDryRun(t *testing.T) {
	features := &Features{DryRun: true}
	s := NewSendGridEmailSender(SendGridConfig{
		APIKey:    "SG.test",
		FromEmail: "noreply@example.com",
		FromName:  "Diagnostics",
	}, features, nil)

	out := s.Send(context.Background(), EmailMessage{
		To:      []EmailRecipient{{Email: "jane@example.com", Name: "Jane Doe"}},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	if !out.Success {
		t.Fatalf("expected dry-run success, got %+v", out)
	}
	if !strings.HasPrefix(out.MessageID, "dry-run-") {
		t.Fatalf("expected dry-run message id, got %q", out.MessageID)
	}
	if strings.HasPrefix(out.MessageID, "dry-run-sms-") {
		t.Fatalf("email dry-run id should not carry the sms prefix: %q", out.MessageID)
	}
}

func TestDryRunIsCheckedPerSend(t *testing.T) {
	features := &Features{DryRun: false}
	s := NewSendGridEmailSender(SendGridConfig{APIKey: "SG.test", FromEmail: "noreply@example.com"}, features, nil)

	// Flipping the shared snapshot affects the already-built sender.
	features.DryRun = true
	out := s.Send(context.Background(), EmailMessage{
		To:      []EmailRecipient{{Email: "jane@example.com"}},
		Subject: "Hello",
	})
	if !out.Success {
		t.Fatalf("expected dry-run success after flip, got %+v", out)
	}
}

func TestNullEmailSenderReportsNotConfigured(t *testing.T) {
	s := NewNullEmailSender(nil)
	out := s.Send(context.Background(), EmailMessage{Subject: "Hello"})
	if out.Success {
		t.Fatalf("expected failure, got %+v", out)
	}
	if out.Error != "email service not configured" {
		t.Fatalf("unexpected error: %q", out.Error)
	}
	if err := s.Verify(context.Background()); err == nil {
		t.Fatal("expected verify to fail for null sender")
	}
}

func TestJoinRecipients(t *testing.T) {
	got := joinRecipients([]EmailRecipient{
		{Email: "jane@example.com", Name: "Jane Doe"},
		{Email: "admin@example.com"},
	})
	want := `"Jane Doe" <jane@example.com>, admin@example.com`
	if got != want {
		t.Fatalf("joinRecipients = %q, want %q", got, want)
	}
}

func TestFirstHeader(t *testing.T) {
	headers := map[string][]string{"X-Message-Id": {"abc123"}}
	if got := firstHeader(headers, "x-message-id"); got != "abc123" {
		t.Fatalf("firstHeader = %q", got)
	}
	if got := firstHeader(headers, "X-Other"); got != "" {
		t.Fatalf("expected empty for missing header, got %q", got)
	}
}
