package notify

import (
	"context"
	"testing"
	"time"

	"github.com/arogyalabs/diagnostics-platform/internal/config"
)

func TestBuildStatusUnconfiguredEmail(t *testing.T) {
	cfg := &config.Config{
		EmailEnabled:  true,
		EmailProvider: "sendgrid",
		RetryAttempts: 3,
		RetryDelay:    5 * time.Second,
		DryRun:        true,
	}

	status := BuildStatus(context.Background(), cfg, NewNullEmailSender(nil))

	if status.Configuration.IsValid {
		t.Fatal("missing SendGrid key should invalidate configuration")
	}
	if status.Email.Connected {
		t.Fatal("null sender should not report connected")
	}
	if status.Email.Error == "" {
		t.Fatal("expected a probe error for the null sender")
	}
	if !status.Features.DryRun || status.Features.RetryAttempts != 3 || status.Features.RetryDelayMs != 5000 {
		t.Fatalf("unexpected features: %+v", status.Features)
	}
}

func TestBuildStatusDisabledEmailSkipsProbe(t *testing.T) {
	cfg := &config.Config{EmailEnabled: false, SMSEnabled: true}
	status := BuildStatus(context.Background(), cfg, probeCountingSender{t: t})
	if status.Email.Configured || status.Email.Connected {
		t.Fatalf("disabled email should report unconfigured, got %+v", status.Email)
	}
	if !status.SMS.Configured {
		t.Fatal("sms enabled flag should surface")
	}
	if status.SMS.Ready {
		t.Fatal("sms without credentials should not be ready")
	}
}

type probeCountingSender struct{ t *testing.T }

func (s probeCountingSender) Send(ctx context.Context, msg EmailMessage) Outcome {
	return OK("x")
}

func (s probeCountingSender) Verify(ctx context.Context) error {
	s.t.Fatal("verify must not run when email is disabled")
	return nil
}
