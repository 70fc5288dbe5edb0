package notify

import (
	"context"

	"github.com/arogyalabs/diagnostics-platform/internal/config"
)

// EmailStatus reports the mail channel's configuration and, when probed,
// its connectivity.
type EmailStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Error      string `json:"error,omitempty"`
}

// SMSStatus reports the text-message channel's configuration.
type SMSStatus struct {
	Configured bool `json:"configured"`
	Ready      bool `json:"ready"`
}

// FeatureStatus echoes the delivery knobs for operational visibility.
type FeatureStatus struct {
	DryRun        bool  `json:"dryRun"`
	RetryAttempts int   `json:"retryAttempts"`
	RetryDelayMs  int64 `json:"retryDelayMs"`
}

// Status is the read-only introspection document served to admins.
type Status struct {
	Configuration config.Validation `json:"configuration"`
	Features      FeatureStatus     `json:"features"`
	Email         EmailStatus       `json:"email"`
	SMS           SMSStatus         `json:"sms"`
}

// BuildStatus assembles the status document. Configuration validation is
// pure; the email connectivity probe does I/O and runs only here, on
// demand, never automatically.
func BuildStatus(ctx context.Context, cfg *config.Config, email EmailSender) Status {
	status := Status{
		Configuration: cfg.Validate(),
		Features: FeatureStatus{
			DryRun:        cfg.DryRun,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelayMs:  cfg.RetryDelay.Milliseconds(),
		},
		SMS: SMSStatus{
			Configured: cfg.SMSEnabled,
			Ready:      cfg.SMSConfigured(),
		},
	}

	if cfg.EmailEnabled {
		status.Email.Configured = cfg.EmailConfigured()
		if err := email.Verify(ctx); err != nil {
			status.Email.Error = err.Error()
		} else {
			status.Email.Connected = true
		}
	}

	return status
}
