package notify

import (
	"context"
	"time"

	"github.com/arogyalabs/diagnostics-platform/internal/observability/metrics"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// Service is the notification coordinator: it fans a single domain event
// out to every applicable channel, invoking the renderer and the retrying
// channel clients, and aggregates per-channel outcomes. No operation ever
// returns an error or panics past this boundary; results are reported
// back only for logging and diagnostics.
type Service struct {
	email       EmailSender
	sms         SMSSender
	templates   *TemplateSet
	features    *Features
	policy      RetryPolicy
	adminEmails []EmailRecipient
	metrics     *metrics.NotificationMetrics
	logger      *logging.Logger
	now         func() time.Time
}

// NewService creates a notification coordinator.
func NewService(email EmailSender, sms SMSSender, templates *TemplateSet, features *Features, adminEmails []EmailRecipient, m *metrics.NotificationMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if features == nil {
		features = &Features{RetryAttempts: 1}
	}
	return &Service{
		email:       email,
		sms:         sms,
		templates:   templates,
		features:    features,
		policy:      RetryPolicy{MaxAttempts: features.RetryAttempts, BaseDelay: features.RetryDelay},
		adminEmails: adminEmails,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// SendAppointmentConfirmation notifies the patient on every enabled
// channel and alerts the internal admin list by mail.
func (s *Service) SendAppointmentConfirmation(ctx context.Context, evt AppointmentEvent) Result {
	results := Result{}

	if s.features.EmailEnabled && evt.PatientEmail != "" {
		results[ChannelEmail] = s.attemptChannel(ctx, ChannelEmail, func(ctx context.Context) Outcome {
			rendered := s.templates.AppointmentConfirmationEmail(evt)
			return s.email.Send(ctx, EmailMessage{
				To:      []EmailRecipient{{Email: evt.PatientEmail, Name: evt.PatientName}},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
				Text:    rendered.Text,
			})
		})
	}

	if s.features.SMSEnabled && evt.PatientPhone != "" {
		results[ChannelSMS] = s.attemptChannel(ctx, ChannelSMS, func(ctx context.Context) Outcome {
			return s.sms.Send(ctx, evt.PatientPhone, s.templates.AppointmentConfirmationSMS(evt))
		})
	}

	if s.features.EmailEnabled && len(s.adminEmails) > 0 {
		results[ChannelAdmin] = s.attemptChannel(ctx, ChannelAdmin, func(ctx context.Context) Outcome {
			rendered := s.templates.NewBookingAlertEmail(BookingKindAppointment, evt.PatientName, evt.AppointmentID)
			return s.email.Send(ctx, EmailMessage{
				To:      s.adminEmails,
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
			})
		})
	}

	s.logResult("appointment confirmation", evt.AppointmentID, results)
	return results
}

// SendTestBookingConfirmation notifies the patient about a test booking
// and alerts the internal admin list by mail.
func (s *Service) SendTestBookingConfirmation(ctx context.Context, evt TestBookingEvent) Result {
	results := Result{}

	if s.features.EmailEnabled && evt.PatientEmail != "" {
		results[ChannelEmail] = s.attemptChannel(ctx, ChannelEmail, func(ctx context.Context) Outcome {
			rendered := s.templates.TestBookingConfirmationEmail(evt)
			return s.email.Send(ctx, EmailMessage{
				To:      []EmailRecipient{{Email: evt.PatientEmail, Name: evt.PatientName}},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
				Text:    rendered.Text,
			})
		})
	}

	if s.features.SMSEnabled && evt.PatientPhone != "" {
		results[ChannelSMS] = s.attemptChannel(ctx, ChannelSMS, func(ctx context.Context) Outcome {
			return s.sms.Send(ctx, evt.PatientPhone, s.templates.TestBookingConfirmationSMS(evt))
		})
	}

	if s.features.EmailEnabled && len(s.adminEmails) > 0 {
		results[ChannelAdmin] = s.attemptChannel(ctx, ChannelAdmin, func(ctx context.Context) Outcome {
			rendered := s.templates.NewBookingAlertEmail(BookingKindTestBooking, evt.PatientName, evt.BookingID)
			return s.email.Send(ctx, EmailMessage{
				To:      s.adminEmails,
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
			})
		})
	}

	s.logResult("test booking confirmation", evt.BookingID, results)
	return results
}

// SendPaymentConfirmation notifies the patient only; no admin alert.
func (s *Service) SendPaymentConfirmation(ctx context.Context, evt PaymentEvent, patientEmail, patientPhone string) Result {
	results := Result{}

	if s.features.EmailEnabled && patientEmail != "" {
		results[ChannelEmail] = s.attemptChannel(ctx, ChannelEmail, func(ctx context.Context) Outcome {
			rendered := s.templates.PaymentSuccessEmail(evt)
			return s.email.Send(ctx, EmailMessage{
				To:      []EmailRecipient{{Email: patientEmail, Name: evt.PatientName}},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
				Text:    rendered.Text,
			})
		})
	}

	if s.features.SMSEnabled && patientPhone != "" {
		results[ChannelSMS] = s.attemptChannel(ctx, ChannelSMS, func(ctx context.Context) Outcome {
			return s.sms.Send(ctx, patientPhone, s.templates.PaymentSuccessSMS(evt))
		})
	}

	s.logResult("payment confirmation", evt.PaymentID, results)
	return results
}

// SendAppointmentReminder notifies the patient only; wording varies with
// the hours remaining.
func (s *Service) SendAppointmentReminder(ctx context.Context, evt AppointmentEvent, hoursUntil int) Result {
	results := Result{}

	if s.features.EmailEnabled && evt.PatientEmail != "" {
		results[ChannelEmail] = s.attemptChannel(ctx, ChannelEmail, func(ctx context.Context) Outcome {
			rendered := s.templates.AppointmentReminderEmail(evt, hoursUntil)
			return s.email.Send(ctx, EmailMessage{
				To:      []EmailRecipient{{Email: evt.PatientEmail, Name: evt.PatientName}},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
				Text:    rendered.Text,
			})
		})
	}

	if s.features.SMSEnabled && evt.PatientPhone != "" {
		results[ChannelSMS] = s.attemptChannel(ctx, ChannelSMS, func(ctx context.Context) Outcome {
			return s.sms.Send(ctx, evt.PatientPhone, s.templates.AppointmentReminderSMS(evt, hoursUntil))
		})
	}

	s.logResult("appointment reminder", evt.AppointmentID, results)
	return results
}

// SendTestNotification runs a minimal synthetic message through the same
// retrying send path and returns the raw outcome for diagnostic display.
func (s *Service) SendTestNotification(ctx context.Context, channel, recipient string) Outcome {
	switch channel {
	case ChannelEmail:
		return s.attemptChannel(ctx, ChannelEmail, func(ctx context.Context) Outcome {
			rendered := s.templates.TestEmail(s.now())
			return s.email.Send(ctx, EmailMessage{
				To:      []EmailRecipient{{Email: recipient, Name: "Test User"}},
				Subject: rendered.Subject,
				HTML:    rendered.HTML,
				Text:    rendered.Text,
			})
		})
	case ChannelSMS:
		return s.attemptChannel(ctx, ChannelSMS, func(ctx context.Context) Outcome {
			return s.sms.Send(ctx, recipient, s.templates.TestSMS(s.now()))
		})
	}
	return Errf("unknown channel %q", channel)
}

// Dispatch runs a notification task detached from the caller: the task
// gets its own context, panics are recovered and logged, and the caller
// never blocks on delivery. Booking and payment handlers use this so
// channel slowness cannot affect their own response latency.
func (s *Service) Dispatch(name string, fn func(ctx context.Context) Result) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("notification task panicked", "task", name, "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		result := fn(ctx)
		for channel, out := range result {
			if !out.Success {
				s.logger.Error("notification channel failed", "task", name, "channel", channel, "error", out.Error)
			}
		}
	}()
}

// attemptChannel runs one channel's render+send through the retry policy,
// bounding each attempt with the configured send timeout and converting
// renderer panics into channel failures so one channel's problem never
// touches another.
func (s *Service) attemptChannel(ctx context.Context, channel string, send func(context.Context) Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("channel attempt panicked", "channel", channel, "panic", r)
			out = Errf("%s channel failed: %v", channel, r)
		}
		s.metrics.ObserveSend(channel, out.Success)
	}()

	out = s.policy.Do(ctx, s.logger, channel, func(ctx context.Context) Outcome {
		if s.features.SendTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.features.SendTimeout)
			defer cancel()
		}
		return send(ctx)
	})
	return out
}

func (s *Service) logResult(event, id string, results Result) {
	attrs := []any{"event", event, "id", id}
	for channel, out := range results {
		attrs = append(attrs, channel, out.Success)
	}
	s.logger.Info("notification processed", attrs...)
}
