package appointments

import (
	"context"
	"time"

	"github.com/arogyalabs/diagnostics-platform/internal/notify"
	"github.com/arogyalabs/diagnostics-platform/internal/observability/metrics"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// ReminderLister lists appointments due for a reminder in a window.
type ReminderLister interface {
	ListDueForReminder(ctx context.Context, start, end time.Time) ([]notify.AppointmentEvent, error)
}

// ReminderNotifier delivers a single appointment reminder.
type ReminderNotifier interface {
	SendAppointmentReminder(ctx context.Context, evt notify.AppointmentEvent, hoursUntil int) notify.Result
}

// ReminderDetail records one appointment's outcome within a batch.
type ReminderDetail struct {
	AppointmentID string        `json:"appointmentId"`
	PatientName   string        `json:"patientName"`
	ScheduledAt   time.Time     `json:"scheduledAt"`
	Result        notify.Result `json:"result,omitempty"`
	Skipped       bool          `json:"skipped,omitempty"`
}

// ReminderSummary aggregates one reminder batch run.
type ReminderSummary struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Details    []ReminderDetail `json:"details"`
}

// ReminderService scans for upcoming appointments and sends reminders,
// deduplicating across overlapping runs.
type ReminderService struct {
	repo     ReminderLister
	notifier ReminderNotifier
	deduper  notify.ReminderDeduper
	metrics  *metrics.NotificationMetrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewReminderService(repo ReminderLister, notifier ReminderNotifier, deduper notify.ReminderDeduper, m *metrics.NotificationMetrics, logger *logging.Logger) *ReminderService {
	if logger == nil {
		logger = logging.Default()
	}
	if deduper == nil {
		deduper = notify.NoopDeduper{}
	}
	return &ReminderService{
		repo:     repo,
		notifier: notifier,
		deduper:  deduper,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Run scans the one-hour window ending hoursAhead from now and sends a
// reminder for each appointment in it. A dedupe claim failure counts the
// appointment as skipped, not failed; a delivery where every attempted
// channel fails counts as failed.
func (s *ReminderService) Run(ctx context.Context, hoursAhead int) (ReminderSummary, error) {
	now := s.now()
	end := now.Add(time.Duration(hoursAhead) * time.Hour)
	start := end.Add(-time.Hour)

	events, err := s.repo.ListDueForReminder(ctx, start, end)
	if err != nil {
		return ReminderSummary{}, err
	}

	summary := ReminderSummary{Total: len(events)}
	for _, evt := range events {
		detail := ReminderDetail{
			AppointmentID: evt.AppointmentID,
			PatientName:   evt.PatientName,
			ScheduledAt:   evt.AppointmentDate,
		}

		claimed, err := s.deduper.Claim(ctx, evt.AppointmentID, hoursAhead)
		if err != nil {
			s.logger.Error("reminder dedupe claim failed", "appointment_id", evt.AppointmentID, "error", err)
		}
		if err != nil || !claimed {
			detail.Skipped = true
			summary.Details = append(summary.Details, detail)
			s.metrics.ObserveReminder("skipped")
			continue
		}

		result := s.notifier.SendAppointmentReminder(ctx, evt, hoursAhead)
		detail.Result = result
		summary.Details = append(summary.Details, detail)

		if anySucceeded(result) {
			summary.Successful++
			s.metrics.ObserveReminder("success")
		} else {
			summary.Failed++
			s.metrics.ObserveReminder("failure")
		}
	}

	s.logger.Info("reminder batch complete",
		"hours_ahead", hoursAhead,
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed)
	return summary, nil
}

// anySucceeded reports whether at least one attempted channel delivered.
// An empty result means no channel was attempted, which counts as a
// failure for batch accounting.
func anySucceeded(result notify.Result) bool {
	for _, out := range result {
		if out.Success {
			return true
		}
	}
	return false
}
