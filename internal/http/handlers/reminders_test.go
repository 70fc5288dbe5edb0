package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arogyalabs/diagnostics-platform/internal/appointments"
)

type stubRunner struct {
	hours   int
	summary appointments.ReminderSummary
	err     error
}

func (s *stubRunner) Run(ctx context.Context, hoursAhead int) (appointments.ReminderSummary, error) {
	s.hours = hoursAhead
	return s.summary, s.err
}

func TestRunRemindersDefaultsTo24Hours(t *testing.T) {
	runner := &stubRunner{summary: appointments.ReminderSummary{Total: 2, Successful: 2}}
	h := NewRemindersHandler(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", strings.NewReader(""))
	rec := httptest.NewRecorder()
	h.RunReminders(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if runner.hours != 24 {
		t.Fatalf("hoursAhead = %d, want 24", runner.hours)
	}
	var resp RunRemindersResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != "Processed 2 reminders" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Summary.Successful != 2 {
		t.Fatalf("summary = %+v", resp.Summary)
	}
}

func TestRunRemindersCustomWindow(t *testing.T) {
	runner := &stubRunner{}
	h := NewRemindersHandler(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", strings.NewReader(`{"hoursAhead":2}`))
	rec := httptest.NewRecorder()
	h.RunReminders(rec, req)

	if runner.hours != 2 {
		t.Fatalf("hoursAhead = %d, want 2", runner.hours)
	}
}

func TestRunRemindersNonPositiveWindowFallsBack(t *testing.T) {
	runner := &stubRunner{}
	h := NewRemindersHandler(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", strings.NewReader(`{"hoursAhead":-1}`))
	rec := httptest.NewRecorder()
	h.RunReminders(rec, req)

	if runner.hours != 24 {
		t.Fatalf("hoursAhead = %d, want 24", runner.hours)
	}
}

func TestRunRemindersErrors(t *testing.T) {
	runner := &stubRunner{err: errors.New("db down")}
	h := NewRemindersHandler(runner, nil)

	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.RunReminders(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestRunRemindersInvalidJSON(t *testing.T) {
	h := NewRemindersHandler(&stubRunner{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", strings.NewReader(`{"hoursAhead":`))
	rec := httptest.NewRecorder()
	h.RunReminders(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
