package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arogyalabs/diagnostics-platform/internal/appointments"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// ReminderRunner runs one reminder batch.
type ReminderRunner interface {
	Run(ctx context.Context, hoursAhead int) (appointments.ReminderSummary, error)
}

// RemindersHandler serves the scheduler-triggered reminder batch
// endpoint.
type RemindersHandler struct {
	runner ReminderRunner
	logger *logging.Logger
}

func NewRemindersHandler(runner ReminderRunner, logger *logging.Logger) *RemindersHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RemindersHandler{runner: runner, logger: logger}
}

// RunRemindersRequest selects how far ahead to scan for appointments.
type RunRemindersRequest struct {
	HoursAhead int `json:"hoursAhead"`
}

// RunRemindersResponse reports one reminder batch run.
type RunRemindersResponse struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Summary appointments.ReminderSummary `json:"summary"`
}

// RunReminders triggers a reminder batch for appointments starting
// hoursAhead from now. An empty body defaults to 24 hours.
// POST /notifications/reminders
func (h *RemindersHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	req := RunRemindersRequest{HoursAhead: 24}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.HoursAhead <= 0 {
		req.HoursAhead = 24
	}

	summary, err := h.runner.Run(r.Context(), req.HoursAhead)
	if err != nil {
		h.logger.Error("reminder batch failed", "error", err)
		jsonError(w, "failed to process reminders", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, http.StatusOK, RunRemindersResponse{
		Success: true,
		Message: fmt.Sprintf("Processed %d reminders", summary.Total),
		Summary: summary,
	})
}
