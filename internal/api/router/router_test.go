package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arogyalabs/diagnostics-platform/internal/config"
	"github.com/arogyalabs/diagnostics-platform/internal/http/handlers"
	"github.com/arogyalabs/diagnostics-platform/internal/notify"
)

func newTestRouter() http.Handler {
	cfg := &config.Config{RetryAttempts: 1}
	features := &notify.Features{RetryAttempts: 1}
	svc := notify.NewService(
		notify.NewNullEmailSender(nil),
		notify.NewNullSMSSender(nil),
		notify.NewTemplateSet("Diagnostics", "https://example.com"),
		features, nil, nil, nil,
	)
	return New(&Config{
		Notifications:   handlers.NewNotificationsHandler(cfg, svc, notify.NewNullEmailSender(nil), nil),
		AdminAuthSecret: "admin-secret",
		CronSecret:      "cron-secret",
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/admin/notifications/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestReminderRouteAbsentWithoutDatabase(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/notifications/reminders", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 404 without a configured reminder pipeline", rec.Code)
	}
}
