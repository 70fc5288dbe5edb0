package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arogyalabs/diagnostics-platform/internal/http/handlers"
	httpmiddleware "github.com/arogyalabs/diagnostics-platform/internal/http/middleware"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Notifications      *handlers.NotificationsHandler
	Reminders          *handlers.RemindersHandler
	AdminAuthSecret    string
	CronSecret         string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin endpoints (JWT with ADMIN role)
	if cfg.Notifications != nil {
		r.Route("/admin/notifications", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/status", cfg.Notifications.GetStatus)
			admin.Post("/test", cfg.Notifications.SendTest)
		})
	}

	// Scheduler endpoints (shared cron secret)
	if cfg.Reminders != nil {
		r.Route("/notifications", func(cron chi.Router) {
			cron.Use(httpmiddleware.CronSecret(cfg.CronSecret))
			cron.Post("/reminders", cfg.Reminders.RunReminders)
		})
	}

	return r
}
