package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/arogyalabs/diagnostics-platform/internal/api/router"
	"github.com/arogyalabs/diagnostics-platform/internal/appointments"
	appconfig "github.com/arogyalabs/diagnostics-platform/internal/config"
	"github.com/arogyalabs/diagnostics-platform/internal/http/handlers"
	"github.com/arogyalabs/diagnostics-platform/internal/notify"
	"github.com/arogyalabs/diagnostics-platform/internal/observability/metrics"
	"github.com/arogyalabs/diagnostics-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignore absence in production
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting diagnostics-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if v := cfg.Validate(); !v.IsValid {
		for _, msg := range v.Errors {
			logger.Error("configuration issue", "error", msg)
		}
		logger.Info("continuing with degraded notification channels")
	}

	features := &notify.Features{
		EmailEnabled:  cfg.EmailEnabled,
		SMSEnabled:    cfg.SMSEnabled,
		DryRun:        cfg.DryRun,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		SendTimeout:   cfg.SendTimeout,
	}

	// Channel clients; missing credentials degrade to null senders
	var emailSender notify.EmailSender
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
		} else {
			emailSender = notify.NewSESEmailSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.EmailFrom,
				FromName:  cfg.AppName,
			}, features, logger)
		}
	default:
		if s := notify.NewSendGridEmailSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.AppName,
		}, features, logger); s != nil {
			emailSender = s
		}
	}
	if emailSender == nil {
		emailSender = notify.NewNullEmailSender(logger)
	}

	var smsSender notify.SMSSender = notify.NewNullSMSSender(logger)
	if s := notify.NewTwilioSMSSender(notify.TwilioConfig{
		AccountSID:         cfg.TwilioAccountSID,
		AuthToken:          cfg.TwilioAuthToken,
		FromNumber:         cfg.TwilioPhoneNumber,
		DefaultCountryCode: cfg.DefaultCountryCode,
	}, features, logger); s != nil {
		smsSender = s
	}

	// Metrics
	registry := prometheus.NewRegistry()
	notifyMetrics := metrics.NewNotificationMetrics(registry)

	// Notification coordinator
	adminRecipients := make([]notify.EmailRecipient, 0, len(cfg.AdminEmails))
	for _, addr := range cfg.AdminEmails {
		adminRecipients = append(adminRecipients, notify.EmailRecipient{Email: addr, Name: "Admin"})
	}
	templates := notify.NewTemplateSet(cfg.AppName, cfg.PublicBaseURL)
	service := notify.NewService(emailSender, smsSender, templates, features, adminRecipients, notifyMetrics, logger)

	// Reminder pipeline; requires a database, dedupes through redis when
	// available
	var remindersHandler *handlers.RemindersHandler
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		var deduper notify.ReminderDeduper = notify.NoopDeduper{}
		if cfg.RedisAddr != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
			})
			defer redisClient.Close()
			deduper = notify.NewRedisDeduper(redisClient, 2*time.Hour)
		}

		repo := appointments.NewRepository(pool)
		reminderService := appointments.NewReminderService(repo, service, deduper, notifyMetrics, logger)
		remindersHandler = handlers.NewRemindersHandler(reminderService, logger)
	} else {
		logger.Info("DATABASE_URL not set; reminder endpoint disabled")
	}

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		Notifications:      handlers.NewNotificationsHandler(cfg, service, emailSender, logger),
		Reminders:          remindersHandler,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CronSecret:         cfg.CronSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
