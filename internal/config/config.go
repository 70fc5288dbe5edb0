package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AppName       string
	PublicBaseURL string

	// Email channel
	EmailEnabled   bool
	EmailProvider  string // "sendgrid" or "ses"
	EmailFrom      string
	SendGridAPIKey string
	AWSRegion      string

	// SMS channel (Twilio)
	SMSEnabled         bool
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioPhoneNumber  string
	DefaultCountryCode string

	// Delivery behaviour
	DryRun        bool
	RetryAttempts int
	RetryDelay    time.Duration
	SendTimeout   time.Duration

	// Admin alert recipients, comma-separated addresses
	AdminEmails []string

	// Auth
	AdminJWTSecret string
	CronSecret     string

	// Supporting stores (optional)
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	env := getEnv("ENV", "development")
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           env,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AppName:       getEnv("APP_NAME", "HealthCare Diagnostic Centre"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		EmailEnabled:   getEnvAsBool("NOTIFICATIONS_EMAIL_ENABLED", true),
		EmailProvider:  strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@diagnosticcentre.com"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		AWSRegion:      getEnv("AWS_REGION", "ap-south-1"),

		SMSEnabled:         getEnvAsBool("NOTIFICATIONS_SMS_ENABLED", false),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber:  getEnv("TWILIO_PHONE_NUMBER", ""),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "+91"),

		DryRun:        getEnvAsBool("NOTIFICATIONS_DRY_RUN", env == "development"),
		RetryAttempts: getEnvAsInt("NOTIFICATIONS_RETRY_ATTEMPTS", 3),
		RetryDelay:    getEnvAsDuration("NOTIFICATIONS_RETRY_DELAY", 5*time.Second),
		SendTimeout:   getEnvAsDuration("NOTIFICATIONS_SEND_TIMEOUT", 15*time.Second),

		AdminEmails: splitList(getEnv("ADMIN_EMAILS", "admin@diagnosticcentre.com")),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		CronSecret:     getEnv("CRON_SECRET", ""),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validation reports whether the loaded configuration can serve every
// enabled channel. It performs no I/O.
type Validation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks that each enabled channel has its required credentials.
// Missing credentials never block startup; sends against an unconfigured
// channel report "not configured" instead.
func (c *Config) Validate() Validation {
	var errs []string

	if c.EmailEnabled {
		switch c.EmailProvider {
		case "sendgrid":
			if c.SendGridAPIKey == "" {
				errs = append(errs, "SENDGRID_API_KEY is required when email notifications are enabled")
			}
		case "ses":
			if c.AWSRegion == "" {
				errs = append(errs, "AWS_REGION is required when email notifications are enabled")
			}
		default:
			errs = append(errs, fmt.Sprintf("EMAIL_PROVIDER %q is not supported (sendgrid, ses)", c.EmailProvider))
		}
		if c.EmailFrom == "" {
			errs = append(errs, "EMAIL_FROM is required when email notifications are enabled")
		}
	}

	if c.SMSEnabled {
		if c.TwilioAccountSID == "" {
			errs = append(errs, "TWILIO_ACCOUNT_SID is required when SMS notifications are enabled")
		}
		if c.TwilioAuthToken == "" {
			errs = append(errs, "TWILIO_AUTH_TOKEN is required when SMS notifications are enabled")
		}
		if c.TwilioPhoneNumber == "" {
			errs = append(errs, "TWILIO_PHONE_NUMBER is required when SMS notifications are enabled")
		}
	}

	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// EmailConfigured reports whether the email transport has credentials.
func (c *Config) EmailConfigured() bool {
	if !c.EmailEnabled {
		return false
	}
	switch c.EmailProvider {
	case "sendgrid":
		return c.SendGridAPIKey != "" && c.EmailFrom != ""
	case "ses":
		return c.AWSRegion != "" && c.EmailFrom != ""
	}
	return false
}

// SMSConfigured reports whether the SMS transport has credentials.
func (c *Config) SMSConfigured() bool {
	return c.SMSEnabled && c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	// Bare integers are treated as milliseconds for compatibility with
	// the *_MS style keys used by earlier deployments.
	if ms, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
