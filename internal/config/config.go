package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultListenAddr          = ":8080"
	defaultAuditBaseURL        = "http://localhost:9090/audits"
	defaultConsultationBaseURL = "http://localhost:9090/consultations"
	defaultSessionTTL          = "1h"
	defaultHTTPTimeout         = "10s"
	defaultLogLevel            = "info"
)

type Config struct {
	AppEnv     string
	ListenAddr string

	AuditBaseURL        string
	ConsultationBaseURL string
	HTTPTimeout         time.Duration

	// RedisAddr empty means sessions live in process memory.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	CompletionWebhookURL string

	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = strings.TrimSpace(getEnv("LISTEN_ADDR", defaultListenAddr))
	cfg.AuditBaseURL = strings.TrimSpace(getEnv("AUDIT_CALENDAR_URL", defaultAuditBaseURL))
	cfg.ConsultationBaseURL = strings.TrimSpace(getEnv("CONSULTATION_CALENDAR_URL", defaultConsultationBaseURL))
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", ""))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.CompletionWebhookURL = strings.TrimSpace(getEnv("COMPLETION_WEBHOOK_URL", ""))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	var err error
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	cfg.HTTPTimeout, err = parseDurationEnv("CALENDAR_HTTP_TIMEOUT", defaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func validate(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if cfg.AuditBaseURL == "" {
		return fmt.Errorf("AUDIT_CALENDAR_URL must not be empty")
	}
	if cfg.ConsultationBaseURL == "" {
		return fmt.Errorf("CONSULTATION_CALENDAR_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("CALENDAR_HTTP_TIMEOUT must be > 0")
	}

	if cfg.IsProdLike() && cfg.RedisAddr == "" {
		return fmt.Errorf("in prod/release REDIS_ADDR must be set, in-memory sessions do not survive restarts")
	}

	return nil
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
