package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAppEnv          = "dev"
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "hotel.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "12h"
	defaultReportTimezone  = "Asia/Kolkata"
	defaultLogLevel        = "info"
	defaultGinMode         = "debug"
	defaultKitchenExchange = "kitchen_topic"
	defaultShutdownTimeout = "10s"
)

type Config struct {
	AppEnv          string
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	ReportTimezone  string
	ReportLocation  *time.Location
	LogLevel        string
	GinMode         string
	CORSOrigins     []string
	AMQPURL         string
	KitchenExchange string
	ShutdownTimeout time.Duration
}

// Load reads the process environment. Callers load .env beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:          strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", defaultAppEnv))),
		HTTPAddr:        strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr)),
		DatabaseURL:     strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL)),
		JWTSecret:       strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret)),
		ReportTimezone:  strings.TrimSpace(getEnv("REPORT_TIMEZONE", defaultReportTimezone)),
		LogLevel:        strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)),
		GinMode:         strings.TrimSpace(getEnv("GIN_MODE", defaultGinMode)),
		CORSOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AMQPURL:         strings.TrimSpace(os.Getenv("AMQP_URL")),
		KitchenExchange: strings.TrimSpace(getEnv("KITCHEN_EXCHANGE", defaultKitchenExchange)),
	}

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	cfg.ReportLocation, err = time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", cfg.ReportTimezone, err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BrokerEnabled reports whether KOTs are also published to RabbitMQ.
func (c *Config) BrokerEnabled() bool { return c.AMQPURL != "" }

func (c *Config) IsProd() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be one of: debug, release, test")
	}
	if cfg.BrokerEnabled() && cfg.KitchenExchange == "" {
		return fmt.Errorf("KITCHEN_EXCHANGE must not be empty when AMQP_URL is set")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
