package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultJWTAccessTTL = "24h"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultHorizonDays  = "14"
	defaultLeadTime     = "0s"
	defaultTimezone     = "Asia/Kolkata"
	defaultCurrency     = "INR"
	defaultZoomTimeout  = "8s"
	defaultMailTimeout  = "10s"
	defaultRatelimitRPM = "60"
)

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// Configured reports whether gateway credentials are present. Absence is a
// fatal configuration condition for payment operations, not a transient one.
func (c RazorpayConfig) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

type ZoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func (c ZoomConfig) Configured() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != "" && c.FromAddress() != ""
}

// FromAddress falls back to the SMTP username, which Gmail requires anyway.
func (c SMTPConfig) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type BookingConfig struct {
	HorizonDays int
	LeadTime    time.Duration
	Timezone    *time.Location
	Currency    string

	// AllowUnverified confirms a booking when the gateway itself cannot be
	// reached during verification. It is an explicit reduced-assurance mode
	// for development and must never be enabled in production.
	AllowUnverified bool
}

type Config struct {
	AppEnv       string
	Port         string
	DatabaseDSN  string
	JWTSecret    string
	JWTTTL       time.Duration
	RedisAddr    string
	RatelimitRPM int

	Razorpay RazorpayConfig
	Zoom     ZoomConfig
	SMTP     SMTPConfig
	Booking  BookingConfig
}

// Load reads configuration once at startup. Every later consumer receives
// the same *Config; nothing re-reads the environment per call.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "dev")),
		Port:        getEnv("PORT", defaultPort),
		DatabaseDSN: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		Razorpay: RazorpayConfig{
			KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		},
		Zoom: ZoomConfig{
			AccountID:    os.Getenv("ZOOM_ACCOUNT_ID"),
			ClientID:     os.Getenv("ZOOM_CLIENT_ID"),
			ClientSecret: os.Getenv("ZOOM_CLIENT_SECRET"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     os.Getenv("SMTP_PORT"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("EMAIL_FROM"),
		},
		Booking: BookingConfig{
			Currency:        getEnv("BOOKING_CURRENCY", defaultCurrency),
			AllowUnverified: parseBoolEnv("PAYMENT_ALLOW_UNVERIFIED", "false"),
		},
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}
	if cfg.Zoom.Timeout, err = parseDurationEnv("ZOOM_TIMEOUT", defaultZoomTimeout); err != nil {
		return nil, err
	}
	if cfg.SMTP.Timeout, err = parseDurationEnv("SMTP_SEND_TIMEOUT", defaultMailTimeout); err != nil {
		return nil, err
	}
	if cfg.Booking.LeadTime, err = parseDurationEnv("BOOKING_LEAD_TIME", defaultLeadTime); err != nil {
		return nil, err
	}
	if cfg.Booking.HorizonDays, err = parseIntEnv("BOOKING_HORIZON_DAYS", defaultHorizonDays); err != nil {
		return nil, err
	}
	if cfg.RatelimitRPM, err = parseIntEnv("RATELIMIT_RPM", defaultRatelimitRPM); err != nil {
		return nil, err
	}

	tz := getEnv("BOOKING_TIMEZONE", defaultTimezone)
	if cfg.Booking.Timezone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE value %q: %w", tz, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Booking.HorizonDays <= 0 {
		return fmt.Errorf("BOOKING_HORIZON_DAYS must be > 0")
	}
	if cfg.Booking.LeadTime < 0 {
		return fmt.Errorf("BOOKING_LEAD_TIME must be >= 0")
	}
	if isProdLike(cfg.AppEnv) {
		if cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.Booking.AllowUnverified {
			return fmt.Errorf("PAYMENT_ALLOW_UNVERIFIED must not be enabled in prod/release")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
