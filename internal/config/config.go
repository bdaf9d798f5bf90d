package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// UpstreamConfig locates the platform services the reports are built from.
type UpstreamConfig struct {
	ActivityURL string
	BovineURL   string
	HealthURL   string
	EconomicURL string
	Timeout     time.Duration
}

// ReportingConfig holds report computation and digest settings.
type ReportingConfig struct {
	Timezone        string
	FanOutLimit     int
	DigestSchedule  string
	DigestRecipient string
	ServiceToken    string
}

// DigestEnabled reports whether the scheduled digest has somewhere to go.
func (c Config) DigestEnabled() bool {
	return c.WhatsApp.AccessToken != "" && c.Reporting.DigestRecipient != ""
}

// Location resolves the zone used to derive report years.
func (r ReportingConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || r.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", r.Timezone, err)
	}
	return loc, nil
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	// AllowedNumbers may query reports through the webhook, on top of the
	// digest recipient.
	AllowedNumbers []string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	timeout, err := getenvDuration("UPSTREAM_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	fanOut, err := getenvInt("REPORT_FANOUT_LIMIT", 8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			ActivityURL: os.Getenv("ACTIVITY_SERVICE_URL"),
			BovineURL:   os.Getenv("BOVINE_SERVICE_URL"),
			HealthURL:   os.Getenv("HEALTH_SERVICE_URL"),
			EconomicURL: os.Getenv("ECONOMIC_SERVICE_URL"),
			Timeout:     timeout,
		},
		Reporting: ReportingConfig{
			Timezone:        getenvWithDefault("TIMEZONE", "Local"),
			FanOutLimit:     fanOut,
			DigestSchedule:  getenvWithDefault("REPORT_DIGEST_SCHEDULE", "0 6 1 * *"),
			DigestRecipient: os.Getenv("REPORT_DIGEST_RECIPIENT"),
			ServiceToken:    os.Getenv("REPORT_SERVICE_TOKEN"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:    os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:  os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:    os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:        getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:     getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AllowedNumbers: getenvList("WHATSAPP_ALLOWED_NUMBERS"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "administration"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Upstream.ActivityURL == "":
		return errors.New("ACTIVITY_SERVICE_URL must be provided")
	case c.Upstream.BovineURL == "":
		return errors.New("BOVINE_SERVICE_URL must be provided")
	case c.Upstream.HealthURL == "":
		return errors.New("HEALTH_SERVICE_URL must be provided")
	case c.Upstream.EconomicURL == "":
		return errors.New("ECONOMIC_SERVICE_URL must be provided")
	}

	if c.Reporting.FanOutLimit < 1 {
		return errors.New("REPORT_FANOUT_LIMIT must be at least 1")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.DigestEnabled() {
		if c.WhatsApp.PhoneNumberID == "" {
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when the digest is enabled")
		}
		if c.Reporting.DigestSchedule == "" {
			return errors.New("REPORT_DIGEST_SCHEDULE must not be empty")
		}
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	return nil
}

// WebhookEnabled reports whether inbound WhatsApp report queries are served.
func (c Config) WebhookEnabled() bool {
	return c.DigestEnabled() && c.WhatsApp.VerifyToken != ""
}

func getenvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return parsed, nil
}
