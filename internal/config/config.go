// Package config loads and validates application configuration from environment variables.
// An optional YAML file named by CONFIG_FILE supplies defaults; environment variables
// always win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (web front end).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// APIBaseURL is the public URL of this API, used in emailed confirmation links.
	APIBaseURL string

	// WebBaseURL is the front end that confirmation links redirect to.
	WebBaseURL string

	// Location is the timezone that defines a "calendar day" for activity
	// bucketing and the dates printed in emails. Set with TIMEZONE (IANA name).
	Location *time.Location

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64

	Mail MailConfig
}

// MailConfig holds outbound email settings. An empty SMTPHost selects the
// log-only gateway.
type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseSSL   bool
	// SMTPRequireTLS refuses to send over a relay that does not offer STARTTLS.
	SMTPRequireTLS bool
	FromName       string
	FromAddress    string
	// Concurrency bounds how many invitation emails are sent at once.
	Concurrency int
}

// fileConfig is the YAML shape of CONFIG_FILE. Every key is optional.
type fileConfig struct {
	Port         string   `yaml:"port"`
	DatabaseURL  string   `yaml:"database_url"`
	LogLevel     string   `yaml:"log_level"`
	CORSOrigins  []string `yaml:"cors_origins"`
	APIBaseURL   string   `yaml:"api_base_url"`
	WebBaseURL   string   `yaml:"web_base_url"`
	Timezone     string   `yaml:"timezone"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
	Mail         struct {
		SMTPHost       string `yaml:"smtp_host"`
		SMTPPort       int    `yaml:"smtp_port"`
		SMTPUsername   string `yaml:"smtp_username"`
		SMTPPassword   string `yaml:"smtp_password"`
		SMTPUseSSL     bool   `yaml:"smtp_use_ssl"`
		SMTPRequireTLS bool   `yaml:"smtp_require_tls"`
		FromName       string `yaml:"from_name"`
		FromAddress    string `yaml:"from_address"`
		Concurrency    int    `yaml:"concurrency"`
	} `yaml:"mail"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// values that could not be parsed.
func Load() (Config, error) {
	f, err := readFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        getEnv("PORT", or(f.Port, "8080")),
		LogLevel:    getEnv("LOG_LEVEL", or(f.LogLevel, "info")),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", or(strings.Join(f.CORSOrigins, ","), "http://localhost:3000"))),
		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", or(f.APIBaseURL, "http://localhost:8080")), "/"),
		WebBaseURL:  strings.TrimRight(getEnv("WEB_BASE_URL", or(f.WebBaseURL, "http://localhost:3000")), "/"),
		Mail: MailConfig{
			SMTPHost:     getEnv("SMTP_HOST", f.Mail.SMTPHost),
			SMTPUsername: getEnv("SMTP_USERNAME", f.Mail.SMTPUsername),
			SMTPPassword: getEnv("SMTP_PASSWORD", f.Mail.SMTPPassword),
			FromName:     getEnv("MAIL_FROM_NAME", or(f.Mail.FromName, "Equipe plann.er")),
			FromAddress:  getEnv("MAIL_FROM_ADDRESS", or(f.Mail.FromAddress, "oi@plann.er")),
		},
	}

	var missing, invalid []string

	cfg.DatabaseURL = getEnv("DATABASE_URL", f.DatabaseURL)
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	tz := getEnv("TIMEZONE", or(f.Timezone, "UTC"))
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		invalid = append(invalid, "TIMEZONE")
	}

	if cfg.MaxBodyBytes, err = parseInt64("MAX_BODY_BYTES", orInt64(f.MaxBodyBytes, 1<<20)); err != nil || cfg.MaxBodyBytes <= 0 {
		invalid = append(invalid, "MAX_BODY_BYTES")
	}
	if cfg.Mail.SMTPPort, err = parseInt("SMTP_PORT", orInt(f.Mail.SMTPPort, 587)); err != nil {
		invalid = append(invalid, "SMTP_PORT")
	}
	if cfg.Mail.Concurrency, err = parseInt("MAIL_CONCURRENCY", orInt(f.Mail.Concurrency, 5)); err != nil || cfg.Mail.Concurrency < 1 {
		invalid = append(invalid, "MAIL_CONCURRENCY")
	}
	if cfg.Mail.SMTPUseSSL, err = parseBool("SMTP_USE_SSL", f.Mail.SMTPUseSSL); err != nil {
		invalid = append(invalid, "SMTP_USE_SSL")
	}
	if cfg.Mail.SMTPRequireTLS, err = parseBool("SMTP_REQUIRE_TLS", f.Mail.SMTPRequireTLS); err != nil {
		invalid = append(invalid, "SMTP_REQUIRE_TLS")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid values for: %s", strings.Join(invalid, ", ")))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	return cfg, nil
}

// readFile parses the YAML config at path. An empty path or a missing file
// yields zero values.
func readFile(path string) (fileConfig, error) {
	var f fileConfig
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func parseInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
}

func parseBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func orInt64(v, fallback int64) int64 {
	if v != 0 {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
