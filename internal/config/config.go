// Package config loads and validates all environment variables at startup.
// Every other package receives typed values; nothing reads os.Getenv directly.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Assistant modes.
const (
	AssistantRemote   = "remote"
	AssistantOffline  = "offline"
	AssistantFallback = "fallback"
)

// Config is the fully-parsed application configuration.
type Config struct {
	// ── Server ────────────────────────────────────────────────────────────────
	Port           string        // default "8080"
	Env            string        // "development" | "staging" | "production"
	SessionIdleTTL time.Duration // default 30m

	// ── Model service ─────────────────────────────────────────────────────────
	APIBaseURL     string        // default "http://localhost:8000"
	RequestTimeout time.Duration // default 90s
	FollowUpDelay  time.Duration // default 1s

	// ── Assistant ─────────────────────────────────────────────────────────────
	// AssistantBaseURL defaults to APIBaseURL. AssistantMode "offline" answers
	// locally from keyword rules and never dials out; "fallback" dials out and
	// answers locally when the remote call fails.
	AssistantBaseURL string
	AssistantMode    string

	// ── Case archive ──────────────────────────────────────────────────────────
	// Optional. When DATABASE_URL is empty, assessments are not archived.
	DatabaseURL    string
	ArchiveWorkers int           // default 2
	ArchiveRetries int           // default 3
	ArchiveTimeout time.Duration // default 10s

	// ── Gateway ───────────────────────────────────────────────────────────────
	GatewayPort string // default "8000"
	BackendURL  string // default "http://localhost:8001"
}

// Load reads all environment variables and returns a validated Config.
// It automatically loads a .env file from the working directory when present,
// so plain `go run ./cmd/api` works in development without any wrapper.
// Real environment variables always take precedence over .env values.
func Load() (*Config, error) {
	loadDotEnv(".env")

	c := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		SessionIdleTTL: getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 90*time.Second),
		FollowUpDelay:  getEnvAsDuration("FOLLOW_UP_DELAY", time.Second),
		AssistantMode:  strings.ToLower(getEnv("ASSISTANT_MODE", AssistantRemote)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ArchiveWorkers: getEnvAsInt("ARCHIVE_WORKERS", 2),
		ArchiveRetries: getEnvAsInt("ARCHIVE_RETRIES", 3),
		ArchiveTimeout: getEnvAsDuration("ARCHIVE_TIMEOUT", 10*time.Second),
		GatewayPort:    getEnv("GATEWAY_PORT", "8000"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8001"), "/"),
	}
	c.AssistantBaseURL = strings.TrimRight(getEnv("ASSISTANT_BASE_URL", c.APIBaseURL), "/")

	return c, c.validate()
}

// ArchiveEnabled reports whether assessments are written to Postgres.
func (c *Config) ArchiveEnabled() bool { return c.DatabaseURL != "" }

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

func (c *Config) validate() error {
	var errs []error

	urls := map[string]string{
		"API_BASE_URL":       c.APIBaseURL,
		"ASSISTANT_BASE_URL": c.AssistantBaseURL,
		"BACKEND_URL":        c.BackendURL,
	}
	for name, val := range urls {
		u, err := url.Parse(val)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, val))
		}
	}

	switch c.AssistantMode {
	case AssistantRemote, AssistantOffline, AssistantFallback:
	default:
		errs = append(errs, fmt.Errorf("ASSISTANT_MODE must be one of %q, %q, %q, got %q",
			AssistantRemote, AssistantOffline, AssistantFallback, c.AssistantMode))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive"))
	}
	if c.FollowUpDelay < 0 {
		errs = append(errs, fmt.Errorf("FOLLOW_UP_DELAY must not be negative"))
	}
	if c.SessionIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL must be positive"))
	}
	if c.ArchiveEnabled() {
		if c.ArchiveWorkers < 1 {
			errs = append(errs, fmt.Errorf("ARCHIVE_WORKERS must be at least 1"))
		}
		if c.ArchiveRetries < 0 {
			errs = append(errs, fmt.Errorf("ARCHIVE_RETRIES must not be negative"))
		}
	}

	return errors.Join(errs...)
}

// ─── DOT-ENV LOADER ──────────────────────────────────────────────────────────

// loadDotEnv reads key=value pairs from path and sets them in the environment,
// but only for keys that are not already set. This means real env vars (e.g.
// from Docker / Railway / your shell) always win over the file.
// Missing file, blank lines, and #-comments are all silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // file absent, nothing to load
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip optional surrounding quotes: KEY="value" or KEY='value'
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		// Only set if the key isn't already present in the environment.
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	// A bare integer is read as seconds.
	if value, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(value) * time.Second
	}
	// Fall back to Go duration syntax: "30s", "5m", "1h", etc.
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}
