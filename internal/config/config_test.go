package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"PORT", "ENV", "SESSION_IDLE_TTL", "API_BASE_URL", "REQUEST_TIMEOUT",
	"FOLLOW_UP_DELAY", "ASSISTANT_BASE_URL", "ASSISTANT_MODE", "DATABASE_URL",
	"ARCHIVE_WORKERS", "ARCHIVE_RETRIES", "ARCHIVE_TIMEOUT", "GATEWAY_PORT", "BACKEND_URL",
}

// clearEnv blanks every key Load reads and runs the test from an empty dir so
// no stray .env file leaks in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "8080" || c.APIBaseURL != "http://localhost:8000" {
		t.Errorf("server defaults = %q %q", c.Port, c.APIBaseURL)
	}
	if c.AssistantBaseURL != c.APIBaseURL {
		t.Errorf("assistant base = %q, want the API base", c.AssistantBaseURL)
	}
	if c.AssistantMode != AssistantRemote {
		t.Errorf("mode = %q", c.AssistantMode)
	}
	if c.RequestTimeout != 90*time.Second || c.FollowUpDelay != time.Second || c.SessionIdleTTL != 30*time.Minute {
		t.Errorf("durations = %v %v %v", c.RequestTimeout, c.FollowUpDelay, c.SessionIdleTTL)
	}
	if c.ArchiveEnabled() {
		t.Error("archive should be off without DATABASE_URL")
	}
	if c.GatewayPort != "8000" || c.BackendURL != "http://localhost:8001" {
		t.Errorf("gateway = %q %q", c.GatewayPort, c.BackendURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://model.example.org/")
	t.Setenv("ASSISTANT_BASE_URL", "https://chat.example.org")
	t.Setenv("ASSISTANT_MODE", "OFFLINE")
	t.Setenv("REQUEST_TIMEOUT", "15")
	t.Setenv("FOLLOW_UP_DELAY", "250ms")
	t.Setenv("DATABASE_URL", "postgres://localhost/dengue")
	t.Setenv("ARCHIVE_WORKERS", "4")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.APIBaseURL != "https://model.example.org" {
		t.Errorf("trailing slash kept: %q", c.APIBaseURL)
	}
	if c.AssistantBaseURL != "https://chat.example.org" || c.AssistantMode != AssistantOffline {
		t.Errorf("assistant = %q %q", c.AssistantBaseURL, c.AssistantMode)
	}
	if c.RequestTimeout != 15*time.Second || c.FollowUpDelay != 250*time.Millisecond {
		t.Errorf("durations = %v %v", c.RequestTimeout, c.FollowUpDelay)
	}
	if !c.ArchiveEnabled() || c.ArchiveWorkers != 4 {
		t.Errorf("archive = %v workers=%d", c.ArchiveEnabled(), c.ArchiveWorkers)
	}
}

func TestLoad_InvalidValuesJoined(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "localhost:8000")
	t.Setenv("ASSISTANT_MODE", "psychic")
	t.Setenv("DATABASE_URL", "postgres://localhost/dengue")
	t.Setenv("ARCHIVE_WORKERS", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"API_BASE_URL", "ASSISTANT_MODE", "ARCHIVE_WORKERS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadDotEnv_RealEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	path := filepath.Join(t.TempDir(), ".env")
	body := "# comment\nPORT=1234\nGATEWAY_PORT=\"7000\"\n\nBROKEN LINE\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	loadDotEnv(path)

	if got := os.Getenv("PORT"); got != "9999" {
		t.Errorf("PORT = %q, real env should win", got)
	}
	if got := os.Getenv("GATEWAY_PORT"); got != "7000" {
		t.Errorf("GATEWAY_PORT = %q, quotes should be stripped", got)
	}
}
