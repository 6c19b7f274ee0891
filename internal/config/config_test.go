package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHELF_API_BASE", "SHELF_STATE_DIR", "SHELF_LOG_FILE",
		"SHELF_LOG_LEVEL", "SHELF_POLL", "SHELF_TIMEOUT", "SHELF_RATE",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.PollEvery != time.Minute {
		t.Fatalf("PollEvery = %v, want 1m", cfg.PollEvery)
	}

	wantStateDir, err := expandPath(defaultStateDir)
	if err != nil {
		t.Fatalf("expandPath(defaultStateDir) returned error: %v", err)
	}
	if cfg.StateDir != wantStateDir {
		t.Fatalf("StateDir = %q, want %q", cfg.StateDir, wantStateDir)
	}
	if cfg.LogFile != filepath.Join(wantStateDir, "shelf.log") {
		t.Fatalf("LogFile = %q, want it in the state dir", cfg.LogFile)
	}
	if cfg.StoragePath() != filepath.Join(wantStateDir, "storage.toml") {
		t.Fatalf("StoragePath = %q, want it in the state dir", cfg.StoragePath())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://10.0.0.5:9999  "
state_dir = "  ~/.shelf  "
log_level = "DEBUG"
poll_seconds = 30
timeout_seconds = 5
rate_per_second = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://10.0.0.5:9999" {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, "http://10.0.0.5:9999")
	}
	if cfg.StateDir != filepath.Join(home, ".shelf") {
		t.Fatalf("StateDir = %q, want it under HOME %q", cfg.StateDir, home)
	}
	if cfg.LogFile != filepath.Join(home, ".shelf", "shelf.log") {
		t.Fatalf("LogFile = %q, want it to follow the state dir", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PollEvery != 30*time.Second || cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("PollEvery/RequestTimeout = %v/%v, want 30s/5s", cfg.PollEvery, cfg.RequestTimeout)
	}
	if cfg.RatePerSecond != 0 {
		t.Fatalf("RatePerSecond = %v, want 0 (explicitly disabled)", cfg.RatePerSecond)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
state_dir = ""
poll_seconds = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = "http://file:1"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("SHELF_API_BASE", "http://env:2")
	t.Setenv("SHELF_POLL", "90s")
	t.Setenv("SHELF_RATE", "2.5")
	t.Setenv("SHELF_LOG_FILE", "~/logs/shelf.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://env:2" {
		t.Fatalf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.PollEvery != 90*time.Second {
		t.Fatalf("PollEvery = %v, want 90s", cfg.PollEvery)
	}
	if cfg.RatePerSecond != 2.5 {
		t.Fatalf("RatePerSecond = %v, want 2.5", cfg.RatePerSecond)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "shelf.json") {
		t.Fatalf("LogFile = %q, want expanded env path", cfg.LogFile)
	}
}

func TestLoad_BadEnvironmentFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("SHELF_POLL", "soon")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "read environment") {
		t.Fatalf("Load error = %v, want read environment error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
