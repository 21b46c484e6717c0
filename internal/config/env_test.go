package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "REDIS_URL", "HISTORY_SIZE", "MAX_UPLOAD_MB", "LOG_LEVEL", "HISTORY_TTL"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadBytes != 64<<20 {
		t.Errorf("max upload = %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.History.RedisURL != "" {
		t.Errorf("history should be disabled by default")
	}
	if cfg.History.TTL != 7*24*time.Hour || cfg.History.Size != 100 {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HISTORY_SIZE", "-4")
	t.Setenv("SHUTDOWN_TIMEOUT", "bogus")
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("FETCH_TIMEOUT", "5s")
	cfg := FromEnv()
	if cfg.Storage.FetchTimeout != 5*time.Second {
		t.Errorf("fetch timeout = %s", cfg.Storage.FetchTimeout)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.History.Size != 100 {
		t.Errorf("non-positive size should fall back, got %d", cfg.History.Size)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("bad duration should fall back, got %s", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Logging.Pretty {
		t.Errorf("LOG_PRETTY=yes should enable pretty output")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	if err := os.WriteFile(f, []byte("DEFAULT_LANG=UZ\nHISTORY_SIZE=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Registered with t.Setenv so the values loaded from the file are restored.
	t.Setenv("DEFAULT_LANG", "")
	t.Setenv("HISTORY_SIZE", "")
	os.Unsetenv("DEFAULT_LANG")
	os.Unsetenv("HISTORY_SIZE")

	cfg := Load(f)
	if cfg.Server.DefaultLang != "uz" {
		t.Errorf("lang = %q", cfg.Server.DefaultLang)
	}
	if cfg.History.Size != 7 {
		t.Errorf("size = %d", cfg.History.Size)
	}
}
