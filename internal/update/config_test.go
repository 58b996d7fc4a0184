package update

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/tickd/internal/storage"
)

// isolateConfig keeps the developer's own config files and env out of a test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TICKD_CONFIG", "")
}

func TestRuntimeConfigDefaults(t *testing.T) {
	isolateConfig(t)
	cfg, err := LoadRuntimeConfig("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg != DefaultRuntimeConfig() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CountdownInterval != 10*time.Second || cfg.SchedulerBuffer != 64 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	isolateConfig(t)
	t.Setenv("TICKD_COUNTDOWN_INTERVAL", "30s")
	t.Setenv("TICKD_NOTIFICATIONS_DESKTOP", "true")
	t.Setenv("TICKD_NOTIFICATIONS_ENABLED", "false")
	t.Setenv("TICKD_DEVICE_PHYSICAL", "false")
	t.Setenv("TICKD_SCHEDULER_BUFFER", "128")
	t.Setenv("TICKD_STORAGE_BACKEND", "redis")
	t.Setenv("TICKD_STORAGE_REDIS_ADDR", "cache:6380")

	cfg, err := LoadRuntimeConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CountdownInterval != 30*time.Second {
		t.Fatalf("interval = %s, want 30s", cfg.CountdownInterval)
	}
	if !cfg.DesktopNotifications || cfg.NotificationsEnabled || cfg.PhysicalDevice {
		t.Fatalf("unexpected notification flags: %+v", cfg)
	}
	if cfg.SchedulerBuffer != 128 {
		t.Fatalf("buffer = %d, want 128", cfg.SchedulerBuffer)
	}
	if cfg.StorageBackend != storage.BackendRedis || cfg.RedisAddr != "cache:6380" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
}

func TestRuntimeConfigFromFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "tickd.toml")
	body := "[countdown]\ninterval = \"1m\"\n\n[storage]\nsqlite_path = \"data/tickd.db\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TICKD_CONFIG", path)
	t.Setenv("TICKD_STORAGE_SQLITE_PATH", "override.db")

	cfg, err := LoadRuntimeConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CountdownInterval != time.Minute {
		t.Fatalf("interval = %s, want 1m", cfg.CountdownInterval)
	}
	if cfg.SQLitePath != "override.db" {
		t.Fatalf("env should win over file, got %q", cfg.SQLitePath)
	}
}

func TestRuntimeConfigRejectsInvalidValues(t *testing.T) {
	isolateConfig(t)

	t.Setenv("TICKD_COUNTDOWN_INTERVAL", "0s")
	if _, err := LoadRuntimeConfig(""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for zero interval, got %v", err)
	}

	t.Setenv("TICKD_COUNTDOWN_INTERVAL", "10s")
	t.Setenv("TICKD_STORAGE_BACKEND", "etcd")
	if _, err := LoadRuntimeConfig(""); !errors.Is(err, storage.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestRuntimeConfigMissingExplicitFile(t *testing.T) {
	isolateConfig(t)
	if _, err := LoadRuntimeConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
