package update

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/tickd/internal/storage"
	"github.com/spf13/viper"
)

const envPrefix = "TICKD"

var ErrInvalidConfig = errors.New("config: invalid value")

type RuntimeConfig struct {
	StorageBackend       storage.Backend
	SQLitePath           string
	RedisAddr            string
	RedisDB              int
	RedisPrefix          string
	CountdownInterval    time.Duration
	NotificationsEnabled bool
	DesktopNotifications bool
	PhysicalDevice       bool
	SchedulerBuffer      int
	LogPath              string
	LogLevel             string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorageBackend:       storage.BackendSQLite,
		SQLitePath:           "tickd.db",
		RedisAddr:            "127.0.0.1:6379",
		RedisDB:              0,
		RedisPrefix:          "tickd:",
		CountdownInterval:    10 * time.Second,
		NotificationsEnabled: true,
		DesktopNotifications: false,
		PhysicalDevice:       true,
		SchedulerBuffer:      64,
		LogPath:              "tickd.log",
		LogLevel:             "info",
	}
}

// LoadRuntimeConfig layers defaults, an optional config file and TICKD_*
// environment variables. configFile overrides the search path when set; it
// falls back to $TICKD_CONFIG.
func LoadRuntimeConfig(configFile string) (RuntimeConfig, error) {
	v := viper.New()
	setDefaults(v, DefaultRuntimeConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tickd")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tickd"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return RuntimeConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	backend, err := storage.ParseBackend(v.GetString("storage.backend"))
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg := RuntimeConfig{
		StorageBackend:       backend,
		SQLitePath:           strings.TrimSpace(v.GetString("storage.sqlite_path")),
		RedisAddr:            strings.TrimSpace(v.GetString("storage.redis_addr")),
		RedisDB:              v.GetInt("storage.redis_db"),
		RedisPrefix:          v.GetString("storage.redis_prefix"),
		CountdownInterval:    v.GetDuration("countdown.interval"),
		NotificationsEnabled: v.GetBool("notifications.enabled"),
		DesktopNotifications: v.GetBool("notifications.desktop"),
		PhysicalDevice:       v.GetBool("device.physical"),
		SchedulerBuffer:      v.GetInt("scheduler.buffer"),
		LogPath:              strings.TrimSpace(v.GetString("log.path")),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
	}
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg RuntimeConfig) {
	v.SetDefault("storage.backend", string(cfg.StorageBackend))
	v.SetDefault("storage.sqlite_path", cfg.SQLitePath)
	v.SetDefault("storage.redis_addr", cfg.RedisAddr)
	v.SetDefault("storage.redis_db", cfg.RedisDB)
	v.SetDefault("storage.redis_prefix", cfg.RedisPrefix)
	v.SetDefault("countdown.interval", cfg.CountdownInterval.String())
	v.SetDefault("notifications.enabled", cfg.NotificationsEnabled)
	v.SetDefault("notifications.desktop", cfg.DesktopNotifications)
	v.SetDefault("device.physical", cfg.PhysicalDevice)
	v.SetDefault("scheduler.buffer", cfg.SchedulerBuffer)
	v.SetDefault("log.path", cfg.LogPath)
	v.SetDefault("log.level", cfg.LogLevel)
}

func (c RuntimeConfig) Validate() error {
	if c.CountdownInterval <= 0 {
		return fmt.Errorf("%w: countdown.interval must be positive, got %s", ErrInvalidConfig, c.CountdownInterval)
	}
	if c.SchedulerBuffer <= 0 {
		return fmt.Errorf("%w: scheduler.buffer must be positive, got %d", ErrInvalidConfig, c.SchedulerBuffer)
	}
	switch c.StorageBackend {
	case storage.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: storage.sqlite_path is required", ErrInvalidConfig)
		}
	case storage.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: storage.redis_addr is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownBackend, c.StorageBackend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// StorageOptions maps the storage keys onto storage.Open options.
func (c RuntimeConfig) StorageOptions() storage.Options {
	return storage.Options{
		Backend:     c.StorageBackend,
		SQLitePath:  c.SQLitePath,
		RedisAddr:   c.RedisAddr,
		RedisDB:     c.RedisDB,
		RedisPrefix: c.RedisPrefix,
	}
}
