package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tickd/internal/countdown"
	"github.com/sandeepkv93/tickd/internal/notify"
	"github.com/sandeepkv93/tickd/internal/scheduler"
	"github.com/sandeepkv93/tickd/internal/shopping"
	"github.com/sandeepkv93/tickd/internal/storage"
	"github.com/sandeepkv93/tickd/internal/update"
)

func main() {
	configPath := flag.String("config", "", "config file (default: tickd.{toml,yaml,json} in . or ~/.config/tickd)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "tickd failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := update.LoadRuntimeConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		logger.Error("open storage failed", "backend", cfg.StorageBackend, "error", err)
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	local, err := notify.NewLocal(engine, cfg.NotificationsEnabled)
	if err != nil {
		return err
	}
	machine, err := countdown.New(store, local, countdown.Options{
		Interval:       cfg.CountdownInterval,
		PhysicalDevice: cfg.PhysicalDevice,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	ticker := countdown.NewTicker(machine, 0)
	defer ticker.Stop()

	list, err := shopping.New(store, logger)
	if err != nil {
		return err
	}

	var desktop notify.DesktopNotifier = notify.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		desktop = notify.ExecDesktopNotifier{}
	}

	logger.Info("tickd starting",
		"backend", cfg.StorageBackend,
		"interval", cfg.CountdownInterval,
		"notifications", cfg.NotificationsEnabled,
		"desktop", cfg.DesktopNotifications,
	)
	model := update.NewModel(update.Deps{
		Context:  ctx,
		Machine:  machine,
		Ticker:   ticker,
		Shopping: list,
		Engine:   engine,
		Notifier: desktop,
		Logger:   logger,
		Config:   cfg,
	})
	program := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		return err
	}
	logger.Info("tickd exited", "dropped_notifications", engine.Dropped())
	return nil
}

func parseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
