// Package application собирает зависимости сканера для команд CLI.
package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"transfer_scanner/internal/config"
	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

// Env загруженная конфигурация одного запуска процесса.
type Env struct {
	Config   config.Config
	Settings config.Settings
	Filters  []entity.SearchFilter

	logFile io.Closer
}

// Bootstrap loads the configuration and settings and installs the run logger
// (console plus the daily file in the state directory) into the returned context.
func Bootstrap(ctx context.Context, console io.Writer) (context.Context, *Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, nil, fmt.Errorf("config.Load: %w", err)
	}

	ctx = withLogger(ctx, logx.NewLogger(logx.Options{Level: slog.LevelInfo, Console: console}))

	settings, err := config.LoadSettings(ctx, cfg.App.SettingsPath, cfg.Hattrick)
	if err != nil {
		return ctx, nil, err
	}

	levelName := settings.Logs.MinimumLevel
	if cfg.App.LogLevel != "" {
		levelName = cfg.App.LogLevel
	}

	level, err := config.Logs{MinimumLevel: levelName}.Level()
	if err != nil {
		return ctx, nil, err
	}

	file, err := logx.OpenDailyFile(cfg.App.StateDir, time.Now())
	if err != nil {
		return ctx, nil, fmt.Errorf("logx.OpenDailyFile: %w", err)
	}

	log := logx.NewLogger(logx.Options{
		Level:   level,
		Console: console,
		File:    file,
	})
	ctx = withLogger(ctx, log)

	return ctx, &Env{Config: cfg, Settings: settings, logFile: file}, nil
}

// LoadFilters reads the search filters file into env.
func (e *Env) LoadFilters(ctx context.Context) error {
	filters, err := config.LoadFilters(ctx, e.Config.App.FiltersPath)
	if err != nil {
		return err
	}

	e.Filters = filters.Filters

	return nil
}

// Close closes the daily log file.
func (e *Env) Close() error {
	if e == nil || e.logFile == nil {
		return nil
	}

	if err := e.logFile.Close(); err != nil {
		return fmt.Errorf("logFile.Close: %w", err)
	}

	return nil
}

func withLogger(ctx context.Context, log *slog.Logger) context.Context {
	slog.SetDefault(log)

	return contextx.WithLogger(ctx, log)
}
