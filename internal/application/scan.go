package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/transfer"
	"transfer_scanner/internal/infrastructure/browser"
	"transfer_scanner/internal/infrastructure/hattrick"
	"transfer_scanner/internal/infrastructure/notifier"
	"transfer_scanner/internal/infrastructure/persistence"
	"transfer_scanner/internal/worker"
	"transfer_scanner/pkg/application/connectors"
	"transfer_scanner/pkg/application/modules"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/metrics"
	"transfer_scanner/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const dealsBuffer = 100

// Scan runs the scanner once, or every interval until ctx is done, next to the
// optional ops servers and the deal notifier.
func Scan(ctx context.Context, env *Env, interval time.Duration) error {
	if err := env.LoadFilters(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group

	cfg := env.Config

	status := worker.NewStatusTracker()

	if cfg.App.OpsListenAddress != "" {
		modules.OpsServer{
			Name:          cfg.App.Name,
			Version:       cfg.App.Version,
			ListenAddress: cfg.App.OpsListenAddress,
			Ready:         status.Ready,
		}.Run(ctx, &g)
	}

	var deals chan entity.DealRecord

	if cfg.Bot.Enabled() {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}

		deals = make(chan entity.DealRecord, dealsBuffer)
		notifyCtx := context.WithoutCancel(ctx)

		g.Go(func() error {
			logger(ctx).Info("notifier bot started listening")

			// дочитываем канал до закрытия, чтобы не потерять последние сделки
			if err := bot.Run(notifyCtx, deals); err != nil {
				logger(ctx).Error("notifier bot stopped", logx.Error(err))
			}

			return nil
		})
	}

	connector := &connectors.Browser{
		Headless: cfg.Browser.Headless,
		SlowMo:   cfg.Browser.SlowMo,
	}
	defer connector.Close(context.WithoutCancel(ctx))

	g.Go(func() error {
		defer cancel()

		if deals != nil {
			defer close(deals)
		}

		return runScanner(ctx, env, connector, deals, status, interval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func runScanner(
	ctx context.Context,
	env *Env,
	connector *connectors.Browser,
	deals chan<- entity.DealRecord,
	status *worker.StatusTracker,
	interval time.Duration,
) error {
	instance, err := connector.Client(ctx)
	if err != nil {
		return err
	}

	page, err := browser.Open(instance, env.Config.Browser.Timeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger(ctx).Warn("page.Close", logx.Error(err))
		}
	}()

	settings := env.Settings

	site := hattrick.NewClient(page, settings.DateFormatOption,
		retry.WithMaxAttempts(env.Config.Retry.MaxAttempts),
		retry.WithDelay(env.Config.Retry.Delay),
		retry.WithObserver(metrics.RetryObserver{}),
	)

	scanner := worker.NewTransferScanner(site, stateOpener(env.Config.App.StateDir), worker.Settings{
		Credentials: hattrick.Credentials{
			LoginName:     settings.LoginName,
			LoginPassword: settings.LoginPassword,
		},
		Filters: env.Filters,
		Rules: transfer.Rules{
			DealRules:        settings.DealRules,
			MinimumReference: settings.MinimumMedianForDeal,
			DateFormat:       settings.DateFormatOption,
			SkipInjured:      settings.SkipInjured,
		},
		DeadlineWindow:  settings.DeadlineWindow(),
		FreshnessWindow: settings.FreshnessWindow(),
	}).WithStatus(status)

	if deals != nil {
		scanner.WithDeals(deals)
	}

	logger(ctx).Info("scanner started",
		slog.Int(logx.FieldCount, len(env.Filters)),
		slog.Duration(logx.FieldInterval, interval),
	)

	return scanner.Run(ctx, interval)
}

func stateOpener(dir string) worker.StateOpener {
	return func(ctx context.Context, day time.Time) (worker.State, error) {
		return persistence.OpenDay(ctx, dir, day)
	}
}
