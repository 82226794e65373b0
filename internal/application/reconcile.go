package application

import (
	"context"
	"log/slog"
	"time"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/reconcile"
	"transfer_scanner/internal/infrastructure/persistence"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/metrics"
)

// Reconcile normalizes today's deal file without opening the browser.
// freshness overrides FreshnessWindowMinutes when > 0.
func Reconcile(ctx context.Context, env *Env, freshness time.Duration) (reconcile.Result, error) {
	state, err := persistence.OpenDay(ctx, env.Config.App.StateDir, time.Now())
	if err != nil {
		return reconcile.Result{}, err
	}

	if freshness <= 0 {
		freshness = env.Settings.FreshnessWindow()
	}

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{FreshnessWindow: freshness})
	if err != nil {
		return reconcile.Result{}, err
	}

	metrics.ReconcileKept.Set(float64(result.Kept))
	metrics.ReconcileRemoved.Set(float64(result.Removed))

	return result, nil
}

// Deals reads the deal lines of day. Lines that no longer parse are skipped.
func Deals(ctx context.Context, env *Env, day time.Time) ([]entity.DealRecord, error) {
	state, err := persistence.OpenDay(ctx, env.Config.App.StateDir, day)
	if err != nil {
		return nil, err
	}

	lines, err := state.DealLines(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]entity.DealRecord, 0, len(lines))

	for _, line := range lines {
		record, err := entity.ParseDealRecord(line)
		if err != nil {
			logger(ctx).WarnContext(ctx, "unreadable deal line skipped", slog.String(logx.FieldDeal, line))

			continue
		}

		records = append(records, record)
	}

	return records, nil
}
