package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/patrickmn/go-cache"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/reconcile"
	"transfer_scanner/internal/domain/service/transfer"
	"transfer_scanner/internal/infrastructure/hattrick"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Site interface {
	Login(ctx context.Context, creds hattrick.Credentials) (string, error)
	ApplyFilter(ctx context.Context, subdomain string, filter entity.SearchFilter) error
	CollectCandidates(
		ctx context.Context,
		filter entity.SearchFilter,
		processed hattrick.ProcessedChecker,
		window time.Duration,
	) ([]entity.Candidate, error)
	OpenListing(ctx context.Context, subdomain string, candidate entity.Candidate) (entity.RawListing, error)
}

type State interface {
	transfer.State
	reconcile.State
}

// StateOpener opens the state files of the given day.
type StateOpener func(ctx context.Context, day time.Time) (State, error)

type Settings struct {
	Credentials     hattrick.Credentials
	Filters         []entity.SearchFilter
	Rules           transfer.Rules
	DeadlineWindow  time.Duration
	FreshnessWindow time.Duration
}

type Report struct {
	Processed int
	Deals     int
	Reconcile reconcile.Result
}

type TransferScanner struct {
	site      Site
	openState StateOpener
	settings  Settings
	deals     chan<- entity.DealRecord
	status    *StatusTracker
	seen      *cache.Cache
	now       func() time.Time

	pauseMin    time.Duration
	pauseMax    time.Duration
	lastRequest time.Time
}

func NewTransferScanner(site Site, openState StateOpener, settings Settings) *TransferScanner {
	return &TransferScanner{
		site:      site,
		openState: openState,
		settings:  settings,
		status:    NewStatusTracker(),
		seen:      cache.New(settings.DeadlineWindow, time.Hour),
		now:       time.Now,
		pauseMin:  200 * time.Millisecond,
		pauseMax:  400 * time.Millisecond,
	}
}

// WithDeals sends every newly flagged deal to ch.
func (w *TransferScanner) WithDeals(ch chan<- entity.DealRecord) *TransferScanner {
	w.deals = ch

	return w
}

// WithPacing задает паузу между карточками игроков; 0 отключает.
func (w *TransferScanner) WithPacing(minPause, maxPause time.Duration) *TransferScanner {
	w.pauseMin, w.pauseMax = minPause, maxPause

	return w
}

// WithStatus records run outcomes into tracker instead of a private one.
func (w *TransferScanner) WithStatus(tracker *StatusTracker) *TransferScanner {
	w.status = tracker

	return w
}

func (w *TransferScanner) Status() Status {
	return w.status.Snapshot()
}

func (w *TransferScanner) WithClock(now func() time.Time) *TransferScanner {
	w.now = now

	return w
}

// Run executes one run, or with interval > 0 keeps running until ctx is done.
// In the repeating mode a failed run is logged and the next one starts on schedule.
func (w *TransferScanner) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		_, err := w.RunOnce(ctx)

		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			logger(ctx).ErrorContext(ctx, "scan run failed", logx.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *TransferScanner) RunOnce(ctx context.Context) (report Report, err error) {
	defer func() {
		if !IsStopped(err) {
			w.status.finish(w.now(), report, err)
		}
	}()

	runID := contextx.NewRunID()
	ctx = contextx.WithRunID(ctx, runID)
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldRunID, runID.String())))

	started := w.now()

	logger(ctx).InfoContext(ctx, "scan run started", slog.Int(logx.FieldCount, len(w.settings.Filters)))

	state, err := w.openState(ctx, started)
	if err != nil {
		return Report{}, fmt.Errorf("open state: %w", err)
	}

	if _, err := reconcile.ReleaseDealPlayers(ctx, state); err != nil {
		return Report{}, err
	}

	subdomain, err := w.site.Login(ctx, w.settings.Credentials)
	w.status.setLoggedIn(err == nil)

	if err != nil {
		return Report{}, err
	}

	w.seen.Flush()

	service := transfer.NewService(state, w.settings.Rules).WithClock(w.now)

	for _, filter := range w.settings.Filters {
		if err := w.scanFilter(ctx, subdomain, filter, state, service, &report); err != nil {
			return report, err
		}
	}

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{
		Now:             w.now,
		FreshnessWindow: w.settings.FreshnessWindow,
	})
	if err != nil {
		return report, err
	}

	report.Reconcile = result
	metrics.ReconcileKept.Set(float64(result.Kept))
	metrics.ReconcileRemoved.Set(float64(result.Removed))

	logger(ctx).InfoContext(ctx, "scan run finished",
		slog.Int(logx.FieldCount, report.Processed),
		slog.Int(logx.FieldFound, report.Deals),
		slog.Int(logx.FieldKept, result.Kept),
		slog.Int64(logx.FieldDurationMs, w.now().Sub(started).Milliseconds()),
	)

	return report, nil
}

func (w *TransferScanner) scanFilter(
	ctx context.Context,
	subdomain string,
	filter entity.SearchFilter,
	state State,
	service *transfer.Service,
	report *Report,
) error {
	if err := w.site.ApplyFilter(ctx, subdomain, filter); err != nil {
		return err
	}

	candidates, err := w.site.CollectCandidates(ctx, filter, state, w.settings.DeadlineWindow)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if _, dup := w.seen.Get(candidate.Link); dup {
			continue
		}

		w.seen.SetDefault(candidate.Link, struct{}{})

		if err := w.waitForNextSlot(ctx); err != nil {
			return err
		}

		raw, err := w.site.OpenListing(ctx, subdomain, candidate)
		if err != nil {
			return err
		}

		outcome, err := service.ProcessListing(ctx, raw)
		if err != nil {
			return err
		}

		report.Processed++
		metrics.ListingsProcessed.Inc()

		if outcome.Deal == nil {
			continue
		}

		report.Deals++
		metrics.DealsFlagged.Inc()

		if err := w.publish(ctx, *outcome.Deal); err != nil {
			return err
		}
	}

	return nil
}

func (w *TransferScanner) publish(ctx context.Context, deal entity.DealRecord) error {
	if w.deals == nil {
		return nil
	}

	select {
	case w.deals <- deal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForNextSlot keeps a random gap of pauseMin..pauseMax between player pages.
func (w *TransferScanner) waitForNextSlot(ctx context.Context) error {
	if w.pauseMax <= 0 {
		return nil
	}

	interval := w.pauseMin
	if spread := w.pauseMax - w.pauseMin; spread > 0 {
		interval += rand.N(spread) //nolint:gosec
	}

	if w.lastRequest.IsZero() {
		w.lastRequest = time.Now()

		return nil
	}

	elapsed := time.Since(w.lastRequest)
	if elapsed >= interval {
		w.lastRequest = time.Now()

		return nil
	}

	timer := time.NewTimer(interval - elapsed)
	defer timer.Stop()

	select {
	case <-timer.C:
		w.lastRequest = time.Now()

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsStopped reports whether err only means the run was interrupted.
func IsStopped(err error) bool {
	return errors.Is(err, context.Canceled)
}
