// Package reconcile normalizes the day's deal file at the end of a run and keeps
// the processed set in sync with it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type State interface {
	DealLines(ctx context.Context) ([]string, error)
	ReplaceDeals(ctx context.Context, lines []string) error
	ReleasePlayers(ctx context.Context, playerIDs []string) (int, error)
}

type Options struct {
	Now func() time.Time
	// FreshnessWindow > 0 also drops deals recorded longer ago than the window.
	FreshnessWindow time.Duration
}

type Result struct {
	Kept     int
	Removed  int
	Released int
}

type entry struct {
	key  entity.DealKey
	line string
}

// Reconcile keeps the newest line per player, drops expired (and optionally stale) deals,
// sorts by deadline and releases the surviving players from the processed set.
func Reconcile(ctx context.Context, state State, opts Options) (Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	lines, err := state.DealLines(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("state.DealLines: %w", err)
	}

	evaluatedAt := now()
	latest := make(map[string]entry, len(lines))

	for _, line := range lines {
		key, ok := entity.ParseDealKey(line)
		if !ok {
			continue
		}

		if current, found := latest[key.PlayerID]; found && !key.RecordedAt.After(current.key.RecordedAt) {
			continue
		}

		latest[key.PlayerID] = entry{key: key, line: line}
	}

	survivors := lo.Filter(lo.Values(latest), func(e entry, _ int) bool {
		if !e.key.Deadline.After(evaluatedAt) {
			return false
		}

		if opts.FreshnessWindow > 0 && e.key.RecordedAt.Before(evaluatedAt.Add(-opts.FreshnessWindow)) {
			return false
		}

		return true
	})

	sort.Slice(survivors, func(i, j int) bool {
		a, b := survivors[i].key, survivors[j].key
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}

		return a.PlayerID < b.PlayerID
	})

	kept := lo.Map(survivors, func(e entry, _ int) string { return e.line })

	if err := state.ReplaceDeals(ctx, kept); err != nil {
		return Result{}, fmt.Errorf("state.ReplaceDeals: %w", err)
	}

	released, err := state.ReleasePlayers(ctx, lo.Map(survivors, func(e entry, _ int) string { return e.key.PlayerID }))
	if err != nil {
		return Result{}, fmt.Errorf("state.ReleasePlayers: %w", err)
	}

	result := Result{
		Kept:     len(kept),
		Removed:  len(lines) - len(kept),
		Released: released,
	}

	logger(ctx).InfoContext(ctx, "deals reconciled",
		slog.Int(logx.FieldKept, result.Kept),
		slog.Int(logx.FieldRemoved, result.Removed),
		slog.Int(logx.FieldReleased, result.Released),
	)

	return result, nil
}

// ReleaseDealPlayers lets every player currently in the deal file be evaluated again.
func ReleaseDealPlayers(ctx context.Context, state State) (int, error) {
	lines, err := state.DealLines(ctx)
	if err != nil {
		return 0, fmt.Errorf("state.DealLines: %w", err)
	}

	ids := lo.Uniq(lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		return entity.PlayerIDFromLine(line)
	}))

	released, err := state.ReleasePlayers(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("state.ReleasePlayers: %w", err)
	}

	if released > 0 {
		logger(ctx).InfoContext(ctx, "deal players released for re-evaluation", slog.Int(logx.FieldReleased, released))
	}

	return released, nil
}
