package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/domain/service/reconcile"
	"transfer_scanner/internal/infrastructure/persistence"
)

//nolint:gochecknoglobals
var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.Local)

func clock() time.Time {
	return now
}

func line(playerID string, deadline, recordedAt time.Duration) string {
	return entity.DealRecord{
		PlayerID:       playerID,
		Deadline:       now.Add(deadline),
		Price:          20000,
		ReferenceValue: 90000,
		RecordedAt:     now.Add(recordedAt),
	}.String()
}

func openState(t *testing.T, lines []string, processed ...string) *persistence.DayState {
	t.Helper()

	ctx := context.Background()

	state, err := persistence.OpenDay(ctx, t.TempDir(), now)
	require.NoError(t, err)
	require.NoError(t, state.ReplaceDeals(ctx, lines))

	for _, id := range processed {
		require.NoError(t, state.MarkProcessed(ctx, id))
	}

	return state
}

func TestReconcileKeepsMostRecentRecord(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	older := line("123", 2*time.Hour, -time.Hour)
	newer := line("123", 3*time.Hour, 0)

	state := openState(t, []string{newer, older}, "123", "555")

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock})
	rq.NoError(err)
	rq.Equal(reconcile.Result{Kept: 1, Removed: 1, Released: 1}, result)

	lines, err := state.DealLines(ctx)
	rq.NoError(err)
	rq.Equal([]string{newer}, lines)

	ids, err := state.ProcessedIDs(ctx)
	rq.NoError(err)
	rq.Equal([]string{"555"}, ids)
}

func TestReconcileExpiresSortsAndDropsMalformed(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	late := line("1", 5*time.Hour, -time.Minute)
	soon := line("2", time.Hour, -time.Minute)
	expired := line("3", -time.Minute, -2*time.Hour)
	atNow := line("4", 0, -time.Minute)

	state := openState(t, []string{late, expired, "garbage | Deadline tomorrow", soon, atNow})

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock})
	rq.NoError(err)
	rq.Equal(2, result.Kept)
	rq.Equal(3, result.Removed)

	lines, err := state.DealLines(ctx)
	rq.NoError(err)
	rq.Equal([]string{soon, late}, lines)
}

func TestReconcileFreshnessWindow(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()
	fresh := line("1", 2*time.Hour, -10*time.Minute)
	stale := line("2", time.Hour, -90*time.Minute)

	state := openState(t, []string{fresh, stale})

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock, FreshnessWindow: time.Hour})
	rq.NoError(err)
	rq.Equal(1, result.Kept)

	lines, err := state.DealLines(ctx)
	rq.NoError(err)
	rq.Equal([]string{fresh}, lines)

	state = openState(t, []string{fresh, stale})

	result, err = reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock})
	rq.NoError(err)
	rq.Equal(2, result.Kept)
}

func TestReconcileIdempotent(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()

	state := openState(t, []string{
		line("7", 4*time.Hour, -time.Hour),
		line("7", 3*time.Hour, -30*time.Minute),
		line("8", 4*time.Hour, -time.Hour),
		line("9", time.Hour, 0),
		line("10", -time.Hour, 0),
	})

	_, err := reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock})
	rq.NoError(err)

	first, err := state.DealLines(ctx)
	rq.NoError(err)

	result, err := reconcile.Reconcile(ctx, state, reconcile.Options{Now: clock})
	rq.NoError(err)
	rq.Equal(0, result.Removed)

	second, err := state.DealLines(ctx)
	rq.NoError(err)
	rq.Equal(first, second)
	rq.Len(second, 3)

	var previous time.Time

	for _, l := range second {
		key, ok := entity.ParseDealKey(l)
		rq.True(ok)
		rq.True(key.Deadline.After(now))
		rq.False(key.Deadline.Before(previous))

		previous = key.Deadline
	}
}

func TestReleaseDealPlayers(t *testing.T) {
	rq := require.New(t)

	ctx := context.Background()

	state := openState(t, []string{line("1", time.Hour, 0), line("1", 2*time.Hour, 0), line("2", time.Hour, 0)}, "1", "2", "3")

	released, err := reconcile.ReleaseDealPlayers(ctx, state)
	rq.NoError(err)
	rq.Equal(2, released)

	ids, err := state.ProcessedIDs(ctx)
	rq.NoError(err)
	rq.Equal([]string{"3"}, ids)
}
