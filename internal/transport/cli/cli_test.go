package cli_test

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/internal/infrastructure/persistence"
	"transfer_scanner/internal/transport/cli"
)

func setupEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	t.Setenv("STATE_DIR", dir)
	t.Setenv("SETTINGS_PATH", filepath.Join(dir, "settings.json"))
	t.Setenv("FILTERS_PATH", filepath.Join(dir, "searchFilter.json"))
	t.Setenv("LOG_LEVEL", "Warning")

	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	root := cli.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	require.NoError(t, root.ExecuteContext(context.Background()))

	return out.String()
}

func TestEvaluateCommand(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "deal in the lowest tier",
			args: []string{"evaluate", "--price", "10000", "--wage", "5000", "--median", "60000"},
			want: "deal: (10000 + 5000) x 3.00 vs median 60000\n",
		},
		{
			name: "median below minimum",
			args: []string{"evaluate", "--price", "1", "--median", "40000"},
			want: "no deal: (1 + 0) x 3.00 vs median 40000\n",
		},
		{
			name: "unbounded tier",
			args: []string{"evaluate", "--price", "500000", "--median", "700000"},
			want: "no deal: (500000 + 0) x 1.50 vs median 700000\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setupEnv(t)

			rq.Equal(tc.want, execute(t, tc.args...))
		})
	}
}

func TestReconcileAndDealsCommands(t *testing.T) {
	rq := require.New(t)

	dir := setupEnv(t)
	ctx := context.Background()
	now := time.Now()

	state, err := persistence.OpenDay(ctx, dir, now)
	rq.NoError(err)

	deadline := now.Add(2 * time.Hour).Truncate(time.Second)

	rq.NoError(state.AddDeal(ctx, entity.DealRecord{
		PlayerID: "900001", Deadline: deadline, Price: 100, ReferenceValue: 50000, RecordedAt: now.Add(-2 * time.Minute),
	}))
	rq.NoError(state.AddDeal(ctx, entity.DealRecord{
		PlayerID: "900001", Deadline: deadline, Price: 90, ReferenceValue: 50000, RecordedAt: now.Add(-time.Minute),
	}))
	rq.NoError(state.AddDeal(ctx, entity.DealRecord{
		PlayerID: "900002", Deadline: now.Add(-time.Minute), Price: 100, ReferenceValue: 50000, RecordedAt: now.Add(-time.Hour),
	}))

	rq.Equal("kept 1, removed 2, released 0\n", execute(t, "reconcile"))

	out := execute(t, "deals")
	rq.Contains(out, "900001")
	rq.NotContains(out, "900002")
}

func TestRenderDeals(t *testing.T) {
	rq := require.New(t)

	wage := int64(3100)

	var buf bytes.Buffer

	cli.RenderDeals(&buf, []entity.DealRecord{
		{PlayerID: "1", Deadline: time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local), Price: 500, Wage: &wage, ReferenceValue: 90000},
		{PlayerID: "2", Deadline: time.Date(2026, 3, 10, 19, 0, 0, 0, time.Local), Price: 700, ReferenceValue: 80000},
	})

	out := buf.String()
	rq.Contains(out, "PLAYER")
	rq.Contains(out, "10.03 18:00")
	rq.Contains(out, "3100")
	rq.Contains(out, "TOTAL")
}
