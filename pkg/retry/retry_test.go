package retry_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/domain"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/retry"
)

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)

	return nil
}

type observerStub struct {
	outcomes []string
}

func (o *observerStub) ObserveAttempt(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}

func TestExecuteAlwaysFailing(t *testing.T) {
	rq := require.New(t)

	var logs bytes.Buffer
	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&logs, nil)))

	recorder := &sleepRecorder{}
	observer := &observerStub{}
	failure := errors.New("element not ready")
	calls := 0

	err := retry.Execute(ctx, "click search", func() error {
		calls++

		return failure
	},
		retry.WithMaxAttempts(4),
		retry.WithDelay(250*time.Millisecond),
		retry.WithSleep(recorder.sleep),
		retry.WithObserver(observer),
	)

	rq.Error(err)
	rq.ErrorIs(err, failure)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.RetryExhausted, code)

	rq.Equal(4, calls)
	rq.Equal([]time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, recorder.calls)
	rq.Equal([]string{retry.OutcomeFailure, retry.OutcomeFailure, retry.OutcomeFailure, retry.OutcomeExhausted}, observer.outcomes)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	rq.Len(lines, 4)
	rq.NotContains(lines[0], "element not ready")
	rq.NotContains(lines[1], "element not ready")
	rq.Contains(lines[2], "element not ready")
	rq.Contains(lines[3], "element not ready")
	rq.Contains(lines[0], "click search")
}

func TestExecuteSucceedsAfterFailures(t *testing.T) {
	rq := require.New(t)

	recorder := &sleepRecorder{}
	calls := 0

	err := retry.Execute(context.Background(), "fill login", func() error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}

		return nil
	}, retry.WithSleep(recorder.sleep))

	rq.NoError(err)
	rq.Equal(3, calls)
	rq.Equal([]time.Duration{retry.DefaultDelay, retry.DefaultDelay}, recorder.calls)
}

func TestExecuteDefaults(t *testing.T) {
	rq := require.New(t)

	recorder := &sleepRecorder{}
	calls := 0

	err := retry.Execute(context.Background(), "goto", func() error {
		calls++

		return errors.New("navigation timeout")
	}, retry.WithSleep(recorder.sleep))

	rq.Error(err)
	rq.Equal(retry.DefaultMaxAttempts, calls)
	rq.Len(recorder.calls, retry.DefaultMaxAttempts-1)
}

func TestExecutePermanent(t *testing.T) {
	rq := require.New(t)

	recorder := &sleepRecorder{}
	markupChanged := errors.New("selector matched nothing")
	calls := 0

	err := retry.Execute(context.Background(), "read price", func() error {
		calls++

		return retry.Permanent(markupChanged)
	}, retry.WithSleep(recorder.sleep))

	rq.ErrorIs(err, markupChanged)
	rq.Equal(1, calls)
	rq.Empty(recorder.calls)

	_, isApp := domain.GetCode(err)
	rq.False(isApp)
}

func TestDoReturnsValue(t *testing.T) {
	rq := require.New(t)

	calls := 0

	value, err := retry.Do(context.Background(), "read median", func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("not visible")
		}

		return "45 000 US$", nil
	}, retry.WithDelay(0))

	rq.NoError(err)
	rq.Equal("45 000 US$", value)
	rq.Equal(2, calls)
}

func TestExecuteContextCanceled(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := retry.Execute(ctx, "wait", func() error {
		calls++
		cancel()

		return errors.New("busy")
	}, retry.WithDelay(time.Hour))

	rq.ErrorIs(err, context.Canceled)
	rq.Equal(1, calls)
}
