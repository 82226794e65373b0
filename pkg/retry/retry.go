package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"transfer_scanner/internal/domain"
	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	DefaultMaxAttempts = 9
	DefaultDelay       = time.Second

	// Failures before this attempt are expected flakiness and logged without detail.
	detailFromAttempt = 3
)

type Observer interface {
	ObserveAttempt(outcome string)
}

const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeExhausted = "exhausted"
)

type options struct {
	maxAttempts int
	delay       time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	observer    Observer
}

type Option func(*options)

func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func WithDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.delay = d
		}
	}
}

// WithSleep replaces the blocking wait between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Execute runs action until it succeeds or the attempt bound is reached.
func Execute(ctx context.Context, description string, action func() error, opts ...Option) error {
	_, err := Do(ctx, description, func() (struct{}, error) {
		return struct{}{}, action()
	}, opts...)

	return err
}

// Do is Execute for actions producing a value.
func Do[T any](ctx context.Context, description string, action func() (T, error), opts ...Option) (T, error) {
	o := options{
		maxAttempts: DefaultMaxAttempts,
		delay:       DefaultDelay,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(&o)
	}

	policy := backoff.NewConstantBackOff(o.delay)

	var zero T

	for attempt := 1; ; attempt++ {
		result, err := action()
		if err == nil {
			o.observe(OutcomeSuccess)

			return result, nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			o.observe(OutcomeFailure)

			return zero, permanent.Unwrap()
		}

		attrs := []any{
			slog.String(logx.FieldDescription, description),
			slog.Int(logx.FieldAttempt, attempt),
			slog.Int(logx.FieldMaxAttempts, o.maxAttempts),
		}
		if attempt >= detailFromAttempt {
			attrs = append(attrs, logx.Error(err))
		}

		logger(ctx).WarnContext(ctx, "action failed", attrs...)

		if attempt >= o.maxAttempts {
			o.observe(OutcomeExhausted)

			return zero, domain.WrapError(err, errcodes.RetryExhausted,
				fmt.Sprintf("%s: gave up after %d attempts", description, attempt))
		}

		o.observe(OutcomeFailure)

		if err := o.sleep(ctx, policy.NextBackOff()); err != nil {
			return zero, fmt.Errorf("%s: %w", description, err)
		}
	}
}

func (o *options) observe(outcome string) {
	if o.observer != nil {
		o.observer.ObserveAttempt(outcome)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
