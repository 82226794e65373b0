package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"transfer_scanner/pkg/metrics"
)

func TestRetryObserver(t *testing.T) {
	rq := require.New(t)

	before := testutil.ToFloat64(metrics.RetryAttempts.WithLabelValues("exhausted"))

	metrics.RetryObserver{}.ObserveAttempt("exhausted")
	metrics.RetryObserver{}.ObserveAttempt("exhausted")

	rq.InDelta(before+2, testutil.ToFloat64(metrics.RetryAttempts.WithLabelValues("exhausted")), 1e-9)
}
