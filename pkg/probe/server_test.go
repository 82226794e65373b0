package probe_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"transfer_scanner/pkg/metrics"
	"transfer_scanner/pkg/probe"
)

type runStatus struct {
	LoggedIn  bool   `json:"loggedIn"`
	LastError string `json:"lastError,omitempty"`
}

func get(t *testing.T, handler http.Handler, path string) (int, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL+path, http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestServer(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		ready      probe.ReadyFunc
		endpoint   string
		statusCode int
		body       string
	}{
		{
			name:       "Health handler",
			endpoint:   "/healthz",
			statusCode: http.StatusOK,
			body:       `{"name":"scanner","version":"v0.0.1"}`,
		},
		{
			name:       "Ready without status source",
			endpoint:   "/ready",
			statusCode: http.StatusOK,
			body:       `{"ready":true}`,
		},
		{
			name: "Ready after a successful run",
			ready: func() (bool, any) {
				return true, runStatus{LoggedIn: true}
			},
			endpoint:   "/ready",
			statusCode: http.StatusOK,
			body:       `{"ready":true,"detail":{"loggedIn":true}}`,
		},
		{
			name: "Not ready after a failed login",
			ready: func() (bool, any) {
				return false, runStatus{LastError: "login failed"}
			},
			endpoint:   "/ready",
			statusCode: http.StatusServiceUnavailable,
			body:       `{"ready":false,"detail":{"loggedIn":false,"lastError":"login failed"}}`,
		},
		{
			name:       "Invalid endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
			body:       "404 page not found\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := probe.NewServer(":0", probe.Options{
				Name:    "scanner",
				Version: "v0.0.1",
				Ready:   tc.ready,
			})

			statusCode, body := get(t, server.Handler(), tc.endpoint)

			rq.Equal(tc.statusCode, statusCode)
			rq.Equal(tc.body, body)
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	rq := require.New(t)

	metrics.ListingsProcessed.Inc()
	metrics.DealsFlagged.Inc()
	metrics.RetryObserver{}.ObserveAttempt("failure")
	metrics.ReconcileKept.Set(4)

	statusCode, body := get(t, probe.NewServer(":0", probe.Options{}).Handler(), "/metrics")

	rq.Equal(http.StatusOK, statusCode)
	rq.Contains(body, "scanner_listings_processed_total")
	rq.Contains(body, "scanner_deals_flagged_total")
	rq.Contains(body, `scanner_retry_attempts_total{outcome="failure"}`)
	rq.Contains(body, "scanner_reconcile_kept 4")
}

func TestServer_CustomGatherer(t *testing.T) {
	rq := require.New(t)

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "only_here_total"})
	registry.MustRegister(counter)
	counter.Add(2)

	_, body := get(t, probe.NewServer(":0", probe.Options{Gatherer: registry}).Handler(), "/metrics")

	rq.Contains(body, "only_here_total 2")
	rq.NotContains(body, "scanner_listings_processed_total")
}
