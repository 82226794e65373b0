package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/middlewarex"
)

func TestLoggerAndRecovery(t *testing.T) {
	rq := require.New(t)

	var logs bytes.Buffer

	base := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := middlewarex.Logger(middlewarex.Recovery(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		contextx.LoggerFromContextOrDefault(r.Context()).Info("inside handler")
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req = req.WithContext(contextx.WithLogger(context.Background(), base))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	rq.Equal(http.StatusInternalServerError, rec.Code)
	rq.Equal("InternalServerError\n", rec.Body.String())
	rq.Contains(logs.String(), "inside handler")
	rq.Contains(logs.String(), "url=/healthz")
	rq.Contains(logs.String(), "panic in handler")
	rq.Contains(logs.String(), "status-code=500")
}
