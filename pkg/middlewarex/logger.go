package middlewarex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger puts a request-scoped logger into the context and writes a debug access line.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		requestLogger := logger(ctx).With(
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, r.RemoteAddr),
		)

		if requestID := middleware.GetReqID(ctx); requestID != "" {
			requestLogger = requestLogger.With(slog.String(logx.FieldRequestID, requestID))
		}

		ctx = contextx.WithLogger(ctx, requestLogger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		requestLogger.DebugContext(ctx, logx.FieldHTTPResponse,
			slog.Int(logx.FieldStatusCode, ww.Status()),
			slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()),
		)
	})
}
