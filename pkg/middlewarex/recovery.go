package middlewarex

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"transfer_scanner/pkg/errcodes"
	"transfer_scanner/pkg/logx"
)

// Recovery turns a handler panic into a logged 500 with the stack.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				http.Error(w, string(errcodes.InternalServerError), http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
