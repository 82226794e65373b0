// Package probe serves the operational endpoints of the scanner: liveness,
// readiness derived from the last scan run, and prometheus metrics.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"transfer_scanner/pkg/contextx"
	"transfer_scanner/pkg/logx"
	"transfer_scanner/pkg/middlewarex"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// ReadyFunc reports readiness and a JSON-serializable detail for the response body.
type ReadyFunc func() (bool, any)

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	// Ready nil means always ready.
	Ready ReadyFunc `json:"-"`
	// Gatherer defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer `json:"-"`
}

type Server struct {
	listenAddress string
	options       Options
	info          []byte
}

func NewServer(listenAddress string, options Options) Server {
	info, _ := json.Marshal(options) //nolint:errcheck,errchkjson

	if options.Gatherer == nil {
		options.Gatherer = prometheus.DefaultGatherer
	}

	return Server{
		listenAddress: listenAddress,
		options:       options,
		info:          info,
	}
}

func (s Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID, middlewarex.Logger, middlewarex.Recovery)

	router.Get("/healthz", s.handlerHealthz)
	router.Get("/ready", s.handlerReady)
	router.Handle("/metrics", promhttp.HandlerFor(s.options.Gatherer, promhttp.HandlerOpts{}))

	return router
}

func (s Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("ops server started", slog.String(logx.FieldURL, s.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("ops server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.info) //nolint:errcheck
}

func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	ready, detail := true, any(nil)
	if s.options.Ready != nil {
		ready, detail = s.options.Ready()
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	body, err := json.Marshal(struct {
		Ready  bool `json:"ready"`
		Detail any  `json:"detail,omitempty"`
	}{Ready: ready, Detail: detail})
	if err != nil {
		logger(r.Context()).Error("json.Marshal", logx.Error(err))
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
