package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc reports readiness of the service.
type HealthFunc func(ctx context.Context) error

const healthTimeout = 500 * time.Millisecond

// CheckFunc reports readiness of the service without support of
// cancellation, e.g. a synchronous RPC request.
type CheckFunc func() error

// WithContext turns the check into HealthFunc which returns as soon as ctx
// is done. The check keeps running in background until it returns.
func WithContext(check CheckFunc) HealthFunc {
	return func(ctx context.Context) error {
		res := make(chan error, 1)
		go func() { res <- check() }()

		select {
		case err := <-res:
			return err
		case <-ctx.Done():
			return fmt.Errorf("health check: %w", ctx.Err())
		}
	}
}

// NewHandler returns HTTP handler serving /metrics from the gatherer and
// /healthz using healthFn. Nil healthFn always reports healthy service.
func NewHandler(g prometheus.Gatherer, healthFn HealthFunc) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if healthFn != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()

			if err := healthFn(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// StartServer starts lightweight HTTP server with /metrics and /healthz
// endpoints in a separate goroutine. Errors of the listener are sent to
// errCh if it is not nil.
func StartServer(addr string, g prometheus.Gatherer, healthFn HealthFunc, errCh chan<- error) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(g, healthFn),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed && errCh != nil {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	return srv
}
