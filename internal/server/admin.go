package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

const healthTimeout = 2 * time.Second

// NewAdminRouter serves /healthz and /metrics.
func NewAdminRouter(checks map[string]HealthCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		report := healthReport{Status: "ok", Checks: make(map[string]string, len(names))}
		code := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				report.Checks[name] = err.Error()
				report.Status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			report.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(report)
	}
}

// StartAdminServer serves handler on addr until ctx is done.
func StartAdminServer(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("stopping admin server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("admin shutdown", "err", err)
		}
	}()

	log.Info("admin server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin serve: %w", err)
	}
	return nil
}
