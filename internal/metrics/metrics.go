package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests handled by the admin API",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	LateRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "late_request_duration_seconds",
		Help:    "Latency of calls to the external scheduler",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	CaptionGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caption_generation_duration_seconds",
		Help:    "Latency of LLM caption generation",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "operation"})

	AutoApprovalsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "away_mode_auto_approvals_total",
		Help: "Posts auto-approved by the away-day reconciler",
	})

	NotificationsEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_enqueued_total",
		Help: "Operator notifications pushed to the mail queue",
	}, []string{"event", "status"})
)

func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LateRequestDuration,
		CaptionGenerationDuration,
		AutoApprovalsTotal,
		NotificationsEnqueued,
	)
}

// StartServer runs the /metrics endpoint on its own listener so the
// admin API surface stays clean.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
}
