package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	SearchResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundermatch_search_resolutions_total",
			Help: "Search queries resolved, by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foundermatch_search_duration_seconds",
			Help:    "Duration of generative backend round trips in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	SessionDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundermatch_session_decisions_total",
			Help: "Decisions committed in decision sessions, by outcome",
		},
		[]string{"outcome"},
	)

	CandidatePoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundermatch_candidate_pool_size",
			Help:    "Size of the eligible candidate pool per session load",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"role"},
	)
)

// Serve exposes the default registry on addr until the process exits.
func Serve(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("serving metrics", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}
