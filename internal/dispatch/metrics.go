package dispatch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/1broseidon/tilewm/internal/transition"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the dispatcher's Prometheus metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Transitions *prometheus.CounterVec
	Skipped     *prometheus.CounterVec
	Rejected    prometheus.Counter
	Failures    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with a new registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_transitions_total",
				Help: "Transitions handed to the tiling engine, by kind",
			},
			[]string{"kind"},
		),
		Skipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_skipped_total",
				Help: "Actions that did not emit their transition, by reason",
			},
			[]string{"op", "reason"},
		),
		Rejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tilewm_dispatch_rejected_total",
				Help: "Actions dropped by the repeat rate limiter",
			},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tilewm_execution_failures_total",
				Help: "Transitions or engine actions that reported an error",
			},
			[]string{"action"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tilewm_dispatch_duration_seconds",
				Help:    "Time from accepting an action to finishing it",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
			},
			[]string{"action"},
		),
	}
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterRuntime adds the Go runtime and process collectors.
func (m *Metrics) RegisterRuntime() {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// observe records a coordinator outcome.
func (m *Metrics) observe(out transition.Outcome) {
	if m == nil {
		return
	}
	if out.Transition != nil {
		m.Transitions.WithLabelValues(out.Transition.Kind.String()).Inc()
	}
	if out.Skip != transition.SkipNone {
		m.Skipped.WithLabelValues(string(out.Op), string(out.Skip)).Inc()
	}
}

func (m *Metrics) reject() {
	if m != nil {
		m.Rejected.Inc()
	}
}

func (m *Metrics) fail(action string) {
	if m != nil {
		m.Failures.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) since(action string, start time.Time) {
	if m != nil {
		m.Duration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
