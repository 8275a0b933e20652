package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "stock_etl"

// Recorder implements domain.repository.Metrics using Prometheus.
// Collectors live on a private registry so one job run pushes only its own series.
type Recorder struct {
	registry    *prometheus.Registry
	rowsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastClose   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		rowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Rows produced by each pipeline stage",
			},
			[]string{"stage"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors by kind",
			},
			[]string{"kind"},
		),
		lastClose: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_close_price",
				Help:      "Most recent close price loaded for a ticker",
			},
			[]string{"ticker"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of pipeline operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// RecordRows adds n rows to a stage counter.
func (r *Recorder) RecordRows(stage string, n int) {
	r.rowsTotal.WithLabelValues(stage).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastClose records the last close for a ticker.
func (r *Recorder) RecordLastClose(ticker string, price float64) {
	r.lastClose.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Push sends every collected series to a Pushgateway, grouped by job and instance.
func (r *Recorder) Push(ctx context.Context, url, job, instance string) error {
	p := push.New(url, job).Gatherer(r.registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
