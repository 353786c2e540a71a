package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for the insight and extraction pipelines.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	DecodeStrategy     *prometheus.CounterVec
	RowsDropped        *prometheus.CounterVec
	CompletionFailures *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DecodeStrategy: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docinsight_decode_strategy_total",
				Help: "Decoded LLM responses by pipeline and the strategy that succeeded",
			},
			[]string{"pipeline", "strategy"},
		),
		RowsDropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docinsight_chart_rows_dropped_total",
				Help: "Chart rows dropped during shaping",
			},
			[]string{"kind"},
		),
		CompletionFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docinsight_completion_failures_total",
				Help: "Failed completion calls",
			},
			[]string{"pipeline"},
		),
		CompletionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docinsight_completion_duration_seconds",
				Help:    "Duration of completion calls in seconds",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			},
			[]string{"pipeline"},
		),
	}
}

func (m *Metrics) ObserveDecode(pipeline, strategy string) {
	if m == nil {
		return
	}
	m.DecodeStrategy.WithLabelValues(pipeline, strategy).Inc()
}

func (m *Metrics) ObserveDropped(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RowsDropped.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) ObserveCompletion(pipeline string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.CompletionDuration.WithLabelValues(pipeline).Observe(time.Since(started).Seconds())
	if err != nil {
		m.CompletionFailures.WithLabelValues(pipeline).Inc()
	}
}
