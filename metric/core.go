package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core compilation metrics. Domain-specific metrics
// registered by individual components live alongside these in the same
// registry via the MetricsRegistrar interface.
type Metrics struct {
	PassesTotal       *prometheus.CounterVec
	EntitiesProcessed *prometheus.CounterVec
	TriplesEmitted    prometheus.Counter
	FindingsTotal     *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	ScriptBatches     *prometheus.CounterVec
	ScriptBytes       prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

// NewMetrics creates the core metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		PassesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "compiler",
				Name:      "passes_total",
				Help:      "Total number of compilation passes by outcome",
			},
			[]string{"status"},
		),

		EntitiesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "compiler",
				Name:      "entities_total",
				Help:      "Total number of entities seen by outcome",
			},
			[]string{"status"},
		),

		TriplesEmitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "compiler",
				Name:      "triples_emitted_total",
				Help:      "Total number of relationship triples emitted by expansion",
			},
		),

		FindingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "validation",
				Name:      "findings_total",
				Help:      "Total number of validation findings by level",
			},
			[]string{"level"},
		),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "collie",
				Subsystem: "compiler",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each compilation stage in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		ScriptBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "script",
				Name:      "batches_total",
				Help:      "Total number of emitted upsert batches by kind",
			},
			[]string{"kind"},
		),

		ScriptBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "script",
				Name:      "bytes_total",
				Help:      "Total size of generated scripts in bytes",
			},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "collie",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by class",
			},
			[]string{"class"},
		),
	}
}

// RecordPass increments the pass counter with an outcome status.
func (m *Metrics) RecordPass(status string) {
	m.PassesTotal.WithLabelValues(status).Inc()
}

// RecordEntities adds to the entity counter for an outcome.
func (m *Metrics) RecordEntities(status string, count int) {
	m.EntitiesProcessed.WithLabelValues(status).Add(float64(count))
}

// RecordTriples adds to the emitted triple counter.
func (m *Metrics) RecordTriples(count int) {
	m.TriplesEmitted.Add(float64(count))
}

// RecordFinding increments the finding counter for a level.
func (m *Metrics) RecordFinding(level string) {
	m.FindingsTotal.WithLabelValues(level).Inc()
}

// RecordStageDuration records how long one compilation stage took.
func (m *Metrics) RecordStageDuration(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordScript records the emitted batch counts and script size.
func (m *Metrics) RecordScript(nodeBatches, relBatches, bytes int) {
	m.ScriptBatches.WithLabelValues("nodes").Add(float64(nodeBatches))
	m.ScriptBatches.WithLabelValues("relationships").Add(float64(relBatches))
	m.ScriptBytes.Add(float64(bytes))
}

// RecordError increments the error counter for a class.
func (m *Metrics) RecordError(class string) {
	m.ErrorsTotal.WithLabelValues(class).Inc()
}
