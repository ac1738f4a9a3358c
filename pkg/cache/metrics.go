package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/metric"
)

// cacheMetrics mirrors the statistics counters into Prometheus. All record
// methods are nil-safe so callers never branch on whether metrics are on.
type cacheMetrics struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	sets      prometheus.Counter
	deletes   prometheus.Counter
	evictions prometheus.Counter
	size      prometheus.Gauge
}

func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "collie",
			Subsystem:   "cache",
			Name:        name,
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        help,
		})
	}

	m := &cacheMetrics{
		hits:      counter("hits_total", "Total number of cache hits"),
		misses:    counter("misses_total", "Total number of cache misses"),
		sets:      counter("sets_total", "Total number of cache set operations"),
		deletes:   counter("deletes_total", "Total number of cache delete operations"),
		evictions: counter("evictions_total", "Total number of cache evictions"),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "collie",
			Subsystem:   "cache",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of cache entries",
		}),
	}

	registrations := []struct {
		name      string
		collector prometheus.Counter
	}{
		{"hits_total", m.hits},
		{"misses_total", m.misses},
		{"sets_total", m.sets},
		{"deletes_total", m.deletes},
		{"evictions_total", m.evictions},
	}
	for _, reg := range registrations {
		if err := registry.RegisterCounter(prefix, reg.name, reg.collector); err != nil {
			return nil, errors.Wrap(err, "cache", "newCacheMetrics", "counter registration")
		}
	}
	if err := registry.RegisterGauge(prefix, "size", m.size); err != nil {
		return nil, errors.Wrap(err, "cache", "newCacheMetrics", "gauge registration")
	}

	return m, nil
}

func (m *cacheMetrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *cacheMetrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *cacheMetrics) recordSet() {
	if m != nil {
		m.sets.Inc()
	}
}

func (m *cacheMetrics) recordDelete() {
	if m != nil {
		m.deletes.Inc()
	}
}

func (m *cacheMetrics) recordEviction() {
	if m != nil {
		m.evictions.Inc()
	}
}

func (m *cacheMetrics) recordSize(n int) {
	if m != nil {
		m.size.Set(float64(n))
	}
}
