package cache

import (
	"time"

	"github.com/DecisionNerd/collie/metric"
)

// Option configures cache behavior.
type Option[V any] func(*cacheOptions[V])

type cacheOptions[V any] struct {
	ttl           time.Duration
	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
	evictCallback EvictCallback[V]
}

// WithTTL sets a time-to-live for every entry. Expired entries are dropped
// lazily on access; there is no background sweeper. Zero or negative
// intervals are ignored.
func WithTTL[V any](ttl time.Duration) Option[V] {
	return func(opts *cacheOptions[V]) {
		if ttl > 0 {
			opts.ttl = ttl
		}
	}
}

// WithMetrics exposes cache statistics as Prometheus metrics under the
// given component prefix. A nil registry or empty prefix is ignored.
func WithMetrics[V any](registry *metric.MetricsRegistry, prefix string) Option[V] {
	return func(opts *cacheOptions[V]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithEvictionCallback sets a callback invoked with each evicted entry.
func WithEvictionCallback[V any](callback EvictCallback[V]) Option[V] {
	return func(opts *cacheOptions[V]) {
		opts.evictCallback = callback
	}
}

func applyOptions[V any](options ...Option[V]) *cacheOptions[V] {
	opts := &cacheOptions[V]{}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
