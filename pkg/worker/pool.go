package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DecisionNerd/collie/metric"
)

// ErrNilProcessor rejects pool construction without a processor function.
var ErrNilProcessor = errors.New("worker pool requires a processor function")

// Processor transforms one batch item into its output.
type Processor[In, Out any] func(ctx context.Context, item In) (Out, error)

// Pool runs fixed batches across a bounded number of goroutines. A Pool is
// safe for reuse across batches; each Run is self-contained.
type Pool[In, Out any] struct {
	workers int
	process Processor[In, Out]
	metrics *poolMetrics

	// Cumulative counters across runs.
	processed atomic.Int64
	failed    atomic.Int64
}

// Option configures a pool.
type Option[In, Out any] func(*poolConfig)

type poolConfig struct {
	registry *metric.MetricsRegistry
	prefix   string
}

// WithMetricsRegistry exposes batch counters and durations as Prometheus
// metrics under the given component prefix. A nil registry or empty prefix
// is ignored.
func WithMetricsRegistry[In, Out any](registry *metric.MetricsRegistry, prefix string) Option[In, Out] {
	return func(cfg *poolConfig) {
		if registry != nil && prefix != "" {
			cfg.registry = registry
			cfg.prefix = prefix
		}
	}
}

// NewPool creates a pool with the given concurrency. Worker counts below
// one are clamped to one. Returns an error for a nil processor or failed
// metrics registration.
func NewPool[In, Out any](workers int, process Processor[In, Out], opts ...Option[In, Out]) (*Pool[In, Out], error) {
	if process == nil {
		return nil, ErrNilProcessor
	}
	if workers < 1 {
		workers = 1
	}

	cfg := &poolConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	var metrics *poolMetrics
	if cfg.registry != nil {
		var err error
		metrics, err = newPoolMetrics(cfg.registry, cfg.prefix)
		if err != nil {
			return nil, err
		}
	}

	return &Pool[In, Out]{
		workers: workers,
		process: process,
		metrics: metrics,
	}, nil
}

// Run processes every item and returns outputs and failures aligned by
// input index. Item failures land in the failures slice without stopping
// the batch; the returned error is non-nil only when the context is
// cancelled, in which case unprocessed slots hold zero values and nil.
func (p *Pool[In, Out]) Run(ctx context.Context, items []In) ([]Out, []error, error) {
	outputs := make([]Out, len(items))
	failures := make([]error, len(items))
	if len(items) == 0 {
		return outputs, failures, nil
	}

	start := time.Now()

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				// Each index is claimed by exactly one worker, so the
				// slot writes need no lock.
				outputs[i], failures[i] = p.process(ctx, items[i])
				p.processed.Add(1)
				if failures[i] != nil {
					p.failed.Add(1)
				}
				p.metrics.recordItem(failures[i])
			}
		}()
	}

feed:
	for i := range items {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()

	p.metrics.recordBatch(len(items), time.Since(start))

	if err := ctx.Err(); err != nil {
		return outputs, failures, err
	}
	return outputs, failures, nil
}

// Stats reports cumulative item counts across all runs.
type Stats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Stats returns cumulative pool statistics.
func (p *Pool[In, Out]) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}

type poolMetrics struct {
	itemsProcessed prometheus.Counter
	itemsFailed    prometheus.Counter
	batches        prometheus.Counter
	batchDuration  prometheus.Histogram
}

func newPoolMetrics(registry *metric.MetricsRegistry, prefix string) (*poolMetrics, error) {
	labels := prometheus.Labels{"component": prefix}
	m := &poolMetrics{
		itemsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collie", Subsystem: "worker", Name: "items_processed_total",
			ConstLabels: labels, Help: "Total batch items processed",
		}),
		itemsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collie", Subsystem: "worker", Name: "items_failed_total",
			ConstLabels: labels, Help: "Total batch items whose processor returned an error",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collie", Subsystem: "worker", Name: "batches_total",
			ConstLabels: labels, Help: "Total batches run",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "collie", Subsystem: "worker", Name: "batch_duration_seconds",
			ConstLabels: labels, Help: "Wall time per batch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	if err := registry.RegisterCounter(prefix, "items_processed_total", m.itemsProcessed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "items_failed_total", m.itemsFailed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "batches_total", m.batches); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(prefix, "batch_duration_seconds", m.batchDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *poolMetrics) recordItem(err error) {
	if m == nil {
		return
	}
	m.itemsProcessed.Inc()
	if err != nil {
		m.itemsFailed.Inc()
	}
}

func (m *poolMetrics) recordBatch(_ int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.batchDuration.Observe(elapsed.Seconds())
}
