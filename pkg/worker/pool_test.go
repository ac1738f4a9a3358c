package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/metric"
)

// expandLike mimics the expansion stage: derive a deterministic output from
// each record, failing records whose class is unknown.
func expandLike(_ context.Context, record string) ([]string, error) {
	if strings.HasPrefix(record, "E999") {
		return nil, errors.New("unknown class code E999")
	}
	return []string{record + "/P108", record + "/P4"}, nil
}

func TestRun_ResultsAlignedByIndex(t *testing.T) {
	pool, err := NewPool(4, expandLike)
	require.NoError(t, err)

	records := make([]string, 50)
	for i := range records {
		records[i] = fmt.Sprintf("E22-%02d", i)
	}

	outputs, failures, err := pool.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, outputs, 50)

	for i, out := range outputs {
		assert.NoError(t, failures[i])
		require.Len(t, out, 2)
		assert.Equal(t, records[i]+"/P108", out[0], "slot %d must hold its own record's expansion", i)
	}
}

func TestRun_FailuresStayAtTheirIndex(t *testing.T) {
	pool, err := NewPool(3, expandLike)
	require.NoError(t, err)

	records := []string{"E22-a", "E999-bad", "E21-b", "E999-worse", "E53-c"}
	outputs, failures, err := pool.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Error(t, failures[1])
	assert.Error(t, failures[3])
	assert.Nil(t, outputs[1])
	for _, i := range []int{0, 2, 4} {
		assert.NoError(t, failures[i])
		assert.NotEmpty(t, outputs[i])
	}
}

func TestRun_SingleWorkerMatchesParallel(t *testing.T) {
	records := []string{"E22-a", "E999-x", "E21-b"}

	sequential, err := NewPool(1, expandLike)
	require.NoError(t, err)
	parallel, err := NewPool(8, expandLike)
	require.NoError(t, err)

	seqOut, seqFail, err := sequential.Run(context.Background(), records)
	require.NoError(t, err)
	parOut, parFail, err := parallel.Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, seqOut, parOut)
	for i := range seqFail {
		assert.Equal(t, seqFail[i] == nil, parFail[i] == nil)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	pool, err := NewPool(2, expandLike)
	require.NoError(t, err)

	outputs, failures, err := pool.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outputs)
	assert.Empty(t, failures)
}

func TestRun_ContextCancellation(t *testing.T) {
	var started atomic.Int64
	slow := func(ctx context.Context, record string) (string, error) {
		started.Add(1)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(50 * time.Millisecond):
			return record, nil
		}
	}

	pool, err := NewPool(1, slow)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	records := make([]string, 100)
	_, _, err = pool.Run(ctx, records)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, started.Load(), int64(100), "cancellation must stop the feed")
}

func TestNewPool_Validation(t *testing.T) {
	_, err := NewPool[string, string](4, nil)
	assert.ErrorIs(t, err, ErrNilProcessor)

	pool, err := NewPool(0, expandLike)
	require.NoError(t, err)
	assert.Equal(t, 1, pool.Stats().Workers, "worker count clamps to one")
}

func TestStats_CumulativeAcrossRuns(t *testing.T) {
	pool, err := NewPool(2, expandLike)
	require.NoError(t, err)

	_, _, err = pool.Run(context.Background(), []string{"E22-a", "E999-x"})
	require.NoError(t, err)
	_, _, err = pool.Run(context.Background(), []string{"E21-b"})
	require.NoError(t, err)

	stats := pool.Stats()
	assert.Equal(t, int64(3), stats.Processed)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestRun_PrometheusMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	pool, err := NewPool(2, expandLike,
		WithMetricsRegistry[string, []string](registry, "expansion"))
	require.NoError(t, err)

	_, _, err = pool.Run(context.Background(), []string{"E22-a", "E999-x", "E21-b"})
	require.NoError(t, err)

	snapshot, err := registry.TextSnapshot()
	require.NoError(t, err)
	assert.Contains(t, snapshot, `collie_worker_items_processed_total{component="expansion"} 3`)
	assert.Contains(t, snapshot, `collie_worker_items_failed_total{component="expansion"} 1`)
	assert.Contains(t, snapshot, `collie_worker_batches_total{component="expansion"} 1`)
}

func TestNewPool_DuplicateMetricsRegistration(t *testing.T) {
	registry := metric.NewMetricsRegistry()

	_, err := NewPool(2, expandLike,
		WithMetricsRegistry[string, []string](registry, "expansion"))
	require.NoError(t, err)

	_, err = NewPool(2, expandLike,
		WithMetricsRegistry[string, []string](registry, "expansion"))
	assert.Error(t, err, "same component prefix registers the same metric names")
}
