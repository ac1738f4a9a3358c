package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/metric"
	"github.com/DecisionNerd/collie/ontology"
	"github.com/DecisionNerd/collie/validate"
)

func artifactBatch() []*entity.Entity {
	return []*entity.Entity{
		entity.New("mona-lisa", "E22",
			entity.WithLabel("Mona Lisa"),
			entity.WithShortcut("produced_by", "event-1")),
		entity.New("event-1", "E12",
			entity.WithLabel("Production of Mona Lisa")),
	}
}

func TestCompileArtifactProduction(t *testing.T) {
	c := New(ontology.Default())
	result, err := c.Compile(context.Background(), artifactBatch())
	require.NoError(t, err)

	t.Run("validates cleanly", func(t *testing.T) {
		assert.False(t, validate.HasErrors(result.Findings))
		assert.Empty(t, result.Skipped)
	})

	t.Run("graph carries both nodes and the production edge", func(t *testing.T) {
		assert.Equal(t, 2, result.Graph.NodeCount())
		require.Equal(t, 1, result.Graph.EdgeCount())
		edge := result.Graph.Edges()[0]
		assert.Equal(t, "P108", edge.Relation)
		assert.Equal(t, entity.DeriveID("mona-lisa"), edge.Source)
		assert.Equal(t, entity.DeriveID("event-1"), edge.Target)
	})

	t.Run("script upserts exactly one production relationship", func(t *testing.T) {
		assert.Contains(t, result.Script, "MERGE (s)-[rel:`P108_WAS_PRODUCED_BY`]->(t)")
		records, ok := result.Parameters["rels_P108_WAS_PRODUCED_BY_0"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, records, 1)
		assert.Equal(t, entity.DeriveID("mona-lisa").String(), records[0]["src"])
		assert.Equal(t, entity.DeriveID("event-1").String(), records[0]["tgt"])
	})
}

func TestCompileSkipsFailingEntities(t *testing.T) {
	batch := append(artifactBatch(),
		entity.New("ghost", "E999"),
		entity.New("odd", "E22", entity.WithShortcut("no_such_field", "x")),
	)

	c := New(ontology.Default())
	result, err := c.Compile(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 2)
	assert.Equal(t, entity.DeriveID("ghost"), result.Skipped[0].ID)
	assert.ErrorIs(t, result.Skipped[0].Reason, errors.ErrUnknownClass)
	assert.ErrorIs(t, result.Skipped[1].Reason, errors.ErrUnknownShortcut)

	// The healthy entities still compile.
	assert.Equal(t, 2, result.Graph.NodeCount())
	assert.Len(t, result.Triples, 1)
}

func TestCompileRaiseAbortsWithFullFindings(t *testing.T) {
	// Two production events for a zero-or-one relation, plus one absent
	// endpoint to prove info findings survive the abort.
	batch := []*entity.Entity{
		entity.New("vase", "E22",
			entity.WithShortcut("produced_by", "firing-1", "firing-2"),
			entity.WithShortcut("current_location", "elsewhere")),
		entity.New("firing-1", "E12"),
		entity.New("firing-2", "E12"),
	}

	c := New(ontology.Default(), WithSeverity(validate.SeverityRaise))
	result, err := c.Compile(context.Background(), batch)

	require.ErrorIs(t, err, errors.ErrConstraintViolated)
	assert.True(t, errors.IsValidation(err))

	require.NotNil(t, result)
	assert.True(t, validate.HasErrors(result.Findings))
	assert.GreaterOrEqual(t, len(result.Findings), 2)
	assert.Nil(t, result.Graph)
	assert.Empty(t, result.Script)
}

func TestCompileWarnReportsButProceeds(t *testing.T) {
	batch := []*entity.Entity{
		entity.New("vase", "E22",
			entity.WithShortcut("produced_by", "firing-1", "firing-2")),
		entity.New("firing-1", "E12"),
		entity.New("firing-2", "E12"),
	}

	c := New(ontology.Default(), WithSeverity(validate.SeverityWarn))
	result, err := c.Compile(context.Background(), batch)
	require.NoError(t, err)

	// Findings are reported and both relationship records still emit.
	assert.True(t, validate.HasErrors(result.Findings))
	records := result.Parameters["rels_P108_WAS_PRODUCED_BY_0"].([]map[string]any)
	assert.Len(t, records, 2)
}

func TestCompileIgnoreSeverity(t *testing.T) {
	c := New(ontology.Default(), WithSeverity(validate.SeverityIgnore))
	result, err := c.Compile(context.Background(), artifactBatch())
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
	assert.NotNil(t, result.Graph)
}

func TestCompileExtraTriples(t *testing.T) {
	extra := entity.Triple{
		Source:   entity.DeriveID("event-1"),
		Relation: "P14",
		Target:   entity.DeriveID("leonardo"),
	}

	c := New(ontology.Default())
	result, err := c.Compile(context.Background(), artifactBatch(), extra)
	require.NoError(t, err)

	assert.Len(t, result.Triples, 2)
	assert.Contains(t, result.Parameters, "rels_P14_CARRIED_OUT_BY_0")
}

func TestCompileParallelMatchesSequential(t *testing.T) {
	var batch []*entity.Entity
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		batch = append(batch, entity.New(name, "E22",
			entity.WithShortcut("current_location", "place-"+name)))
	}

	sequential, err := New(ontology.Default()).Compile(context.Background(), batch)
	require.NoError(t, err)
	parallel, err := New(ontology.Default(), WithWorkers(4)).Compile(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, sequential.Script, parallel.Script)
	assert.Equal(t, sequential.Triples, parallel.Triples)
}

func TestCompileCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ontology.Default()).Compile(ctx, artifactBatch())
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompileRecordsMetrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	c := New(ontology.Default(), WithMetrics(registry))

	_, err := c.Compile(context.Background(), artifactBatch())
	require.NoError(t, err)

	snapshot, err := registry.TextSnapshot()
	require.NoError(t, err)
	assert.Contains(t, snapshot, `collie_compiler_passes_total{status="ok"} 1`)
	assert.Contains(t, snapshot, `collie_compiler_entities_total{status="processed"} 2`)
}

func TestConcurrentPasses(t *testing.T) {
	c := New(ontology.Default())
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := c.Compile(context.Background(), artifactBatch())
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
