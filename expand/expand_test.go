package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/ontology"
)

func testRegistry(t *testing.T) *ontology.Registry {
	t.Helper()
	return ontology.Default()
}

func TestEntity(t *testing.T) {
	reg := testRegistry(t)

	t.Run("shortcuts expand in canonical order", func(t *testing.T) {
		e := entity.New("mona-lisa", "E22",
			entity.WithShortcut("produced_by", "production-of-mona-lisa"),
			entity.WithShortcut("current_location", "the-louvre"),
		)
		triples, err := Entity(e, reg)
		require.NoError(t, err)
		require.Len(t, triples, 2)

		// E22 declares current_location (inherited from E18) before its own
		// produced_by, regardless of option order above.
		assert.Equal(t, "P53", triples[0].Relation)
		assert.Equal(t, entity.DeriveID("the-louvre"), triples[0].Target)
		assert.Equal(t, "P108", triples[1].Relation)
		assert.Equal(t, entity.DeriveID("production-of-mona-lisa"), triples[1].Target)
	})

	t.Run("explicit references follow shortcuts", func(t *testing.T) {
		e := entity.New("production-of-mona-lisa", "E12",
			entity.WithShortcut("timespan", "renaissance-years"),
			entity.WithReference("P14", "leonardo", map[string]any{"role": "painter"}),
			entity.WithReference("P14", "workshop-assistant", nil),
		)
		triples, err := Entity(e, reg)
		require.NoError(t, err)
		require.Len(t, triples, 3)
		assert.Equal(t, "P4", triples[0].Relation)
		assert.Equal(t, "P14", triples[1].Relation)
		assert.Equal(t, "painter", triples[1].Props["role"])
		assert.Equal(t, entity.DeriveID("workshop-assistant"), triples[2].Target)
	})

	t.Run("multi-valued shortcut emits one triple per target", func(t *testing.T) {
		e := entity.New("battle", "E5",
			entity.WithShortcut("took_place_at", "field-north", "field-south"),
		)
		triples, err := Entity(e, reg)
		require.NoError(t, err)
		require.Len(t, triples, 2)
		assert.Equal(t, entity.DeriveID("field-north"), triples[0].Target)
		assert.Equal(t, entity.DeriveID("field-south"), triples[1].Target)
	})

	t.Run("unknown class", func(t *testing.T) {
		e := entity.New("x", "E999")
		_, err := Entity(e, reg)
		require.ErrorIs(t, err, errors.ErrUnknownClass)
	})

	t.Run("undeclared shortcut field collected, rest still expand", func(t *testing.T) {
		e := entity.New("mona-lisa", "E22",
			entity.WithShortcut("current_location", "the-louvre"),
			entity.WithShortcut("painted_over", "older-sketch"),
		)
		triples, err := Entity(e, reg)
		require.ErrorIs(t, err, errors.ErrUnknownShortcut)
		require.Len(t, triples, 1)
		assert.Equal(t, "P53", triples[0].Relation)
	})

	t.Run("unknown relation code collected", func(t *testing.T) {
		e := entity.New("event", "E5",
			entity.WithReference("P9999", "somewhere", nil),
			entity.WithReference("P7", "field-north", nil),
		)
		triples, err := Entity(e, reg)
		require.ErrorIs(t, err, errors.ErrUnknownRelation)
		require.Len(t, triples, 1)
		assert.Equal(t, "P7", triples[0].Relation)
	})

	t.Run("entity with no relationships expands to nothing", func(t *testing.T) {
		triples, err := Entity(entity.New("lonely", "E22"), reg)
		require.NoError(t, err)
		assert.Empty(t, triples)
	})
}

func TestAll(t *testing.T) {
	reg := testRegistry(t)

	entities := []*entity.Entity{
		entity.New("mona-lisa", "E22",
			entity.WithShortcut("produced_by", "production-of-mona-lisa")),
		entity.New("production-of-mona-lisa", "E12",
			entity.WithShortcut("timespan", "renaissance-years")),
		entity.New("renaissance-years", "E52",
			entity.WithShortcut("begin_of_the_begin", "year-1503"),
			entity.WithShortcut("end_of_the_end", "year-1506")),
	}

	t.Run("sequential preserves input order", func(t *testing.T) {
		triples, err := All(entities, reg)
		require.NoError(t, err)
		require.Len(t, triples, 4)
		assert.Equal(t, "P108", triples[0].Relation)
		assert.Equal(t, "P4", triples[1].Relation)
		assert.Equal(t, "P79", triples[2].Relation)
		assert.Equal(t, "P80", triples[3].Relation)
	})

	t.Run("parallel output matches sequential", func(t *testing.T) {
		sequential, err := All(entities, reg)
		require.NoError(t, err)
		parallel, err := All(entities, reg, WithWorkers(4))
		require.NoError(t, err)
		assert.Equal(t, sequential, parallel)
	})

	t.Run("failures collected across batch", func(t *testing.T) {
		bad := append([]*entity.Entity{entity.New("ghost", "E999")}, entities...)
		triples, err := All(bad, reg)
		require.ErrorIs(t, err, errors.ErrUnknownClass)
		// Every healthy entity still contributed its triples.
		assert.Len(t, triples, 4)
	})

	t.Run("empty batch", func(t *testing.T) {
		triples, err := All(nil, reg)
		require.NoError(t, err)
		assert.Empty(t, triples)
	})
}
