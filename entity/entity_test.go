package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/errors"
)

func TestDeriveID(t *testing.T) {
	t.Run("deterministic across calls", func(t *testing.T) {
		first := DeriveID("mona-lisa")
		second := DeriveID("mona-lisa")
		assert.Equal(t, first, second)
	})

	t.Run("distinct keys produce distinct identifiers", func(t *testing.T) {
		assert.NotEqual(t, DeriveID("mona-lisa"), DeriveID("the-louvre"))
	})

	t.Run("uuid strings pass through unchanged", func(t *testing.T) {
		id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")
		assert.Equal(t, id, DeriveID(id.String()))
	})

	t.Run("stable version and variant bits", func(t *testing.T) {
		id := DeriveID("anything")
		assert.Equal(t, uuid.Version(5), id.Version())
		assert.Equal(t, uuid.RFC4122, id.Variant())
	})
}

func TestNew(t *testing.T) {
	e := New("mona-lisa", "E22",
		WithLabel("Mona Lisa"),
		WithNotes("oil on poplar panel"),
		WithTypeTags("painting", "portrait", "painting"),
		WithShortcut("produced_by", "production-of-mona-lisa"),
		WithReference("P62", "lisa-del-giocondo", map[string]any{"role": "sitter"}),
	)

	assert.Equal(t, DeriveID("mona-lisa"), e.ID)
	assert.Equal(t, "E22", e.ClassCode)
	assert.Equal(t, "Mona Lisa", e.Label)
	assert.Equal(t, "oil on poplar panel", e.Notes)
	assert.Equal(t, []string{"painting", "portrait"}, e.TypeTags())

	require.Len(t, e.Shortcut("produced_by"), 1)
	assert.Equal(t, DeriveID("production-of-mona-lisa"), e.Shortcut("produced_by")[0])

	require.Len(t, e.References, 1)
	assert.Equal(t, "P62", e.References[0].Relation)
	assert.Equal(t, DeriveID("lisa-del-giocondo"), e.References[0].Target)
	assert.Equal(t, "sitter", e.References[0].Props["role"])
}

func TestTypeTagsSorted(t *testing.T) {
	e := New("x", "E1")
	e.AddTypeTag("zeta")
	e.AddTypeTag("alpha")
	e.AddTypeTag("mu")
	assert.Equal(t, []string{"alpha", "mu", "zeta"}, e.TypeTags())
	assert.True(t, e.HasTypeTag("mu"))
	assert.False(t, e.HasTypeTag("omega"))
}

func TestRecordToEntity(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		rec := Record{
			ID:        "mona-lisa",
			ClassCode: "E22",
			Label:     "Mona Lisa",
			Types:     []string{"painting"},
			Shortcuts: map[string][]string{
				"produced_by":      {"production-of-mona-lisa"},
				"current_location": {"the-louvre"},
			},
			Relations: []RelationRecord{
				{Relation: "P62", Target: "lisa-del-giocondo"},
			},
		}
		e, err := rec.ToEntity()
		require.NoError(t, err)
		assert.Equal(t, DeriveID("mona-lisa"), e.ID)
		assert.Equal(t, DeriveID("the-louvre"), e.Shortcut("current_location")[0])
		require.Len(t, e.References, 1)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := Record{ClassCode: "E22"}.ToEntity()
		require.ErrorIs(t, err, errors.ErrMissingID)
	})

	t.Run("missing class code", func(t *testing.T) {
		_, err := Record{ID: "mona-lisa"}.ToEntity()
		require.ErrorIs(t, err, errors.ErrMissingClassCode)
	})
}

func TestDecodeRecords(t *testing.T) {
	t.Run("batch decodes in order", func(t *testing.T) {
		data := []byte(`[
			{"id": "mona-lisa", "class_code": "E22", "label": "Mona Lisa"},
			{"id": "the-louvre", "class_code": "E53"}
		]`)
		entities, err := DecodeRecords(data)
		require.NoError(t, err)
		require.Len(t, entities, 2)
		assert.Equal(t, "E22", entities[0].ClassCode)
		assert.Equal(t, "E53", entities[1].ClassCode)
	})

	t.Run("bad record aborts the batch", func(t *testing.T) {
		data := []byte(`[{"id": "ok", "class_code": "E22"}, {"id": "bad"}]`)
		_, err := DecodeRecords(data)
		require.ErrorIs(t, err, errors.ErrMissingClassCode)
		assert.Contains(t, err.Error(), "record 1")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodeRecords([]byte(`{not json`))
		require.Error(t, err)
		assert.True(t, errors.IsSpec(err))
	})
}

// Identifiers derived from the same key in unrelated batches must agree, so
// cross-batch references resolve without coordination.
func TestCrossBatchIdentity(t *testing.T) {
	batchA, err := DecodeRecords([]byte(`[{"id": "the-louvre", "class_code": "E53"}]`))
	require.NoError(t, err)
	batchB, err := DecodeRecords([]byte(`[
		{"id": "mona-lisa", "class_code": "E22",
		 "shortcuts": {"current_location": ["the-louvre"]}}
	]`))
	require.NoError(t, err)

	assert.Equal(t, batchA[0].ID, batchB[0].Shortcut("current_location")[0])
}

func TestTripleKey(t *testing.T) {
	a := Triple{Source: DeriveID("a"), Relation: "P108", Target: DeriveID("b")}
	b := Triple{Source: DeriveID("a"), Relation: "P108", Target: DeriveID("b"),
		Props: map[string]any{"note": "dup"}}
	c := Triple{Source: DeriveID("a"), Relation: "P53", Target: DeriveID("b")}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
