package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/errors"
	"github.com/DecisionNerd/collie/expand"
	"github.com/DecisionNerd/collie/ontology"
)

// batch builds entities plus their expanded triples, failing the test on any
// expansion fault.
func batch(t *testing.T, reg *ontology.Registry, entities ...*entity.Entity) ([]entity.Triple, []*entity.Entity) {
	t.Helper()
	triples, err := expand.All(entities, reg)
	require.NoError(t, err)
	return triples, entities
}

func errorFindings(findings []Finding) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Level == LevelError {
			out = append(out, f)
		}
	}
	return out
}

func TestParseSeverity(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  Severity
	}{
		{"ignore", SeverityIgnore},
		{"warn", SeverityWarn},
		{"raise", SeverityRaise},
	} {
		got, err := ParseSeverity(tc.input)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := ParseSeverity("panic")
	require.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestValidateCleanBatch(t *testing.T) {
	reg := ontology.Default()
	triples, entities := batch(t, reg,
		entity.New("mona-lisa", "E22",
			entity.WithShortcut("produced_by", "production-of-mona-lisa"),
			entity.WithShortcut("current_location", "the-louvre")),
		entity.New("production-of-mona-lisa", "E12"),
		entity.New("the-louvre", "E53"),
	)

	findings := Validate(triples, entities, reg, SeverityWarn)
	assert.Empty(t, errorFindings(findings))
	assert.False(t, HasErrors(findings))
}

func TestValidateIgnoreCollectsNothing(t *testing.T) {
	reg := ontology.Default()
	// Two production events for a zero-or-one relation would normally be an
	// error.
	triples, entities := batch(t, reg,
		entity.New("vase", "E22",
			entity.WithShortcut("produced_by", "firing-1", "firing-2")),
	)

	assert.Nil(t, Validate(triples, entities, reg, SeverityIgnore))
}

func TestCardinalityUpperBound(t *testing.T) {
	reg := ontology.Default()

	t.Run("zero-or-one with one triple is clean", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("vase", "E22", entity.WithShortcut("produced_by", "firing-1")))
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})

	t.Run("zero-or-one with zero triples is clean", func(t *testing.T) {
		triples, entities := batch(t, reg, entity.New("vase", "E22"))
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})

	t.Run("zero-or-one with two targets yields one error", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("vase", "E22",
				entity.WithShortcut("produced_by", "firing-1", "firing-2")))
		findings := Validate(triples, entities, reg, SeverityRaise)

		errs := errorFindings(findings)
		require.Len(t, errs, 1)
		assert.Equal(t, entity.DeriveID("vase"), errs[0].EntityID)
		assert.Equal(t, "P108", errs[0].Relation)
		assert.Contains(t, errs[0].Message, "at most 1")
	})

	t.Run("zero-or-many is unconstrained", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("battle", "E5",
				entity.WithShortcut("took_place_at", "a", "b", "c")))
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})
}

func TestCardinalityLowerBound(t *testing.T) {
	// The core tables have no exactly-one relation, so declare one.
	reg, err := ontology.Load(
		[]ontology.Class{
			{Code: "E1", Label: "CRM Entity"},
			{Code: "E77", Label: "Persistent Item", Parents: []string{"E1"},
				Shortcuts: []ontology.Shortcut{{Field: "essence", Relation: "P200"}}},
		},
		[]ontology.Relation{
			{Code: "P200", Label: "has essence", Domain: "E77", Range: "E1",
				Inverse: "P200i", Quantifier: "1..1"},
			{Code: "P200i", Label: "is essence of", Domain: "E1", Range: "E77",
				Inverse: "P200", Quantifier: "0..*"},
		},
	)
	require.NoError(t, err)

	t.Run("one triple satisfies exactly-one", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("item", "E77", entity.WithShortcut("essence", "soul")))
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})

	t.Run("zero triples breaches the minimum", func(t *testing.T) {
		triples, entities := batch(t, reg, entity.New("item", "E77"))
		findings := Validate(triples, entities, reg, SeverityWarn)

		errs := errorFindings(findings)
		require.Len(t, errs, 1)
		assert.Equal(t, "P200", errs[0].Relation)
		assert.Contains(t, errs[0].Message, "at least 1")
	})

	t.Run("two triples breach the maximum", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("item", "E77", entity.WithShortcut("essence", "a", "b")))
		findings := Validate(triples, entities, reg, SeverityWarn)

		errs := errorFindings(findings)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "at most 1")
	})
}

func TestTypingPass(t *testing.T) {
	reg := ontology.Default()

	t.Run("subclass satisfies domain and range", func(t *testing.T) {
		// P108 has domain E22 and range E12; exact classes here.
		triples, entities := batch(t, reg,
			entity.New("vase", "E22", entity.WithShortcut("produced_by", "firing")),
			entity.New("firing", "E12"),
		)
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})

	t.Run("wrong range class is an error", func(t *testing.T) {
		// A place cannot be the production event of an artifact.
		triples, entities := batch(t, reg,
			entity.New("vase", "E22", entity.WithShortcut("produced_by", "the-louvre")),
			entity.New("the-louvre", "E53"),
		)
		findings := Validate(triples, entities, reg, SeverityWarn)

		errs := errorFindings(findings)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "range of P108")
	})

	t.Run("absent endpoint downgrades to info", func(t *testing.T) {
		triples, entities := batch(t, reg,
			entity.New("vase", "E22", entity.WithShortcut("produced_by", "elsewhere")),
		)
		findings := Validate(triples, entities, reg, SeverityWarn)

		assert.Empty(t, errorFindings(findings))
		require.Len(t, findings, 1)
		assert.Equal(t, LevelInfo, findings[0].Level)
		assert.Contains(t, findings[0].Message, "not in batch")
	})

	t.Run("person participates via supertype E39", func(t *testing.T) {
		// P11 ranges over E39 Actor; E21 Person must qualify through its
		// actor ancestry.
		triples, entities := batch(t, reg,
			entity.New("coronation", "E5",
				entity.WithReference("P11", "napoleon", nil)),
			entity.New("napoleon", "E21"),
		)
		findings := Validate(triples, entities, reg, SeverityWarn)
		assert.Empty(t, errorFindings(findings))
	})
}

func TestUnknownRelationInTriples(t *testing.T) {
	reg := ontology.Default()
	entities := []*entity.Entity{entity.New("a", "E22"), entity.New("b", "E53")}
	triples := []entity.Triple{
		{Source: entity.DeriveID("a"), Relation: "P9999", Target: entity.DeriveID("b")},
	}

	findings := Validate(triples, entities, reg, SeverityWarn)
	errs := errorFindings(findings)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "not declared")
}

func TestFirstError(t *testing.T) {
	findings := []Finding{
		{Level: LevelInfo, Message: "skip"},
		{Level: LevelError, Message: "first"},
		{Level: LevelError, Message: "second"},
	}
	first := FirstError(findings)
	require.NotNil(t, first)
	assert.Equal(t, "first", first.Message)
	assert.Nil(t, FirstError(findings[:1]))
}
