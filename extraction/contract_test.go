package extraction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DecisionNerd/collie/entity"
)

func sampleResult() *Result {
	return &Result{
		Entities: []Entity{
			{Key: "marie-curie", ClassCode: "E21", Label: "Marie Curie",
				Description: "Physicist and chemist", Confidence: 0.95,
				SourceText: "Marie Curie was a physicist"},
			{Key: "nobel-1903", ClassCode: "E5", Label: "1903 Nobel Prize in Physics",
				Confidence: 0.9},
			{Key: "maybe-a-place", ClassCode: "E53", Label: "Unclear location",
				Confidence: 0.2},
		},
		Claims: []Claim{
			{SourceKey: "nobel-1903", TargetKey: "marie-curie", Relation: "P11",
				Confidence: 0.9, SourceText: "awarded the Nobel Prize"},
			{SourceKey: "nobel-1903", TargetKey: "maybe-a-place", Relation: "P7",
				Confidence: 0.3},
		},
	}
}

func TestToBatch(t *testing.T) {
	entities, triples := sampleResult().ToBatch(0.5)

	t.Run("low-confidence entities and claims are dropped", func(t *testing.T) {
		require.Len(t, entities, 2)
		require.Len(t, triples, 1)
	})

	t.Run("keys convert to deterministic identifiers", func(t *testing.T) {
		assert.Equal(t, entity.DeriveID("marie-curie"), entities[0].ID)
		assert.Equal(t, entity.DeriveID("nobel-1903"), triples[0].Source)
		assert.Equal(t, entity.DeriveID("marie-curie"), triples[0].Target)
	})

	t.Run("descriptions land in notes", func(t *testing.T) {
		assert.Equal(t, "Physicist and chemist", entities[0].Notes)
	})

	t.Run("claims carry confidence and snippet as edge properties", func(t *testing.T) {
		assert.Equal(t, 0.9, triples[0].Props["confidence"])
		assert.Equal(t, "awarded the Nobel Prize", triples[0].Props["source_text"])
	})

	t.Run("zero threshold keeps everything", func(t *testing.T) {
		all, allTriples := sampleResult().ToBatch(0)
		assert.Len(t, all, 3)
		assert.Len(t, allTriples, 2)
	})
}

func TestEntitiesByClass(t *testing.T) {
	result := sampleResult()
	people := result.EntitiesByClass("E21")
	require.Len(t, people, 1)
	assert.Equal(t, "Marie Curie", people[0].Label)
	assert.Empty(t, result.EntitiesByClass("E12"))
}

func TestResultDecodesServiceOutput(t *testing.T) {
	payload := []byte(`{
		"entities": [
			{"id": "leonardo", "class_code": "E21", "label": "Leonardo da Vinci",
			 "confidence": 0.97, "source_text": "Leonardo painted"}
		],
		"claims": [
			{"source": "production-of-mona-lisa", "target": "leonardo",
			 "relation": "P14", "confidence": 0.92}
		]
	}`)

	var result Result
	require.NoError(t, json.Unmarshal(payload, &result))
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "E21", result.Entities[0].ClassCode)
	require.Len(t, result.Claims, 1)
	assert.Equal(t, "P14", result.Claims[0].Relation)
}

func TestNewExtractorConfig(t *testing.T) {
	_, err := NewExtractor(Config{APIKey: "key"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")

	_, err = NewExtractor(Config{Model: "gpt-4o-mini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")

	ext, err := NewExtractor(Config{Model: "gpt-4o-mini", APIKey: "key"})
	require.NoError(t, err)
	assert.NotNil(t, ext)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("gpt-4o-mini", "Leonardo painted the Mona Lisa.")
	b := cacheKey("gpt-4o-mini", "Leonardo painted the Mona Lisa.")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, cacheKey("gpt-4o", "Leonardo painted the Mona Lisa."))
	assert.NotEqual(t, a, cacheKey("gpt-4o-mini", "Leonardo painted the Last Supper."))
}

func TestNewExtractorWithCache(t *testing.T) {
	ext, err := NewExtractor(Config{Model: "gpt-4o-mini", APIKey: "key", CacheSize: 8})
	require.NoError(t, err)
	require.NotNil(t, ext.cache)
	assert.Equal(t, 0, ext.cache.Size())
}
